package main

import "github.com/frahmantamala/okr-dashboard/cmd"

func main() {
	cmd.Execute()
}

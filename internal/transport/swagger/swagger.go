package swagger

import (
	"net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"
)

// DocURL is where Swagger UI fetches the contract. An empty baseURL keeps it
// relative to the serving host.
func DocURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/openapi.yml"
}

// Handler serves Swagger UI pointed at the embedded contract.
func Handler(baseURL string) http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(DocURL(baseURL)),
		httpSwagger.DocExpansion("list"),
	)
}

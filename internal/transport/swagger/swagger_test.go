package swagger_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/okr-dashboard/internal/transport/swagger"
)

var _ = Describe("DocURL", func() {
	It("should stay relative without a base URL", func() {
		Expect(swagger.DocURL("")).To(Equal("/openapi.yml"))
	})

	It("should prefix the configured base URL", func() {
		Expect(swagger.DocURL("https://okr.example.com")).To(Equal("https://okr.example.com/openapi.yml"))
		Expect(swagger.DocURL("http://localhost:8080/")).To(Equal("http://localhost:8080/openapi.yml"))
	})
})

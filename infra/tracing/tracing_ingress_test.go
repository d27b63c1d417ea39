package tracing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	. "github.com/onsi/gomega"
)

func TestTracingIngress(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should put a span on the request context and pass the request through", func(t *testing.T) {
		var sawSpan bool
		router := gin.New()
		router.Use(TracingIngress())
		router.GET("/v1/things/:id", func(c *gin.Context) {
			sawSpan = opentracing.SpanFromContext(c.Request.Context()) != nil
			c.Status(http.StatusNoContent)
		})

		req, _ := http.NewRequest(http.MethodGet, "/v1/things/42", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(sawSpan).To(BeTrue())
	})
}

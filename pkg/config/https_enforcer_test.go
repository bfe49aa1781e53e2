package config

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func newHTTPSRouter(enabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(NewHTTPSEnforcer(enabled, zap.NewNop()).HTTPSMiddleware())
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return router
}

func TestHTTPSEnforcer(t *testing.T) {
	RegisterTestingT(t)

	cases := []struct {
		name     string
		enabled  bool
		host     string
		proto    string
		status   int
		location string
	}{
		{"disabled", false, "api.example.com", "", http.StatusOK, ""},
		{"redirects plain http", true, "api.example.com", "", http.StatusMovedPermanently, "https://api.example.com/health?x=1"},
		{"trusts forwarded proto", true, "api.example.com", "https", http.StatusOK, ""},
		{"skips localhost", true, "localhost:3000", "", http.StatusOK, ""},
		{"skips loopback ip", true, "127.0.0.1:3000", "", http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newHTTPSRouter(tc.enabled)

			req := httptest.NewRequest(http.MethodGet, "/health?x=1", nil)
			req.Host = tc.host
			if tc.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tc.proto)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(tc.status))
			Expect(w.Header().Get("Location")).To(Equal(tc.location))
		})
	}
}

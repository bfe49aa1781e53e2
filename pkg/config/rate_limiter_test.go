package config

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"todoapi/internal/core/model/response"
	"todoapi/internal/core/telemetry"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(rl.RateLimitMiddleware())

	router.GET("/todos", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	router.DELETE("/todos/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	return router
}

func doRequest(router *gin.Engine, method, path, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	req.Header.Set("X-Forwarded-For", ip)
	router.ServeHTTP(w, req)

	return w
}

func TestNewRateLimiter(t *testing.T) {
	RegisterTestingT(t)
	metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())

	rl := NewRateLimiter(GetDefaultConfig().RateLimitConfigs, zap.NewNop(), metrics)

	Expect(rl.cache).ToNot(BeNil())
	Expect(rl.config).To(HaveKey("GET /todos"))
	Expect(rl.config).To(HaveKey("default"))
	Expect(rl.metrics).ToNot(BeNil())
}

func TestRateLimitMiddleware_AllowedRequests(t *testing.T) {
	RegisterTestingT(t)
	rl := NewRateLimiter(map[string]RateLimitConfig{
		"GET /todos": {Requests: 5, Window: time.Minute},
	}, zap.NewNop(), nil)
	router := newLimitedRouter(rl)

	for i := 0; i < 5; i++ {
		w := doRequest(router, http.MethodGet, "/todos", "10.0.0.1")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("5"))
		Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal(strconv.Itoa(4 - i)))
	}
}

func TestRateLimitMiddleware_ExceedLimit(t *testing.T) {
	RegisterTestingT(t)
	rl := NewRateLimiter(map[string]RateLimitConfig{
		"GET /todos": {Requests: 2, Window: time.Minute},
	}, zap.NewNop(), telemetry.NewAppMetrics(prometheus.NewRegistry()))
	router := newLimitedRouter(rl)

	doRequest(router, http.MethodGet, "/todos", "10.0.0.2")
	doRequest(router, http.MethodGet, "/todos", "10.0.0.2")
	w := doRequest(router, http.MethodGet, "/todos", "10.0.0.2")

	Expect(w.Code).To(Equal(http.StatusTooManyRequests))
	Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal("0"))
	Expect(w.Header().Get("Retry-After")).ToNot(BeEmpty())

	var body response.ErrorResponse
	Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
	Expect(body.Success).To(BeFalse())
	Expect(body.Message).To(Equal("Too many requests"))

	other := doRequest(router, http.MethodGet, "/todos", "10.0.0.3")
	Expect(other.Code).To(Equal(http.StatusOK))
}

func TestRateLimitMiddleware_RouteKeyedByPattern(t *testing.T) {
	RegisterTestingT(t)
	rl := NewRateLimiter(map[string]RateLimitConfig{
		"DELETE /todos/:id": {Requests: 1, Window: time.Minute},
	}, zap.NewNop(), nil)
	router := newLimitedRouter(rl)

	Expect(doRequest(router, http.MethodDelete, "/todos/1", "10.0.0.4").Code).To(Equal(http.StatusOK))
	Expect(doRequest(router, http.MethodDelete, "/todos/2", "10.0.0.4").Code).To(Equal(http.StatusTooManyRequests))
	Expect(doRequest(router, http.MethodGet, "/todos", "10.0.0.4").Code).To(Equal(http.StatusOK))
}

func TestRateLimitMiddleware_WindowReset(t *testing.T) {
	RegisterTestingT(t)
	rl := NewRateLimiter(map[string]RateLimitConfig{
		"GET /todos": {Requests: 1, Window: 50 * time.Millisecond},
	}, zap.NewNop(), nil)
	router := newLimitedRouter(rl)

	Expect(doRequest(router, http.MethodGet, "/todos", "10.0.0.5").Code).To(Equal(http.StatusOK))
	Expect(doRequest(router, http.MethodGet, "/todos", "10.0.0.5").Code).To(Equal(http.StatusTooManyRequests))

	time.Sleep(80 * time.Millisecond)

	Expect(doRequest(router, http.MethodGet, "/todos", "10.0.0.5").Code).To(Equal(http.StatusOK))
}

func TestRateLimiterSetConfigAndStats(t *testing.T) {
	RegisterTestingT(t)
	rl := NewRateLimiter(nil, zap.NewNop(), nil)

	rl.SetConfig("GET /todos", RateLimitConfig{Requests: 3, Window: time.Minute})
	doRequest(newLimitedRouter(rl), http.MethodGet, "/todos", "10.0.0.6")

	stats := rl.GetStats()

	Expect(stats["configs"]).To(Equal(2))
	Expect(stats["active_entries"]).To(Equal(1))
}

package middleware

import (
	"Lotus/pkg/context"
	"Lotus/pkg/response"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestAdminAuth(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		header     string
		want       int
	}{
		{"disabled when unset", "", "", http.StatusForbidden},
		{"missing header", "secret", "", http.StatusForbidden},
		{"wrong token", "secret", "guess", http.StatusForbidden},
		{"ok", "secret", "secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(AdminAuth(tt.configured))
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.header != "" {
				req.Header.Set("X-Admin-Token", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestGinZapRequestID(t *testing.T) {
	r := newEngine(GinZap())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))
}

func requestCount(t *testing.T, method, path, status, bizCode string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, httpRequestsTotal.WithLabelValues(method, path, status, bizCode).Write(&m))
	return m.GetCounter().GetValue()
}

func TestPrometheusBizCode(t *testing.T) {
	r := newEngine(PrometheusMiddleware())
	r.POST("/test/exchange", context.Wrap(func(c *gin.Context) error {
		if c.Query("fail") != "" {
			return response.NewError(response.CodeInsufficientBalance, "余额不足")
		}
		response.Success(c, nil)
		return nil
	}))
	r.GET("/test/admin", AdminAuth(""), func(c *gin.Context) { c.Status(http.StatusOK) })

	okBefore := requestCount(t, http.MethodPost, "/test/exchange", "200", "0")
	failBefore := requestCount(t, http.MethodPost, "/test/exchange", "200", "42202")
	deniedBefore := requestCount(t, http.MethodGet, "/test/admin", "403", "403")

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/test/exchange", nil))
	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/test/exchange?fail=1", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test/admin", nil))

	assert.Equal(t, okBefore+1, requestCount(t, http.MethodPost, "/test/exchange", "200", "0"))
	assert.Equal(t, failBefore+2, requestCount(t, http.MethodPost, "/test/exchange", "200", "42202"))
	assert.Equal(t, deniedBefore+1, requestCount(t, http.MethodGet, "/test/admin", "403", "403"))

	var g dto.Metric
	require.NoError(t, httpRequestsInFlight.Write(&g))
	assert.Zero(t, g.GetGauge().GetValue())
}

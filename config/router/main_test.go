package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redweb/donor-registry/internal/log"
	"github.com/redweb/donor-registry/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func mountTestController(rs *RouterService, limiter ratelimit.RateLimiter) {
	ctrl := NewRESTController("TestController", "/", func(rs *RouterService, c *RESTController) {
		rs.AddGetHandler(c, nil, "ip", func(ctx *RequestContext) *ServiceResult {
			return OKResult(ctx.ClientIP(), "ok")
		})

		rs.AddPostHandler(c, limiter, "echo", func(ctx *RequestContext) *ServiceResult {
			var payload map[string]any
			if err := ctx.ShouldBindJSON(&payload); err != nil {
				return BadRequestResult("bad", nil)
			}
			return RawResult(http.StatusCreated, payload)
		})

		rs.AddGetHandler(c, nil, "broken", func(ctx *RequestContext) *ServiceResult {
			return nil
		})
	})

	rs.MountController(ctrl)
}

func newTestRouterService(t *testing.T) *RouterService {
	t.Helper()

	return CreateRouterService(log.NewLogger(&bytes.Buffer{}), nil, &RouterConfig{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
	})
}

func serve(rs *RouterService, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestTrustedProxies_DisabledByDefault(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "")

	rs := newTestRouterService(t)
	mountTestController(rs, nil)

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	req.Header.Set("X-Forwarded-For", "1.1.1.1")

	w := serve(rs, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.JSONEq(t, `"10.0.0.2"`, string(decodeEnvelope(t, w).Data))
}

func TestTrustedProxies_StarTrustsForwardedFor(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "*")

	rs := newTestRouterService(t)
	mountTestController(rs, nil)

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	req.Header.Set("X-Forwarded-For", "1.1.1.1")

	w := serve(rs, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.JSONEq(t, `"1.1.1.1"`, string(decodeEnvelope(t, w).Data))
}

func TestMaxBodySize_Returns413(t *testing.T) {
	t.Setenv("MAX_REQUEST_BODY_BYTES", "10")

	rs := newTestRouterService(t)
	mountTestController(rs, nil)

	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader(bytes.Repeat([]byte{'a'}, 50)))
	req.Header.Set("Content-Type", "application/json")

	w := serve(rs, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
}

func TestRawResult_WritesBareBody(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs, nil)

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"firstName":"Ana"}`))
	req.Header.Set("Content-Type", "application/json")

	w := serve(rs, req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"firstName":"Ana"}`, w.Body.String())
}

func TestNilHandlerResult_Returns500(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs, nil)

	w := serve(rs, httptest.NewRequest(http.MethodGet, "/broken", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, http.StatusInternalServerError, decodeEnvelope(t, w).Code)
}

func TestUnknownRoute_Returns404(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs, nil)

	w := serve(rs, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", decodeEnvelope(t, w).Message)
}

func TestWrongMethod_Returns405(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs, nil)

	w := serve(rs, httptest.NewRequest(http.MethodGet, "/echo", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method not allowed", decodeEnvelope(t, w).Message)
}

func TestHandlerRateLimiter_OverridesGlobal(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs, ratelimit.NewInMemoryRateLimiter(1, time.Minute))

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		return serve(rs, req)
	}

	first := post()
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := post()
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))

	// Other handlers still use the global limiter.
	assert.Equal(t, http.StatusOK, serve(rs, httptest.NewRequest(http.MethodGet, "/ip", nil)).Code)
}

func TestControllerRateLimiter_AppliesToAllHandlers(t *testing.T) {
	rs := newTestRouterService(t)
	ctrl := NewRESTController("Limited", "/v1/limited", func(rs *RouterService, c *RESTController) {
		rs.AddGetHandler(c, nil, "", func(ctx *RequestContext) *ServiceResult {
			return OKResult(nil, "ok")
		})
	})
	ctrl.RateLimitWith(rs, ratelimit.NewInMemoryRateLimiter(1, time.Minute))
	rs.MountController(ctrl)

	assert.Equal(t, "/v1/limited", ctrl.MountPoint())
	assert.Equal(t, http.StatusOK, serve(rs, httptest.NewRequest(http.MethodGet, "/v1/limited", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(rs, httptest.NewRequest(http.MethodGet, "/v1/limited", nil)).Code)
}

func TestDuplicateHandlerRegistration_Panics(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs, nil)

	assert.Panics(t, func() {
		mountTestController(rs, nil)
	})
}

func TestCorrelationID_EchoedOrGenerated(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs, nil)

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Correlation-ID", "req-42")
	assert.Equal(t, "req-42", serve(rs, req).Header().Get("X-Correlation-ID"))

	generated := serve(rs, httptest.NewRequest(http.MethodGet, "/ip", nil)).Header().Get("X-Correlation-ID")
	assert.Len(t, generated, 36)
}

func TestSecurityHeaders(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HSTS_ENABLED", "")

	rs := newTestRouterService(t)
	mountTestController(rs, nil)

	plain := serve(rs, httptest.NewRequest(http.MethodGet, "/ip", nil))
	assert.Equal(t, "nosniff", plain.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, plain.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "max-age=31536000; includeSubDomains", serve(rs, req).Header().Get("Strict-Transport-Security"))
}

func TestMetricsEndpoint(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "")

	rs := newTestRouterService(t)
	mountTestController(rs, nil)

	serve(rs, httptest.NewRequest(http.MethodGet, "/ip", nil))

	w := serve(rs, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `donor_registry_http_requests_total{method="GET",route="/ip",status="200"} 1`)
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "false")

	rs := newTestRouterService(t)
	mountTestController(rs, nil)

	assert.Equal(t, http.StatusNotFound, serve(rs, httptest.NewRequest(http.MethodGet, "/metrics", nil)).Code)
}

func TestNormalizePath(t *testing.T) {
	root := NewRESTController("Root", "/", nil)
	register := NewRESTController("Register", "register", nil)

	assert.Equal(t, "/", normalizePath(root, ""))
	assert.Equal(t, "/health", normalizePath(root, "health"))
	assert.Equal(t, "/register", normalizePath(register, ""))
	assert.Equal(t, "/register/batch", normalizePath(register, "/batch/"))
}

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dimitrije/cms-api/internal/services"
	"github.com/stretchr/testify/require"
)

// TestToken is the bearer token accepted by AcceptingValidator.
const TestToken = "test-token"

// AcceptingValidator stands in for the external validation endpoint and
// accepts exactly "Bearer " + TestToken.
type AcceptingValidator struct{}

func (AcceptingValidator) Validate(_ context.Context, authorization string) error {
	if authorization != AuthHeader(TestToken) {
		return services.ErrTokenInvalid
	}
	return nil
}

func AuthHeader(token string) string {
	return "Bearer " + token
}

// BearerHeaders returns request headers carrying TestToken.
func BearerHeaders() map[string]string {
	return map[string]string{"Authorization": AuthHeader(TestToken)}
}

// HTTPTestClient drives an http.Handler in-process through httptest.
type HTTPTestClient struct {
	t       *testing.T
	handler http.Handler
}

func NewHTTPTestClient(t *testing.T, handler http.Handler) *HTTPTestClient {
	return &HTTPTestClient{t: t, handler: handler}
}

// Request sends body JSON-encoded. A nil body sends no payload.
func (c *HTTPTestClient) Request(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	c.t.Helper()
	if body == nil {
		return c.Raw(method, path, "", nil, headers)
	}
	payload, err := json.Marshal(body)
	require.NoError(c.t, err, "marshal request body")
	return c.Raw(method, path, "application/json", payload, headers)
}

// Raw sends payload as-is with the given content type.
func (c *HTTPTestClient) Raw(method, path, contentType string, payload []byte, headers map[string]string) *httptest.ResponseRecorder {
	c.t.Helper()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func (c *HTTPTestClient) GET(path string, headers map[string]string) *httptest.ResponseRecorder {
	return c.Request(http.MethodGet, path, nil, headers)
}

func (c *HTTPTestClient) POST(path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	return c.Request(http.MethodPost, path, body, headers)
}

func (c *HTTPTestClient) PUT(path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	return c.Request(http.MethodPut, path, body, headers)
}

func (c *HTTPTestClient) PATCH(path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	return c.Request(http.MethodPatch, path, body, headers)
}

func (c *HTTPTestClient) DELETE(path string, headers map[string]string) *httptest.ResponseRecorder {
	return c.Request(http.MethodDelete, path, nil, headers)
}

// ParseJSON decodes the response body into v.
func ParseJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "decode response: %s", rec.Body.String())
}

// AssertStatus reports a mismatched status together with the body.
func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rec.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rec.Code, rec.Body.String())
	}
}

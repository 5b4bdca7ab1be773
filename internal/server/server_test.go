package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-intake/internal/common/logger"
	"insurance-intake/internal/dispatch"
	"insurance-intake/internal/tools/createapplication"
)

func newTestServer(t *testing.T, limiter *RateLimiter) *Server {
	log := logger.NewTestLogger(t)

	registry := dispatch.NewRegistry()
	handler := createapplication.NewHandler(createapplication.LoadConfig(), nil, log)
	require.NoError(t, registry.Register(handler.Tool()))

	dispatcher := dispatch.NewDispatcher(nil, registry, log)

	return New(&Config{
		Port:          8080,
		ReadTimeout:   10 * time.Second,
		WriteTimeout:  10 * time.Second,
		InvokeTimeout: 10 * time.Second,
	}, dispatcher, limiter, log)
}

func postInvoke(t *testing.T, srv *Server, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodPost, "/invoke", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}

func TestServer_Invoke_Direct(t *testing.T) {
	srv := newTestServer(t, nil)

	rec, body := postInvoke(t, srv, `{"applicant_region": "US", "coverage_amount": 2000000}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, body, "jsonrpc")
	assert.Equal(t, "SUCCESS", body["status"])
	assert.Contains(t, body["message"], "2,000,000")
	assert.NotEmpty(t, body["application_id"])
}

func TestServer_Invoke_DirectValidationError(t *testing.T) {
	srv := newTestServer(t, nil)

	rec, body := postInvoke(t, srv, `{"coverage_amount": 2000000}`)

	// Validation outcomes are part of the response body, not the HTTP status.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ERROR", body["status"])
	assert.Equal(t, "Applicant region is required", body["message"])
	assert.Nil(t, body["application_id"])
}

func TestServer_Invoke_JSONRPC(t *testing.T) {
	srv := newTestServer(t, nil)

	rec, body := postInvoke(t, srv, `{
		"jsonrpc": "2.0",
		"id": "req-1",
		"method": "tools/call",
		"params": {
			"name": "create_application",
			"arguments": {"applicant_region": "EU", "coverage_amount": 750000}
		}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2.0", body["jsonrpc"])
	assert.Equal(t, "req-1", body["id"])

	result := body["result"].(map[string]interface{})
	assert.Equal(t, false, result["isError"])

	content := result["content"].([]interface{})
	require.Len(t, content, 1)

	var out map[string]interface{}
	text := content[0].(map[string]interface{})["text"].(string)
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, "SUCCESS", out["status"])
	assert.Equal(t, "EU", out["region"])
}

func TestServer_Invoke_JSONRPC_UnknownTool(t *testing.T) {
	srv := newTestServer(t, nil)

	rec, body := postInvoke(t, srv, `{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"cancel_application","arguments":{}}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	rpcErr := body["error"].(map[string]interface{})
	assert.Equal(t, float64(-32601), rpcErr["code"])
	assert.Equal(t, "Function not found: cancel_application", rpcErr["message"])
}

func TestServer_Healthz(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-intake/internal/common/logger"
)

type stubResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (r *stubResult) Failed() bool { return r.Status == "ERROR" }

func echoTool() *Tool {
	return &Tool{
		Name:        "echo",
		Description: "returns its region argument",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"region": map[string]interface{}{"type": "string"},
			},
			"required": []string{"region"},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (Result, error) {
			region, _ := args["region"].(string)
			if region == "" {
				return &stubResult{Status: "ERROR", Message: "region missing"}, nil
			}
			return &stubResult{Status: "SUCCESS", Message: "hello " + region}, nil
		},
	}
}

func panicTool() *Tool {
	return &Tool{
		Name: "panic",
		Handler: func(ctx context.Context, args map[string]interface{}) (Result, error) {
			panic("kaboom")
		},
	}
}

func failTool() *Tool {
	return &Tool{
		Name: "fail",
		Handler: func(ctx context.Context, args map[string]interface{}) (Result, error) {
			return nil, fmt.Errorf("backend unavailable")
		},
	}
}

func newTestDispatcher(t *testing.T, config *Config, tools ...*Tool) *Dispatcher {
	registry := NewRegistry()
	for _, tool := range tools {
		require.NoError(t, registry.Register(tool))
	}
	return NewDispatcher(config, registry, logger.NewTestLogger(t))
}

// roundTrip serializes the dispatcher output and decodes it into a generic
// map, the way a caller on the wire would see it.
func roundTrip(t *testing.T, out interface{}) map[string]interface{} {
	data, err := json.Marshal(out)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestDispatch_JSONRPC_Success(t *testing.T) {
	d := newTestDispatcher(t, nil, echoTool())

	raw := []byte(`{"jsonrpc":"2.0","id":"r1","method":"tools/call","params":{"name":"echo","arguments":{"region":"US"}}}`)
	resp := roundTrip(t, d.Dispatch(context.Background(), raw))

	assert.Equal(t, "2.0", resp["jsonrpc"])
	assert.Equal(t, "r1", resp["id"])

	result := resp["result"].(map[string]interface{})
	assert.Equal(t, false, result["isError"])

	content := result["content"].([]interface{})
	require.Len(t, content, 1)
	block := content[0].(map[string]interface{})
	assert.Equal(t, "text", block["type"])

	var decoded stubResult
	require.NoError(t, json.Unmarshal([]byte(block["text"].(string)), &decoded))
	assert.Equal(t, "SUCCESS", decoded.Status)
	assert.Equal(t, "hello US", decoded.Message)
}

func TestDispatch_JSONRPC_BusinessErrorSetsIsError(t *testing.T) {
	d := newTestDispatcher(t, nil, echoTool())

	raw := []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo","arguments":{}}}`)
	resp := roundTrip(t, d.Dispatch(context.Background(), raw))

	result := resp["result"].(map[string]interface{})
	assert.Equal(t, true, result["isError"])
}

func TestDispatch_JSONRPC_MethodNotFound(t *testing.T) {
	d := newTestDispatcher(t, nil, echoTool())

	raw := []byte(`{"jsonrpc":"2.0","id":"r2","method":"tools/call","params":{"name":"unknown_op","arguments":{}}}`)
	resp := roundTrip(t, d.Dispatch(context.Background(), raw))

	assert.Equal(t, "r2", resp["id"])
	assert.Nil(t, resp["result"])

	rpcErr := resp["error"].(map[string]interface{})
	assert.Equal(t, float64(-32601), rpcErr["code"])
	assert.Equal(t, "Function not found: unknown_op", rpcErr["message"])
}

func TestDispatch_JSONRPC_MethodNotFound_MissingID(t *testing.T) {
	d := newTestDispatcher(t, nil, echoTool())

	raw := []byte(`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"unknown_op","arguments":{}}}`)
	resp := roundTrip(t, d.Dispatch(context.Background(), raw))

	assert.Equal(t, "unknown", resp["id"])
}

func TestDispatch_Direct_BareResult(t *testing.T) {
	d := newTestDispatcher(t, nil, echoTool())

	resp := roundTrip(t, d.Dispatch(context.Background(), []byte(`{"region":"EU"}`)))

	// No envelope on the direct path.
	assert.NotContains(t, resp, "jsonrpc")
	assert.Equal(t, "SUCCESS", resp["status"])
	assert.Equal(t, "hello EU", resp["message"])
}

func TestDispatch_PanicBecomesInternalError(t *testing.T) {
	d := newTestDispatcher(t, nil, panicTool())

	raw := []byte(`{"jsonrpc":"2.0","id":"r3","method":"tools/call","params":{"name":"panic","arguments":{}}}`)
	resp := roundTrip(t, d.Dispatch(context.Background(), raw))

	rpcErr := resp["error"].(map[string]interface{})
	assert.Equal(t, float64(-32603), rpcErr["code"])
	assert.Contains(t, rpcErr["message"], "Internal error: kaboom")
}

func TestDispatch_HandlerError_DirectShape(t *testing.T) {
	d := newTestDispatcher(t, nil, failTool())

	resp := roundTrip(t, d.Dispatch(context.Background(), []byte(`{"anything":"goes"}`)))

	assert.Equal(t, "ERROR", resp["status"])
	assert.Contains(t, resp["message"], "Internal error: backend unavailable")
}

func TestDispatch_UnparseableEvent(t *testing.T) {
	d := newTestDispatcher(t, nil, echoTool())

	resp := roundTrip(t, d.Dispatch(context.Background(), []byte(`[]`)))

	assert.Equal(t, "ERROR", resp["status"])
	assert.Contains(t, resp["message"], "Internal error:")
}

func TestDispatch_StrictArguments(t *testing.T) {
	d := newTestDispatcher(t, &Config{StrictArguments: true}, echoTool())

	// region has the wrong type; the schema rejects it before dispatch.
	resp := roundTrip(t, d.Dispatch(context.Background(), []byte(`{"region": 12}`)))

	assert.Equal(t, "ERROR", resp["status"])
	assert.NotEmpty(t, resp["message"])
}

func TestRegistry_DuplicateName(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(echoTool()))
	assert.Error(t, registry.Register(echoTool()))
}

func TestRegistry_DefaultIsFirstRegistered(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(echoTool()))
	require.NoError(t, registry.Register(panicTool()))

	tool, ok := registry.Default()
	require.True(t, ok)
	assert.Equal(t, "echo", tool.Name)
}

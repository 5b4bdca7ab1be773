// Package protocol defines the two invocation shapes the intake service
// accepts — a JSON-RPC 2.0 tool-call envelope and a flat argument object —
// plus the classification and response re-wrapping between them.
package protocol

// Version is the JSON-RPC protocol version carried on every envelope.
const Version = "2.0"

// MethodToolsCall is the only envelope method the service recognizes.
const MethodToolsCall = "tools/call"

// unknownID tags error responses whose request carried no correlation id.
const unknownID = "unknown"

// Request is an inbound JSON-RPC 2.0 tool-call envelope.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id,omitempty"`
	Method  string      `json:"method"`
	Params  *CallParams `json:"params,omitempty"`
}

// CallParams names the operation and carries its argument mapping.
type CallParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// Response is an outbound JSON-RPC 2.0 envelope. Exactly one of Result and
// Error is set.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError is the JSON-RPC error member.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CallResult is the tool-call result shape: the operation output serialized
// as pretty-printed JSON inside a single text content block.
type CallResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError"`
}

// Content is one block of tool-call result content.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ErrorBody is the direct-format error shape. It doubles as the transport
// body for faults that happen before any operation output exists.
type ErrorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewErrorBody builds a direct-format error payload.
func NewErrorBody(message string) *ErrorBody {
	return &ErrorBody{Status: "ERROR", Message: message}
}

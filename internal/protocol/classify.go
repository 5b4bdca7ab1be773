package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind tags which shape an invocation event arrived in.
type Kind string

const (
	KindJSONRPC Kind = "jsonrpc"
	KindDirect  Kind = "direct"
)

// Invocation is the canonical form of an inbound event after classification.
// Direct events have no correlation id and no operation name; their entire
// body is the argument mapping.
type Invocation struct {
	Kind      Kind
	ID        interface{}
	Tool      string
	Arguments map[string]interface{}
}

// Classify decides which protocol an event belongs to and extracts the
// canonical argument set. The event is JSON-RPC if and only if it carries
// method "tools/call" and a params field; anything else is treated as a
// direct argument object.
func Classify(raw []byte) (*Invocation, error) {
	var probe struct {
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	probeErr := json.Unmarshal(raw, &probe)

	if probeErr == nil && probe.Method == MethodToolsCall && hasValue(probe.Params) {
		var req Request
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("parse tool-call envelope: %w", err)
		}
		inv := &Invocation{Kind: KindJSONRPC, ID: req.ID}
		if req.Params != nil {
			inv.Tool = req.Params.Name
			inv.Arguments = req.Params.Arguments
		}
		return inv, nil
	}

	var args map[string]interface{}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("parse direct event: %w", err)
	}
	return &Invocation{Kind: KindDirect, Arguments: args}, nil
}

// hasValue reports whether a raw JSON field is present and not null.
func hasValue(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

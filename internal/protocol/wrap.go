package protocol

import "encoding/json"

// WrapResult re-wraps an operation result to match the protocol the event
// arrived in. Direct events get the result back unmodified; JSON-RPC events
// get the envelope with the result pretty-printed into a text content block
// and isError mirroring the operation outcome.
func WrapResult(inv *Invocation, result interface{}, isError bool) (interface{}, error) {
	if inv.Kind == KindDirect {
		return result, nil
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, err
	}

	return &Response{
		JSONRPC: Version,
		ID:      inv.ID,
		Result: &CallResult{
			Content: []Content{{Type: "text", Text: string(text)}},
			IsError: isError,
		},
	}, nil
}

// WrapError builds the protocol-matching error response for faults that
// terminate the invocation before a result exists (unknown operation,
// internal fault). A nil invocation means the event never classified; the
// direct shape is used since there is no envelope to echo.
func WrapError(inv *Invocation, code int, message string) interface{} {
	if inv == nil || inv.Kind == KindDirect {
		return NewErrorBody(message)
	}

	id := inv.ID
	if id == nil {
		id = unknownID
	}
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	}
}

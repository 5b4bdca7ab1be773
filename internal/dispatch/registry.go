package dispatch

import (
	"context"
	"fmt"

	"insurance-intake/internal/common/validation"
)

// Result is implemented by tool outputs so the dispatcher can mirror the
// outcome into the envelope's isError flag.
type Result interface {
	Failed() bool
}

// HandlerFunc executes one tool invocation. A returned error is an internal
// fault; business validation failures come back as a Result with
// Failed() == true.
type HandlerFunc func(ctx context.Context, args map[string]interface{}) (Result, error)

// Tool is one named operation with its argument schema.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
	Handler     HandlerFunc
}

// Registry maps operation names to tools. The first tool registered becomes
// the default target for direct-format events, which carry no operation name.
type Registry struct {
	tools       map[string]*Tool
	schemas     map[string]*validation.Schema
	defaultTool string
}

func NewRegistry() *Registry {
	return &Registry{
		tools:   make(map[string]*Tool),
		schemas: make(map[string]*validation.Schema),
	}
}

// Register adds a tool. The input schema must compile; a tool that cannot
// describe its own arguments is a startup error, not a runtime one.
func (r *Registry) Register(t *Tool) error {
	if t.Name == "" {
		return fmt.Errorf("register tool: empty name")
	}
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("register tool: duplicate name %q", t.Name)
	}

	if t.InputSchema != nil {
		schema, err := validation.Compile(t.InputSchema)
		if err != nil {
			return fmt.Errorf("register tool %q: %w", t.Name, err)
		}
		r.schemas[t.Name] = schema
	}

	r.tools[t.Name] = t
	if r.defaultTool == "" {
		r.defaultTool = t.Name
	}
	return nil
}

// Lookup resolves an operation name.
func (r *Registry) Lookup(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Default returns the tool that direct-format events dispatch to.
func (r *Registry) Default() (*Tool, bool) {
	if r.defaultTool == "" {
		return nil, false
	}
	return r.tools[r.defaultTool], true
}

// ValidateArguments checks args against the tool's input schema, if it has
// one. Used only when strict argument checking is enabled.
func (r *Registry) ValidateArguments(name string, args map[string]interface{}) error {
	schema, ok := r.schemas[name]
	if !ok {
		return nil
	}
	return schema.Validate(args)
}

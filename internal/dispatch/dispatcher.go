package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	commonerrors "insurance-intake/internal/common/errors"
	"insurance-intake/internal/common/logger"
	"insurance-intake/internal/common/metrics"
	"insurance-intake/internal/protocol"
)

// Config holds dispatcher settings.
type Config struct {
	// StrictArguments validates arguments against the tool's input schema
	// before dispatch. Off by default: the intake rules own validation
	// semantics, and the schema check would shadow them.
	StrictArguments bool
}

// Dispatcher accepts one raw invocation event, runs the resolved tool, and
// always produces exactly one response value in the protocol the event
// arrived in. Nothing escapes the boundary: panics, decode failures, and
// handler errors all come back as structured error responses.
type Dispatcher struct {
	config   *Config
	registry *Registry
	logger   logger.Logger
}

func NewDispatcher(config *Config, registry *Registry, log logger.Logger) *Dispatcher {
	if config == nil {
		config = &Config{}
	}
	return &Dispatcher{
		config:   config,
		registry: registry,
		logger:   log,
	}
}

// Dispatch processes one invocation event.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) (out interface{}) {
	start := time.Now()
	log := d.logger.WithFields(map[string]interface{}{
		"invocationId": uuid.New().String(),
	})

	inv, err := protocol.Classify(raw)
	if err != nil {
		return d.fault(log, nil, err)
	}
	log = log.WithFields(map[string]interface{}{"protocol": string(inv.Kind)})

	defer func() {
		if r := recover(); r != nil {
			out = d.fault(log, inv, fmt.Errorf("%v", r))
		}
	}()

	tool, ok := d.resolve(inv)
	if !ok {
		stdErr := commonerrors.NewMethodNotFoundError(inv.Tool)
		metrics.InvocationErrors.WithLabelValues(string(stdErr.Code)).Inc()
		log.Warn("unknown operation", map[string]interface{}{
			"operation": inv.Tool,
		})
		return protocol.WrapError(inv, commonerrors.JSONRPCCode(stdErr.Code), stdErr.Message)
	}

	if d.config.StrictArguments {
		if verr := d.registry.ValidateArguments(tool.Name, inv.Arguments); verr != nil {
			metrics.InvocationErrors.WithLabelValues(string(commonerrors.ErrCodeValidationFailed)).Inc()
			log.Warn("arguments rejected by schema", map[string]interface{}{
				"tool":  tool.Name,
				"error": verr.Error(),
			})
			return d.wrap(log, inv, protocol.NewErrorBody(verr.Error()), true)
		}
	}

	result, err := tool.Handler(ctx, inv.Arguments)
	if err != nil {
		return d.fault(log, inv, err)
	}

	status := "success"
	if result.Failed() {
		status = "error"
		metrics.InvocationErrors.WithLabelValues(string(commonerrors.ErrCodeValidationFailed)).Inc()
	}
	metrics.InvocationsTotal.WithLabelValues(string(inv.Kind), status).Inc()
	metrics.InvocationDuration.WithLabelValues(tool.Name).Observe(time.Since(start).Seconds())

	log.Info("invocation complete", map[string]interface{}{
		"tool":       tool.Name,
		"status":     status,
		"durationMs": time.Since(start).Milliseconds(),
	})

	return d.wrap(log, inv, result, result.Failed())
}

// resolve maps an invocation to a tool. Direct events carry no operation
// name and go to the registry default.
func (d *Dispatcher) resolve(inv *protocol.Invocation) (*Tool, bool) {
	if inv.Kind == protocol.KindDirect {
		return d.registry.Default()
	}
	return d.registry.Lookup(inv.Tool)
}

func (d *Dispatcher) wrap(log logger.Logger, inv *protocol.Invocation, result interface{}, isError bool) interface{} {
	wrapped, err := protocol.WrapResult(inv, result, isError)
	if err != nil {
		return d.fault(log, inv, err)
	}
	return wrapped
}

// fault converts any unanticipated failure into the protocol-matching
// internal error response.
func (d *Dispatcher) fault(log logger.Logger, inv *protocol.Invocation, err error) interface{} {
	stdErr := commonerrors.Normalize(err)
	metrics.InvocationErrors.WithLabelValues(string(stdErr.Code)).Inc()
	log.WithError(err).Error("dispatch fault", map[string]interface{}{
		"errorCode": string(stdErr.Code),
	})
	return protocol.WrapError(inv, commonerrors.JSONRPCInternalError, fmt.Sprintf("Internal error: %s", err.Error()))
}

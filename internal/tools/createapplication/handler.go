package createapplication

import (
	"context"
	"fmt"
	"time"

	"insurance-intake/internal/common/logger"
	"insurance-intake/internal/dispatch"
)

const (
	ToolName    = "create_application"
	Description = "Creates an insurance application for an applicant region and coverage amount"
)

// Notifier publishes the confirmation for a successful application. Delivery
// problems never alter the result; the handler only logs them.
type Notifier interface {
	ApplicationCreated(ctx context.Context, out *Output) error
}

type Handler struct {
	config   *Config
	logger   logger.Logger
	notifier Notifier // nil when no notification channel is enabled
}

func NewHandler(config *Config, notifier Notifier, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		notifier: notifier,
		logger:   log.WithFields(map[string]interface{}{"tool": ToolName}),
	}
}

// Tool packages the handler for dispatch registration.
func (h *Handler) Tool() *dispatch.Tool {
	return &dispatch.Tool{
		Name:        ToolName,
		Description: Description,
		InputSchema: InputSchema(),
		Handler: func(ctx context.Context, args map[string]interface{}) (dispatch.Result, error) {
			out, err := h.Execute(ctx, args)
			if err != nil {
				return nil, err
			}
			return out, nil
		},
	}
}

// InputSchema describes the tool's argument object. Published through the
// registry and enforced only when strict argument checking is on.
func InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"applicant_region": map[string]interface{}{
				"type":        "string",
				"description": "Region code the applicant resides in, e.g. US or EU",
			},
			"coverage_amount": map[string]interface{}{
				"type":        "number",
				"description": "Requested coverage amount in whole currency units",
			},
		},
		"required": []string{"applicant_region", "coverage_amount"},
	}
}

// Execute runs one create_application invocation. Validation failures come
// back as an ERROR output, not as an error; a returned error means the
// arguments were malformed or the id could not be generated.
func (h *Handler) Execute(ctx context.Context, args map[string]interface{}) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	if out := checkRequired(args); out != nil {
		h.logger.Warn("application rejected", map[string]interface{}{
			"reason": out.Message,
		})
		return out, nil
	}

	input, err := decodeInput(args)
	if err != nil {
		return nil, err
	}

	// Negative amounts pass the presence check but are still invalid.
	if input.CoverageAmount <= 0 {
		out := errorOutput(msgAmountNotPositive)
		h.logger.Warn("application rejected", map[string]interface{}{
			"reason": out.Message,
			"region": input.ApplicantRegion,
		})
		return out, nil
	}

	appID, err := newApplicationID(input.ApplicantRegion)
	if err != nil {
		return nil, err
	}

	out := &Output{
		Status: StatusSuccess,
		Message: fmt.Sprintf("Application %s created for region %s with coverage of %s",
			appID, input.ApplicantRegion, formatAmount(input.CoverageAmount)),
		ApplicationID:  &appID,
		CoverageAmount: input.CoverageAmount,
		Region:         input.ApplicantRegion,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	h.logger.Info("application created", map[string]interface{}{
		"applicationId":  appID,
		"region":         input.ApplicantRegion,
		"coverageAmount": input.CoverageAmount,
	})

	if h.notifier != nil {
		if err := h.notifier.ApplicationCreated(ctx, out); err != nil {
			h.logger.Warn("confirmation notification failed", map[string]interface{}{
				"applicationId": appID,
				"error":         err.Error(),
			})
		}
	}

	return out, nil
}

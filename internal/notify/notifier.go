// Package notify publishes intake confirmations through AWS SES and SNS.
// Delivery is best-effort: the application result is final before any
// notification leaves the process.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	commonerrors "insurance-intake/internal/common/errors"
	"insurance-intake/internal/common/logger"
	"insurance-intake/internal/common/metrics"
	"insurance-intake/internal/tools/createapplication"
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Config selects the channels and their endpoints.
type Config struct {
	EmailEnabled   bool
	FromEmail      string
	RecipientEmail string
	SMSEnabled     bool
	TopicARN       string
	Region         string
}

type Notifier struct {
	config    *Config
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

// New builds a Notifier backed by real AWS clients.
func New(ctx context.Context, config *Config, log logger.Logger) (*Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewWithClients(config, ses.NewFromConfig(awsCfg), sns.NewFromConfig(awsCfg), log), nil
}

// NewWithClients injects the channel clients; used by tests.
func NewWithClients(config *Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		config:    config,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

// ApplicationCreated publishes the confirmation for a successful intake on
// every enabled channel. The first delivery failure is returned after all
// channels have been attempted.
func (n *Notifier) ApplicationCreated(ctx context.Context, out *createapplication.Output) error {
	var firstErr error

	if n.config.EmailEnabled {
		if err := n.sendEmail(ctx, out); err != nil {
			metrics.NotificationsTotal.WithLabelValues("email", "failed").Inc()
			n.logger.Warn("email confirmation failed", map[string]interface{}{
				"error": err.Error(),
			})
			firstErr = commonerrors.NewNotificationSendFailedError("email", err)
		} else {
			metrics.NotificationsTotal.WithLabelValues("email", "sent").Inc()
		}
	}

	if n.config.SMSEnabled {
		if err := n.publishSMS(ctx, out); err != nil {
			metrics.NotificationsTotal.WithLabelValues("sms", "failed").Inc()
			n.logger.Warn("sms confirmation failed", map[string]interface{}{
				"error": err.Error(),
			})
			if firstErr == nil {
				firstErr = commonerrors.NewNotificationSendFailedError("sms", err)
			}
		} else {
			metrics.NotificationsTotal.WithLabelValues("sms", "sent").Inc()
		}
	}

	return firstErr
}

func (n *Notifier) sendEmail(ctx context.Context, out *createapplication.Output) error {
	appID := ""
	if out.ApplicationID != nil {
		appID = *out.ApplicationID
	}

	subject := fmt.Sprintf("Insurance application %s received", appID)
	body := fmt.Sprintf("%s\n\nRegion: %s\nCreated: %s\n", out.Message, out.Region, out.CreatedAt)

	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.config.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{n.config.RecipientEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	return err
}

func (n *Notifier) publishSMS(ctx context.Context, out *createapplication.Output) error {
	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.config.TopicARN),
		Message:  aws.String(out.Message),
	})
	return err
}

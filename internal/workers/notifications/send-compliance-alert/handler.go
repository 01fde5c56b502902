package sendcompliancealert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	commonerrors "carbon-compliance-workers/internal/common/errors"
	"carbon-compliance-workers/internal/common/logger"
	"carbon-compliance-workers/internal/common/metrics"
	"carbon-compliance-workers/internal/models"
)

const (
	TaskType = "send-compliance-alert"
)

var (
	ErrAlertSendFailed = errors.New("ALERT_SEND_FAILED")
)

// EmailSender is satisfied by the SES client wrapper.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SMSSender is satisfied by the SNS client wrapper.
type SMSSender interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Handler struct {
	config *Config
	email  EmailSender
	sms    SMSSender
	logger logger.Logger
}

func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		email:  email,
		sms:    sms,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PARSE_ERROR").Inc()
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		retries := int32(commonerrors.GetRetryCount(commonerrors.ErrCodeAlertSendFailed))
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "ALERT_SEND_FAILED").Inc()
		h.failJob(client, job, "ALERT_SEND_FAILED", err.Error(), retries)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if input.OrganizationID == "" {
		return nil, fmt.Errorf("%w: organizationId is required", ErrAlertSendFailed)
	}

	output := &Output{AlertID: "alert-" + uuid.New().String()}

	if h.config.EmailEnabled && h.email != nil && input.Email != "" {
		if err := h.sendEmail(ctx, input); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAlertSendFailed, err)
		}
		output.EmailSent = true
	}

	if h.shouldSendSMS(input) {
		if err := h.sendSMS(ctx, input); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAlertSendFailed, err)
		}
		output.SMSSent = true
	}

	h.logger.Info("compliance alert dispatched", map[string]interface{}{
		"alertId":        output.AlertID,
		"organizationId": input.OrganizationID,
		"emailSent":      output.EmailSent,
		"smsSent":        output.SMSSent,
	})
	return output, nil
}

// SMS is reserved for alerts at or above the configured priority.
func (h *Handler) shouldSendSMS(input *Input) bool {
	if !h.config.SMSEnabled || h.sms == nil || input.Phone == "" {
		return false
	}
	if h.config.SMSPriorityMin == models.PriorityHigh {
		return input.Priority == models.PriorityHigh
	}
	return input.Priority == models.PriorityHigh || input.Priority == models.PriorityMedium
}

func (h *Handler) sendEmail(ctx context.Context, input *Input) error {
	subject := fmt.Sprintf("Compliance gap analysis: %s (%.0f%%)", input.OverallScore, input.ScorePercentage)
	body := buildEmailBody(input)

	_, err := h.email.SendEmail(ctx, &ses.SendEmailInput{
		Source: awssdk.String(h.config.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{input.Email},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: awssdk.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: awssdk.String(body)},
			},
		},
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, input *Input) error {
	message := fmt.Sprintf("Compliance alert for %s: score %s (%.0f%%), %d high-priority gaps",
		input.OrganizationID, input.OverallScore, input.ScorePercentage, len(input.HighPriorityGaps))

	_, err := h.sms.Publish(ctx, &sns.PublishInput{
		PhoneNumber: awssdk.String(input.Phone),
		Message:     awssdk.String(message),
	})
	return err
}

func buildEmailBody(input *Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your latest compliance gap analysis scored %s (%.1f%%).\n\n",
		input.OverallScore, input.ScorePercentage)

	if len(input.HighPriorityGaps) > 0 {
		b.WriteString("High-priority compliance gaps:\n")
		for _, gap := range input.HighPriorityGaps {
			fmt.Fprintf(&b, "  - %s\n", gap)
		}
		b.WriteString("\n")
	}
	b.WriteString("Sign in to review the full analysis and recommended actions.\n")
	return b.String()
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

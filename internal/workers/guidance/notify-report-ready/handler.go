// internal/workers/guidance/notify-report-ready/handler.go
package notifyreportready

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/common/logger"
	"career-brief-workers/internal/common/validation"
)

const (
	TaskType = "notify-report-ready"
)

const selectStudent = `SELECT full_name, COALESCE(email, ''), COALESCE(phone, '') FROM students WHERE id = $1`

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config       *Config
	db           *sql.DB
	sesClient    SESService
	snsClient    SNSService
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, db *sql.DB, sesClient SESService, snsClient SNSService, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		sesClient:    sesClient,
		snsClient:    snsClient,
		errorHandler: apperrors.NewErrorHandler(l),
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job,
			apperrors.NewMalformedInputError("job variables", fmt.Sprintf("parse input: %v", err), nil))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

// Execute emails the student and, for priority at or above the configured
// threshold, sends an SMS. A non-empty Channel restricts delivery to that
// channel. An email failure fails the job; an SMS failure after a delivered
// email only marks the notification partial.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.StudentID == "" || input.ReportID == "" {
		return nil, apperrors.NewMalformedInputError("notification", "studentId and reportId are required", nil)
	}
	switch input.Channel {
	case "", ChannelEmail, ChannelSMS:
	default:
		return nil, apperrors.NewMalformedInputError("notification", "unknown channel", input.Channel)
	}

	output := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusSkipped,
		Channels:       []string{},
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}

	st, err := h.lookupStudent(ctx, input.StudentID)
	if errors.Is(err, sql.ErrNoRows) {
		h.logger.Warn("student not found", map[string]interface{}{
			"studentId": input.StudentID,
		})
		return output, nil
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("student_contact", err)
	}

	data := messageData{Name: st.Name, Link: h.reportLink(input.ReportID)}
	for i, c := range input.Clusters {
		if i == 3 {
			break
		}
		data.Clusters = append(data.Clusters, c.Title)
	}

	if h.config.EmailEnabled && input.Channel != ChannelSMS && validation.ValidateEmail(st.Email) {
		if err := h.sendEmail(ctx, st.Email, data); err != nil {
			return nil, apperrors.NewNotificationSendFailedError(ChannelEmail, err)
		}
		output.Channels = append(output.Channels, ChannelEmail)
	}

	if input.Channel != ChannelEmail && h.smsWanted(input.Priority) && validation.ValidatePhone(st.Phone) {
		if err := h.sendSMS(ctx, st.Phone, data); err != nil {
			if len(output.Channels) == 0 {
				return nil, apperrors.NewNotificationSendFailedError(ChannelSMS, err)
			}
			h.logger.Warn("SMS send failed", map[string]interface{}{
				"studentId": input.StudentID,
				"error":     err,
			})
			output.Status = StatusPartial
			return output, nil
		}
		output.Channels = append(output.Channels, ChannelSMS)
	}

	if len(output.Channels) > 0 {
		output.Status = StatusSent
	}
	h.logger.Info("report notification processed", map[string]interface{}{
		"studentId":      input.StudentID,
		"reportId":       input.ReportID,
		"notificationId": output.NotificationID,
		"status":         output.Status,
		"channels":       strings.Join(output.Channels, ","),
	})
	return output, nil
}

func (h *Handler) smsWanted(priority string) bool {
	if !h.config.SMSEnabled {
		return false
	}
	threshold, ok := priorityRank[h.config.PriorityThreshold]
	if !ok {
		threshold = priorityRank[PriorityHigh]
	}
	return priorityRank[strings.ToLower(priority)] >= threshold
}

func (h *Handler) reportLink(reportID string) string {
	return strings.TrimRight(h.config.ReportBaseURL, "/") + "/" + reportID
}

func (h *Handler) lookupStudent(ctx context.Context, id string) (*student, error) {
	var st student
	if err := h.db.QueryRowContext(ctx, selectStudent, id).Scan(&st.Name, &st.Email, &st.Phone); err != nil {
		return nil, err
	}
	return &st, nil
}

func (h *Handler) sendEmail(ctx context.Context, to string, data messageData) error {
	subject, err := render("subject", data)
	if err != nil {
		return err
	}
	body, err := render("email", data)
	if err != nil {
		return err
	}
	_, err = h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to string, data messageData) error {
	message, err := render("sms", data)
	if err != nil {
		return err
	}
	input := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	}
	if h.config.SenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {DataType: aws.String("String"), StringValue: aws.String(h.config.SenderID)},
		}
	}
	_, err = h.snsClient.Publish(ctx, input)
	return err
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
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

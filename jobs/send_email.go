package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/meridian-crm/meridian/internal/platform/mail"
)

// SendEmailJob delivers queued mail through the configured mailer.
type SendEmailJob struct {
	mailer mail.Mailer
	from   string
	logger *slog.Logger
}

// NewSendEmailJob constructs the handler for TaskTypeSendEmail.
func NewSendEmailJob(mailer mail.Mailer, from string, logger *slog.Logger) *SendEmailJob {
	return &SendEmailJob{mailer: mailer, from: from, logger: logger}
}

// Handle processes TaskTypeSendEmail tasks. A malformed payload is dropped
// rather than retried.
func (j *SendEmailJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	err := j.mailer.Send(ctx, mail.Message{
		From:    j.from,
		To:      payload.To,
		Subject: payload.Subject,
		HTML:    payload.Body,
	})
	if err != nil {
		if j.logger != nil {
			j.logger.Error("send email", slog.Any("error", err), slog.String("to", payload.To))
		}
		return err
	}
	if j.logger != nil {
		j.logger.Info("email sent", slog.String("to", payload.To), slog.String("subject", payload.Subject))
	}
	return nil
}

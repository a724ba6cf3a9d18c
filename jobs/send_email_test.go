package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/meridian-crm/meridian/internal/platform/mail"
)

type stubMailer struct {
	sent []mail.Message
	err  error
}

func (s *stubMailer) Send(ctx context.Context, msg mail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func TestSendEmailJobDelivers(t *testing.T) {
	mailer := &stubMailer{}
	job := NewSendEmailJob(mailer, "no-reply@meridian.local", nil)

	task, err := NewSendEmailTask(SendEmailPayload{
		To:      "reports@meridian.local",
		Subject: "Pending products digest",
		Body:    "<html></html>",
	})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Len(t, mailer.sent, 1)
	require.Equal(t, "no-reply@meridian.local", mailer.sent[0].From)
	require.Equal(t, "reports@meridian.local", mailer.sent[0].To)
	require.Equal(t, "Pending products digest", mailer.sent[0].Subject)
}

func TestSendEmailJobDropsMalformedPayload(t *testing.T) {
	mailer := &stubMailer{}
	job := NewSendEmailJob(mailer, "no-reply@meridian.local", nil)

	task := asynq.NewTask(TaskTypeSendEmail, []byte("not json"))
	err := job.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Empty(t, mailer.sent)
}

func TestSendEmailJobPropagatesMailerError(t *testing.T) {
	mailer := &stubMailer{err: errors.New("smtp refused")}
	job := NewSendEmailJob(mailer, "no-reply@meridian.local", nil)

	task, err := NewSendEmailTask(SendEmailPayload{To: "x@y"})
	require.NoError(t, err)
	require.Error(t, job.Handle(context.Background(), task))
}

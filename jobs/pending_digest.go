package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-crm/meridian/internal/digest"
	"github.com/meridian-crm/meridian/internal/products"
)

// PendingLister is the slice of the products service the digest needs.
type PendingLister interface {
	Pending(ctx context.Context, cutoff time.Time) ([]products.Product, error)
}

// EmailEnqueuer hands the rendered digest to the mail queue.
type EmailEnqueuer interface {
	EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) error
}

// PendingDigestConfig collects the digest job dependencies.
type PendingDigestConfig struct {
	Lister    PendingLister
	Renderer  *digest.Renderer
	Enqueuer  EmailEnqueuer
	Recipient string
	Window    time.Duration
	Logger    *slog.Logger
}

// PendingDigestJob queries stale pending products, renders them to HTML and
// dispatches one email per invocation. Fire and forget: no batching, no
// partial retry.
type PendingDigestJob struct {
	cfg PendingDigestConfig
}

// NewPendingDigestJob constructs the handler for TaskTypePendingDigest.
func NewPendingDigestJob(cfg PendingDigestConfig) *PendingDigestJob {
	return &PendingDigestJob{cfg: cfg}
}

// Handle processes TaskTypePendingDigest tasks.
func (j *PendingDigestJob) Handle(ctx context.Context, _ *asynq.Task) error {
	cutoff := time.Now().UTC().Add(-j.cfg.Window)

	list, err := j.cfg.Lister.Pending(ctx, cutoff)
	if err != nil {
		if j.cfg.Logger != nil {
			j.cfg.Logger.Error("pending digest query", slog.Any("error", err))
		}
		return err
	}
	if len(list) == 0 {
		if j.cfg.Logger != nil {
			j.cfg.Logger.Info("pending digest: nothing to report", slog.Time("cutoff", cutoff))
		}
		return nil
	}

	body, err := j.cfg.Renderer.Render(list, cutoff)
	if err != nil {
		return err
	}

	err = j.cfg.Enqueuer.EnqueueSendEmail(ctx, SendEmailPayload{
		To:      j.cfg.Recipient,
		Subject: "Pending products digest",
		Body:    body,
	})
	if err != nil {
		return err
	}
	if j.cfg.Logger != nil {
		j.cfg.Logger.Info("pending digest dispatched", slog.Int("products", len(list)), slog.String("to", j.cfg.Recipient))
	}
	return nil
}

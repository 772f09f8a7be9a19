package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/lookout/pkg/domain/interfaces"
	"github.com/m-mizutani/lookout/pkg/domain/model"
)

// Publisher turns a run's accepted updates into a report document and
// optional notifications. A run with zero updates publishes nothing.
type Publisher struct {
	writers   []interfaces.ReportWriter
	notifiers []interfaces.Notifier
	now       func() time.Time
}

// PublishOption is a functional option for Publisher configuration
type PublishOption func(*Publisher)

// WithNotifier adds a notification channel
func WithNotifier(n interfaces.Notifier) PublishOption {
	return func(p *Publisher) {
		p.notifiers = append(p.notifiers, n)
	}
}

// WithClock overrides the report timestamp source. Used in tests.
func WithClock(now func() time.Time) PublishOption {
	return func(p *Publisher) {
		p.now = now
	}
}

// NewPublisher creates a Publisher writing to the given destinations
func NewPublisher(writers []interfaces.ReportWriter, opts ...PublishOption) *Publisher {
	p := &Publisher{
		writers: writers,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Publish writes the report to every destination and sends notifications.
// Destination failures are logged and do not affect each other; the report
// itself only ever contains successfully accepted updates.
func (p *Publisher) Publish(ctx context.Context, updates []*model.Update) *model.Report {
	logger := ctxlog.From(ctx)

	if len(updates) == 0 {
		logger.Info("No updates, report suppressed")
		return nil
	}

	report := &model.Report{
		RunID:       uuid.NewString(),
		GeneratedAt: p.now(),
		Updates:     updates,
	}

	for _, w := range p.writers {
		if err := w.Write(ctx, report); err != nil {
			logger.Error("Failed to write report", "error", err)
		}
	}

	for _, n := range p.notifiers {
		if err := n.Notify(ctx, report); err != nil {
			logger.Error("Failed to send notification", "error", err)
		}
	}

	return report
}

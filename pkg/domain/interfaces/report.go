package interfaces

import (
	"context"

	"github.com/m-mizutani/lookout/pkg/domain/model"
)

// ReportWriter renders a run's accepted updates into a dated document
type ReportWriter interface {
	Write(ctx context.Context, report *model.Report) error
}

// Notifier announces a published report to an external channel
type Notifier interface {
	Notify(ctx context.Context, report *model.Report) error
}

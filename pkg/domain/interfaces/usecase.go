package interfaces

import (
	"context"

	"github.com/m-mizutani/lookout/pkg/domain/model"
)

// WatchUseCase defines the release polling pipeline
type WatchUseCase interface {
	// Run performs one full polling cycle and returns the accepted updates
	// in enumeration order. It returns types.ErrRunInProgress when another
	// cycle is still in flight.
	Run(ctx context.Context) ([]*model.Update, error)
}

// Summarizer turns a release's changelog into a short human-readable summary.
// It never fails: summarization errors yield a fixed fallback text.
type Summarizer interface {
	Summarize(ctx context.Context, release *model.Release) string
}

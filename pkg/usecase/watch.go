package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/lookout/pkg/domain/interfaces"
	"github.com/m-mizutani/lookout/pkg/domain/model"
	"github.com/m-mizutani/lookout/pkg/domain/types"
	"github.com/m-mizutani/lookout/pkg/utils/async"
)

const defaultConcurrency = 4

type watchUseCase struct {
	lister     interfaces.RepoLister
	fetcher    interfaces.ReleaseFetcher
	state      interfaces.StateStore
	summarizer interfaces.Summarizer

	concurrency int
	running     sync.Mutex
}

// WatchOption is a functional option for the watch pipeline
type WatchOption func(*watchUseCase)

// WithConcurrency bounds how many repositories are processed in flight at
// once. The limit exists to respect upstream rate limits; 1 degenerates to
// a sequential loop.
func WithConcurrency(n int) WatchOption {
	return func(uc *watchUseCase) {
		if n > 0 {
			uc.concurrency = n
		}
	}
}

// NewWatch creates the release polling pipeline
func NewWatch(
	lister interfaces.RepoLister,
	fetcher interfaces.ReleaseFetcher,
	state interfaces.StateStore,
	summarizer interfaces.Summarizer,
	opts ...WatchOption,
) interfaces.WatchUseCase {
	uc := &watchUseCase{
		lister:      lister,
		fetcher:     fetcher,
		state:       state,
		summarizer:  summarizer,
		concurrency: defaultConcurrency,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Run performs one polling cycle: enumerate watched repositories, fetch each
// latest release, filter by novelty against the state store, summarize the
// novel ones, and return the accepted updates in enumeration order.
//
// Per-repository fetch and summarization failures are isolated and only
// skip that repository for this cycle. Enumeration failure and state-store
// failures abort the run: without the store, dedup correctness cannot be
// guaranteed.
func (uc *watchUseCase) Run(ctx context.Context) ([]*model.Update, error) {
	if !uc.running.TryLock() {
		return nil, types.ErrRunInProgress
	}
	defer uc.running.Unlock()

	logger := ctxlog.From(ctx)

	repos, err := uc.lister.ListWatchedRepos(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to enumerate watched repositories")
	}

	if len(repos) == 0 {
		logger.Info("No watched repositories, nothing to do")
		return nil, nil
	}

	logger.Info("Polling watched repositories",
		"count", len(repos),
		"concurrency", uc.concurrency,
	)

	// Result slots are index-addressed so the output keeps enumeration
	// order no matter which repository finishes first. Each repository is
	// touched by exactly one task, so state reads and writes for a given
	// key never race.
	results := make([]*model.Update, len(repos))

	errs := async.Parallel(ctx, len(repos), uc.concurrency, func(ctx context.Context, i int) error {
		update, err := uc.processRepo(ctx, repos[i])
		if err != nil {
			return err
		}
		results[i] = update
		return nil
	})

	var updates []*model.Update
	for _, u := range results {
		if u != nil {
			updates = append(updates, u)
		}
	}

	// Only state-store errors propagate out of processRepo. They fail the
	// run even when other repositories produced updates, so the failure is
	// surfaced rather than silently swallowed.
	if err := errors.Join(errs...); err != nil {
		return updates, goerr.Wrap(err, "state store failed during polling run")
	}

	logger.Info("Polling run complete",
		"repos", len(repos),
		"updates", len(updates),
	)

	return updates, nil
}

// processRepo handles a single repository. A nil update with nil error means
// the repository is skipped this cycle (no release, not novel, or a
// transient fetch failure). A non-nil error is a state-store failure.
func (uc *watchUseCase) processRepo(ctx context.Context, repo model.WatchedRepo) (*model.Update, error) {
	logger := ctxlog.From(ctx)

	release, err := uc.fetcher.GetLatestRelease(ctx, repo.Owner, repo.Name)
	if err != nil {
		if errors.Is(err, types.ErrNoRelease) {
			logger.Debug("No release published", "repo", repo.FullName)
			return nil, nil
		}
		// Transient failure: skip this cycle only, no state mutation, so
		// the release is re-evaluated on the next run.
		logger.Warn("Failed to fetch latest release, skipping this cycle",
			"repo", repo.FullName,
			"error", err,
		)
		return nil, nil
	}

	lastSeen, err := uc.state.GetLastSeen(ctx, repo.FullName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read last-seen state", goerr.V("repo", repo.FullName))
	}

	// Novel iff never seen, or strictly newer than the stored timestamp.
	// String comparison is valid because timestamps are fixed-width
	// RFC3339 UTC.
	if lastSeen != "" && release.PublishedAt <= lastSeen {
		logger.Debug("Release already reported",
			"repo", repo.FullName,
			"published_at", release.PublishedAt,
			"last_seen", lastSeen,
		)
		return nil, nil
	}

	logger.Info("New release found",
		"repo", repo.FullName,
		"tag", release.TagName,
		"published_at", release.PublishedAt,
	)

	// Summarize never fails; a degraded summary still gets reported and
	// recorded, keeping notification at-most-once.
	summary := uc.summarizer.Summarize(ctx, release)

	update := &model.Update{
		Release: release,
		Summary: summary,
	}

	if err := uc.state.PutLastSeen(ctx, repo.FullName, release.PublishedAt); err != nil {
		return nil, goerr.Wrap(err, "failed to record last-seen state",
			goerr.V("repo", repo.FullName),
			goerr.V("published_at", release.PublishedAt),
		)
	}

	return update, nil
}

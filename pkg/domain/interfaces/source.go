package interfaces

import (
	"context"

	"github.com/m-mizutani/lookout/pkg/domain/model"
)

// RepoLister enumerates the repositories being watched for releases.
// Implementations must preserve arrival order, must not return duplicates,
// and must fail the whole listing rather than return a partial result.
type RepoLister interface {
	ListWatchedRepos(ctx context.Context) ([]model.WatchedRepo, error)
}

// ReleaseFetcher retrieves the latest release metadata for one repository.
// A repository without any published release yields types.ErrNoRelease;
// every other error is a transient failure. No retries at this layer.
type ReleaseFetcher interface {
	GetLatestRelease(ctx context.Context, owner, repo string) (*model.Release, error)
}

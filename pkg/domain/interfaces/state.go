package interfaces

import "context"

// StateStore persists the last-seen release timestamp per repository.
// It is the sole owner of dedup state; values are canonical RFC3339 UTC
// strings so that lexicographic comparison equals chronological comparison.
type StateStore interface {
	// GetLastSeen returns the stored timestamp for the repository, or an
	// empty string when the repository has never been recorded.
	GetLastSeen(ctx context.Context, repo string) (string, error)

	// PutLastSeen upserts the stored timestamp: insert if absent, overwrite
	// if present. Entries are never deleted by normal operation.
	PutLastSeen(ctx context.Context, repo, publishedAt string) error

	Close() error
}

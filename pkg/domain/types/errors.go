package types

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrNoRelease indicates the repository has never published a release.
	// It is a normal outcome, not a failure.
	ErrNoRelease = goerr.New("repository has no published release")

	// ErrRunInProgress is returned when a new polling run is requested while
	// another run is still in flight. Runs must never overlap against the
	// same state store.
	ErrRunInProgress = goerr.New("polling run already in progress")
)

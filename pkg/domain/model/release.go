package model

import "time"

// WatchedRepo identifies one repository tracked for release notifications.
// The list is sourced fresh from the enumerator on every run.
type WatchedRepo struct {
	Owner    string // Repository owner
	Name     string // Repository name
	FullName string // "owner/name", the stable identifier
}

// Release represents one fetched release. Created per fetch, never mutated.
type Release struct {
	Repo        string // Owning repository's full name
	TagName     string // Version label, may be empty
	Name        string // Optional display name
	PublishedAt string // RFC3339 UTC; fixed-width, so string order == time order
	Body        string // Free-text changelog, may be empty
	HTMLURL     string // Permalink to the release
}

// FormatPublishedAt normalizes a publish timestamp to the canonical RFC3339
// UTC form used for last-seen comparison.
func FormatPublishedAt(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// PublishedTime parses the canonical timestamp back for display purposes
func (r *Release) PublishedTime() (time.Time, error) {
	return time.Parse(time.RFC3339, r.PublishedAt)
}

// Update pairs an accepted release with its generated summary. It lives only
// for the duration of one run and is consumed by the report emitter.
type Update struct {
	Release *Release
	Summary string
}

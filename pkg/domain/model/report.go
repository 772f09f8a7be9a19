package model

import (
	"fmt"
	"time"
)

// Report is the output of one polling run that found at least one update
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Updates     []*Update
}

// Filename returns the dated document name for this run
func (r *Report) Filename() string {
	return fmt.Sprintf("release-updates-%s.md", r.GeneratedAt.UTC().Format("2006-01-02"))
}

package report

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/lookout/pkg/domain/model"
)

// Render formats a run's accepted updates as a markdown document: a count,
// the generation timestamp, and one block per update.
func Render(r *model.Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Release updates (%d)\n\n", len(r.Updates)))
	sb.WriteString(fmt.Sprintf("Generated at %s\n\n", r.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")))

	for _, u := range r.Updates {
		rel := u.Release

		sb.WriteString(fmt.Sprintf("## [%s](https://github.com/%s) %s\n\n", rel.Repo, rel.Repo, rel.TagName))
		if rel.Name != "" {
			sb.WriteString(fmt.Sprintf("**%s**\n\n", rel.Name))
		}

		published := rel.PublishedAt
		if ts, err := rel.PublishedTime(); err == nil {
			published = ts.Format("2006-01-02 15:04 UTC")
		}
		sb.WriteString(fmt.Sprintf("Published: %s / [Release page](%s)\n\n", published, rel.HTMLURL))

		sb.WriteString(u.Summary)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

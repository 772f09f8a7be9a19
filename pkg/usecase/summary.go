package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"text/template"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/m-mizutani/lookout/pkg/domain/interfaces"
	"github.com/m-mizutani/lookout/pkg/domain/model"
)

//go:embed prompts/release_summary_system.md
var summarySystemPrompt string

//go:embed prompts/release_summary_user.md
var summaryUserTemplate string

// FallbackSummary is substituted when summary generation fails. The release
// is still reported; only the summary text is degraded.
const FallbackSummary = "- (summary unavailable: the release notes could not be summarized)"

// maxChangelogLength bounds the changelog text sent to the LLM
const maxChangelogLength = 8000

type summarizer struct {
	llmClient gollem.LLMClient
	language  string
	userTmpl  *template.Template
}

// NewSummarizer creates a Summarizer that asks the LLM for a 3-5 bullet
// summary of a release changelog, written in the given language.
func NewSummarizer(llmClient gollem.LLMClient, language string) (interfaces.Summarizer, error) {
	tmpl, err := template.New("user").Parse(summaryUserTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse summary prompt template")
	}

	return &summarizer{
		llmClient: llmClient,
		language:  language,
		userTmpl:  tmpl,
	}, nil
}

// Summarize never fails: any error on the LLM path is logged and replaced by
// FallbackSummary so a flaky summarization service cannot block a report.
func (s *summarizer) Summarize(ctx context.Context, release *model.Release) string {
	logger := ctxlog.From(ctx)

	var buf bytes.Buffer
	if err := s.userTmpl.Execute(&buf, map[string]string{
		"Language": s.language,
		"Repo":     release.Repo,
		"Tag":      release.TagName,
		"Name":     release.Name,
		"Body":     truncateText(release.Body, maxChangelogLength),
	}); err != nil {
		logger.Warn("Failed to build summary prompt", "error", err, "repo", release.Repo)
		return FallbackSummary
	}

	session, err := s.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(summarySystemPrompt),
	)
	if err != nil {
		logger.Warn("Failed to create LLM session", "error", err, "repo", release.Repo)
		return FallbackSummary
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buf.String()))
	if err != nil {
		logger.Warn("Failed to generate summary", "error", err, "repo", release.Repo)
		return FallbackSummary
	}

	if len(resp.Texts) == 0 || resp.Texts[0] == "" {
		logger.Warn("Empty summary response", "repo", release.Repo)
		return FallbackSummary
	}

	return resp.Texts[0]
}

// truncateText caps text at maxLen runes with a visible marker
func truncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "...(truncated)"
}

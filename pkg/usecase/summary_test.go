package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/mock"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/lookout/pkg/domain/model"
	"github.com/m-mizutani/lookout/pkg/infra/memory"
	"github.com/m-mizutani/lookout/pkg/usecase"
)

func newCapturingLLM(response string, capturedPrompt *string) *mock.LLMClientMock {
	return &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, opts ...gollem.SessionOption) (gollem.Session, error) {
			return &mock.SessionMock{
				GenerateFunc: func(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
					for _, in := range input {
						if text, ok := in.(gollem.Text); ok {
							*capturedPrompt = string(text)
						}
					}
					return &gollem.Response{
						Texts: []string{response},
					}, nil
				},
			}, nil
		},
	}
}

func TestSummarizer_Summarize(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the LLM response", func(t *testing.T) {
		var prompt string
		s, err := usecase.NewSummarizer(newCapturingLLM("- did a thing\n- fixed a bug", &prompt), "English")
		gt.NoError(t, err)

		out := s.Summarize(ctx, release("org/a", "2024-01-01T00:00:00Z"))
		gt.Equal(t, out, "- did a thing\n- fixed a bug")

		// The prompt carries the release metadata and the target language
		gt.String(t, prompt).Contains("org/a")
		gt.String(t, prompt).Contains("v1.0.0")
		gt.String(t, prompt).Contains("English")
		gt.String(t, prompt).Contains("changelog")
	})

	t.Run("long changelog is truncated", func(t *testing.T) {
		var prompt string
		s, err := usecase.NewSummarizer(newCapturingLLM("- ok", &prompt), "English")
		gt.NoError(t, err)

		rel := release("org/a", "2024-01-01T00:00:00Z")
		rel.Body = strings.Repeat("a very long changelog line. ", 1000) // ~28,000 chars

		s.Summarize(ctx, rel)

		gt.True(t, strings.Contains(prompt, "...(truncated)"))
		gt.False(t, strings.Contains(prompt, rel.Body))
	})

	t.Run("short changelog is not truncated", func(t *testing.T) {
		var prompt string
		s, err := usecase.NewSummarizer(newCapturingLLM("- ok", &prompt), "English")
		gt.NoError(t, err)

		s.Summarize(ctx, release("org/a", "2024-01-01T00:00:00Z"))

		gt.False(t, strings.Contains(prompt, "...(truncated)"))
	})

	t.Run("generation error yields fallback", func(t *testing.T) {
		llm := &mock.LLMClientMock{
			NewSessionFunc: func(ctx context.Context, opts ...gollem.SessionOption) (gollem.Session, error) {
				return &mock.SessionMock{
					GenerateFunc: func(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
						return nil, errors.New("model overloaded")
					},
				}, nil
			},
		}

		s, err := usecase.NewSummarizer(llm, "English")
		gt.NoError(t, err)

		out := s.Summarize(ctx, release("org/a", "2024-01-01T00:00:00Z"))
		gt.Equal(t, out, usecase.FallbackSummary)
	})

	t.Run("empty response yields fallback", func(t *testing.T) {
		llm := &mock.LLMClientMock{
			NewSessionFunc: func(ctx context.Context, opts ...gollem.SessionOption) (gollem.Session, error) {
				return &mock.SessionMock{
					GenerateFunc: func(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
						return &gollem.Response{}, nil
					},
				}, nil
			},
		}

		s, err := usecase.NewSummarizer(llm, "English")
		gt.NoError(t, err)

		out := s.Summarize(ctx, release("org/a", "2024-01-01T00:00:00Z"))
		gt.Equal(t, out, usecase.FallbackSummary)
	})

	t.Run("session error yields fallback", func(t *testing.T) {
		llm := &mock.LLMClientMock{
			NewSessionFunc: func(ctx context.Context, opts ...gollem.SessionOption) (gollem.Session, error) {
				return nil, errors.New("no credentials")
			},
		}

		s, err := usecase.NewSummarizer(llm, "English")
		gt.NoError(t, err)

		out := s.Summarize(ctx, release("org/a", "2024-01-01T00:00:00Z"))
		gt.Equal(t, out, usecase.FallbackSummary)
	})
}

func TestWatch_SummarizationFailureStillRecords(t *testing.T) {
	ctx := t.Context()
	state := memory.New()

	llm := &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, opts ...gollem.SessionOption) (gollem.Session, error) {
			return nil, errors.New("summarization down")
		},
	}
	summarizer, err := usecase.NewSummarizer(llm, "English")
	gt.NoError(t, err)

	fetcher := &mockFetcher{
		fetchFunc: func(ctx context.Context, owner, repo string) (*model.Release, error) {
			return release(owner+"/"+repo, "2024-01-01T00:00:00Z"), nil
		},
	}

	uc := usecase.NewWatch(staticLister("org/a"), fetcher, state, summarizer)

	updates, err := uc.Run(ctx)
	gt.NoError(t, err)

	// The release is still reported with the fallback text and still
	// recorded as seen
	gt.Equal(t, len(updates), 1)
	gt.Equal(t, updates[0].Summary, usecase.FallbackSummary)

	last, err := state.GetLastSeen(ctx, "org/a")
	gt.NoError(t, err)
	gt.Equal(t, last, "2024-01-01T00:00:00Z")
}

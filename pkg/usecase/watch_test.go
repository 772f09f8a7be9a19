package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/lookout/pkg/domain/interfaces"
	"github.com/m-mizutani/lookout/pkg/domain/model"
	"github.com/m-mizutani/lookout/pkg/domain/types"
	"github.com/m-mizutani/lookout/pkg/infra/memory"
	"github.com/m-mizutani/lookout/pkg/usecase"
)

// mockLister is a mock implementation of RepoLister
type mockLister struct {
	listFunc func(ctx context.Context) ([]model.WatchedRepo, error)
}

func (m *mockLister) ListWatchedRepos(ctx context.Context) ([]model.WatchedRepo, error) {
	return m.listFunc(ctx)
}

// mockFetcher is a mock implementation of ReleaseFetcher
type mockFetcher struct {
	mu         sync.Mutex
	fetchFunc  func(ctx context.Context, owner, repo string) (*model.Release, error)
	fetchCalls []string
}

func (m *mockFetcher) GetLatestRelease(ctx context.Context, owner, repo string) (*model.Release, error) {
	m.mu.Lock()
	m.fetchCalls = append(m.fetchCalls, owner+"/"+repo)
	m.mu.Unlock()
	return m.fetchFunc(ctx, owner, repo)
}

// mockSummarizer returns a canned summary per repository
type mockSummarizer struct{}

func (m *mockSummarizer) Summarize(ctx context.Context, release *model.Release) string {
	return "- summary for " + release.Repo
}

func staticLister(repos ...string) *mockLister {
	return &mockLister{
		listFunc: func(ctx context.Context) ([]model.WatchedRepo, error) {
			var out []model.WatchedRepo
			for _, full := range repos {
				for i := 0; i < len(full); i++ {
					if full[i] == '/' {
						out = append(out, model.WatchedRepo{
							Owner:    full[:i],
							Name:     full[i+1:],
							FullName: full,
						})
						break
					}
				}
			}
			return out, nil
		},
	}
}

func release(repo, publishedAt string) *model.Release {
	return &model.Release{
		Repo:        repo,
		TagName:     "v1.0.0",
		Name:        "Release 1.0.0",
		PublishedAt: publishedAt,
		Body:        "changelog",
		HTMLURL:     "https://github.com/" + repo + "/releases/tag/v1.0.0",
	}
}

func TestWatch_FirstSeenRelease(t *testing.T) {
	ctx := t.Context()
	state := memory.New()

	// org/a has a release, org/b has none
	fetcher := &mockFetcher{
		fetchFunc: func(ctx context.Context, owner, repo string) (*model.Release, error) {
			if owner+"/"+repo == "org/a" {
				return release("org/a", "2024-01-01T00:00:00Z"), nil
			}
			return nil, types.ErrNoRelease
		},
	}

	uc := usecase.NewWatch(staticLister("org/a", "org/b"), fetcher, state, &mockSummarizer{})

	updates, err := uc.Run(ctx)
	gt.NoError(t, err)

	gt.Equal(t, len(updates), 1)
	gt.Equal(t, updates[0].Release.Repo, "org/a")
	gt.Equal(t, updates[0].Summary, "- summary for org/a")

	last, err := state.GetLastSeen(ctx, "org/a")
	gt.NoError(t, err)
	gt.Equal(t, last, "2024-01-01T00:00:00Z")

	// No entry recorded for the repository without releases
	last, err = state.GetLastSeen(ctx, "org/b")
	gt.NoError(t, err)
	gt.Equal(t, last, "")
	gt.Equal(t, state.Len(), 1)
}

func TestWatch_Idempotence(t *testing.T) {
	ctx := t.Context()
	state := memory.New()

	fetcher := &mockFetcher{
		fetchFunc: func(ctx context.Context, owner, repo string) (*model.Release, error) {
			return release(owner+"/"+repo, "2024-01-01T00:00:00Z"), nil
		},
	}

	uc := usecase.NewWatch(staticLister("org/a"), fetcher, state, &mockSummarizer{})

	updates, err := uc.Run(ctx)
	gt.NoError(t, err)
	gt.Equal(t, len(updates), 1)

	// Same upstream release: the second run reports nothing and the state
	// is unchanged
	updates, err = uc.Run(ctx)
	gt.NoError(t, err)
	gt.Equal(t, len(updates), 0)

	last, err := state.GetLastSeen(ctx, "org/a")
	gt.NoError(t, err)
	gt.Equal(t, last, "2024-01-01T00:00:00Z")
}

func TestWatch_NoveltyOrdering(t *testing.T) {
	ctx := t.Context()
	state := memory.New()
	gt.NoError(t, state.PutLastSeen(ctx, "org/a", "2024-01-01T00:00:00Z"))

	published := "2024-01-01T00:00:00Z"
	fetcher := &mockFetcher{
		fetchFunc: func(ctx context.Context, owner, repo string) (*model.Release, error) {
			return release("org/a", published), nil
		},
	}

	uc := usecase.NewWatch(staticLister("org/a"), fetcher, state, &mockSummarizer{})

	t.Run("equal timestamp is not novel", func(t *testing.T) {
		updates, err := uc.Run(ctx)
		gt.NoError(t, err)
		gt.Equal(t, len(updates), 0)
	})

	t.Run("older timestamp is not novel", func(t *testing.T) {
		published = "2023-12-31T23:59:59Z"
		updates, err := uc.Run(ctx)
		gt.NoError(t, err)
		gt.Equal(t, len(updates), 0)

		last, err := state.GetLastSeen(ctx, "org/a")
		gt.NoError(t, err)
		gt.Equal(t, last, "2024-01-01T00:00:00Z")
	})

	t.Run("strictly newer timestamp is novel", func(t *testing.T) {
		published = "2024-01-02T00:00:00Z"
		updates, err := uc.Run(ctx)
		gt.NoError(t, err)
		gt.Equal(t, len(updates), 1)

		last, err := state.GetLastSeen(ctx, "org/a")
		gt.NoError(t, err)
		gt.Equal(t, last, "2024-01-02T00:00:00Z")
	})
}

func TestWatch_PerItemIsolation(t *testing.T) {
	ctx := t.Context()
	state := memory.New()

	// B fails transiently; A and C around it must still be processed
	fetcher := &mockFetcher{
		fetchFunc: func(ctx context.Context, owner, repo string) (*model.Release, error) {
			if owner+"/"+repo == "org/b" {
				return nil, errors.New("rate limited")
			}
			return release(owner+"/"+repo, "2024-01-01T00:00:00Z"), nil
		},
	}

	uc := usecase.NewWatch(staticLister("org/a", "org/b", "org/c"), fetcher, state, &mockSummarizer{})

	updates, err := uc.Run(ctx)
	gt.NoError(t, err)

	gt.Equal(t, len(updates), 2)
	gt.Equal(t, updates[0].Release.Repo, "org/a")
	gt.Equal(t, updates[1].Release.Repo, "org/c")

	// The failed repository left no state behind, so the next run
	// re-evaluates it
	last, err := state.GetLastSeen(ctx, "org/b")
	gt.NoError(t, err)
	gt.Equal(t, last, "")
}

func TestWatch_EnumerationFailure(t *testing.T) {
	ctx := t.Context()

	lister := &mockLister{
		listFunc: func(ctx context.Context) ([]model.WatchedRepo, error) {
			return nil, errors.New("listing unavailable")
		},
	}
	fetcher := &mockFetcher{
		fetchFunc: func(ctx context.Context, owner, repo string) (*model.Release, error) {
			t.Fatal("fetch must not be called when enumeration fails")
			return nil, nil
		},
	}

	uc := usecase.NewWatch(lister, fetcher, memory.New(), &mockSummarizer{})

	updates, err := uc.Run(ctx)
	gt.Error(t, err)
	gt.Equal(t, len(updates), 0)
}

func TestWatch_EmptyEnumeration(t *testing.T) {
	ctx := t.Context()

	uc := usecase.NewWatch(staticLister(), &mockFetcher{
		fetchFunc: func(ctx context.Context, owner, repo string) (*model.Release, error) {
			return nil, types.ErrNoRelease
		},
	}, memory.New(), &mockSummarizer{})

	updates, err := uc.Run(ctx)
	gt.NoError(t, err)
	gt.Equal(t, len(updates), 0)
}

func TestWatch_OrderFollowsEnumeration(t *testing.T) {
	ctx := t.Context()
	state := memory.New()

	repos := []string{"org/a", "org/b", "org/c", "org/d", "org/e"}

	fetcher := &mockFetcher{
		fetchFunc: func(ctx context.Context, owner, repo string) (*model.Release, error) {
			return release(owner+"/"+repo, "2024-01-01T00:00:00Z"), nil
		},
	}

	uc := usecase.NewWatch(staticLister(repos...), fetcher, state, &mockSummarizer{},
		usecase.WithConcurrency(3),
	)

	updates, err := uc.Run(ctx)
	gt.NoError(t, err)

	gt.Equal(t, len(updates), len(repos))
	for i, full := range repos {
		gt.Equal(t, updates[i].Release.Repo, full)
	}
}

func TestWatch_StateStoreFailure(t *testing.T) {
	ctx := t.Context()

	fetcher := &mockFetcher{
		fetchFunc: func(ctx context.Context, owner, repo string) (*model.Release, error) {
			return release(owner+"/"+repo, "2024-01-01T00:00:00Z"), nil
		},
	}

	uc := usecase.NewWatch(staticLister("org/a"), fetcher, &failingStore{}, &mockSummarizer{})

	// Dedup correctness cannot be guaranteed without the store, so the run
	// surfaces the failure instead of swallowing it
	_, err := uc.Run(ctx)
	gt.Error(t, err)
}

// failingStore rejects every operation
type failingStore struct{}

func (s *failingStore) GetLastSeen(ctx context.Context, repo string) (string, error) {
	return "", errors.New("store unreachable")
}

func (s *failingStore) PutLastSeen(ctx context.Context, repo, publishedAt string) error {
	return errors.New("store unreachable")
}

func (s *failingStore) Close() error { return nil }

func TestWatch_RejectsOverlappingRuns(t *testing.T) {
	ctx := t.Context()
	state := memory.New()

	started := make(chan struct{})
	release2 := make(chan struct{})
	var once sync.Once

	fetcher := &mockFetcher{
		fetchFunc: func(ctx context.Context, owner, repo string) (*model.Release, error) {
			once.Do(func() { close(started) })
			<-release2
			return nil, types.ErrNoRelease
		},
	}

	uc := usecase.NewWatch(staticLister("org/a"), fetcher, state, &mockSummarizer{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := uc.Run(ctx)
		if err != nil {
			t.Error("first run failed:", err)
		}
	}()

	<-started

	// A second run while the first is in flight must be rejected, never
	// interleaved
	_, err := uc.Run(ctx)
	gt.True(t, errors.Is(err, types.ErrRunInProgress))

	close(release2)
	<-done

	// Once the first run finished, running again works
	_, err = uc.Run(ctx)
	gt.NoError(t, err)
}

var _ interfaces.StateStore = (*failingStore)(nil)

package github

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/lookout/pkg/domain/model"
	"github.com/m-mizutani/lookout/pkg/domain/types"
)

const defaultPageSize = 50

type Client struct {
	githubClient *github.Client
	pageSize     int
}

// Option is a functional option for client configuration
type Option func(*Client)

// WithPageSize sets the page size used when enumerating watched repositories
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithBaseURL points the client at a different API endpoint. Used for
// GitHub Enterprise and for tests.
func WithBaseURL(rawURL string) Option {
	return func(c *Client) {
		if u, err := url.Parse(rawURL); err == nil {
			c.githubClient.BaseURL = u
		}
	}
}

// NewClient creates a GitHub API client authenticated with a personal access
// token. It serves both as the watched-repository enumerator and the
// latest-release fetcher.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		githubClient: github.NewClient(nil).WithAuthToken(token),
		pageSize:     defaultPageSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ListWatchedRepos pages through the authenticated user's watched
// repositories until a page comes back empty. Order is preserved and
// duplicates across pages are dropped. Any page failure aborts the whole
// enumeration; a partial list is never returned.
func (c *Client) ListWatchedRepos(ctx context.Context) ([]model.WatchedRepo, error) {
	var repos []model.WatchedRepo
	seen := make(map[string]struct{})

	for page := 1; ; page++ {
		list, _, err := c.githubClient.Activity.ListWatched(ctx, "", &github.ListOptions{
			Page:    page,
			PerPage: c.pageSize,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list watched repositories", goerr.V("page", page))
		}

		if len(list) == 0 {
			break
		}

		for _, r := range list {
			full := r.GetFullName()
			if _, ok := seen[full]; ok {
				continue
			}
			seen[full] = struct{}{}

			repos = append(repos, model.WatchedRepo{
				Owner:    r.GetOwner().GetLogin(),
				Name:     r.GetName(),
				FullName: full,
			})
		}
	}

	return repos, nil
}

// GetLatestRelease fetches the most recent published release of a repository.
// A 404 means the repository has never published a release and maps to
// types.ErrNoRelease; any other failure is transient and left to the caller.
func (c *Client) GetLatestRelease(ctx context.Context, owner, repo string) (*model.Release, error) {
	rel, resp, err := c.githubClient.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, types.ErrNoRelease
		}
		return nil, goerr.Wrap(err, "failed to fetch latest release",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
		)
	}

	return &model.Release{
		Repo:        owner + "/" + repo,
		TagName:     rel.GetTagName(),
		Name:        rel.GetName(),
		PublishedAt: model.FormatPublishedAt(rel.GetPublishedAt().Time),
		Body:        rel.GetBody(),
		HTMLURL:     rel.GetHTMLURL(),
	}, nil
}

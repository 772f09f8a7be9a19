package watchfile

import (
	"context"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/m-mizutani/lookout/pkg/domain/model"
)

// Source enumerates watched repositories from a static TOML file instead of
// the GitHub watched-repositories API:
//
//	repos = [
//	  "golang/go",
//	  "kubernetes/kubernetes",
//	]
type Source struct {
	path string
}

type watchlist struct {
	Repos []string `toml:"repos"`
}

// New creates a file-backed enumerator
func New(path string) *Source {
	return &Source{path: path}
}

// ListWatchedRepos reads and validates the watchlist. File order is
// preserved and duplicates are dropped, matching the API enumerator's
// contract.
func (s *Source) ListWatchedRepos(ctx context.Context) ([]model.WatchedRepo, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read watchlist", goerr.V("path", s.path))
	}

	var list watchlist
	if err := toml.Unmarshal(data, &list); err != nil {
		return nil, goerr.Wrap(err, "failed to parse watchlist", goerr.V("path", s.path))
	}

	var repos []model.WatchedRepo
	seen := make(map[string]struct{})

	for _, entry := range list.Repos {
		owner, name, ok := strings.Cut(entry, "/")
		if !ok || owner == "" || name == "" {
			return nil, goerr.New("watchlist entry must be owner/name",
				goerr.V("entry", entry),
				goerr.V("path", s.path),
			)
		}

		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}

		repos = append(repos, model.WatchedRepo{
			Owner:    owner,
			Name:     name,
			FullName: entry,
		})
	}

	return repos, nil
}

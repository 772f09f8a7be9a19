package firestore

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultCollection = "last_seen"

// Store keeps last-seen entries in a Firestore collection, one document per
// repository. Firestore Set gives the required upsert semantics and a
// single-document write is atomic.
type Store struct {
	client     *firestore.Client
	collection string
}

// Option is a functional option for Store configuration
type Option func(*Store)

// WithCollection overrides the collection name
func WithCollection(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.collection = name
		}
	}
}

// New creates a Firestore-backed state store
func New(ctx context.Context, projectID string, opts ...Option) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Firestore client", goerr.V("project", projectID))
	}

	s := &Store{
		client:     client,
		collection: defaultCollection,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// docID converts a repository full name to a valid document ID. Firestore
// document IDs must not contain "/".
func docID(repo string) string {
	return strings.ReplaceAll(repo, "/", "~")
}

func (s *Store) GetLastSeen(ctx context.Context, repo string) (string, error) {
	doc, err := s.client.Collection(s.collection).Doc(docID(repo)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", nil
		}
		return "", goerr.Wrap(err, "failed to get last-seen entry", goerr.V("repo", repo))
	}

	last, _ := doc.Data()["last_published_at"].(string)
	return last, nil
}

func (s *Store) PutLastSeen(ctx context.Context, repo, publishedAt string) error {
	_, err := s.client.Collection(s.collection).Doc(docID(repo)).Set(ctx, map[string]any{
		"identifier":        repo,
		"last_published_at": publishedAt,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to upsert last-seen entry", goerr.V("repo", repo))
	}

	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

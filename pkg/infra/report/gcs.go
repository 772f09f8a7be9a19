package report

import (
	"context"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/lookout/pkg/domain/model"
)

// GCSWriter uploads the rendered report to a Cloud Storage bucket
type GCSWriter struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSWriter creates a bucket-backed report writer. prefix may be empty.
func NewGCSWriter(ctx context.Context, bucket, prefix string) (*GCSWriter, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}

	return &GCSWriter{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (w *GCSWriter) Write(ctx context.Context, report *model.Report) error {
	name := path.Join(w.prefix, report.Filename())

	obj := w.client.Bucket(w.bucket).Object(name).NewWriter(ctx)
	obj.ContentType = "text/markdown"

	if _, err := obj.Write([]byte(Render(report))); err != nil {
		_ = obj.Close()
		return goerr.Wrap(err, "failed to upload report",
			goerr.V("bucket", w.bucket),
			goerr.V("object", name),
		)
	}
	if err := obj.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize report upload",
			goerr.V("bucket", w.bucket),
			goerr.V("object", name),
		)
	}

	ctxlog.From(ctx).Info("Report uploaded",
		"bucket", w.bucket,
		"object", name,
		"updates", len(report.Updates),
	)

	return nil
}

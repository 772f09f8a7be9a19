package report

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/lookout/pkg/domain/model"
)

// LocalWriter writes one markdown document per run into a local directory
type LocalWriter struct {
	dir string
}

// NewLocalWriter creates a writer rooted at dir. The directory is created
// lazily on first write so a run with zero updates leaves no trace.
func NewLocalWriter(dir string) *LocalWriter {
	return &LocalWriter{dir: dir}
}

func (w *LocalWriter) Write(ctx context.Context, report *model.Report) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return goerr.Wrap(err, "failed to create report directory", goerr.V("dir", w.dir))
	}

	path := filepath.Join(w.dir, report.Filename())
	if err := os.WriteFile(path, []byte(Render(report)), 0644); err != nil {
		return goerr.Wrap(err, "failed to write report", goerr.V("path", path))
	}

	ctxlog.From(ctx).Info("Report written",
		"path", path,
		"updates", len(report.Updates),
	)

	return nil
}

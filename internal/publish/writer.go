// Package publish performs idempotent, atomic writes into the output tree.
package publish

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/nortreport/internal/foundation/errors"
)

// Result reports what WriteIfChanged did.
type Result string

const (
	ResultWritten   Result = "written"
	ResultUnchanged Result = "unchanged"
)

// Stats counts outcomes across a Writer's lifetime.
type Stats struct {
	Written   int
	Unchanged int
}

// Writer writes artifacts below a root directory. It takes no locks: one build
// process per output tree is assumed.
type Writer struct {
	root  string
	perm  fs.FileMode
	stats Stats
}

// NewWriter returns a Writer rooted at root.
func NewWriter(root string) *Writer {
	return &Writer{root: root, perm: 0o644}
}

// Stats returns the counts so far.
func (w *Writer) Stats() Stats { return w.stats }

// Path resolves a slash-separated artifact path below the root.
func (w *Writer) Path(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(rel))
}

// WriteIfChanged writes data to rel unless the file already holds identical bytes.
// New content goes to a temporary sibling that is renamed over the destination,
// so readers never observe a partial file. Parent directories are created as needed.
func (w *Writer) WriteIfChanged(rel string, data []byte) (Result, error) {
	path := w.Path(rel)

	existing, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(existing, data):
		w.stats.Unchanged++
		return ResultUnchanged, nil
	case err != nil && !stderrors.Is(err, fs.ErrNotExist):
		return "", errors.FileSystemError("read existing artifact").WithCause(err).
			WithContext("path", path).Build()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.FileSystemError("create artifact directory").WithCause(err).
			WithContext("path", path).Build()
	}

	tmp := path + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, data, w.perm); err != nil {
		_ = os.Remove(tmp)
		return "", errors.FileSystemError("write temporary artifact").WithCause(err).
			WithContext("path", tmp).Build()
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", errors.FileSystemError("atomic rename artifact").WithCause(err).
			WithContext("path", path).Build()
	}
	w.stats.Written++
	return ResultWritten, nil
}

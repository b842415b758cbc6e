// Package output writes generated units to disk and compares them with what
// is already there.
package output

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/teranos/uistate/codegen"
	"github.com/teranos/uistate/errors"
	"github.com/teranos/uistate/logger"
)

// FileMode is the permission of generated files.
const FileMode = 0o644

// Path returns where u is written. Units with a relative directory are
// placed below root.
func Path(root string, u *codegen.Unit) string {
	if filepath.IsAbs(u.Dir) {
		return u.Path()
	}
	return filepath.Join(root, u.Path())
}

// Writer writes units below a root directory.
type Writer struct {
	root string
	log  *zap.SugaredLogger

	// BeforeWrite, when set, is called with each path about to be
	// replaced.
	BeforeWrite func(path string)
}

// NewWriter creates a writer rooted at root. A nil log discards output.
func NewWriter(root string, log *zap.SugaredLogger) *Writer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Writer{root: root, log: log}
}

// Write replaces the file of every unit and returns the paths whose content
// changed. Files that already hold the unit's content are not touched.
func (w *Writer) Write(ctx context.Context, units []*codegen.Unit) ([]string, error) {
	var written []string
	for _, u := range units {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		path := Path(w.root, u)
		if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, []byte(u.Content)) {
			w.log.Debugw("Unchanged", logger.FieldFile, path)
			continue
		}

		if w.BeforeWrite != nil {
			w.BeforeWrite(path)
		}
		if err := writeFile(path, []byte(u.Content)); err != nil {
			return written, errors.Wrapf(err, "write extensions for %s", u.Root.Qualified)
		}
		w.log.Infow("Wrote extensions",
			logger.FieldRoot, u.Root.Qualified,
			logger.FieldFile, path)
		written = append(written, path)
	}
	return written, nil
}

// Emit writes units and discards the list of written paths. It matches
// processor.EmitFunc.
func (w *Writer) Emit(ctx context.Context, units []*codegen.Unit) error {
	_, err := w.Write(ctx, units)
	return err
}

// writeFile replaces path atomically: readers see either the old or the new
// content, never a partial file.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", tmpName)
	}
	if err := os.Chmod(tmpName, FileMode); err != nil {
		return errors.Wrapf(err, "failed to chmod %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "failed to rename %s to %s", tmpName, path)
	}
	return nil
}

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/port"
)

// Local is a filesystem-backed document store. Stored paths are relative to
// the root so records stay valid if the root moves.
type Local struct {
	root   string
	logger *zap.Logger
}

// NewLocal creates the storage root if needed.
func NewLocal(root string, logger *zap.Logger) (*Local, error) {
	if root == "" {
		return nil, fmt.Errorf("storage: root directory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Local{root: root, logger: logger}, nil
}

// Store writes the document under targetPath with a random filename keeping
// the original extension.
func (l *Local) Store(_ context.Context, r io.Reader, targetPath, originalName string) (port.StoredDocument, error) {
	var doc port.StoredDocument

	cleanDir := filepath.Clean(targetPath)
	if strings.HasPrefix(cleanDir, "..") || filepath.IsAbs(cleanDir) {
		return doc, fmt.Errorf("storage: invalid target path %q", targetPath)
	}

	dir := filepath.Join(l.root, cleanDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return doc, fmt.Errorf("create document directory: %w", err)
	}

	name := uuid.NewString() + filepath.Ext(originalName)
	full := filepath.Join(dir, name)

	f, err := os.Create(full)
	if err != nil {
		return doc, fmt.Errorf("create document file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return doc, fmt.Errorf("write document file: %w", err)
	}

	doc.Path = filepath.Join(cleanDir, name)
	doc.Name = originalName
	l.logger.Debug("document stored", zap.String("path", doc.Path))
	return doc, nil
}

// Delete removes a stored document. A missing file is not an error.
func (l *Local) Delete(_ context.Context, doc port.StoredDocument) error {
	full := filepath.Join(l.root, filepath.Clean(doc.Path))
	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("delete document file: %w", err)
	}
	return nil
}

// Open returns the document contents for download.
func (l *Local) Open(_ context.Context, doc port.StoredDocument) (io.ReadCloser, error) {
	full := filepath.Join(l.root, filepath.Clean(doc.Path))
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("open document file: %w", err)
	}
	return f, nil
}

var _ port.DocumentStore = (*Local)(nil)

package port

import (
	"context"
	"io"
)

// StoredDocument references one uploaded file owned by a workflow entity.
type StoredDocument struct {
	Path string
	Name string
}

// DocumentStore persists uploaded documents. One file per reference field;
// replacement deletes the prior file.
type DocumentStore interface {
	Store(ctx context.Context, r io.Reader, targetPath, originalName string) (StoredDocument, error)
	Delete(ctx context.Context, doc StoredDocument) error
	Open(ctx context.Context, doc StoredDocument) (io.ReadCloser, error)
}

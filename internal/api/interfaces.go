// interfaces.go - What the handlers need from the relay layer
package api

import (
	"context"
	"io"

	"github.com/orsaadi/FileSenderBackhend/internal/audit"
	"github.com/orsaadi/FileSenderBackhend/internal/models"
	"github.com/orsaadi/FileSenderBackhend/internal/transfer"
)

// Relay is implemented by *transfer.Manager.
type Relay interface {
	NewSession(ctx context.Context) *models.Session
	Exists(code string) bool
	Join(ctx context.Context, code string) error
	Status(code string) (models.SessionStatus, error)
	Upload(ctx context.Context, code, fileName string, r io.Reader) (*models.Blob, error)
	OpenDownload(ctx context.Context, code string) (*transfer.Download, error)
	CompleteDownload(ctx context.Context, d *transfer.Download)
	SessionCount() int
	Stats(ctx context.Context) (*audit.Summary, error)
}

var _ Relay = (*transfer.Manager)(nil)

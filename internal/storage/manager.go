package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orsaadi/FileSenderBackhend/internal/models"
)

// ErrBlobNotFound is returned when a blob is not present in the store.
var ErrBlobNotFound = errors.New("blob not found")

// Store defines the interface for blob storage.
type Store interface {
	Save(ctx context.Context, originalName string, r io.Reader) (*models.Blob, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	List(ctx context.Context) ([]*models.Blob, error)
}

var (
	extPattern  = regexp.MustCompile(`^\.[A-Za-z0-9_-]{1,16}$`)
	namePattern = regexp.MustCompile(`^[0-9]+-[0-9a-f]{8}(\.[A-Za-z0-9_-]{1,16})?$`)
)

// Extension returns the extension of name that is kept on the stored blob,
// or "" when the name has none or it does not look like a plain extension.
func Extension(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := filepath.Ext(base)
	if ext == base || !extPattern.MatchString(ext) {
		return ""
	}
	return ext
}

// BlobName generates a unique, time-ordered blob name that keeps the original extension.
func BlobName(originalName string, now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + uuid.NewString()[:8] + Extension(originalName)
}

// IsBlobName reports whether name has the shape BlobName produces. Anything
// else sharing the directory or bucket is not ours to list or delete.
func IsBlobName(name string) bool {
	return namePattern.MatchString(name)
}

// ContentType guesses a media type from the blob name.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// LocalStore implements Store using the local filesystem.
type LocalStore struct {
	uploadDir string
}

// NewLocalStore creates a new LocalStore.
func NewLocalStore(uploadDir string) (*LocalStore, error) {
	abs, err := filepath.Abs(uploadDir)
	if err != nil {
		return nil, fmt.Errorf("resolving upload directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	return &LocalStore{uploadDir: abs}, nil
}

// Dir returns the absolute directory blobs are written to.
func (s *LocalStore) Dir() string {
	return s.uploadDir
}

// Save writes r to a new blob named after originalName's extension.
func (s *LocalStore) Save(ctx context.Context, originalName string, r io.Reader) (*models.Blob, error) {
	now := time.Now()
	name := BlobName(originalName, now)
	path := filepath.Join(s.uploadDir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}

	size, err := io.Copy(f, contextReader{ctx: ctx, r: r})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}

	return &models.Blob{
		Name:         name,
		Path:         path,
		OriginalName: originalName,
		ContentType:  ContentType(name),
		Size:         size,
		StoredAt:     now,
	}, nil
}

// Open returns a reader over the blob at path.
func (s *LocalStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := s.contains(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, filepath.Base(path))
		}
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return f, nil
}

// Delete removes the blob at path. A blob that is already gone is not an error.
func (s *LocalStore) Delete(ctx context.Context, path string) error {
	if err := s.contains(path); err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

// List returns every blob in the upload directory. Files not named by
// BlobName are skipped.
func (s *LocalStore) List(ctx context.Context) ([]*models.Blob, error) {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return nil, fmt.Errorf("reading upload directory: %w", err)
	}

	blobs := make([]*models.Blob, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsBlobName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		blobs = append(blobs, &models.Blob{
			Name:        entry.Name(),
			Path:        filepath.Join(s.uploadDir, entry.Name()),
			ContentType: ContentType(entry.Name()),
			Size:        info.Size(),
			StoredAt:    info.ModTime(),
		})
	}
	return blobs, nil
}

func (s *LocalStore) contains(path string) error {
	rel, err := filepath.Rel(s.uploadDir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") || strings.ContainsRune(rel, filepath.Separator) {
		return fmt.Errorf("path %q is outside the upload directory", path)
	}
	return nil
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

var _ Store = (*LocalStore)(nil)

// mock_storage.go - In-memory blob store for testing
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/orsaadi/FileSenderBackhend/internal/models"
	"github.com/orsaadi/FileSenderBackhend/internal/storage"
)

// MockStorage implements storage.Store in memory
type MockStorage struct {
	blobs map[string]*models.Blob
	data  map[string][]byte
	mu    sync.RWMutex

	// SaveErr, OpenErr and DeleteErr are returned by the matching method when set.
	SaveErr   error
	OpenErr   error
	DeleteErr error

	// OpenWrap, when set, wraps the reader handed out by Open.
	OpenWrap func(io.Reader) io.Reader
}

// NewMockStorage creates an empty mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		blobs: make(map[string]*models.Blob),
		data:  make(map[string][]byte),
	}
}

func (m *MockStorage) Save(ctx context.Context, originalName string, r io.Reader) (*models.Blob, error) {
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	name := storage.BlobName(originalName, now)
	blob := &models.Blob{
		Name:         name,
		Path:         "/mock/" + name,
		OriginalName: originalName,
		ContentType:  storage.ContentType(name),
		Size:         int64(len(data)),
		StoredAt:     now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[blob.Path] = blob
	m.data[blob.Path] = data
	return blob, nil
}

func (m *MockStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrBlobNotFound, path)
	}
	var r io.Reader = bytes.NewReader(data)
	if m.OpenWrap != nil {
		r = m.OpenWrap(r)
	}
	return io.NopCloser(r), nil
}

func (m *MockStorage) Delete(ctx context.Context, path string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, path)
	delete(m.data, path)
	return nil
}

func (m *MockStorage) List(ctx context.Context) ([]*models.Blob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*models.Blob, 0, len(m.blobs))
	for _, b := range m.blobs {
		cp := *b
		list = append(list, &cp)
	}
	return list, nil
}

// Ensure MockStorage implements storage.Store
var _ storage.Store = (*MockStorage)(nil)

// Test Helper Methods

// AddBlob puts a blob directly into the mock, stamped with storedAt
func (m *MockStorage) AddBlob(name string, data []byte, storedAt time.Time) *models.Blob {
	m.mu.Lock()
	defer m.mu.Unlock()

	blob := &models.Blob{
		Name:     name,
		Path:     "/mock/" + name,
		Size:     int64(len(data)),
		StoredAt: storedAt,
	}
	m.blobs[blob.Path] = blob
	m.data[blob.Path] = data
	return blob
}

// GetBlobData returns the content stored at path
func (m *MockStorage) GetBlobData(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[path]
	return data, ok
}

// GetBlobCount returns the number of stored blobs
func (m *MockStorage) GetBlobCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}

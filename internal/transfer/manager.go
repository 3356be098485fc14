// Package transfer coordinates sessions and stored blobs for the relay endpoints.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/labstack/gommon/log"
	"github.com/orsaadi/FileSenderBackhend/internal/audit"
	"github.com/orsaadi/FileSenderBackhend/internal/codegen"
	"github.com/orsaadi/FileSenderBackhend/internal/models"
	"github.com/orsaadi/FileSenderBackhend/internal/session"
	"github.com/orsaadi/FileSenderBackhend/internal/storage"
)

var (
	// ErrCodeNotFound means no session is registered under the code.
	ErrCodeNotFound = errors.New("code not found")
	// ErrNoFile means the session exists but nothing has been uploaded to it.
	ErrNoFile = errors.New("no file uploaded for session")
	// ErrStorage wraps failures of the blob store.
	ErrStorage = errors.New("storage failure")
)

// Options tunes relay behaviour.
type Options struct {
	// PreserveOriginalName names downloads after the uploaded filename
	// rather than the generated blob name.
	PreserveOriginalName bool
	// DeletePreviousOnReupload releases the old blob when a session is uploaded to again.
	DeletePreviousOnReupload bool
}

// Manager runs the relay operations on top of a session registry and a blob store.
type Manager struct {
	sessions *session.Registry
	store    storage.Store
	codes    *codegen.Generator
	ledger   audit.Recorder
	logger   *log.Logger
	opts     Options
}

// NewManager creates a relay manager. A nil ledger disables event recording.
func NewManager(sessions *session.Registry, store storage.Store, codes *codegen.Generator, ledger audit.Recorder, logger *log.Logger, opts Options) *Manager {
	if ledger == nil {
		ledger = audit.Nop{}
	}
	return &Manager{
		sessions: sessions,
		store:    store,
		codes:    codes,
		ledger:   ledger,
		logger:   logger,
		opts:     opts,
	}
}

// NewSession draws a code and registers an empty session under it. A session
// already holding the code is replaced and its blob released.
func (m *Manager) NewSession(ctx context.Context) *models.Session {
	code := m.codes.Generate()
	s, prev := m.sessions.Create(code)
	if prev != nil {
		m.logger.Warnf("[Relay] code %s reissued, replacing existing session", code)
		if prev.Blob != nil {
			m.discard(ctx, prev.Blob)
		}
	}

	m.record(ctx, audit.Event{Kind: audit.KindSessionCreated, Code: code})
	return s
}

// Exists reports whether code names a live session.
func (m *Manager) Exists(code string) bool {
	return m.sessions.Exists(code)
}

// Join checks that code names a live session. Joining needs no upload.
func (m *Manager) Join(ctx context.Context, code string) error {
	if !m.sessions.Exists(code) {
		return ErrCodeNotFound
	}
	m.record(ctx, audit.Event{Kind: audit.KindSessionJoined, Code: code})
	return nil
}

// Status returns the public view of the session under code.
func (m *Manager) Status(code string) (models.SessionStatus, error) {
	s, ok := m.sessions.Get(code)
	if !ok {
		return models.SessionStatus{}, ErrCodeNotFound
	}
	return s.Status(), nil
}

// SessionCount returns the number of live sessions.
func (m *Manager) SessionCount() int {
	return m.sessions.Len()
}

// Stats returns the ledger summary.
func (m *Manager) Stats(ctx context.Context) (*audit.Summary, error) {
	return m.ledger.Summary(ctx)
}

// Upload stores r as the file of the session under code.
func (m *Manager) Upload(ctx context.Context, code, fileName string, r io.Reader) (*models.Blob, error) {
	if !m.sessions.Exists(code) {
		return nil, ErrCodeNotFound
	}

	blob, err := m.store.Save(ctx, fileName, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	prev, err := m.sessions.SetFile(code, blob)
	if err != nil {
		// The session went away while the body was being written.
		m.discard(ctx, blob)
		return nil, ErrCodeNotFound
	}
	if prev != nil && m.opts.DeletePreviousOnReupload {
		m.discard(ctx, prev)
	}

	m.logger.Infof("[Relay] %s: stored %q as %s (%d bytes)", code, fileName, blob.Name, blob.Size)
	m.record(ctx, audit.Event{Kind: audit.KindFileUploaded, Code: code, FileName: fileName, Size: blob.Size})
	return blob, nil
}

// Download is an open blob ready to be streamed to a client.
type Download struct {
	io.ReadCloser
	Code     string
	Blob     *models.Blob
	FileName string
}

// OpenDownload resolves code to its blob and opens it. The caller must Close
// the download and, once every byte has been delivered, call CompleteDownload.
func (m *Manager) OpenDownload(ctx context.Context, code string) (*Download, error) {
	blob, ok := m.sessions.GetFile(code)
	if !ok {
		if m.sessions.Exists(code) {
			return nil, ErrNoFile
		}
		return nil, ErrCodeNotFound
	}

	rc, err := m.store.Open(ctx, blob.Path)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			m.logger.Warnf("[Relay] %s: blob %s is missing, dropping session", code, blob.Name)
			m.sessions.RemoveIfFile(code, blob.Path)
			return nil, ErrNoFile
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	name := blob.Name
	if m.opts.PreserveOriginalName && blob.OriginalName != "" {
		name = blob.OriginalName
	}

	return &Download{ReadCloser: rc, Code: code, Blob: blob, FileName: name}, nil
}

// CompleteDownload ends the session after a confirmed delivery and deletes the blob.
// A session that has since been re-uploaded to is left alone.
func (m *Manager) CompleteDownload(ctx context.Context, d *Download) {
	ctx = context.WithoutCancel(ctx)

	if !m.sessions.RemoveIfFile(d.Code, d.Blob.Path) {
		m.logger.Debugf("[Relay] %s: session changed during download, skipping cleanup", d.Code)
		return
	}
	m.discard(ctx, d.Blob)

	m.logger.Infof("[Relay] %s: delivered %s (%d bytes), session closed", d.Code, d.Blob.Name, d.Blob.Size)
	m.record(ctx, audit.Event{Kind: audit.KindFileDownloaded, Code: d.Code, FileName: d.Blob.OriginalName, Size: d.Blob.Size})
}

func (m *Manager) discard(ctx context.Context, blob *models.Blob) {
	if err := m.store.Delete(context.WithoutCancel(ctx), blob.Path); err != nil {
		m.logger.Errorf("[Relay] failed to delete blob %s: %v", blob.Name, err)
	}
}

func (m *Manager) record(ctx context.Context, ev audit.Event) {
	if err := m.ledger.Record(context.WithoutCancel(ctx), ev); err != nil {
		m.logger.Warnf("[Relay] ledger: %v", err)
	}
}

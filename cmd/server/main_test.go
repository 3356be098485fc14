package main

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/orsaadi/FileSenderBackhend/internal/config"
	"github.com/orsaadi/FileSenderBackhend/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, auditEnabled bool) *config.AppConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.UploadsDirectory = filepath.Join(dir, "uploads")
	cfg.Audit.Enabled = auditEnabled
	cfg.Audit.DatabasePath = filepath.Join(dir, "data", "ledger.duckdb")
	cfg.Server.EnableRequestLogging = false
	require.NoError(t, cfg.EnsureDirectories())
	return cfg
}

func TestNewApp_ServesRelay(t *testing.T) {
	a, err := newApp(context.Background(), testConfig(t, true), logging.Discard())
	require.NoError(t, err)
	defer a.ledger.Close()

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate_code", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var gen struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gen))

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	part, _ := w.CreateFormFile("file", "a.bin")
	part.Write([]byte{1, 2, 3})
	w.Close()
	req := httptest.NewRequest(http.MethodPost, "/upload/"+gen.Code, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec = httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/"+gen.Code, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []byte{1, 2, 3}, rec.Body.Bytes())

	rec = httptest.NewRecorder()
	a.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"file_downloaded"`)

	rec = httptest.NewRecorder()
	a.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "File Relay")
}

func TestNewApp_LedgerDisabled(t *testing.T) {
	a, err := newApp(context.Background(), testConfig(t, false), logging.Discard())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEnvOr(t *testing.T) {
	t.Setenv("FILERELAY_TEST_KEY", "")
	assert.Equal(t, "fallback", envOr("FILERELAY_TEST_KEY", "fallback"))
	t.Setenv("FILERELAY_TEST_KEY", "set")
	assert.Equal(t, "set", envOr("FILERELAY_TEST_KEY", "fallback"))
}

package models

import "time"

// Blob describes one stored upload.
type Blob struct {
	Name         string    `json:"name"` // generated base name, keeps the original extension
	Path         string    `json:"path"` // filesystem path or object key
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	StoredAt     time.Time `json:"storedAt"`
}

package models

import "time"

// Session binds a shareable code to at most one stored blob.
type Session struct {
	Code       string     `json:"code"`
	Blob       *Blob      `json:"-"`
	CreatedAt  time.Time  `json:"createdAt"`
	UploadedAt *time.Time `json:"uploadedAt,omitempty"`
}

// NewSession creates a session with no file attached.
func NewSession(code string) *Session {
	return &Session{
		Code:      code,
		CreatedAt: time.Now(),
	}
}

// HasFile reports whether an upload has been recorded for the session.
func (s *Session) HasFile() bool {
	return s.Blob != nil
}

// SessionStatus is the public view of a session. It never carries storage paths.
type SessionStatus struct {
	Code       string     `json:"code" msgpack:"code"`
	HasFile    bool       `json:"hasFile" msgpack:"hasFile"`
	FileName   string     `json:"fileName,omitempty" msgpack:"fileName,omitempty"`
	Size       int64      `json:"size,omitempty" msgpack:"size,omitempty"`
	CreatedAt  time.Time  `json:"createdAt" msgpack:"createdAt"`
	UploadedAt *time.Time `json:"uploadedAt,omitempty" msgpack:"uploadedAt,omitempty"`
}

// Status returns the public view of s.
func (s *Session) Status() SessionStatus {
	st := SessionStatus{
		Code:       s.Code,
		HasFile:    s.HasFile(),
		CreatedAt:  s.CreatedAt,
		UploadedAt: s.UploadedAt,
	}
	if s.Blob != nil {
		st.FileName = s.Blob.OriginalName
		st.Size = s.Blob.Size
	}
	return st
}

package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Session is the persisted sign-in state shared between runs.
type Session struct {
	UserID       string            `json:"user_id"`
	Email        string            `json:"email"`
	Attrs        map[string]string `json:"attrs,omitempty"`
	AccessToken  string            `json:"access_token,omitempty"`
	RefreshToken string            `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time         `json:"expires_at,omitempty"`
}

// Principal converts the session into the principal it represents.
func (s *Session) Principal() *Principal {
	return &Principal{ID: s.UserID, Email: s.Email, Attrs: s.Attrs}
}

// SessionFile stores a Session as JSON on disk. The zero value keeps the
// session in memory only.
type SessionFile struct {
	Path string

	mem *Session
}

// NewSessionFile returns a SessionFile at path. An empty path keeps the
// session in memory.
func NewSessionFile(path string) *SessionFile {
	return &SessionFile{Path: path}
}

// Load returns the stored session, or (nil, nil) when there is none.
func (f *SessionFile) Load() (*Session, error) {
	if f.Path == "" {
		return f.mem, nil
	}
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		// A corrupt session file is treated as signed out.
		return nil, nil
	}
	if s.UserID == "" {
		return nil, nil
	}
	return &s, nil
}

// Save writes s, replacing any existing session.
func (f *SessionFile) Save(s *Session) error {
	if f.Path == "" {
		cp := *s
		f.mem = &cp
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(f.Path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the stored session.
func (f *SessionFile) Clear() error {
	f.mem = nil
	if f.Path == "" {
		return nil
	}
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

package domain

import (
	"slices"
	"time"
)

// Session is an isolated storage scope holding the files produced by one generation request.
type Session struct {
	ID        string        `json:"id"`
	Root      string        `json:"-"`
	Files     []SessionFile `json:"files"`
	CreatedAt time.Time     `json:"created_at"`
}

// SessionFile records one file extracted into a session.
type SessionFile struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Digest string `json:"digest"`
}

// FileNames returns the relative names of the session's files.
func (s Session) FileNames() []string {
	names := make([]string, 0, len(s.Files))
	for _, f := range s.Files {
		names = append(names, f.Name)
	}
	return names
}

// File looks up a file by its relative name.
func (s Session) File(name string) (SessionFile, bool) {
	i := slices.IndexFunc(s.Files, func(f SessionFile) bool { return f.Name == name })
	if i < 0 {
		return SessionFile{}, false
	}
	return s.Files[i], true
}

// Size returns the total size of the session's files in bytes.
func (s Session) Size() int64 {
	var n int64
	for _, f := range s.Files {
		n += f.Size
	}
	return n
}

// FileHandle is a resolved, readable file inside a session.
type FileHandle struct {
	SessionID   string
	Name        string
	Path        string
	Size        int64
	Digest      string
	ContentType string
}

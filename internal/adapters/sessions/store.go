// Package sessions stores generated artifacts in one directory per session.
package sessions

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.trai.ch/catalyst/internal/core/domain"
	"go.trai.ch/zerr"
)

// createAttempts bounds how often Create retries after an id collision.
const createAttempts = 8

// Store implements ports.SessionStore on the local filesystem.
//
// Layout: <root>/<session-id>/<file> plus <root>/<session-id>/manifest.json.
type Store struct {
	root  string
	now   func() time.Time
	newID func() string
}

// NewStore creates a Store rooted at path, creating the directory if needed.
func NewStore(path string) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(failure(domain.ErrStoreCreateFailed, "resolve storage path", err), "path", path)
	}
	if err := os.MkdirAll(abs, domain.DirPerm); err != nil {
		return nil, zerr.With(failure(domain.ErrStoreCreateFailed, "create storage root", err), "path", abs)
	}

	return &Store{
		root:  abs,
		now:   time.Now,
		newID: uuid.NewString,
	}, nil
}

// Root returns the absolute storage directory.
func (s *Store) Root() string {
	return s.root
}

// Create allocates a session with a fresh id. os.Mkdir fails on an existing
// directory, so two sessions can never share one even if ids collide.
func (s *Store) Create() (domain.Session, error) {
	for range createAttempts {
		id := s.newID()
		dir := filepath.Join(s.root, id)

		err := os.Mkdir(dir, domain.DirPerm)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return domain.Session{}, zerr.With(failure(domain.ErrStoreCreateFailed, "create session", err), "session", id)
		}

		return domain.Session{
			ID:        id,
			Root:      dir,
			Files:     []domain.SessionFile{},
			CreatedAt: s.now().UTC(),
		}, nil
	}

	return domain.Session{}, zerr.With(
		zerr.Wrap(domain.ErrStoreCreateFailed, "exhausted session id attempts"),
		"attempts", createAttempts,
	)
}

// Commit hashes the named files and writes the session manifest.
func (s *Store) Commit(session domain.Session, names []string) (domain.Session, error) {
	dir, err := s.sessionDir(session.ID)
	if err != nil {
		return domain.Session{}, err
	}

	files := make([]domain.SessionFile, 0, len(names))
	for _, name := range names {
		file, err := digestFile(dir, name)
		if err != nil {
			return domain.Session{}, zerr.With(zerr.With(err, "session", session.ID), "file", name)
		}
		files = append(files, file)
	}
	slices.SortFunc(files, func(a, b domain.SessionFile) int { return strings.Compare(a.Name, b.Name) })

	session.Root = dir
	session.Files = files
	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.now().UTC()
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return domain.Session{}, failure(domain.ErrStoreWriteFailed, "encode manifest", err)
	}
	if err := atomicWriteFile(filepath.Join(dir, domain.ManifestFileName), data); err != nil {
		return domain.Session{}, zerr.With(failure(domain.ErrStoreWriteFailed, "write manifest", err), "session", session.ID)
	}

	return session, nil
}

// Get loads a committed session.
func (s *Store) Get(id string) (domain.Session, error) {
	dir, err := s.sessionDir(id)
	if err != nil {
		return domain.Session{}, err
	}

	data, err := os.ReadFile(filepath.Join(dir, domain.ManifestFileName)) //nolint:gosec // dir is a validated session path
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Session{}, notFound(id, "")
	}
	if err != nil {
		return domain.Session{}, zerr.With(failure(domain.ErrStoreReadFailed, "read manifest", err), "session", id)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return domain.Session{}, zerr.With(failure(domain.ErrStoreReadFailed, "decode manifest", err), "session", id)
	}
	session.ID = id
	session.Root = dir
	return session, nil
}

// Resolve maps a session id and relative file name to a regular file that
// lies strictly inside the session directory.
func (s *Store) Resolve(id, name string) (domain.FileHandle, error) {
	dir, err := s.sessionDir(id)
	if err != nil {
		return domain.FileHandle{}, err
	}

	if name == "" || filepath.IsAbs(name) || strings.ContainsRune(name, 0) {
		return domain.FileHandle{}, notFound(id, name)
	}

	target := filepath.Join(dir, filepath.Clean(filepath.FromSlash(name)))
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return domain.FileHandle{}, notFound(id, name)
	}
	if rel == domain.ManifestFileName {
		return domain.FileHandle{}, notFound(id, name)
	}

	info, err := os.Lstat(target)
	if err != nil || !info.Mode().IsRegular() {
		return domain.FileHandle{}, notFound(id, name)
	}

	handle := domain.FileHandle{
		SessionID:   id,
		Name:        filepath.ToSlash(rel),
		Path:        target,
		Size:        info.Size(),
		ContentType: domain.ContentTypeFor(rel),
	}

	if session, err := s.Get(id); err == nil {
		if f, ok := session.File(handle.Name); ok {
			handle.Size = f.Size
			handle.Digest = f.Digest
		}
	}

	return handle, nil
}

// List returns every committed session, oldest first.
func (s *Store) List() ([]domain.Session, error) {
	ids, err := s.sessionIDs()
	if err != nil {
		return nil, err
	}

	sessions := make([]domain.Session, 0, len(ids))
	for _, id := range ids {
		session, err := s.Get(id)
		if errors.Is(err, domain.ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	slices.SortFunc(sessions, func(a, b domain.Session) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return sessions, nil
}

// Delete removes a session directory and everything in it.
func (s *Store) Delete(id string) error {
	dir, err := s.sessionDir(id)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return notFound(id, "")
	}
	if err := os.RemoveAll(dir); err != nil {
		return zerr.With(failure(domain.ErrStoreDeleteFailed, "remove session", err), "session", id)
	}
	return nil
}

// Prune deletes sessions created more than olderThan ago. Sessions that were
// never committed are aged by their directory's modification time.
// A non-positive age prunes nothing.
func (s *Store) Prune(olderThan time.Duration) ([]string, error) {
	if olderThan <= 0 {
		return nil, nil
	}

	ids, err := s.sessionIDs()
	if err != nil {
		return nil, err
	}

	cutoff := s.now().Add(-olderThan)
	var pruned []string
	for _, id := range ids {
		created, ok := s.createdAt(id)
		if !ok || !created.Before(cutoff) {
			continue
		}
		if err := s.Delete(id); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return pruned, err
		}
		pruned = append(pruned, id)
	}
	return pruned, nil
}

func (s *Store) createdAt(id string) (time.Time, bool) {
	if session, err := s.Get(id); err == nil {
		return session.CreatedAt, true
	}
	info, err := os.Stat(filepath.Join(s.root, id))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// sessionIDs lists directory names under the root that parse as session ids.
func (s *Store) sessionIDs() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, zerr.With(failure(domain.ErrStoreReadFailed, "list sessions", err), "path", s.root)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || !validID(e.Name()) {
			continue
		}
		ids = append(ids, e.Name())
	}
	return ids, nil
}

func (s *Store) sessionDir(id string) (string, error) {
	if !validID(id) {
		return "", notFound(id, "")
	}
	return filepath.Join(s.root, id), nil
}

// validID accepts only the canonical lowercase form produced by Create.
func validID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == id
}

func digestFile(dir, name string) (domain.SessionFile, error) {
	f, err := os.Open(filepath.Join(dir, name)) //nolint:gosec // name was produced by the unpacker
	if err != nil {
		return domain.SessionFile{}, failure(domain.ErrStoreReadFailed, "open file", err)
	}
	defer func() { _ = f.Close() }()

	h := xxhash.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return domain.SessionFile{}, failure(domain.ErrStoreReadFailed, "hash file", err)
	}

	return domain.SessionFile{
		Name:   name,
		Size:   n,
		Digest: fmt.Sprintf("%016x", h.Sum64()),
	}, nil
}

// atomicWriteFile writes data to a temp file in the same directory and renames it into place.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".manifest-*.json")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func notFound(id, name string) error {
	err := zerr.With(zerr.Wrap(domain.ErrSessionNotFound, "resolve failed"), "session", id)
	if name != "" {
		err = zerr.With(err, "file", name)
	}
	return err
}

func failure(sentinel error, msg string, err error) error {
	return zerr.With(zerr.Wrap(sentinel, msg), "reason", err.Error())
}

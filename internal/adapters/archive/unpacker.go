// Package archive unpacks zip bundles returned by the remote generator.
package archive

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/zip"
	"go.trai.ch/catalyst/internal/core/domain"
	"go.trai.ch/catalyst/internal/core/ports"
	"go.trai.ch/zerr"
)

// Unpacker implements ports.Unpacker on klauspost/compress/zip.
// Decompressed sizes are bounded per entry and per archive.
type Unpacker struct {
	maxEntryBytes int64
	maxTotalBytes int64
}

// Option configures an Unpacker.
type Option func(*Unpacker)

// WithMaxEntryBytes bounds the decompressed size of a single entry.
// Non-positive values keep the default.
func WithMaxEntryBytes(n int64) Option {
	return func(u *Unpacker) {
		if n > 0 {
			u.maxEntryBytes = n
		}
	}
}

// WithMaxTotalBytes bounds the decompressed size of all entries written by UnpackAll.
// Non-positive values keep the default.
func WithMaxTotalBytes(n int64) Option {
	return func(u *Unpacker) {
		if n > 0 {
			u.maxTotalBytes = n
		}
	}
}

// NewUnpacker creates a new Unpacker.
func NewUnpacker(opts ...Option) *Unpacker {
	defaults := domain.DefaultConfig().Upstream
	u := &Unpacker{
		maxEntryBytes: defaults.MaxEntryBytes,
		maxTotalBytes: defaults.MaxExtractedBytes,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// WithLimits returns an Unpacker with the given size limits.
func (u *Unpacker) WithLimits(maxEntry, maxTotal int64) ports.Unpacker {
	return NewUnpacker(
		WithMaxEntryBytes(u.maxEntryBytes), WithMaxTotalBytes(u.maxTotalBytes),
		WithMaxEntryBytes(maxEntry), WithMaxTotalBytes(maxTotal),
	)
}

// UnpackAll writes every file entry of the archive directly under root and
// returns the written names, sorted. Entries are validated in archive order;
// the first invalid entry aborts the unpack and earlier files are left for the
// caller to remove.
func (u *Unpacker) UnpackAll(data []byte, root string) ([]string, error) {
	zr, err := openArchive(data)
	if err != nil {
		return nil, err
	}

	root = filepath.Clean(root)
	seen := make(map[string]struct{}, len(zr.File))
	names := make([]string, 0, len(zr.File))
	var total int64

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}

		name, err := entryName(f.Name, root)
		if err != nil {
			return nil, err
		}

		if _, dup := seen[name]; dup {
			return nil, zerr.With(zerr.Wrap(domain.ErrDuplicateEntry, "rejected entry"), "entry", f.Name)
		}
		seen[name] = struct{}{}

		limit, msg := u.maxEntryBytes, "entry exceeds size limit"
		if remaining := u.maxTotalBytes - total; remaining < limit {
			limit, msg = remaining, "archive exceeds total size limit"
		}
		if f.UncompressedSize64 > uint64(limit) { //nolint:gosec // limit is never negative
			return nil, tooLarge(msg, f.Name, limit)
		}

		dest := filepath.Join(root, name)
		written, err := writeEntry(f, dest, limit)
		if err != nil {
			return nil, zerr.With(err, "entry", f.Name)
		}
		if written > limit {
			_ = os.Remove(dest)
			return nil, tooLarge(msg, f.Name, limit)
		}
		total += written
		names = append(names, name)
	}

	slices.Sort(names)
	return names, nil
}

// ExtractOne returns the content of the first entry whose stored name equals name.
func (u *Unpacker) ExtractOne(data []byte, name string) ([]byte, error) {
	zr, err := openArchive(data)
	if err != nil {
		return nil, err
	}

	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		if f.UncompressedSize64 > uint64(u.maxEntryBytes) { //nolint:gosec // limit is positive
			return nil, tooLarge("entry exceeds size limit", name, u.maxEntryBytes)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, zerr.With(failure(domain.ErrArchiveCorrupt, "open entry", err), "entry", name)
		}
		content, err := io.ReadAll(io.LimitReader(rc, u.maxEntryBytes+1))
		_ = rc.Close()
		if err != nil {
			return nil, zerr.With(failure(domain.ErrArchiveCorrupt, "read entry", err), "entry", name)
		}
		if int64(len(content)) > u.maxEntryBytes {
			return nil, tooLarge("entry exceeds size limit", name, u.maxEntryBytes)
		}
		return content, nil
	}

	return nil, zerr.With(zerr.Wrap(domain.ErrEntryNotFound, "lookup failed"), "entry", name)
}

func openArchive(data []byte) (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	// Entry names are validated one by one below, so the reader's own
	// insecure-path verdict is not needed.
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, failure(domain.ErrArchiveCorrupt, "open archive", err)
	}
	return zr, nil
}

// failure wraps a sentinel so errors.Is matches it, keeping the underlying
// error text as metadata.
func failure(sentinel error, msg string, err error) error {
	return zerr.With(zerr.Wrap(sentinel, msg), "reason", err.Error())
}

func tooLarge(msg, entry string, limit int64) error {
	return zerr.With(zerr.With(zerr.Wrap(domain.ErrArchiveTooLarge, msg), "entry", entry), "limit_bytes", limit)
}

// entryName normalises a stored name and checks that it lands directly in root.
func entryName(stored, root string) (string, error) {
	reject := func() error {
		return zerr.With(zerr.Wrap(domain.ErrInvalidEntryPath, "rejected entry"), "entry", stored)
	}

	name := filepath.Clean(filepath.FromSlash(strings.ReplaceAll(stored, `\`, "/")))
	if filepath.IsAbs(name) || filepath.VolumeName(name) != "" || strings.HasPrefix(name, string(filepath.Separator)) {
		return "", reject()
	}

	dest := filepath.Join(root, name)
	if filepath.Dir(dest) != root {
		return "", reject()
	}

	// The session manifest and its temp files belong to the store.
	base := filepath.Base(dest)
	if base == domain.ManifestFileName || strings.HasPrefix(base, ".manifest-") {
		return "", reject()
	}
	return base, nil
}

// writeEntry copies at most limit+1 bytes of f to dest and reports how many
// were written. A count above limit means the entry is too large.
func writeEntry(f *zip.File, dest string, limit int64) (int64, error) {
	rc, err := f.Open()
	if err != nil {
		return 0, failure(domain.ErrArchiveCorrupt, "open entry", err)
	}
	defer func() { _ = rc.Close() }()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, domain.FilePerm) //nolint:gosec // dest is confined to root
	if err != nil {
		return 0, failure(domain.ErrStoreWriteFailed, "create file", err)
	}

	written, err := io.Copy(out, io.LimitReader(rc, limit+1))
	if err != nil {
		_ = out.Close()
		if errors.Is(err, zip.ErrChecksum) || errors.Is(err, zip.ErrFormat) || errors.Is(err, io.ErrUnexpectedEOF) {
			return written, failure(domain.ErrArchiveCorrupt, "read entry", err)
		}
		return written, failure(domain.ErrStoreWriteFailed, "write file", err)
	}

	if err := out.Close(); err != nil {
		return written, failure(domain.ErrStoreWriteFailed, "close file", err)
	}
	return written, nil
}

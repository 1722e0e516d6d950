package domain

import "path/filepath"

const (
	// CatalystDirName is the name of the internal state directory.
	CatalystDirName = ".catalyst"

	// SessionsDirName is the name of the directory holding generation sessions.
	SessionsDirName = "sessions"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "catalyst.yaml"

	// ManifestFileName is the name of the per-session manifest.
	ManifestFileName = "manifest.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultCatalystPath returns the default root directory for catalyst state.
func DefaultCatalystPath() string {
	return CatalystDirName
}

// DefaultSessionsPath returns the default path for generation sessions.
// It joins .catalyst and sessions.
func DefaultSessionsPath() string {
	return filepath.Join(CatalystDirName, SessionsDirName)
}

package ports

// Unpacker extracts zip payloads.
//
//go:generate mockgen -source=archive.go -destination=mocks/mock_archive.go -package=mocks
type Unpacker interface {
	// UnpackAll writes every entry of the archive directly under root and
	// returns the written names.
	UnpackAll(data []byte, root string) ([]string, error)
	// ExtractOne returns the content of the first entry whose stored name equals name.
	ExtractOne(data []byte, name string) ([]byte, error)
}

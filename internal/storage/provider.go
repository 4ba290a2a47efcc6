// Package storage defines the configuration-tree file-system abstraction.
package storage

// Provider is the interface for file operations under the yk configuration root.
// All paths are relative to the root.
type Provider interface {
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent directories.
	Write(path string, content []byte) error
	// Exists reports whether path exists.
	Exists(path string) (bool, error)
	// MkdirAll creates dir and any missing parents.
	MkdirAll(dir string) error
	// ListDirs returns the names of the immediate subdirectories of dir in
	// lexical order. A missing dir yields an empty list.
	ListDirs(dir string) ([]string, error)
	// Abs returns the absolute path for path.
	Abs(path string) (string, error)
}

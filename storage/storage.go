package storage

import (
	"context"
	"time"
)

// Storage is the core capability set.
type Storage interface {
	// SaveBinary creates or truncates path and writes data verbatim.
	SaveBinary(ctx context.Context, path string, data []byte) error

	// SaveTextRecords creates or truncates path and writes a UTF-8 BOM followed
	// by every record in order. No separator is inserted between records.
	SaveTextRecords(ctx context.Context, path string, records []string) error

	// CreateDirectory creates path and any missing parents. Best-effort.
	CreateDirectory(ctx context.Context, path string) error

	// SetReadOnly clears write permission on path. Best-effort.
	SetReadOnly(ctx context.Context, path string) error

	// ReadBinary returns the full contents of path.
	ReadBinary(ctx context.Context, path string) ([]byte, error)

	// DeleteOne removes a single file or empty directory. Best-effort.
	DeleteOne(ctx context.Context, path string) error

	// DeleteTree removes path and everything beneath it. Best-effort.
	DeleteTree(ctx context.Context, path string) error

	// BuildArchive writes a zip archive at dest holding one entry per source,
	// named by the source's base name, in input order.
	BuildArchive(ctx context.Context, sources []string, dest string) error
}

// Inspector exposes read-only queries over stored entries.
type Inspector interface {
	Exists(ctx context.Context, path string) (bool, error)
	Stat(ctx context.Context, path string) (FileInfo, error)
	// List returns the files beneath dir whose dir-relative, slash-separated
	// path matches pattern. Patterns follow doublestar syntax, so "**/*.csv"
	// matches at any depth. Results are sorted.
	List(ctx context.Context, dir, pattern string) ([]string, error)
	// ReadTextRecords reverses SaveTextRecords.
	ReadTextRecords(ctx context.Context, path string) ([]string, error)
}

// Backend is implemented by every concrete storage package.
type Backend interface {
	Storage
	Inspector
}

// FileInfo describes a stored entry.
type FileInfo struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	IsDir       bool      `json:"is_dir"`
	Mode        string    `json:"mode,omitempty"`
	Modified    time.Time `json:"modified"`
	ContentType string    `json:"content_type,omitempty"`
}

package storage

import "strings"

// Operation names used in errors, logs and metrics.
const (
	OpSaveBinary      = "save_binary"
	OpSaveTextRecords = "save_text_records"
	OpCreateDirectory = "create_directory"
	OpSetReadOnly     = "set_read_only"
	OpReadBinary      = "read_binary"
	OpDeleteOne       = "delete_one"
	OpDeleteTree      = "delete_tree"
	OpBuildArchive    = "build_archive"
	OpExists          = "exists"
	OpStat            = "stat"
	OpList            = "list"
	OpReadTextRecords = "read_text_records"
)

// ValidatePath rejects empty or blank paths and paths containing NUL.
func ValidatePath(op, path string) error {
	if strings.TrimSpace(path) == "" {
		return InvalidArgument(op, path, "path required")
	}
	if strings.ContainsRune(path, 0) {
		return InvalidArgument(op, path, "path contains NUL byte")
	}
	return nil
}

// ValidatePayload rejects empty binary payloads.
func ValidatePayload(op, path string, data []byte) error {
	if err := ValidatePath(op, path); err != nil {
		return err
	}
	if len(data) == 0 {
		return InvalidArgument(op, path, "data must not be empty")
	}
	return nil
}

// ValidateRecords rejects an empty record list.
func ValidateRecords(op, path string, records []string) error {
	if err := ValidatePath(op, path); err != nil {
		return err
	}
	if len(records) == 0 {
		return InvalidArgument(op, path, "at least one record required")
	}
	return nil
}

// ValidateSources checks an archive request: at least one source and a
// destination, every path well-formed.
func ValidateSources(op string, sources []string, dest string) error {
	if err := ValidatePath(op, dest); err != nil {
		return err
	}
	if len(sources) == 0 {
		return InvalidArgument(op, dest, "at least one source required")
	}
	for i, src := range sources {
		if strings.TrimSpace(src) == "" || strings.ContainsRune(src, 0) {
			return InvalidArgument(op, dest, "source %d: malformed path %q", i, src)
		}
	}
	return nil
}

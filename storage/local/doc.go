// Package local implements storage.Backend on the local filesystem.
//
// This package is organized into specialized files:
//   - basic: binary and text-record writes, whole-file reads, read-only flag
//   - directory: directory creation, single deletion, recursive tree deletion
//   - archives: streaming ZIP construction from an ordered list of files
//   - metadata: existence checks, stat with MIME sniffing, glob listing
//
// Every operation is synchronous. Paths are used as given (relative paths
// resolve against the process working directory) unless Options.Root is
// set, in which case they resolve against Root and may not escape it.
//
// Tree deletion enumerates the tree with fastwalk, then removes entries
// post-order: files first, then directories deepest first, then the root.
// Sibling order is never relied upon. Failures are logged and skipped.
//
// Example Usage:
//
//	store, err := local.New(local.Options{Root: "/var/lib/app", Logger: logger})
//	err = store.BuildArchive(ctx, []string{"files/a.txt", "files/b.txt"}, "files/out.zip")
package local

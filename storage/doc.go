// Package storage defines the capability contract shared by every storagekit
// backing.
//
// The contract is split in two:
//   - Storage: the eight core capabilities (save binary, save text records,
//     create directory, set read-only, read binary, delete one, delete tree,
//     build archive)
//   - Inspector: existence checks, metadata, pattern listing and text reads
//
// Backend combines both and is what the concrete packages return:
//   - storage/local: the local filesystem
//   - storage/objectstore: S3-compatible object storage (MinIO, AWS S3, ...)
//
// Error Policy:
//   - Invalid arguments are always rejected before any I/O with ErrInvalidArgument
//   - SaveBinary, SaveTextRecords, ReadBinary and BuildArchive surface I/O
//     failures as *Error values of kind ErrIO
//   - CreateDirectory, SetReadOnly, DeleteOne and DeleteTree are best-effort:
//     I/O failures are logged and a nil error is returned
//
// Example Usage:
//
//	store, err := local.New(local.Options{Root: "/var/lib/exports", Logger: logger})
//	if err != nil {
//		return err
//	}
//	if err := store.SaveBinary(ctx, "files/test.txt", []byte("test")); err != nil {
//		return err
//	}
//	data, err := store.ReadBinary(ctx, "files/test.txt")
package storage

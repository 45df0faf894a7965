/*
Package storagekit opens a storage.Backend from environment configuration.

The capability interfaces live in package storage; concrete backings live in
storage/local (the filesystem) and storage/objectstore (S3-compatible object
storage). Open wires a backing together with logging and, optionally,
Prometheus instrumentation:

	cfg, err := storagekit.LoadConfig()
	if err != nil {
		return err
	}
	store, err := storagekit.Open(ctx, cfg, storagekit.WithRegisterer(reg))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveBinary(ctx, "exports/report.bin", data); err != nil {
		return err
	}
*/
package storagekit

/*
Package objectstore implements storage.Backend over an S3-compatible object
store using minio-go.

Paths map to keys under an optional prefix. Directories do not exist in an
object store, so they are emulated: CreateDirectory writes a zero-byte marker
object whose key ends in "/", and a path counts as a directory when either its
marker or any object beneath it exists.

Behaviour differs from the local backing in two places:
  - SetReadOnly is accepted and ignored; object permissions belong to bucket policy.
  - BuildArchive streams the zip straight into a single upload, so a failed
    build leaves no partial archive behind.

Every remote call waits on a request-rate limiter and runs through a circuit
breaker. Missing keys do not trip the breaker.

Usage:

	client, _ := minio.New("localhost:9000", &minio.Options{
		Creds: credentials.NewStaticV4(access, secret, ""),
	})
	store, err := objectstore.New(client, objectstore.Options{Bucket: "exports", Prefix: "run-42"})
	if err != nil {
		return err
	}
	err = store.SaveBinary(ctx, "reports/summary.bin", data)
*/
package objectstore

// Package logging builds the zap loggers storagekit writes to.
//
// New produces the root logger from Config: JSON in production and colored
// console output in development. Backends never build their own; they take a
// caller-supplied *zap.Logger and derive a named child with ForBackend, which
// falls back to a no-op logger when the caller passes nil.
//
// Example Usage:
//
//	logger, err := logging.New(logging.Config{Level: "debug", Development: true})
//	if err != nil {
//		return err
//	}
//	store, err := local.New(local.Options{Root: "/var/lib/exports", Logger: logger})
package logging

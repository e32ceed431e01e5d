package domain

import "errors"

var (
	// ErrSourceUnavailable is returned when the source document API cannot be read.
	// Fatal for the current run.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrConfiguration is returned when a record cannot be given an owner because
	// neither a matching producer nor a fallback producer exists
	ErrConfiguration = errors.New("configuration error")

	// ErrReferenceUnresolved is recorded when a producer name has no match in the destination store
	ErrReferenceUnresolved = errors.New("reference unresolved")

	// ErrAssetMigrationFailed is recorded when a transient asset could not be copied to durable storage
	ErrAssetMigrationFailed = errors.New("asset migration failed")

	// ErrWrite is returned when the destination store rejects the upsert batch
	ErrWrite = errors.New("write error")
)

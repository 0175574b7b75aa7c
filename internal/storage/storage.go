// Package storage abstracts the artifact store the generator writes into.
// The generator only ever needs three capabilities: existence checks, reads,
// and whole-file writes. Everything else about the host platform's storage
// layer stays on the other side of this interface.
package storage

import "context"

//go:generate mockgen -source=storage.go -destination=mock_store.go -package=storage

// Store is the minimal storage surface the notebook generator depends on.
// Names are slash-separated paths relative to the store root.
type Store interface {
	// Exists reports whether an artifact is already present under name.
	Exists(ctx context.Context, name string) (bool, error)

	// Read returns the full content of the artifact under name.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write stores data under name, replacing any existing artifact. A
	// failed Write must never leave a partially written artifact visible.
	Write(ctx context.Context, name string, data []byte) error
}

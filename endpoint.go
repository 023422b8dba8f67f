package main

import (
	"context"
	"io"
)

// Endpoint is the capability set every backend satisfies: a filesystem
// tree, an object-store bucket/prefix, or an encryption wrapper around
// either of those. Composition happens by wrapping, not inheritance: a
// decorator owns an inner Endpoint value for the lifetime of one sync.
type Endpoint interface {
	// List calls fn once per entry visible at the endpoint. The order is
	// backend-defined. List must be finite and must terminate; it does not
	// assume the caller will consume entries in any particular order. A
	// non-nil error from fn stops the listing and is returned from List.
	List(ctx context.Context, fn func(Entry) error) error

	// Size returns the plaintext-equivalent size of the entry at path.
	Size(ctx context.Context, path string) (int64, error)

	// Read returns a readable stream of the entry's content. The caller
	// must Close it.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write stores size bytes read from r under path, creating any
	// intermediate directories a leaf backend needs. It returns only once
	// all bytes are durable from the backend's point of view.
	Write(ctx context.Context, path string, r io.Reader, size int64) error

	// Remove deletes the entry at path. It fails if the entry is missing.
	Remove(ctx context.Context, path string) error

	// IsWriteSupported reports whether the backend can accept a write of
	// size bytes at path.
	IsWriteSupported(path string, size int64) bool

	// String returns a human-readable identifier for log lines.
	String() string
}

// RestoreState describes whether an archived object is being retrieved.
type RestoreState struct {
	// Archived is true when the object currently lives in a cold storage
	// tier and cannot be read directly.
	Archived bool
	// Ongoing is true while a restore request for the object is in
	// progress.
	Ongoing bool
	// Done is true once a restore has completed and the object is
	// readable again without waiting.
	Done bool
}

// Restorable is implemented by endpoints that sit on top of (or are) cold
// tier object storage. The encryption wrapper implements it by delegating
// to its inner endpoint when that endpoint implements it too.
type Restorable interface {
	Endpoint

	// Head returns backend metadata about the entry at path, including its
	// restore state.
	Head(ctx context.Context, path string) (RestoreState, error)

	// Restore initiates archive-tier retrieval for the entry at path. It
	// is idempotent: calling it while a retrieval is already ongoing is a
	// no-op.
	Restore(ctx context.Context, path string) error
}

// asRestorable returns ep's Restorable view when it has one.
func asRestorable(ep Endpoint) (Restorable, bool) {
	r, ok := ep.(Restorable)
	return r, ok
}

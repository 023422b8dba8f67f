package main

import (
	"context"
	"fmt"
	"io"
)

// maxEncryptedWriteSize is the encryption layer's self-imposed ceiling:
// beyond it a single AES-GCM tag would cover too much data for a
// practical integrity story. Files over this size are skipped by the
// driver, not failed.
const maxEncryptedWriteSize = 64 * 1024 * 1024 * 1024 // 64 GiB

// EncEndpoint decorates another Endpoint, encrypting names and bodies. It
// owns its inner Endpoint for the lifetime of one sync.
type EncEndpoint struct {
	inner Endpoint
	key   []byte
}

// NewEncEndpoint wraps inner in a transparent encryption layer keyed by
// password (via scrypt, see crypto.go).
func NewEncEndpoint(inner Endpoint, password string) (*EncEndpoint, error) {
	key, err := deriveKey(password)
	if err != nil {
		return nil, err
	}
	return &EncEndpoint{inner: inner, key: key}, nil
}

func (e *EncEndpoint) String() string {
	return "enc+" + e.inner.String()
}

// List decrypts each inner name and subtracts the framing overhead from
// each reported size so callers see plaintext-equivalent sizes.
func (e *EncEndpoint) List(ctx context.Context, fn func(Entry) error) error {
	return e.inner.List(ctx, func(inner Entry) error {
		name, err := decryptName(e.key, inner.Path)
		if err != nil {
			return err
		}
		if inner.Size < frameOverhead {
			return newIntegrityError(fmt.Sprintf(
				"%s: inner size %d is below the %d-byte framing overhead", inner.Path, inner.Size, frameOverhead))
		}
		return fn(Entry{
			Path:    name,
			Size:    inner.Size - frameOverhead,
			ModTime: inner.ModTime,
		})
	})
}

func (e *EncEndpoint) Size(ctx context.Context, path string) (int64, error) {
	name, err := encryptName(e.key, path)
	if err != nil {
		return 0, err
	}
	size, err := e.inner.Size(ctx, name)
	if err != nil {
		return 0, err
	}
	if size < frameOverhead {
		return 0, newIntegrityError(fmt.Sprintf(
			"%s: inner size %d is below the %d-byte framing overhead", path, size, frameOverhead))
	}
	return size - frameOverhead, nil
}

func (e *EncEndpoint) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	name, err := encryptName(e.key, path)
	if err != nil {
		return nil, err
	}
	inner, err := e.inner.Read(ctx, name)
	if err != nil {
		return nil, err
	}
	defer inner.Close()

	plain, err := decryptBody(e.key, inner)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(plain), nil
}

func (e *EncEndpoint) Write(ctx context.Context, path string, r io.Reader, size int64) error {
	name, err := encryptName(e.key, path)
	if err != nil {
		return err
	}

	cipherStream, cipherSize, err := encryptBody(e.key, r)
	if err != nil {
		return err
	}

	return e.inner.Write(ctx, name, cipherStream, cipherSize)
}

func (e *EncEndpoint) Remove(ctx context.Context, path string) error {
	name, err := encryptName(e.key, path)
	if err != nil {
		return err
	}
	return e.inner.Remove(ctx, name)
}

// IsWriteSupported enforces the 64 GiB encryption ceiling in addition to
// whatever the inner endpoint allows for the framed (size + 33) write.
func (e *EncEndpoint) IsWriteSupported(path string, size int64) bool {
	if size > maxEncryptedWriteSize {
		return false
	}
	return e.inner.IsWriteSupported(path, size+frameOverhead)
}

// Head delegates to the inner endpoint's Restorable view, if it has one.
func (e *EncEndpoint) Head(ctx context.Context, path string) (RestoreState, error) {
	r, ok := asRestorable(e.inner)
	if !ok {
		return RestoreState{}, fmt.Errorf("%s: head not supported", e.inner)
	}
	name, err := encryptName(e.key, path)
	if err != nil {
		return RestoreState{}, err
	}
	return r.Head(ctx, name)
}

// Restore delegates to the inner endpoint's Restorable view, if it has one.
func (e *EncEndpoint) Restore(ctx context.Context, path string) error {
	r, ok := asRestorable(e.inner)
	if !ok {
		return fmt.Errorf("%s: restore not supported", e.inner)
	}
	name, err := encryptName(e.key, path)
	if err != nil {
		return err
	}
	return r.Restore(ctx, name)
}

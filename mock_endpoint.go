package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// memObject is what memEndpoint actually stores per path.
type memObject struct {
	data    []byte
	modTime int64
	restore RestoreState
}

// memEndpoint is an in-memory Endpoint used by tests: a hand-rolled stub
// that records what was asked of it rather than a generated mock.
type memEndpoint struct {
	objects map[string]*memObject

	writeLimit int64 // 0 means unlimited

	// writeClock hands out store-assigned modification times, later than
	// any source mtime the tests use, the way a real filesystem or object
	// store stamps a write with its own clock.
	writeClock int64

	WriteCalls   []string
	RemoveCalls  []string
	RestoreCalls []string
}

func newMemEndpoint() *memEndpoint {
	return &memEndpoint{objects: make(map[string]*memObject), writeClock: 1 << 40}
}

func (m *memEndpoint) String() string { return "mem://test" }

func (m *memEndpoint) put(path string, data []byte, modTime int64) {
	m.objects[path] = &memObject{data: append([]byte(nil), data...), modTime: modTime}
}

func (m *memEndpoint) List(ctx context.Context, fn func(Entry) error) error {
	for path, obj := range m.objects {
		if err := fn(Entry{Path: path, Size: int64(len(obj.data)), ModTime: obj.modTime}); err != nil {
			return err
		}
	}
	return nil
}

func (m *memEndpoint) Size(ctx context.Context, path string) (int64, error) {
	obj, ok := m.objects[path]
	if !ok {
		return 0, fmt.Errorf("%s: not found", path)
	}
	return int64(len(obj.data)), nil
}

func (m *memEndpoint) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	obj, ok := m.objects[path]
	if !ok {
		return nil, fmt.Errorf("%s: not found", path)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *memEndpoint) Write(ctx context.Context, path string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.WriteCalls = append(m.WriteCalls, path)
	m.writeClock++
	m.objects[path] = &memObject{data: data, modTime: m.writeClock}
	return nil
}

func (m *memEndpoint) Remove(ctx context.Context, path string) error {
	if _, ok := m.objects[path]; !ok {
		return fmt.Errorf("%s: not found", path)
	}
	m.RemoveCalls = append(m.RemoveCalls, path)
	delete(m.objects, path)
	return nil
}

func (m *memEndpoint) IsWriteSupported(path string, size int64) bool {
	if m.writeLimit == 0 {
		return true
	}
	return size <= m.writeLimit
}

func (m *memEndpoint) Head(ctx context.Context, path string) (RestoreState, error) {
	obj, ok := m.objects[path]
	if !ok {
		return RestoreState{}, fmt.Errorf("%s: not found", path)
	}
	return obj.restore, nil
}

func (m *memEndpoint) Restore(ctx context.Context, path string) error {
	obj, ok := m.objects[path]
	if !ok {
		return fmt.Errorf("%s: not found", path)
	}
	m.RestoreCalls = append(m.RestoreCalls, path)
	obj.restore.Ongoing = true
	return nil
}

var (
	_ Endpoint   = (*memEndpoint)(nil)
	_ Restorable = (*memEndpoint)(nil)
)

// memEndpointNoRestore is a plain in-memory Endpoint with no Head/Restore,
// standing in for a filesystem backend in tests that exercise the
// "unsupported" path of restore-aware code. It deliberately does not embed
// memEndpoint (which would promote Head/Restore and satisfy Restorable
// anyway); it delegates by hand instead.
type memEndpointNoRestore struct {
	inner *memEndpoint
}

func newMemEndpointNoRestore() *memEndpointNoRestore {
	return &memEndpointNoRestore{inner: newMemEndpoint()}
}

func (m *memEndpointNoRestore) String() string { return m.inner.String() }

func (m *memEndpointNoRestore) List(ctx context.Context, fn func(Entry) error) error {
	return m.inner.List(ctx, fn)
}

func (m *memEndpointNoRestore) Size(ctx context.Context, path string) (int64, error) {
	return m.inner.Size(ctx, path)
}

func (m *memEndpointNoRestore) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	return m.inner.Read(ctx, path)
}

func (m *memEndpointNoRestore) Write(ctx context.Context, path string, r io.Reader, size int64) error {
	return m.inner.Write(ctx, path, r, size)
}

func (m *memEndpointNoRestore) Remove(ctx context.Context, path string) error {
	return m.inner.Remove(ctx, path)
}

func (m *memEndpointNoRestore) IsWriteSupported(path string, size int64) bool {
	return m.inner.IsWriteSupported(path, size)
}

var _ Endpoint = (*memEndpointNoRestore)(nil)

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FSEndpoint is a leaf Endpoint rooted at a local directory.
type FSEndpoint struct {
	root string
}

// NewFSEndpoint constructs a filesystem backend rooted at root.
func NewFSEndpoint(root string) *FSEndpoint {
	return &FSEndpoint{root: root}
}

func (f *FSEndpoint) String() string {
	return fmt.Sprintf("file://%s", f.root)
}

func (f *FSEndpoint) absPath(relPath string) string {
	return filepath.Join(f.root, filepath.FromSlash(relPath))
}

// List walks the root depth-first. Symbolic links and non-regular files
// are skipped.
func (f *FSEndpoint) List(ctx context.Context, fn func(Entry) error) error {
	return filepath.WalkDir(f.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 || !info.Mode().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(f.root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		return fn(Entry{
			Path:    relPath,
			Size:    info.Size(),
			ModTime: info.ModTime().UnixMilli(),
		})
	})
}

func (f *FSEndpoint) Size(ctx context.Context, path string) (int64, error) {
	info, err := os.Stat(f.absPath(path))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (f *FSEndpoint) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	return os.Open(f.absPath(path))
}

// Write creates any missing parent directories and writes from the
// caller's perspective atomically only to the extent the filesystem
// guarantees: it writes to a sibling temp file and renames it into place.
func (f *FSEndpoint) Write(ctx context.Context, path string, r io.Reader, size int64) error {
	target := f.absPath(path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	tmpName := filepath.Join(filepath.Dir(target), fmt.Sprintf(".cryptosync-%s.tmp", uuid.NewString()))
	tmp, err := os.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}

	return nil
}

func (f *FSEndpoint) Remove(ctx context.Context, path string) error {
	return os.Remove(f.absPath(path))
}

// IsWriteSupported always returns true for the filesystem backend.
func (f *FSEndpoint) IsWriteSupported(path string, size int64) bool {
	return true
}

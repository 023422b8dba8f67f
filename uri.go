package main

import (
	"fmt"
	"strings"
)

// parsedURI is the result of parsing one endpoint URI of the grammar
// [enc+](file|s3)://<path>.
type parsedURI struct {
	Encrypted bool
	Scheme    string // "file" or "s3"
	Root      string // file:// root directory
	Bucket    string // s3:// bucket
	Prefix    string // s3:// key prefix, may be empty
	Raw       string
}

// parseURI parses one endpoint URI. It returns a usage error on anything
// that doesn't match the grammar.
func parseURI(raw string) (parsedURI, error) {
	p := parsedURI{Raw: raw}

	rest := raw
	if strings.HasPrefix(rest, "enc+") {
		p.Encrypted = true
		rest = strings.TrimPrefix(rest, "enc+")
	}

	switch {
	case strings.HasPrefix(rest, "file://"):
		p.Scheme = "file"
		p.Root = strings.TrimPrefix(rest, "file://")
		if p.Root == "" {
			return p, newUsageError(fmt.Sprintf("uri %q: file:// requires a root path", raw))
		}
	case strings.HasPrefix(rest, "s3://"):
		p.Scheme = "s3"
		path := strings.TrimPrefix(rest, "s3://")
		if path == "" {
			return p, newUsageError(fmt.Sprintf("uri %q: s3:// requires a bucket", raw))
		}
		if idx := strings.Index(path, "/"); idx >= 0 {
			p.Bucket = path[:idx]
			p.Prefix = path[idx+1:]
		} else {
			p.Bucket = path
		}
		if p.Bucket == "" {
			return p, newUsageError(fmt.Sprintf("uri %q: s3:// requires a bucket", raw))
		}
	default:
		return p, newUsageError(fmt.Sprintf("uri %q: unknown or missing scheme, want file:// or s3://", raw))
	}

	return p, nil
}

package main

import (
	log "github.com/sirupsen/logrus"
)

// logNotice logs a multipart-sizing or other informational notice. Kept as
// a tiny indirection so partsize.go and s3backend.go don't need to import
// logrus directly for a single call site.
func logNotice(msg string) {
	log.Info(msg)
}

package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// SyncStats collects the counts the driver prints at the end of a run.
// The driver applies actions one at a time on a single goroutine, so no
// locking is needed here.
type SyncStats struct {
	Added   int
	Updated int
	Deleted int
	Skipped int
}

func (s SyncStats) String() string {
	return fmt.Sprintf(
		"%d file(s) added, %d file(s) updated, %d file(s) deleted, %d file(s) skipped",
		s.Added, s.Updated, s.Deleted, s.Skipped,
	)
}

// Log prints the single summary line emitted on successful completion.
func (s SyncStats) Log() {
	log.Info(s.String())
}

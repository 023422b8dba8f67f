package main

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// SyncDriver consumes the differ's action stream and dispatches copy/
// delete operations against source and target. One action is applied at
// a time, in the order the differ produced them; there is no intra-sync
// parallelism.
type SyncDriver struct {
	Source Endpoint
	Target Endpoint
}

func NewSyncDriver(source, target Endpoint) *SyncDriver {
	return &SyncDriver{Source: source, Target: target}
}

// Sync lists both endpoints, diffs the listings, and applies every
// resulting action in order. It returns the collected stats even when it
// returns an error, so a caller can log what happened before the failure.
func (d *SyncDriver) Sync(ctx context.Context) (SyncStats, error) {
	stats := SyncStats{}

	log.Info(fmt.Sprintf("Sync starting: %s -> %s", d.Source, d.Target))

	var sourceEntries, targetEntries []Entry
	if err := d.Source.List(ctx, func(e Entry) error {
		sourceEntries = append(sourceEntries, e)
		return nil
	}); err != nil {
		return stats, fmt.Errorf("list source: %w", err)
	}
	if err := d.Target.List(ctx, func(e Entry) error {
		targetEntries = append(targetEntries, e)
		return nil
	}); err != nil {
		return stats, fmt.Errorf("list target: %w", err)
	}

	actions := diff(sourceEntries, targetEntries)

	for _, action := range actions {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		switch action.Kind {
		case ActionAdd, ActionUpdate:
			if err := d.applyCopy(ctx, action, &stats); err != nil {
				return stats, err
			}
		case ActionDelete:
			if err := d.applyDelete(ctx, action, &stats); err != nil {
				return stats, err
			}
		}
	}

	log.Info(fmt.Sprintf("Sync complete: %s -> %s", d.Source, d.Target))
	stats.Log()

	return stats, nil
}

func (d *SyncDriver) applyCopy(ctx context.Context, action Action, stats *SyncStats) error {
	path := action.Entry.Path

	size, err := d.Source.Size(ctx, path)
	if err != nil {
		return fmt.Errorf("size %s: %w", path, err)
	}

	if !d.Target.IsWriteSupported(path, size) {
		log.Info(fmt.Sprintf("Skipping %s: target does not support a write of %d bytes", path, size))
		stats.Skipped++
		return nil
	}

	log.Info(fmt.Sprintf("Copying %s", path))

	src, err := d.Source.Read(ctx, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	defer src.Close()

	if err := d.Target.Write(ctx, path, src, size); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if action.Kind == ActionAdd {
		stats.Added++
	} else {
		stats.Updated++
	}

	return nil
}

func (d *SyncDriver) applyDelete(ctx context.Context, action Action, stats *SyncStats) error {
	path := action.Entry.Path

	log.Info(fmt.Sprintf("Removing %s", path))

	if err := d.Target.Remove(ctx, path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}

	stats.Deleted++

	return nil
}

// RunRestore lists an (encryption-transparent) object-store endpoint,
// heads every entry, and restores whichever ones are archived and not
// already being retrieved. Safe to re-run while retrievals are in flight.
func RunRestore(ctx context.Context, ep Endpoint) error {
	restorable, ok := asRestorable(ep)
	if !ok {
		return fmt.Errorf("%s does not support restore", ep)
	}

	return ep.List(ctx, func(e Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		state, err := restorable.Head(ctx, e.Path)
		if err != nil {
			return fmt.Errorf("head %s: %w", e.Path, err)
		}

		if state.Archived && !state.Ongoing {
			log.Info(fmt.Sprintf("Restoring %s", e.Path))
			if err := restorable.Restore(ctx, e.Path); err != nil {
				return fmt.Errorf("restore %s: %w", e.Path, err)
			}
		}

		return nil
	})
}

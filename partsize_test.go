package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanPartSizeSmallFileUsesMinimum(t *testing.T) {
	got := planPartSize(10*1024*1024, nil)
	assert.Equal(t, minPartSize, got)
}

func TestPlanPartSizeDoublesForLargeFiles(t *testing.T) {
	var notices []string
	// 60 GiB needs more than the 5 MiB minimum part size to stay under
	// 10,000 parts.
	size := int64(60) * 1024 * 1024 * 1024
	got := planPartSize(size, func(s string) { notices = append(notices, s) })

	assert.Greater(t, got, minPartSize)
	assert.LessOrEqual(t, ceilDiv(size, got), maxPartsPerUpload)
	assert.NotEmpty(t, notices)
	assert.Contains(t, notices[0], "Increasing part size to")
}

func TestPlanPartSizeClipsToMaximum(t *testing.T) {
	var notices []string
	// Larger than any write is_write_supported would ever allow through,
	// but the planner itself doesn't know about that limit: it must still
	// clip rather than return an over-sized part.
	size := int64(100) * 1024 * 1024 * 1024 * 1024
	got := planPartSize(size, func(s string) { notices = append(notices, s) })

	assert.LessOrEqual(t, got, maxPartSize)
	found := false
	for _, n := range notices {
		if n == "Clipping part size down to maximum 5368709120 bytes" {
			found = true
		}
	}
	assert.True(t, found)
}

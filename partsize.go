package main

import (
	"fmt"
)

const (
	minPartSize       int64 = 5 * 1024 * 1024               // 5 MiB
	maxPartSize       int64 = 5 * 1024 * 1024 * 1024        // 5 GiB
	maxPartsPerUpload int64 = 10000
	maxObjectSize     int64 = 5 * 1024 * 1024 * 1024 * 1024 // 5 TiB
)

// planPartSize chooses a multipart part size: start at 5 MiB, double while
// the part count would exceed 10,000 parts, then clip to the [5 MiB, 5
// GiB] hard limits. notices receives one message per doubling or clipping
// step, so a caller can log each one at Info level the way the rest of
// this codebase logs notable events.
func planPartSize(size int64, notices func(string)) int64 {
	if notices == nil {
		notices = func(string) {}
	}

	partSize := minPartSize
	for ceilDiv(size, partSize) > maxPartsPerUpload {
		partSize *= 2
		notices(fmt.Sprintf("Increasing part size to %d bytes to stay within %d parts", partSize, maxPartsPerUpload))
	}

	if partSize > maxPartSize {
		notices(fmt.Sprintf("Clipping part size down to maximum %d bytes", maxPartSize))
		partSize = maxPartSize
	}
	if partSize < minPartSize {
		notices(fmt.Sprintf("Clipping part size up to minimum %d bytes", minPartSize))
		partSize = minPartSize
	}

	return partSize
}

func ceilDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

//go:build linux

package pivotsplit

import "golang.org/x/sys/unix"

// peakRSS returns the maximum resident set size of the process in bytes.
func peakRSS() (int64, bool) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, false
	}
	// Maxrss is reported in kilobytes on Linux.
	return int64(ru.Maxrss) * 1024, true
}

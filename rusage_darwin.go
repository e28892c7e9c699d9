//go:build darwin

package pivotsplit

import "golang.org/x/sys/unix"

// peakRSS returns the maximum resident set size of the process in bytes.
func peakRSS() (int64, bool) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, false
	}
	return int64(ru.Maxrss), true
}

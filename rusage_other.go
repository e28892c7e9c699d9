//go:build !linux && !darwin

package pivotsplit

func peakRSS() (int64, bool) { return 0, false }

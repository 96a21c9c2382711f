package game

import (
	"fmt"
	"time"
)

// clampScale keeps a device scale factor in [1, limit].
func clampScale(v, limit float64) float64 {
	if !(v >= 1) {
		return 1
	}
	if v > limit {
		return limit
	}
	return v
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

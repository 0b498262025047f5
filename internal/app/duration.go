package app

import (
	"fmt"
	"time"
)

// FormatDuration renders d as HH:MM:SS. Hours are not wrapped at 24.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := d / time.Hour
	minutes := (d % time.Hour) / time.Minute
	seconds := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

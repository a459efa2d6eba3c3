package util

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	m := total / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatSeconds formats a position in seconds as m:ss.t, with tenths, for
// the transport readout.
func FormatSeconds(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	m := int(sec) / 60
	rem := sec - float64(m*60)
	return fmt.Sprintf("%d:%04.1f", m, rem)
}

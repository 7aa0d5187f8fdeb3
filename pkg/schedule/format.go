package schedule

import "fmt"

// SystemTimeLayout is the layout used to display the current system time.
const SystemTimeLayout = "2006-01-02 15:04:05"

// FormatRemaining renders seconds as HH:MM:SS. Hours are not capped at 24.
func FormatRemaining(secs uint32) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

package domain

import "fmt"

// FormatDuration renders a duration in seconds with a unit chosen by
// magnitude: seconds below ten minutes, minutes below two hours, hours below
// two days, days beyond that. Two decimal places throughout.
func FormatDuration(seconds float64) string {
	switch {
	case seconds < 10*60:
		return fmt.Sprintf("%.2f s", seconds)
	case seconds < 2*60*60:
		return fmt.Sprintf("%.2f m", seconds/60)
	case seconds < 2*60*60*24:
		return fmt.Sprintf("%.2f h", seconds/(60*60))
	default:
		return fmt.Sprintf("%.2f d", seconds/(60*60*24))
	}
}

package timer

import (
	"time"

	"github.com/azatkg/lounge/internal/timeutil"
)

// sessionPrice charges for every started hour of the session duration.
func sessionPrice(duration time.Duration, ratePerHour int) int {
	return timeutil.CeilHours(duration) * ratePerHour
}

// extensionPrice charges for every started hour of the extension only; the
// session is not re-priced against its whole new duration.
func extensionPrice(extraMinutes, ratePerHour int) int {
	hours := extraMinutes / 60
	if extraMinutes%60 != 0 {
		hours++
	}

	return hours * ratePerHour
}

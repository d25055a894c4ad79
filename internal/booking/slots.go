package booking

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"

	// slotStep is the spacing between alternative slot candidates.
	slotStep = 30
	// slotSteps is how many steps the search goes in each direction.
	slotSteps = 4
)

// parseDate validates an ISO calendar date.
func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, invalid("date must be YYYY-MM-DD, got %q", s)
	}
	return d, nil
}

// parseClock splits a zero-padded 24-hour "HH:MM" string.
func parseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, invalid("time must be HH:MM, got %q", s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, invalid("time must be HH:MM, got %q", s)
		}
	}
	hour = int(s[0]-'0')*10 + int(s[1]-'0')
	minute = int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 || minute > 59 {
		return 0, 0, invalid("time out of range: %q", s)
	}
	return hour, minute, nil
}

// weekdayName returns the English day name used by operating_hours.
func weekdayName(d time.Time) string {
	return d.Weekday().String()
}

// formatClock renders hour and minute as "HH:MM".
func formatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// AlternativeSlotTimes lists the candidate times around requested, in
// 30 minute steps from -2h to +2h with the requested time itself left out.
// Candidates that leave the day or fall outside [opening, closing] are
// dropped.  The result keeps generation order: earliest offset first.
// All three arguments are "HH:MM"; a malformed requested time yields nil.
func AlternativeSlotTimes(requested, opening, closing string) []string {
	hour, minute, err := parseClock(requested)
	if err != nil {
		return nil
	}
	out := make([]string, 0, 2*slotSteps)
	for step := -slotSteps; step <= slotSteps; step++ {
		if step == 0 {
			continue
		}
		h, m := hour, minute+step*slotStep
		for m >= 60 {
			h++
			m -= 60
		}
		for m < 0 {
			h--
			m += 60
		}
		if h < 0 || h > 23 {
			continue
		}
		slot := formatClock(h, m)
		if slot < opening || slot > closing {
			continue
		}
		out = append(out, slot)
	}
	return out
}

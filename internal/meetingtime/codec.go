// Package meetingtime converts between the catalog's stored meeting
// pattern representation (day letter codes, clock-time strings) and the
// concrete dated instants the calendar displays.
//
// Week projection deliberately re-stitches the stored clock-time substring
// onto a date computed from "now": both sides are assumed to share the
// same zone convention (UTC here). Introducing explicit zone handling
// would change observable output, so it is preserved as-is.
package meetingtime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var dayLetters = map[string]time.Weekday{
	"M": time.Monday,
	"T": time.Tuesday,
	"W": time.Wednesday,
	"R": time.Thursday,
	"F": time.Friday,
}

// Weekday maps a day letter code to its weekday. Only M T W R F exist;
// the catalog models no weekend meetings.
func Weekday(letter string) (time.Weekday, bool) {
	d, ok := dayLetters[letter]
	return d, ok
}

// StartOfWeek returns midnight UTC of the Sunday starting the week
// containing the given instant.
func StartOfWeek(now time.Time) time.Time {
	d := now.UTC()
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// DateFor returns the YYYY-MM-DD date of the given day letter inside the
// week containing now.
func DateFor(now time.Time, letter string) (string, bool) {
	weekday, ok := dayLetters[letter]
	if !ok {
		return "", false
	}
	return StartOfWeek(now).AddDate(0, 0, int(weekday)).Format("2006-01-02"), true
}

// To24Hour converts "h:mm AM/PM" into "HH:MM". Hour 12 normalizes to 00
// before the PM offset; PM adds 12 unless already normalized. Input
// without an AM/PM marker is returned unchanged.
func To24Hour(clock string) string {
	parts := strings.SplitN(clock, " ", 2)
	if len(parts) != 2 {
		return clock
	}
	hm := strings.SplitN(parts[0], ":", 2)
	if len(hm) != 2 {
		return clock
	}
	hour, err := strconv.Atoi(hm[0])
	if err != nil {
		return clock
	}

	switch strings.ToUpper(strings.TrimSpace(parts[1])) {
	case "PM":
		if hour != 12 {
			hour += 12
		}
	default:
		if hour == 12 {
			hour = 0
		}
	}

	return fmt.Sprintf("%02d:%s", hour, hm[1])
}

// To12Hour converts "HH:MM" into the zero-padded "hh:mm AM/PM" form the
// appointment editor displays.
func To12Hour(clock string) string {
	hm := strings.SplitN(clock, ":", 2)
	if len(hm) != 2 {
		return clock
	}
	hour, err := strconv.Atoi(hm[0])
	if err != nil {
		return clock
	}

	marker := "AM"
	if hour >= 12 {
		marker = "PM"
	}
	switch {
	case hour > 12:
		hour -= 12
	case hour == 0:
		hour = 12
	}

	return fmt.Sprintf("%02d:%s %s", hour, hm[1], marker)
}

// ProjectToCurrentWeek shifts a persisted ISO instant so its weekday
// lands inside the week containing now, keeping the clock-time component
// unchanged (normalized to UTC milliseconds form).
func ProjectToCurrentWeek(iso string, now time.Time) (string, error) {
	t, err := ParseInstant(iso)
	if err != nil {
		return "", err
	}

	date := StartOfWeek(now).AddDate(0, 0, int(t.UTC().Weekday())).Format("2006-01-02")
	return date + "T" + t.UTC().Format("15:04:05.000") + "Z", nil
}

// ParseInstant accepts the instant shapes the engine has ever persisted:
// full RFC 3339, and the naive second-less/zone-less concatenations the
// projector emits.
func ParseInstant(iso string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable instant %q", iso)
}

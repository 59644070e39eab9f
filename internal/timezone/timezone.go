package timezone

import (
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "Asia/Karachi"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// In converts t to the named zone, falling back to the clinic default.
func In(t time.Time, tz string) time.Time {
	return t.In(Location(tz))
}

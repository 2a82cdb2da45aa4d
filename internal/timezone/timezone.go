package timezone

import "time"

const DefaultTimezone = "America/Sao_Paulo"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location falls back to DefaultTimezone, and to UTC when the tz
// database is missing.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// FormatRange renders a booking slot for humans, e.g.
// "Mon 02 Mar 2026, 10:00 - 11:00".
func FormatRange(start, end time.Time, loc *time.Location) string {
	s := start.In(loc)
	e := end.In(loc)
	if s.YearDay() == e.YearDay() && s.Year() == e.Year() {
		return s.Format("Mon 02 Jan 2006, 15:04") + " - " + e.Format("15:04")
	}
	return s.Format("Mon 02 Jan 2006, 15:04") + " - " + e.Format("Mon 02 Jan 2006, 15:04")
}

// DayBounds returns [00:00, next 00:00) of the date in loc, as UTC.
func DayBounds(date string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return day.UTC(), day.AddDate(0, 0, 1).UTC(), nil
}

package timeutil

import "time"

const displayLayout = "2006-01-02 15:04"

// LoadDisplayLocation resolves the configured display timezone, falling
// back to UTC when the name is unknown.
func LoadDisplayLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FormatLocal renders a stored UTC instant in the display timezone as
// "YYYY-MM-DD HH:MM". Zero times render empty.
func FormatLocal(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(displayLayout)
}

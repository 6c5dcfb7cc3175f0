package shared

import "time"

// ParseDateIn accepts RFC3339 or YYYY-MM-DD. Calendar dates are read in loc so a
// date filter matches the operator's day. Blank yields the zero time.
func ParseDateIn(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.ParseInLocation("2006-01-02", value, loc)
}

package db

import "time"

// TimeFormat renders a time as RFC3339 in UTC, the canonical storage format.
func TimeFormat(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// TimeParse parses an RFC3339 timestamp as stored in the database.
// An empty string parses to the zero time without error.
func TimeParse(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

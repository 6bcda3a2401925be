package utils

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseTimeBound parses a query-string time filter given as RFC3339 or as a bare
// YYYY-MM-DD date. A bare date is read as UTC midnight, or as the last second of that day
// when endOfDay is set so that an upper bound includes the whole day.
func ParseTimeBound(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}

	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC3339 or YYYY-MM-DD, got %q", value)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, nil
}

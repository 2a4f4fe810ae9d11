package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"hotel-booking/models"
)

const day = 24 * time.Hour

// Nights is the billable number of nights between start and end. Partial days
// round up and the result is never below one.
func Nights(start, end time.Time) int {
	n := int(math.Ceil(float64(end.Sub(start)) / float64(day)))
	if n < 1 {
		return 1
	}
	return n
}

// TotalPrice is nights × nightly rate, rounded to cents.
func TotalPrice(start, end time.Time, nightlyRate float64) float64 {
	total := float64(Nights(start, end)) * nightlyRate
	return math.Round(total*100) / 100
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the UTC calendar date.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(models.DateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return dateOf(t), nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

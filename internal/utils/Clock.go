package utils

import "time"

const (
	// DateLayout is the calendar date format used for every user supplied date.
	DateLayout = "2006-01-02"
	// TimeOfDayLayout is appended to a date when a row records a point in time.
	TimeOfDayLayout = "15:04:05"
	// TimestampLayout is how timestamps are stored; the date portion is always the first ten characters.
	TimestampLayout = DateLayout + " " + TimeOfDayLayout
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}

// Advance moves the mocked time forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.FixedNow = m.FixedNow.Add(d)
}

// FormatTimestamp renders t in the storage layout, keeping t's wall clock.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp reads a stored timestamp back as local wall clock time.
func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, s, time.Local)
}

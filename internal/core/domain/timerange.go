package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ClockTime is a wall-clock time of day in minutes since midnight (0..1439).
type ClockTime int

// NewClockTime builds a ClockTime from hours and minutes.
func NewClockTime(hour, minute int) (ClockTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d is not a time of day", ErrInvalidRange, hour, minute)
	}
	return ClockTime(hour*60 + minute), nil
}

// ParseClock parses "HH:MM" or "HH:MM:SS". Seconds are accepted for
// compatibility with SQL TIME columns and truncated.
func ParseClock(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: unparseable time %q", ErrInvalidRange, s)
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("%w: unparseable time %q", ErrInvalidRange, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("%w: unparseable time %q", ErrInvalidRange, s)
		}
		nums[i] = n
	}
	if len(nums) == 3 && (nums[2] < 0 || nums[2] > 59) {
		return 0, fmt.Errorf("%w: unparseable time %q", ErrInvalidRange, s)
	}
	return NewClockTime(nums[0], nums[1])
}

// MustParseClock is ParseClock for constants and tests.
func MustParseClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

// String renders the time as HH:MM.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// TimeRange is the start/end wall-clock pair of a single shift.
// End before Start means the shift runs past midnight into the next day.
type TimeRange struct {
	Start ClockTime `json:"start"`
	End   ClockTime `json:"end"`
}

// NewTimeRange returns a validated range.
func NewTimeRange(start, end ClockTime) (TimeRange, error) {
	r := TimeRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

// ParseTimeRange parses and validates two HH:MM strings.
func ParseTimeRange(start, end string) (TimeRange, error) {
	s, err := ParseClock(start)
	if err != nil {
		return TimeRange{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return TimeRange{}, err
	}
	return NewTimeRange(s, e)
}

// Validate rejects ranges whose start equals their end: a zero-length shift
// and a full 24h shift cannot be told apart.
func (r TimeRange) Validate() error {
	if r.Start < 0 || r.Start >= minutesPerDay || r.End < 0 || r.End >= minutesPerDay {
		return fmt.Errorf("%w: %d-%d out of day bounds", ErrInvalidRange, r.Start, r.End)
	}
	if r.Start == r.End {
		return fmt.Errorf("%w: start and end are both %s", ErrInvalidRange, r.Start)
	}
	return nil
}

// IsOvernight reports whether the range crosses midnight.
func (r TimeRange) IsOvernight() bool {
	return r.End < r.Start
}

// DurationMinutes returns the worked minutes, wrapping past midnight when
// needed. An invalid range yields 0.
func (r TimeRange) DurationMinutes() int {
	if r.Validate() != nil {
		return 0
	}
	if r.IsOvernight() {
		return minutesPerDay - int(r.Start) + int(r.End)
	}
	return int(r.End - r.Start)
}

// DurationHours is DurationMinutes in hours, rounded to one decimal.
func (r TimeRange) DurationHours() float64 {
	return RoundHours(r.DurationMinutes())
}

func (r TimeRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// RoundHours converts minutes to hours rounded to one decimal place.
// Sums are kept in minutes and only converted here.
func RoundHours(minutes int) float64 {
	return math.Round(float64(minutes)/6) / 10
}

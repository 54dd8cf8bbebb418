package domain

import (
	"errors"
	"fmt"
	"time"
)

const dayDuration = 24 * time.Hour

// Clock is a time of day expressed in minutes after midnight.
type Clock int

const (
	MinClock Clock = 0
	MaxClock Clock = 24*60 - 1
	// EndOfDay is "24:00". It is only valid as the end of a window.
	EndOfDay Clock = 24 * 60
)

var ErrInvalidClock = errors.New("invalid time of day")

// ParseClock reads "15:04". "24:00" parses to EndOfDay.
func ParseClock(s string) (Clock, error) {
	if s == "24:00" {
		return EndOfDay, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrInvalidClock
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

func (c Clock) Valid() bool {
	return c >= MinClock && c <= MaxClock
}

// ValidEnd reports whether c can close a window, which includes EndOfDay.
func (c Clock) ValidEnd() bool {
	return c > MinClock && c <= EndOfDay
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// On returns the instant at which this clock reads on the calendar date of day in loc.
// EndOfDay is the following midnight.
func (c Clock) On(day time.Time, loc *time.Location) time.Time {
	d := day.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, loc)
}

// ISO weekday numbers, Monday first.
const (
	Monday    int16 = 1
	Tuesday   int16 = 2
	Wednesday int16 = 3
	Thursday  int16 = 4
	Friday    int16 = 5
	Saturday  int16 = 6
	Sunday    int16 = 7
)

func ISOWeekday(t time.Time) int16 {
	wd := t.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return int16(wd)
}

func ValidWeekday(wd int16) bool {
	return wd >= Monday && wd <= Sunday
}

// WeekdaySet is a bit set of ISO weekdays.
type WeekdaySet uint8

const AllWeekdays WeekdaySet = 1<<7 - 1

func (s WeekdaySet) Has(wd int16) bool {
	if !ValidWeekday(wd) {
		return false
	}
	return s&(1<<(wd-1)) != 0
}

func (s WeekdaySet) With(wd int16) WeekdaySet {
	if !ValidWeekday(wd) {
		return s
	}
	return s | 1<<(wd-1)
}

func (s WeekdaySet) Intersects(o WeekdaySet) bool {
	return s&o != 0
}

// CoveredWeekdays returns the weekdays whose calendar dates in loc fall inside
// [windowStart, windowEnd]. A window of seven days or more covers every weekday.
func CoveredWeekdays(windowStart, windowEnd time.Time, loc *time.Location) WeekdaySet {
	if windowEnd.Before(windowStart) {
		return 0
	}
	if windowEnd.Sub(windowStart) >= 7*dayDuration {
		return AllWeekdays
	}

	var set WeekdaySet
	first := DateOf(windowStart, loc)
	last := DateOf(windowEnd, loc)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		set = set.With(ISOWeekday(d))
		if set == AllWeekdays {
			break
		}
	}
	return set
}

// DateOf returns the calendar date of t in loc as midnight UTC.
func DateOf(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfDay returns midnight of t's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)
}

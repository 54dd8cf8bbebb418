package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BlockedTime excludes StartTime..EndTime on every flagged weekday, optionally
// bounded by StartDate/EndDate. A nil date is unbounded on that side.
type BlockedTime struct {
	bun.BaseModel `bun:"table:blocked_times,alias:bt"`

	ID             uuid.UUID  `bun:"id,pk,type:uuid"`
	ProfessionalID uuid.UUID  `bun:"professional_id,notnull,type:uuid"`
	Monday         bool       `bun:"monday,notnull"`
	Tuesday        bool       `bun:"tuesday,notnull"`
	Wednesday      bool       `bun:"wednesday,notnull"`
	Thursday       bool       `bun:"thursday,notnull"`
	Friday         bool       `bun:"friday,notnull"`
	Saturday       bool       `bun:"saturday,notnull"`
	Sunday         bool       `bun:"sunday,notnull"`
	StartTime      Clock      `bun:"start_time,notnull"`
	EndTime        Clock      `bun:"end_time,notnull"`
	StartDate      *time.Time `bun:"start_date,type:date"`
	EndDate        *time.Time `bun:"end_date,type:date"`
	IsActive       bool       `bun:"is_active,notnull"`
	Reason         string     `bun:"reason"`
	CreatedAt      time.Time  `bun:"created_at,notnull"`
	UpdatedAt      time.Time  `bun:"updated_at,notnull"`
}

func (b *BlockedTime) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if b.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			b.ID = id
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		b.UpdatedAt = now
	}
	return nil
}

func (b BlockedTime) Weekdays() WeekdaySet {
	var set WeekdaySet
	flags := [...]bool{b.Monday, b.Tuesday, b.Wednesday, b.Thursday, b.Friday, b.Saturday, b.Sunday}
	for i, on := range flags {
		if on {
			set = set.With(int16(i + 1))
		}
	}
	return set
}

// SetWeekdays replaces the weekday flags with the members of set.
func (b *BlockedTime) SetWeekdays(set WeekdaySet) {
	b.Monday = set.Has(Monday)
	b.Tuesday = set.Has(Tuesday)
	b.Wednesday = set.Has(Wednesday)
	b.Thursday = set.Has(Thursday)
	b.Friday = set.Has(Friday)
	b.Saturday = set.Has(Saturday)
	b.Sunday = set.Has(Sunday)
}

// OverlapsDates reports whether the date range intersects the calendar dates
// [from, to]. Both bounds are dates at midnight UTC.
func (b BlockedTime) OverlapsDates(from, to time.Time) bool {
	if b.StartDate != nil && calendarDate(*b.StartDate).After(to) {
		return false
	}
	if b.EndDate != nil && calendarDate(*b.EndDate).Before(from) {
		return false
	}
	return true
}

// AppliesOn reports whether the block excludes time on the calendar date of day in loc.
func (b BlockedTime) AppliesOn(day time.Time, loc *time.Location) bool {
	if !b.IsActive {
		return false
	}
	date := DateOf(day, loc)
	return b.Weekdays().Has(ISOWeekday(date)) && b.OverlapsDates(date, date)
}

// IntervalOn materializes the block on the calendar date of day in loc.
func (b BlockedTime) IntervalOn(day time.Time, loc *time.Location) Interval {
	return Interval{
		Start: b.StartTime.On(day, loc).UTC(),
		End:   b.EndTime.On(day, loc).UTC(),
	}
}

func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

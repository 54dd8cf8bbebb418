package domain

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 570},
		{in: "23:59", want: MaxClock},
		{in: "24:00", want: EndOfDay},
		{in: "24:01", wantErr: true},
		{in: "9h", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
			}
			if got.String() != tt.in {
				t.Fatalf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestISOWeekday(t *testing.T) {
	// 2026-01-05 is a Monday.
	monday := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		if got := ISOWeekday(d); got != int16(i+1) {
			t.Fatalf("ISOWeekday(%s) = %d, want %d", d.Weekday(), got, i+1)
		}
	}
}

func TestCoveredWeekdays(t *testing.T) {
	monday := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  WeekdaySet
	}{
		{
			name:  "same day",
			start: monday,
			end:   monday.Add(8 * time.Hour),
			want:  WeekdaySet(0).With(Monday),
		},
		{
			name:  "monday to wednesday",
			start: monday,
			end:   monday.AddDate(0, 0, 2),
			want:  WeekdaySet(0).With(Monday).With(Tuesday).With(Wednesday),
		},
		{
			name:  "weekend wrap",
			start: monday.AddDate(0, 0, 5),
			end:   monday.AddDate(0, 0, 7),
			want:  WeekdaySet(0).With(Saturday).With(Sunday).With(Monday),
		},
		{
			name:  "seven days covers all",
			start: monday,
			end:   monday.Add(7 * 24 * time.Hour),
			want:  AllWeekdays,
		},
		{
			name:  "inverted window",
			start: monday,
			end:   monday.Add(-time.Hour),
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoveredWeekdays(tt.start, tt.end, time.UTC); got != tt.want {
				t.Fatalf("CoveredWeekdays = %07b, want %07b", got, tt.want)
			}
		})
	}
}

func TestCoveredWeekdays_UsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation error: %v", err)
	}

	// 2026-01-06 02:00 UTC is still Monday evening in New York.
	at := time.Date(2026, 1, 6, 2, 0, 0, 0, time.UTC)
	got := CoveredWeekdays(at, at.Add(time.Hour), loc)
	if !got.Has(Monday) || got.Has(Tuesday) {
		t.Fatalf("CoveredWeekdays = %07b, want monday only", got)
	}
}

func TestBlockedTime_RecurringMondayAppliesEveryYear(t *testing.T) {
	nine, _ := ParseClock("09:00")
	ten, _ := ParseClock("10:00")
	bt := BlockedTime{Monday: true, StartTime: nine, EndTime: ten, IsActive: true}

	for _, year := range []int{2026, 2027, 2031, 2040} {
		day := time.Date(year, 3, 1, 0, 0, 0, 0, time.UTC)
		for day.Weekday() != time.Monday {
			day = day.AddDate(0, 0, 1)
		}
		if !bt.AppliesOn(day, time.UTC) {
			t.Fatalf("block does not apply on %s", day.Format("2006-01-02"))
		}
		iv := bt.IntervalOn(day, time.UTC)
		if iv.Start.Hour() != 9 || iv.End.Hour() != 10 || iv.Start.Day() != day.Day() {
			t.Fatalf("interval = %v..%v, want 09:00..10:00 on %s", iv.Start, iv.End, day.Format("2006-01-02"))
		}
		if bt.AppliesOn(day.AddDate(0, 0, 1), time.UTC) {
			t.Fatalf("block applies on tuesday %s", day.AddDate(0, 0, 1).Format("2006-01-02"))
		}
	}
}

func TestBlockedTime_DateRange(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		bt   BlockedTime
		from time.Time
		to   time.Time
		want bool
	}{
		{name: "unbounded", bt: BlockedTime{}, from: start, to: end, want: true},
		{name: "open ended after start", bt: BlockedTime{StartDate: &start}, from: end, to: end, want: true},
		{name: "open ended before start", bt: BlockedTime{StartDate: &start}, from: start.AddDate(0, 0, -3), to: start.AddDate(0, 0, -1), want: false},
		{name: "inside closed range", bt: BlockedTime{StartDate: &start, EndDate: &end}, from: end, to: end, want: true},
		{name: "after closed range", bt: BlockedTime{StartDate: &start, EndDate: &end}, from: end.AddDate(0, 0, 1), to: end.AddDate(0, 0, 5), want: false},
		{name: "window spans range start", bt: BlockedTime{StartDate: &start, EndDate: &end}, from: start.AddDate(0, 0, -2), to: start, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bt.OverlapsDates(tt.from, tt.to); got != tt.want {
				t.Fatalf("OverlapsDates = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlockedTime_InactiveNeverApplies(t *testing.T) {
	bt := BlockedTime{Monday: true, StartTime: 540, EndTime: 600}
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	if bt.AppliesOn(monday, time.UTC) {
		t.Fatalf("inactive block applies")
	}
}

func TestBlockedTime_SetWeekdaysRoundTrip(t *testing.T) {
	var bt BlockedTime
	set := WeekdaySet(0).With(Tuesday).With(Sunday)
	bt.SetWeekdays(set)
	if !bt.Tuesday || !bt.Sunday || bt.Monday {
		t.Fatalf("flags = %+v", bt)
	}
	if bt.Weekdays() != set {
		t.Fatalf("Weekdays() = %07b, want %07b", bt.Weekdays(), set)
	}
}

func TestAppointmentStatusTransitions(t *testing.T) {
	tests := []struct {
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{AppointmentStatusPending, AppointmentStatusConfirmed, true},
		{AppointmentStatusPending, AppointmentStatusCancelled, true},
		{AppointmentStatusPending, AppointmentStatusFinished, false},
		{AppointmentStatusConfirmed, AppointmentStatusFinished, true},
		{AppointmentStatusConfirmed, AppointmentStatusCancelled, true},
		{AppointmentStatusFinished, AppointmentStatusCancelled, false},
		{AppointmentStatusCancelled, AppointmentStatusPending, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestIntervalOverlaps(t *testing.T) {
	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	a := Interval{Start: base, End: base.Add(time.Hour)}

	if a.Overlaps(Interval{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)}) {
		t.Fatalf("touching intervals must not overlap")
	}
	if !a.Overlaps(Interval{Start: base.Add(59 * time.Minute), End: base.Add(2 * time.Hour)}) {
		t.Fatalf("expected overlap")
	}
}

func TestClock_EndOfDay(t *testing.T) {
	day := time.Date(2026, 1, 5, 15, 0, 0, 0, time.UTC)
	if got, want := EndOfDay.On(day, time.UTC), time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("EndOfDay.On = %v, want %v", got, want)
	}
	if EndOfDay.Valid() {
		t.Fatalf("EndOfDay must not be a valid start")
	}
	if !EndOfDay.ValidEnd() || !MaxClock.ValidEnd() || MinClock.ValidEnd() {
		t.Fatalf("ValidEnd: EndOfDay=%v MaxClock=%v MinClock=%v", EndOfDay.ValidEnd(), MaxClock.ValidEnd(), MinClock.ValidEnd())
	}

	bt := BlockedTime{StartTime: 23 * 60, EndTime: EndOfDay}
	iv := bt.IntervalOn(day, time.UTC)
	if iv.End.Sub(iv.Start) != time.Hour {
		t.Fatalf("interval = %v..%v, want one hour up to midnight", iv.Start, iv.End)
	}
}

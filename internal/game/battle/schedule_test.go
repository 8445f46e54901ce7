package battle

import (
	"testing"
	"time"
)

func TestScheduleMatches_AllFields(t *testing.T) {
	// Wednesday 2026-03-04 15:30
	at := time.Date(2026, time.March, 4, 15, 30, 0, 0, time.UTC)

	s := Schedule{
		Months: MonthBit(time.March),
		Days:   DayBit(time.Wednesday),
		Hours:  HourBit(15),
	}
	if !s.Matches(at) {
		t.Error("schedule should match exact month/day/hour")
	}
}

func TestScheduleMatches_WrongMonth(t *testing.T) {
	at := time.Date(2026, time.April, 1, 15, 0, 0, 0, time.UTC)
	s := Schedule{Months: MonthBit(time.March), Days: EveryDay, Hours: EveryHour}
	if s.Matches(at) {
		t.Error("schedule should not match a different month")
	}
}

func TestScheduleMatches_WrongDay(t *testing.T) {
	// 2026-03-04 is a Wednesday
	at := time.Date(2026, time.March, 4, 15, 0, 0, 0, time.UTC)
	s := Schedule{Months: EveryMonth, Days: DayBit(time.Sunday), Hours: EveryHour}
	if s.Matches(at) {
		t.Error("schedule should not match a different weekday")
	}
}

func TestScheduleMatches_HourBoundary(t *testing.T) {
	s := Schedule{Months: EveryMonth, Days: EveryDay, Hours: HourBit(15)}

	before := time.Date(2026, time.March, 4, 14, 59, 59, 0, time.UTC)
	at := time.Date(2026, time.March, 4, 15, 0, 0, 0, time.UTC)
	after := time.Date(2026, time.March, 4, 16, 0, 0, 0, time.UTC)

	if s.Matches(before) {
		t.Error("should not match before the hour")
	}
	if !s.Matches(at) {
		t.Error("should match at the hour")
	}
	if s.Matches(after) {
		t.Error("should not match after the hour window")
	}
}

func TestScheduleMatches_ZeroFieldNeverMatches(t *testing.T) {
	at := time.Date(2026, time.March, 4, 15, 0, 0, 0, time.UTC)

	cases := []Schedule{
		{Months: 0, Days: EveryDay, Hours: EveryHour},
		{Months: EveryMonth, Days: 0, Hours: EveryHour},
		{Months: EveryMonth, Days: EveryDay, Hours: 0},
	}
	for i, s := range cases {
		if s.Matches(at) {
			t.Errorf("case %d: zero field should never match", i)
		}
	}
}

func TestScheduleMatches_Sentinels(t *testing.T) {
	s := Hourly()
	times := []time.Time{
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.December, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2027, time.June, 15, 12, 0, 0, 0, time.UTC),
	}
	for _, at := range times {
		if !s.Matches(at) {
			t.Errorf("hourly schedule should match %v", at)
		}
	}
}

func TestScheduleMatches_Pure(t *testing.T) {
	at := time.Date(2026, time.March, 4, 15, 30, 45, 123, time.UTC)
	s := Schedule{Months: MonthBit(time.March), Days: DayBit(time.Wednesday), Hours: HourBit(15)}

	first := s.Matches(at)
	for i := 0; i < 10; i++ {
		if s.Matches(at) != first {
			t.Fatal("Matches must be a pure function of its inputs")
		}
	}
}

func TestScheduleIsZero(t *testing.T) {
	if !(Schedule{}).IsZero() {
		t.Error("zero schedule should be unbound")
	}
	if Hourly().IsZero() {
		t.Error("hourly schedule should be bound")
	}
}

func TestHourBit_OutOfRange(t *testing.T) {
	if HourBit(-1) != 0 || HourBit(24) != 0 {
		t.Error("out-of-range hours should produce an empty bit")
	}
}

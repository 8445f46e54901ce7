package battle

import "time"

// Sentinel masks meaning "every value accepted" for a schedule field.
const (
	EveryMonth uint16 = 0x0FFF   // all 12 months
	EveryDay   uint8  = 0x7F     // all 7 weekdays
	EveryHour  uint32 = 0xFFFFFF // all 24 hours
)

// Schedule is a recurrence pattern gating automatic battle activation.
// Each field is a bitmask; a zero field never matches, the sentinel
// all-bits value always matches. The zero Schedule is "unbound".
type Schedule struct {
	Months uint16 // bit 0 = January
	Days   uint8  // bit 0 = Sunday
	Hours  uint32 // bit 0 = 00:00–00:59
}

// Hourly returns a schedule that matches every hour of every day.
func Hourly() Schedule {
	return Schedule{Months: EveryMonth, Days: EveryDay, Hours: EveryHour}
}

// MonthBit returns the mask bit for a calendar month.
func MonthBit(m time.Month) uint16 {
	return 1 << (uint16(m) - 1)
}

// DayBit returns the mask bit for a weekday.
func DayBit(d time.Weekday) uint8 {
	return 1 << uint8(d)
}

// HourBit returns the mask bit for an hour of day (0–23).
func HourBit(hour int) uint32 {
	if hour < 0 || hour > 23 {
		return 0
	}
	return 1 << uint32(hour)
}

// IsZero reports whether the schedule is unbound (no recurrence).
func (s Schedule) IsZero() bool {
	return s.Months == 0 && s.Days == 0 && s.Hours == 0
}

// Matches reports whether t falls inside the recurrence pattern.
// Pure function of (month, weekday, hour) of t.
func (s Schedule) Matches(t time.Time) bool {
	if s.Months != EveryMonth && s.Months&MonthBit(t.Month()) == 0 {
		return false
	}
	if s.Days != EveryDay && s.Days&DayBit(t.Weekday()) == 0 {
		return false
	}
	if s.Hours != EveryHour && s.Hours&HourBit(t.Hour()) == 0 {
		return false
	}
	return true
}

package battle

import "time"

// Default phase durations.
const (
	DefaultPreparePeriod = 5 * time.Minute
	DefaultRunningPeriod = 15 * time.Minute
	DefaultEndedPeriod   = 10 * time.Minute
)

// Timing holds the duration of each non-terminal battle phase.
// A zero duration means the phase is skipped instantly.
type Timing struct {
	PreparePeriod time.Duration
	RunningPeriod time.Duration
	EndedPeriod   time.Duration
}

// DefaultTiming returns the standard phase durations.
func DefaultTiming() Timing {
	return Timing{
		PreparePeriod: DefaultPreparePeriod,
		RunningPeriod: DefaultRunningPeriod,
		EndedPeriod:   DefaultEndedPeriod,
	}
}

// Validate reports ErrConfiguration for negative durations.
func (t Timing) Validate() error {
	if t.PreparePeriod < 0 || t.RunningPeriod < 0 || t.EndedPeriod < 0 {
		return ErrConfiguration
	}
	return nil
}

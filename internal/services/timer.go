package services

import "time"

// RoundTimer is a wall-clock countdown for one round. It keeps no
// state of its own beyond (start, duration); callers persist those two
// values and resume the timer on reconstruction.
type RoundTimer struct {
	start    time.Time
	duration time.Duration

	now func() time.Time
}

func NewRoundTimer(duration time.Duration) *RoundTimer {
	return &RoundTimer{
		duration: duration,
		now:      time.Now,
	}
}

// ResumeRoundTimer rebuilds a timer from a persisted start instant.
func ResumeRoundTimer(start time.Time, duration time.Duration) *RoundTimer {
	return &RoundTimer{
		start:    start,
		duration: duration,
		now:      time.Now,
	}
}

// Start records the wall-clock start instant.
func (t *RoundTimer) Start() {
	t.start = t.now()
}

// StartedAt returns the recorded start instant.
func (t *RoundTimer) StartedAt() time.Time {
	return t.start
}

// Remaining returns max(0, duration - elapsed).
func (t *RoundTimer) Remaining() time.Duration {
	if t.start.IsZero() {
		return t.duration
	}
	remaining := t.duration - t.now().Sub(t.start)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsExpired reports whether the countdown has reached zero.
func (t *RoundTimer) IsExpired() bool {
	return t.Remaining() == 0
}

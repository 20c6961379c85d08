package services

import (
	"testing"
	"time"
)

func TestRoundTimerCountdown(t *testing.T) {
	start := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	current := start

	timer := NewRoundTimer(5 * time.Minute)
	timer.now = func() time.Time { return current }
	timer.Start()

	if got := timer.Remaining(); got != 5*time.Minute {
		t.Errorf("expected 5m remaining at start, got %v", got)
	}

	current = start.Add(2 * time.Minute)
	if got := timer.Remaining(); got != 3*time.Minute {
		t.Errorf("expected 3m remaining, got %v", got)
	}
	if timer.IsExpired() {
		t.Error("timer should not be expired with time remaining")
	}

	current = start.Add(5 * time.Minute)
	if !timer.IsExpired() {
		t.Error("timer should be expired exactly at the deadline")
	}

	current = start.Add(10 * time.Minute)
	if got := timer.Remaining(); got != 0 {
		t.Errorf("remaining should clamp at zero, got %v", got)
	}
}

func TestRoundTimerNotStarted(t *testing.T) {
	timer := NewRoundTimer(3 * time.Minute)

	if got := timer.Remaining(); got != 3*time.Minute {
		t.Errorf("unstarted timer should report full duration, got %v", got)
	}
	if timer.IsExpired() {
		t.Error("unstarted timer should not be expired")
	}
}

func TestResumeRoundTimer(t *testing.T) {
	start := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	timer := ResumeRoundTimer(start, 10*time.Minute)
	timer.now = func() time.Time { return start.Add(4 * time.Minute) }

	if got := timer.StartedAt(); !got.Equal(start) {
		t.Errorf("expected start %v, got %v", start, got)
	}
	if got := timer.Remaining(); got != 6*time.Minute {
		t.Errorf("expected 6m remaining after resume, got %v", got)
	}

	expired := ResumeRoundTimer(start, 10*time.Minute)
	expired.now = func() time.Time { return start.Add(time.Hour) }
	if !expired.IsExpired() {
		t.Error("resumed timer past its deadline should be expired")
	}
}

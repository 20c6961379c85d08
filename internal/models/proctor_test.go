package models

import "testing"

func TestIsMalpracticeStatus(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{"MONITORING", false},
		{"TERMINATED_NORMAL", false},
		{"TERMINATED_MULTIPLE_FACES", true},
		{"TERMINATED_TAB_SWITCH", true},
		{"TERMINATED_PHONE_DETECTED", true},
		{"", false},
		{"SOMETHING_ELSE", false},
	}

	for _, tc := range cases {
		if got := IsMalpracticeStatus(tc.status); got != tc.want {
			t.Errorf("IsMalpracticeStatus(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestInterviewStatusTerminal(t *testing.T) {
	terminal := []InterviewStatus{StatusCompleted, StatusTerminatedMalpractice, StatusTerminatedError, StatusTerminatedManual}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}

	live := []InterviewStatus{StatusScheduled, StatusInProgress}
	for _, s := range live {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

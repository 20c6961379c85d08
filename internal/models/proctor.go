package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// ProctorMonitoring is the default status while the video-analysis
	// process has nothing to report.
	ProctorMonitoring = "MONITORING"

	// ProctorNormalExit is the one TERMINATED_ token that is not a
	// malpractice verdict: the candidate closed the session normally.
	ProctorNormalExit = "TERMINATED_NORMAL"
)

// ProctorStatus is the per-session mailbox written by the external
// video-analysis process and polled by the interview engine once per
// answer submission. One row per session, never a shared global.
type ProctorStatus struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"session_id"`
	Status    string    `gorm:"type:text;not null;default:'MONITORING'" json:"status"`
	Reason    string    `gorm:"type:text" json:"reason"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ProctorStatus) TableName() string {
	return "proctor_statuses"
}

// IsMalpracticeStatus reports whether a proctor token demands immediate
// termination of the session.
func IsMalpracticeStatus(status string) bool {
	return strings.HasPrefix(status, "TERMINATED_") && status != ProctorNormalExit
}

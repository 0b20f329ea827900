package models

import (
	"time"

	"github.com/zulandar/doctrail/internal/status"
)

// Document is the core tracked entity in Doctrail. Status is the persisted
// lifecycle status and may be stale; readers go through the lifecycle service,
// which reconciles it against the clock before returning it.
type Document struct {
	ID           string        `gorm:"primaryKey;size:32" json:"id"`
	Title        string        `gorm:"not null" json:"title"`
	Description  string        `gorm:"type:text" json:"description,omitempty"`
	Type         string        `gorm:"size:32;default:report;index" json:"type"`
	Flow         string        `gorm:"size:32;default:internal;index" json:"flow"`
	Status       status.Status `gorm:"size:16;default:DRAFT;index" json:"status"`
	StartTrackAt time.Time     `gorm:"not null;index" json:"startTrackAt"`
	EndTrackAt   time.Time     `gorm:"not null;index" json:"endTrackAt"`
	CompletedAt  *time.Time    `json:"completedAt"`
	ApprovedAt   *time.Time    `json:"approvedAt"`
	CreatedByID  string        `gorm:"size:64;not null;index" json:"createdById"`
	TeamID       *string       `gorm:"size:32;index" json:"teamId"`
	IsPinned     bool          `gorm:"default:false" json:"isPinned"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`

	Team *Team `gorm:"foreignKey:TeamID" json:"-"`
}

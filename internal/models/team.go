package models

import "time"

// Team member roles. Only a leader may approve a completed document.
const (
	RoleLeader = "leader"
	RoleMember = "member"
)

// Team groups documents and members; leadership on a team gates approval.
type Team struct {
	ID        string    `gorm:"primaryKey;size:32" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

// TeamMember associates a user with a team and a role.
type TeamMember struct {
	TeamID string `gorm:"primaryKey;size:32" json:"teamId"`
	UserID string `gorm:"primaryKey;size:64" json:"userId"`
	Name   string `gorm:"size:128" json:"name"`
	Role   string `gorm:"size:16;default:member" json:"role"`

	Team Team `gorm:"foreignKey:TeamID" json:"-"`
}

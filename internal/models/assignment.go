package models

import (
	"time"

	"gorm.io/gorm"
)

type AssignmentStatus string

const (
	AssignmentStatusPlanned    AssignmentStatus = "planned"
	AssignmentStatusInProgress AssignmentStatus = "in_progress"
	AssignmentStatusDone       AssignmentStatus = "done"
	AssignmentStatusCancelled  AssignmentStatus = "cancelled"
)

// Assignment is a worker's planned commitment to a project for a time span.
// Status moves planned -> in_progress -> done through attendance events;
// cancellation comes from supervisor actions only.
type Assignment struct {
	ID             uint64           `gorm:"primarykey" json:"id"`
	OrganizationID uint64           `gorm:"not null;index:idx_assignments_org_user" json:"organization_id"`
	ProjectID      uint64           `gorm:"not null;index" json:"project_id"`
	UserID         uint64           `gorm:"not null;index:idx_assignments_org_user" json:"user_id"`
	StartTs        time.Time        `gorm:"not null;index" json:"start_ts"`
	EndTs          time.Time        `gorm:"not null" json:"end_ts"`
	AllDay         bool             `gorm:"not null;default:false" json:"all_day"`
	Status         AssignmentStatus `gorm:"type:varchar(20);not null;default:'planned'" json:"status"`
	Address        string           `gorm:"type:varchar(500)" json:"address"`
	Note           string           `gorm:"type:text" json:"note"`
	SyncToMobile   bool             `gorm:"not null;default:true" json:"sync_to_mobile"`
	CreatedBy      uint64           `gorm:"not null" json:"created_by"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

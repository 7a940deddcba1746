package models

import "time"

type AttendanceEventType string

const (
	AttendanceCheckIn  AttendanceEventType = "check_in"
	AttendanceCheckOut AttendanceEventType = "check_out"
)

// AttendanceEvent is one row of the append-only attendance ledger. Rows are
// never updated or deleted; worked duration and idempotency checks are always
// derived from this history, never from mutable assignment state.
type AttendanceEvent struct {
	ID             uint64              `gorm:"primarykey" json:"id"`
	OrganizationID uint64              `gorm:"not null;index" json:"organization_id"`
	AssignmentID   uint64              `gorm:"not null;index:idx_attendance_assignment_user" json:"assignment_id"`
	UserID         uint64              `gorm:"not null;index:idx_attendance_assignment_user" json:"user_id"`
	Event          AttendanceEventType `gorm:"type:varchar(20);not null" json:"event"`
	OccurredAt     time.Time           `gorm:"not null;index" json:"occurred_at"`
	RecordedAt     time.Time           `gorm:"not null" json:"recorded_at"`

	// Relations
	Assignment Assignment `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
	User       User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

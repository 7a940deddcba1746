package models

import (
	"time"

	"gorm.io/gorm"
)

type AbsenceType string

const (
	AbsenceTypeVacation AbsenceType = "vacation"
	AbsenceTypeSick     AbsenceType = "sick"
	AbsenceTypeTraining AbsenceType = "training"
	AbsenceTypeOther    AbsenceType = "other"
)

// Label returns the planner's display label for the absence kind.
func (t AbsenceType) Label() string {
	switch t {
	case AbsenceTypeVacation:
		return "Semester"
	case AbsenceTypeSick:
		return "Sjukfrånvaro"
	case AbsenceTypeTraining:
		return "Utbildning"
	default:
		return string(t)
	}
}

// Absence is a worker's declared unavailability. The scheduling core reads
// absences only; they are created by leave workflows.
type Absence struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	OrganizationID uint64         `gorm:"not null;index:idx_absences_org_user" json:"organization_id"`
	UserID         uint64         `gorm:"not null;index:idx_absences_org_user" json:"user_id"`
	Type           AbsenceType    `gorm:"type:varchar(20);not null" json:"type"`
	StartTs        time.Time      `gorm:"not null;index" json:"start_ts"`
	EndTs          time.Time      `gorm:"not null" json:"end_ts"`
	Note           string         `gorm:"type:text" json:"note"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

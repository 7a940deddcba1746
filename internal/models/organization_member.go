package models

import "time"

type OrganizationRole string

const (
	RoleOwner      OrganizationRole = "owner"
	RoleSupervisor OrganizationRole = "supervisor"
	RoleWorker     OrganizationRole = "worker"
)

// CanSchedule reports whether the role is allowed to plan work for others.
func (r OrganizationRole) CanSchedule() bool {
	return r == RoleOwner || r == RoleSupervisor
}

type OrganizationMember struct {
	OrganizationID uint64           `gorm:"primarykey" json:"organization_id"`
	UserID         uint64           `gorm:"primarykey" json:"user_id"`
	Role           OrganizationRole `gorm:"type:varchar(20);not null" json:"role"`
	Active         bool             `gorm:"not null;default:true" json:"active"`
	JoinedAt       time.Time        `json:"joined_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

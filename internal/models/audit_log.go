package models

import "time"

// AuditLog records traceability entries such as conflict overrides. Writes are
// best-effort: a failed audit insert is logged and never fails the request
// that triggered it.
type AuditLog struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	OrganizationID uint64    `gorm:"not null;index" json:"organization_id"`
	UserID         uint64    `gorm:"not null" json:"user_id"`
	Action         string    `gorm:"type:varchar(100);not null" json:"action"`
	EntityType     string    `gorm:"type:varchar(50);not null" json:"entity_type"`
	EntityID       uint64    `json:"entity_id"`
	Payload        string    `gorm:"type:text" json:"payload"`
	CreatedAt      time.Time `json:"created_at"`
}

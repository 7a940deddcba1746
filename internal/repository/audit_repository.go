package repository

import (
	"github.com/bygglet/crew-scheduling-api/internal/models"
	"gorm.io/gorm"
)

// GormAuditRepository is a GORM implementation of AuditRepository
type GormAuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &GormAuditRepository{db: db}
}

// Record appends one audit entry
func (r *GormAuditRepository) Record(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

// ListByOrganization returns recent entries, newest first
func (r *GormAuditRepository) ListByOrganization(organizationID uint64, limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog

	query := r.db.Where("organization_id = ?", organizationID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

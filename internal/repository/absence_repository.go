package repository

import (
	"time"

	"github.com/bygglet/crew-scheduling-api/internal/models"
	"gorm.io/gorm"
)

// GormAbsenceRepository is a GORM implementation of AbsenceRepository
type GormAbsenceRepository struct {
	db *gorm.DB
}

// NewAbsenceRepository creates a new AbsenceRepository
func NewAbsenceRepository(db *gorm.DB) AbsenceRepository {
	return &GormAbsenceRepository{db: db}
}

// Create creates a new absence
func (r *GormAbsenceRepository) Create(absence *models.Absence) error {
	return r.db.Create(absence).Error
}

// FindOverlapping returns absences for any of the given workers whose span
// overlaps [start, end], boundaries included
func (r *GormAbsenceRepository) FindOverlapping(organizationID uint64, userIDs []uint64, start, end time.Time) ([]models.Absence, error) {
	var absences []models.Absence

	if len(userIDs) == 0 {
		return absences, nil
	}

	err := r.db.
		Where("organization_id = ?", organizationID).
		Where("user_id IN ?", userIDs).
		Where("start_ts <= ? AND end_ts >= ?", end, start).
		Find(&absences).Error
	if err != nil {
		return nil, err
	}

	return absences, nil
}

// ListOverlapping returns absences overlapping [start, end], optionally
// narrowed to one worker
func (r *GormAbsenceRepository) ListOverlapping(organizationID uint64, start, end time.Time, userID *uint64) ([]models.Absence, error) {
	var absences []models.Absence

	query := r.db.Model(&models.Absence{}).
		Where("organization_id = ?", organizationID).
		Where("start_ts <= ? AND end_ts >= ?", end, start)

	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	if err := query.Order("start_ts ASC").Find(&absences).Error; err != nil {
		return nil, err
	}

	return absences, nil
}

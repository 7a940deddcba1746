package repository

import (
	"time"

	"github.com/bygglet/crew-scheduling-api/internal/models"
	"gorm.io/gorm"
)

// GormAssignmentRepository is a GORM implementation of AssignmentRepository
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// CreateBatch inserts all assignments in a single bulk write. GORM renders
// the slice as one multi-row INSERT, so either every worker gets a row or
// none do.
func (r *GormAssignmentRepository) CreateBatch(assignments []*models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.db.Create(&assignments).Error
}

// FindByID finds an assignment scoped to one organization
func (r *GormAssignmentRepository) FindByID(organizationID, id uint64, preload ...string) (*models.Assignment, error) {
	var assignment models.Assignment
	query := r.db.Where("organization_id = ?", organizationID)
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// List retrieves assignments matching the filter, newest start first
func (r *GormAssignmentRepository) List(filter AssignmentFilter) ([]models.Assignment, error) {
	var assignments []models.Assignment

	query := r.db.Model(&models.Assignment{}).
		Where("organization_id = ?", filter.OrganizationID)

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StartFrom != nil {
		query = query.Where("start_ts >= ?", *filter.StartFrom)
	}
	if filter.StartTo != nil {
		query = query.Where("start_ts <= ?", *filter.StartTo)
	}

	if err := query.Order("start_ts DESC").
		Preload("Project").
		Preload("User").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

// FindOverlapping returns non-cancelled assignments for any of the given
// workers whose span overlaps [start, end]. The overlap test is inclusive on
// both boundaries: a shift ending exactly when the window starts still blocks.
func (r *GormAssignmentRepository) FindOverlapping(organizationID uint64, userIDs []uint64, start, end time.Time) ([]models.Assignment, error) {
	var assignments []models.Assignment

	if len(userIDs) == 0 {
		return assignments, nil
	}

	err := r.db.
		Where("organization_id = ?", organizationID).
		Where("user_id IN ?", userIDs).
		Where("status <> ?", models.AssignmentStatusCancelled).
		Where("start_ts <= ? AND end_ts >= ?", end, start).
		Preload("Project").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	return assignments, nil
}

// ListStartingWithin returns non-cancelled assignments whose start falls
// inside [start, end]
func (r *GormAssignmentRepository) ListStartingWithin(organizationID uint64, start, end time.Time, projectID, userID *uint64) ([]models.Assignment, error) {
	var assignments []models.Assignment

	query := r.db.Model(&models.Assignment{}).
		Where("organization_id = ?", organizationID).
		Where("status <> ?", models.AssignmentStatusCancelled).
		Where("start_ts >= ? AND start_ts <= ?", start, end)

	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	if err := query.Order("start_ts ASC").Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

// UpdateStatus persists a status transition
func (r *GormAssignmentRepository) UpdateStatus(id uint64, status models.AssignmentStatus) error {
	return r.db.Model(&models.Assignment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

package repository

import (
	"time"

	"github.com/bygglet/crew-scheduling-api/internal/models"
	"gorm.io/gorm"
)

// GormAttendanceRepository is a GORM implementation of AttendanceRepository
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// Create appends one event to the ledger
func (r *GormAttendanceRepository) Create(event *models.AttendanceEvent) error {
	return r.db.Create(event).Error
}

// FindDuplicate finds an event of the same kind for the same assignment and
// worker whose occurred_at lies within +-window of occurredAt
func (r *GormAttendanceRepository) FindDuplicate(assignmentID, userID uint64, event models.AttendanceEventType, occurredAt time.Time, window time.Duration) (*models.AttendanceEvent, error) {
	var existing models.AttendanceEvent

	err := r.db.
		Where("assignment_id = ? AND user_id = ? AND event = ?", assignmentID, userID, event).
		Where("occurred_at >= ? AND occurred_at <= ?", occurredAt.Add(-window), occurredAt.Add(window)).
		First(&existing).Error
	if err != nil {
		return nil, err
	}

	return &existing, nil
}

// FindFirstCheckIn returns the earliest check-in for the assignment/worker
func (r *GormAttendanceRepository) FindFirstCheckIn(assignmentID, userID uint64) (*models.AttendanceEvent, error) {
	var event models.AttendanceEvent

	err := r.db.
		Where("assignment_id = ? AND user_id = ? AND event = ?", assignmentID, userID, models.AttendanceCheckIn).
		Order("occurred_at ASC").
		First(&event).Error
	if err != nil {
		return nil, err
	}

	return &event, nil
}

// ListByAssignment returns the full ledger for one assignment, oldest first
func (r *GormAttendanceRepository) ListByAssignment(organizationID, assignmentID uint64) ([]models.AttendanceEvent, error) {
	var events []models.AttendanceEvent

	err := r.db.
		Where("organization_id = ? AND assignment_id = ?", organizationID, assignmentID).
		Order("occurred_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/bygglet/crew-scheduling-api/internal/models"
	"github.com/bygglet/crew-scheduling-api/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAssignmentNotFound     = errors.New("assignment not found")
	ErrInvalidAttendanceEvent = errors.New("event must be check_in or check_out")
)

// AttendanceService records check-in/check-out events against assignments and
// drives the assignment state machine.
type AttendanceService struct {
	assignmentRepo repository.AssignmentRepository
	attendanceRepo repository.AttendanceRepository
	userRepo       repository.UserRepository
	notifier       Notifier
	dedupWindow    time.Duration
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(
	assignmentRepo repository.AssignmentRepository,
	attendanceRepo repository.AttendanceRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	dedupWindow time.Duration,
) *AttendanceService {
	return &AttendanceService{
		assignmentRepo: assignmentRepo,
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		notifier:       notifier,
		dedupWindow:    dedupWindow,
	}
}

// RecordEventInput represents one check-in/check-out report from a device
type RecordEventInput struct {
	OrganizationID uint64
	UserID         uint64
	AssignmentID   uint64
	Event          models.AttendanceEventType
	OccurredAt     time.Time
}

// RecordEventResult reports the assignment status after the event and whether
// the event was a retransmission of one already in the ledger.
type RecordEventResult struct {
	Status    models.AssignmentStatus
	Duplicate bool
}

// RecordEvent appends an attendance event and advances the assignment state
// machine. Retransmissions inside the dedup window are acknowledged without a
// second ledger row or a second transition: mobile clients retry aggressively
// on weak connectivity and must never double-report.
func (s *AttendanceService) RecordEvent(input RecordEventInput) (*RecordEventResult, error) {
	if input.Event != models.AttendanceCheckIn && input.Event != models.AttendanceCheckOut {
		return nil, ErrInvalidAttendanceEvent
	}

	assignment, err := s.assignmentRepo.FindByID(input.OrganizationID, input.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}
	if assignment.UserID != input.UserID {
		// Same response as a missing assignment so nothing leaks about
		// other workers' schedules.
		return nil, ErrAssignmentNotFound
	}

	occurredAt := input.OccurredAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	if _, err := s.attendanceRepo.FindDuplicate(input.AssignmentID, input.UserID, input.Event, occurredAt, s.dedupWindow); err == nil {
		return &RecordEventResult{Status: assignment.Status, Duplicate: true}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for duplicate event: %w", err)
	}

	event := &models.AttendanceEvent{
		OrganizationID: input.OrganizationID,
		AssignmentID:   input.AssignmentID,
		UserID:         input.UserID,
		Event:          input.Event,
		OccurredAt:     occurredAt,
		RecordedAt:     time.Now().UTC(),
	}
	if err := s.attendanceRepo.Create(event); err != nil {
		return nil, fmt.Errorf("failed to record attendance event: %w", err)
	}

	status := nextStatus(assignment.Status, input.Event)
	if status != assignment.Status {
		if err := s.assignmentRepo.UpdateStatus(assignment.ID, status); err != nil {
			return nil, fmt.Errorf("failed to update assignment status: %w", err)
		}
	}

	s.notifyCollaborators(assignment, input, occurredAt)

	return &RecordEventResult{Status: status, Duplicate: false}, nil
}

// ListEvents returns the attendance ledger for one assignment
func (s *AttendanceService) ListEvents(organizationID, assignmentID uint64) ([]models.AttendanceEvent, error) {
	if _, err := s.assignmentRepo.FindByID(organizationID, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}

	events, err := s.attendanceRepo.ListByAssignment(organizationID, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}
	return events, nil
}

// nextStatus applies the attendance state machine. Unmatched combinations
// are no-op transitions, not errors: the event is still logged.
func nextStatus(current models.AssignmentStatus, event models.AttendanceEventType) models.AssignmentStatus {
	switch {
	case event == models.AttendanceCheckIn && current == models.AssignmentStatusPlanned:
		return models.AssignmentStatusInProgress
	case event == models.AttendanceCheckOut && current == models.AssignmentStatusInProgress:
		return models.AssignmentStatusDone
	default:
		return current
	}
}

// notifyCollaborators dispatches fire-and-forget notifications. The worked
// duration is derived from the ledger before dispatch so the async task does
// no store access.
func (s *AttendanceService) notifyCollaborators(assignment *models.Assignment, input RecordEventInput, occurredAt time.Time) {
	userName := ""
	if user, err := s.userRepo.FindByID(input.UserID); err == nil {
		userName = user.Name
	} else {
		logrus.WithError(err).Warn("could not resolve worker name for notification")
	}

	switch input.Event {
	case models.AttendanceCheckIn:
		n := CheckInNotification{
			ProjectID:   assignment.ProjectID,
			UserID:      input.UserID,
			UserName:    userName,
			CheckinTime: occurredAt,
		}
		dispatchAsync(func() {
			if err := s.notifier.NotifyCheckIn(n); err != nil {
				logrus.WithError(err).Warn("check-in notification failed")
			}
		})
	case models.AttendanceCheckOut:
		n := CheckOutNotification{
			ProjectID:    assignment.ProjectID,
			UserID:       input.UserID,
			UserName:     userName,
			CheckoutTime: occurredAt,
			HoursWorked:  s.workedHours(assignment, input.UserID, occurredAt),
		}
		dispatchAsync(func() {
			if err := s.notifier.NotifyCheckOut(n); err != nil {
				logrus.WithError(err).Warn("check-out notification failed")
			}
		})
	}
}

// workedHours computes checkout minus the earliest check-in, falling back to
// the assignment's planned start when the ledger has no check-in, clamped to
// zero.
func (s *AttendanceService) workedHours(assignment *models.Assignment, userID uint64, checkoutTime time.Time) float64 {
	base := assignment.StartTs
	if first, err := s.attendanceRepo.FindFirstCheckIn(assignment.ID, userID); err == nil {
		base = first.OccurredAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithError(err).Warn("could not read first check-in, using planned start")
	}

	worked := checkoutTime.Sub(base)
	if worked < 0 {
		worked = 0
	}
	return worked.Hours()
}

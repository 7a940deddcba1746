package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bygglet/crew-scheduling-api/internal/models"
	"github.com/bygglet/crew-scheduling-api/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound        = errors.New("project not found")
	ErrNoWorkersProvided      = errors.New("at least one worker is required")
	ErrInvalidTimeRange       = errors.New("start must be before end")
	ErrSchedulingNotPermitted = errors.New("role is not permitted to schedule work")
	ErrWorkersNotMembers      = errors.New("one or more workers are not active members of the organization")
)

// AssignmentService creates and lists planned assignments.
type AssignmentService struct {
	assignmentRepo repository.AssignmentRepository
	projectRepo    repository.ProjectRepository
	orgRepo        repository.OrganizationRepository
	auditRepo      repository.AuditRepository
	conflicts      *ConflictService
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	projectRepo repository.ProjectRepository,
	orgRepo repository.OrganizationRepository,
	auditRepo repository.AuditRepository,
	conflicts *ConflictService,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		projectRepo:    projectRepo,
		orgRepo:        orgRepo,
		auditRepo:      auditRepo,
		conflicts:      conflicts,
	}
}

// CreateAssignmentsInput represents a proposed multi-worker assignment
type CreateAssignmentsInput struct {
	OrganizationID  uint64
	ActorID         uint64
	ActorRole       models.OrganizationRole
	ProjectID       uint64
	UserIDs         []uint64
	StartTs         time.Time
	EndTs           time.Time
	AllDay          bool
	Address         string
	Note            string
	SyncToMobile    bool
	Force           bool
	OverrideComment string
}

// CreateAssignmentsResult carries either the created assignment IDs or the
// blocking conflict report, never both.
type CreateAssignmentsResult struct {
	Created   []uint64
	Conflicts map[uint64][]Conflict
}

// CreateAssignments validates the proposal, checks conflicts unless the
// caller forces through them, and bulk-inserts one planned assignment per
// worker. Forced overrides with a comment leave a best-effort audit entry.
func (s *AssignmentService) CreateAssignments(input CreateAssignmentsInput) (*CreateAssignmentsResult, error) {
	if !input.ActorRole.CanSchedule() {
		return nil, ErrSchedulingNotPermitted
	}
	if len(input.UserIDs) == 0 {
		return nil, ErrNoWorkersProvided
	}
	if !input.AllDay && !input.StartTs.Before(input.EndTs) {
		return nil, ErrInvalidTimeRange
	}

	project, err := s.projectRepo.FindByID(input.OrganizationID, input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	userIDs := uniqueUint64(input.UserIDs)

	count, err := s.orgRepo.CountActiveMembersByIDs(input.OrganizationID, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to verify workers: %w", err)
	}
	if int(count) != len(userIDs) {
		return nil, ErrWorkersNotMembers
	}

	var bypassed map[uint64][]Conflict
	if input.Force {
		// Re-run detection only to capture the bypassed set for the audit
		// trail; a failure here must not block the forced write.
		if detected, derr := s.conflicts.Detect(input.OrganizationID, userIDs, input.StartTs, input.EndTs); derr != nil {
			logrus.WithError(derr).Warn("could not capture bypassed conflicts for audit")
		} else {
			bypassed = detected
		}
	} else {
		detected, derr := s.conflicts.Detect(input.OrganizationID, userIDs, input.StartTs, input.EndTs)
		if derr != nil {
			return nil, derr
		}
		if len(detected) > 0 {
			return &CreateAssignmentsResult{Created: []uint64{}, Conflicts: detected}, nil
		}
	}

	assignments := make([]*models.Assignment, len(userIDs))
	for i, userID := range userIDs {
		assignments[i] = &models.Assignment{
			OrganizationID: input.OrganizationID,
			ProjectID:      project.ID,
			UserID:         userID,
			StartTs:        input.StartTs,
			EndTs:          input.EndTs,
			AllDay:         input.AllDay,
			Status:         models.AssignmentStatusPlanned,
			Address:        input.Address,
			Note:           input.Note,
			SyncToMobile:   input.SyncToMobile,
			CreatedBy:      input.ActorID,
		}
	}

	if err := s.assignmentRepo.CreateBatch(assignments); err != nil {
		return nil, fmt.Errorf("failed to create assignments: %w", err)
	}

	created := make([]uint64, len(assignments))
	for i, a := range assignments {
		created[i] = a.ID
	}

	if input.Force && input.OverrideComment != "" {
		s.recordOverrideAudit(input, created, bypassed)
	}

	return &CreateAssignmentsResult{Created: created, Conflicts: map[uint64][]Conflict{}}, nil
}

// List retrieves assignments matching the filter, newest start first
func (s *AssignmentService) List(filter repository.AssignmentFilter) ([]models.Assignment, error) {
	assignments, err := s.assignmentRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

func (s *AssignmentService) recordOverrideAudit(input CreateAssignmentsInput, created []uint64, bypassed map[uint64][]Conflict) {
	payload, err := json.Marshal(map[string]interface{}{
		"comment":   input.OverrideComment,
		"created":   created,
		"conflicts": bypassed,
	})
	if err != nil {
		logrus.WithError(err).Warn("failed to encode override audit payload")
		return
	}

	entry := &models.AuditLog{
		OrganizationID: input.OrganizationID,
		UserID:         input.ActorID,
		Action:         "assignment.conflict_override",
		EntityType:     "assignment",
		EntityID:       firstOrZero(created),
		Payload:        string(payload),
	}
	if err := s.auditRepo.Record(entry); err != nil {
		// Audit is best-effort; scheduling must not depend on it.
		logrus.WithError(err).Warn("failed to record override audit entry")
	}
}

func firstOrZero(ids []uint64) uint64 {
	if len(ids) == 0 {
		return 0
	}
	return ids[0]
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

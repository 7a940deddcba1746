package repository

import (
	"time"

	"github.com/bygglet/crew-scheduling-api/internal/models"
)

// AssignmentFilter holds filtering options for listing assignments
type AssignmentFilter struct {
	OrganizationID uint64
	ProjectID      *uint64
	UserID         *uint64
	Status         *models.AssignmentStatus
	StartFrom      *time.Time
	StartTo        *time.Time
}

// AssignmentRepository defines the interface for assignment data access
type AssignmentRepository interface {
	// CreateBatch inserts all assignments in a single bulk write
	CreateBatch(assignments []*models.Assignment) error

	// FindByID finds an assignment scoped to one organization
	FindByID(organizationID, id uint64, preload ...string) (*models.Assignment, error)

	// List retrieves assignments matching the filter, newest start first
	List(filter AssignmentFilter) ([]models.Assignment, error)

	// FindOverlapping returns non-cancelled assignments for any of the given
	// workers whose span overlaps [start, end], boundaries included
	FindOverlapping(organizationID uint64, userIDs []uint64, start, end time.Time) ([]models.Assignment, error)

	// ListStartingWithin returns non-cancelled assignments whose start falls
	// inside [start, end], optionally narrowed by project or worker
	ListStartingWithin(organizationID uint64, start, end time.Time, projectID, userID *uint64) ([]models.Assignment, error)

	// UpdateStatus persists a status transition
	UpdateStatus(id uint64, status models.AssignmentStatus) error
}

// AbsenceRepository defines the interface for absence data access
type AbsenceRepository interface {
	// Create creates a new absence
	Create(absence *models.Absence) error

	// FindOverlapping returns absences for any of the given workers whose
	// span overlaps [start, end], boundaries included
	FindOverlapping(organizationID uint64, userIDs []uint64, start, end time.Time) ([]models.Absence, error)

	// ListOverlapping returns absences overlapping [start, end], optionally
	// narrowed to one worker
	ListOverlapping(organizationID uint64, start, end time.Time, userID *uint64) ([]models.Absence, error)
}

// AttendanceRepository defines the interface for the attendance event ledger
type AttendanceRepository interface {
	// Create appends one event to the ledger
	Create(event *models.AttendanceEvent) error

	// FindDuplicate finds an event of the same kind for the same assignment
	// and worker whose occurred_at lies within +-window of occurredAt
	FindDuplicate(assignmentID, userID uint64, event models.AttendanceEventType, occurredAt time.Time, window time.Duration) (*models.AttendanceEvent, error)

	// FindFirstCheckIn returns the earliest check-in for the assignment/worker
	FindFirstCheckIn(assignmentID, userID uint64) (*models.AttendanceEvent, error)

	// ListByAssignment returns the full ledger for one assignment, oldest first
	ListByAssignment(organizationID, assignmentID uint64) ([]models.AttendanceEvent, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project scoped to one organization
	FindByID(organizationID, id uint64) (*models.Project, error)

	// List retrieves projects in the given statuses, optionally one project
	List(organizationID uint64, statuses []models.ProjectStatus, projectID *uint64) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// FindByInviteCode finds an organization by invite code
	FindByInviteCode(code string) (*models.Organization, error)

	// AddMember adds a member to an organization
	AddMember(member *models.OrganizationMember) error

	// FindMember finds a specific organization member
	FindMember(organizationID, userID uint64) (*models.OrganizationMember, error)

	// UpdateMember persists role or active-flag changes
	UpdateMember(member *models.OrganizationMember) error

	// ListMembersByUserID lists all organizations a user is a member of
	ListMembersByUserID(userID uint64) ([]models.OrganizationMember, error)

	// ListActiveMembers lists active members of an organization with users
	ListActiveMembers(organizationID uint64) ([]models.OrganizationMember, error)

	// CountActiveMembersByIDs counts how many of the given user IDs are
	// active members of the organization
	CountActiveMembersByIDs(organizationID uint64, userIDs []uint64) (int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithPersonalOrganization creates a user, their personal
	// organization, and the owner membership within a single transaction
	CreateWithPersonalOrganization(user *models.User, org *models.Organization, member *models.OrganizationMember) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// AuditRepository defines the interface for the append-only audit trail
type AuditRepository interface {
	// Record appends one audit entry
	Record(entry *models.AuditLog) error

	// ListByOrganization returns recent entries, newest first
	ListByOrganization(organizationID uint64, limit int) ([]models.AuditLog, error)
}

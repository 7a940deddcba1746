package dto

import (
	"sort"
	"time"

	"github.com/bygglet/crew-scheduling-api/internal/models"
	"github.com/bygglet/crew-scheduling-api/internal/services"
)

// AssignmentDTO represents an assignment in API responses
type AssignmentDTO struct {
	ID             uint64                  `json:"id"`
	OrganizationID uint64                  `json:"organization_id"`
	ProjectID      uint64                  `json:"project_id"`
	UserID         uint64                  `json:"user_id"`
	StartTs        time.Time               `json:"start_ts"`
	EndTs          time.Time               `json:"end_ts"`
	AllDay         bool                    `json:"all_day"`
	Status         models.AssignmentStatus `json:"status"`
	Address        string                  `json:"address"`
	Note           string                  `json:"note"`
	SyncToMobile   bool                    `json:"sync_to_mobile"`
	ProjectName    string                  `json:"project_name,omitempty"`
	UserName       string                  `json:"user_name,omitempty"`
}

// CreateAssignmentsResponse carries created IDs or the conflict report
type CreateAssignmentsResponse struct {
	Created   []uint64            `json:"created"`
	Conflicts []services.Conflict `json:"conflicts"`
}

// AttendanceEventDTO represents one ledger row in API responses
type AttendanceEventDTO struct {
	ID           uint64                     `json:"id"`
	AssignmentID uint64                     `json:"assignment_id"`
	UserID       uint64                     `json:"user_id"`
	Event        models.AttendanceEventType `json:"event"`
	OccurredAt   time.Time                  `json:"occurred_at"`
	RecordedAt   time.Time                  `json:"recorded_at"`
}

// ToAssignmentDTO converts an Assignment model to AssignmentDTO
func ToAssignmentDTO(a models.Assignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:             a.ID,
		OrganizationID: a.OrganizationID,
		ProjectID:      a.ProjectID,
		UserID:         a.UserID,
		StartTs:        a.StartTs,
		EndTs:          a.EndTs,
		AllDay:         a.AllDay,
		Status:         a.Status,
		Address:        a.Address,
		Note:           a.Note,
		SyncToMobile:   a.SyncToMobile,
	}

	// Include names if preloaded
	if a.Project.ID != 0 {
		dto.ProjectName = a.Project.Name
	}
	if a.User.ID != 0 {
		dto.UserName = a.User.Name
	}

	return dto
}

// ToAssignmentDTOs converts a slice of assignments
func ToAssignmentDTOs(assignments []models.Assignment) []AssignmentDTO {
	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = ToAssignmentDTO(a)
	}
	return dtos
}

// ToAttendanceEventDTOs converts a slice of ledger rows
func ToAttendanceEventDTOs(events []models.AttendanceEvent) []AttendanceEventDTO {
	dtos := make([]AttendanceEventDTO, len(events))
	for i, e := range events {
		dtos[i] = AttendanceEventDTO{
			ID:           e.ID,
			AssignmentID: e.AssignmentID,
			UserID:       e.UserID,
			Event:        e.Event,
			OccurredAt:   e.OccurredAt,
			RecordedAt:   e.RecordedAt,
		}
	}
	return dtos
}

// FlattenConflicts turns the per-worker conflict map into a flat list sorted
// by worker ID so responses are stable across requests.
func FlattenConflicts(conflicts map[uint64][]services.Conflict) []services.Conflict {
	ids := make([]uint64, 0, len(conflicts))
	for id := range conflicts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	flat := make([]services.Conflict, 0, len(conflicts))
	for _, id := range ids {
		flat = append(flat, conflicts[id]...)
	}
	return flat
}

package dto

import (
	"time"

	"github.com/bygglet/crew-scheduling-api/internal/models"
	"github.com/bygglet/crew-scheduling-api/internal/services"
	"github.com/bygglet/crew-scheduling-api/internal/utils"
)

// ResourceDTO is one plannable worker on the weekly board
type ResourceDTO struct {
	ID    uint64                  `json:"id"`
	Name  string                  `json:"name"`
	Email string                  `json:"email"`
	Role  models.OrganizationRole `json:"role"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID      uint64               `json:"id"`
	Name    string               `json:"name"`
	Status  models.ProjectStatus `json:"status"`
	Address string               `json:"address,omitempty"`
}

// AbsenceDTO represents an absence in API responses
type AbsenceDTO struct {
	ID      uint64             `json:"id"`
	UserID  uint64             `json:"user_id"`
	Type    models.AbsenceType `json:"type"`
	Label   string             `json:"label"`
	StartTs time.Time          `json:"start_ts"`
	EndTs   time.Time          `json:"end_ts"`
	Note    string             `json:"note,omitempty"`
}

// WeekPlanResponse is the composite weekly view
type WeekPlanResponse struct {
	Resources   []ResourceDTO    `json:"resources"`
	Projects    []ProjectDTO     `json:"projects"`
	Assignments []AssignmentDTO  `json:"assignments"`
	Absences    []AbsenceDTO     `json:"absences"`
	Week        utils.WeekWindow `json:"week"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(p models.Project) ProjectDTO {
	return ProjectDTO{
		ID:      p.ID,
		Name:    p.Name,
		Status:  p.Status,
		Address: p.Address,
	}
}

// ToAbsenceDTO converts an Absence model to AbsenceDTO
func ToAbsenceDTO(a models.Absence) AbsenceDTO {
	return AbsenceDTO{
		ID:      a.ID,
		UserID:  a.UserID,
		Type:    a.Type,
		Label:   a.Type.Label(),
		StartTs: a.StartTs,
		EndTs:   a.EndTs,
		Note:    a.Note,
	}
}

// ToWeekPlanResponse converts the assembled plan into the response shape
func ToWeekPlanResponse(plan *services.WeekPlan) WeekPlanResponse {
	resources := make([]ResourceDTO, len(plan.Resources))
	for i, m := range plan.Resources {
		resources[i] = ResourceDTO{
			ID:    m.UserID,
			Name:  m.User.Name,
			Email: m.User.Email,
			Role:  m.Role,
		}
	}

	projects := make([]ProjectDTO, len(plan.Projects))
	for i, p := range plan.Projects {
		projects[i] = ToProjectDTO(p)
	}

	absences := make([]AbsenceDTO, len(plan.Absences))
	for i, a := range plan.Absences {
		absences[i] = ToAbsenceDTO(a)
	}

	return WeekPlanResponse{
		Resources:   resources,
		Projects:    projects,
		Assignments: ToAssignmentDTOs(plan.Assignments),
		Absences:    absences,
		Week:        plan.Week,
	}
}

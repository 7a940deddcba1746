package services

import (
	"fmt"

	"github.com/bygglet/crew-scheduling-api/internal/models"
	"github.com/bygglet/crew-scheduling-api/internal/repository"
	"github.com/bygglet/crew-scheduling-api/internal/utils"
	"golang.org/x/sync/errgroup"
)

// WeekPlan is the composite read-side view consumed by the planning board.
type WeekPlan struct {
	Resources   []models.OrganizationMember
	Projects    []models.Project
	Assignments []models.Assignment
	Absences    []models.Absence
	Week        utils.WeekWindow
}

// PlanningService assembles the weekly planning view.
type PlanningService struct {
	orgRepo        repository.OrganizationRepository
	projectRepo    repository.ProjectRepository
	assignmentRepo repository.AssignmentRepository
	absenceRepo    repository.AbsenceRepository
}

// NewPlanningService creates a new PlanningService
func NewPlanningService(
	orgRepo repository.OrganizationRepository,
	projectRepo repository.ProjectRepository,
	assignmentRepo repository.AssignmentRepository,
	absenceRepo repository.AbsenceRepository,
) *PlanningService {
	return &PlanningService{
		orgRepo:        orgRepo,
		projectRepo:    projectRepo,
		assignmentRepo: assignmentRepo,
		absenceRepo:    absenceRepo,
	}
}

// GetWeekPlan fans out the four independent reads concurrently and assembles
// the snapshot. Any failed read fails the whole request: the planning board
// must never render a partial view.
func (s *PlanningService) GetWeekPlan(organizationID uint64, window utils.WeekWindow, projectID, userID *uint64) (*WeekPlan, error) {
	plan := &WeekPlan{Week: window}

	var g errgroup.Group

	g.Go(func() error {
		var err error
		plan.Resources, err = s.orgRepo.ListActiveMembers(organizationID)
		return err
	})
	g.Go(func() error {
		var err error
		plan.Projects, err = s.projectRepo.List(organizationID,
			[]models.ProjectStatus{models.ProjectStatusActive, models.ProjectStatusPaused}, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		plan.Assignments, err = s.assignmentRepo.ListStartingWithin(organizationID, window.Start, window.End, projectID, userID)
		return err
	})
	g.Go(func() error {
		var err error
		plan.Absences, err = s.absenceRepo.ListOverlapping(organizationID, window.Start, window.End, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to assemble week plan: %w", err)
	}

	return plan, nil
}

package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/bygglet/crew-scheduling-api/internal/models"
	"github.com/bygglet/crew-scheduling-api/internal/repository"
	"golang.org/x/sync/errgroup"
)

type ConflictType string

const (
	ConflictTypeOverlap ConflictType = "overlap"
	ConflictTypeAbsence ConflictType = "absence"
)

// Conflict is one entry of the report returned when a proposed assignment
// collides with a worker's existing commitments. It is never persisted.
type Conflict struct {
	UserID  uint64       `json:"user_id"`
	Type    ConflictType `json:"type"`
	Details string       `json:"details"`
}

// ConflictService detects scheduling conflicts for proposed assignments.
type ConflictService struct {
	assignmentRepo repository.AssignmentRepository
	absenceRepo    repository.AbsenceRepository
}

// NewConflictService creates a new ConflictService
func NewConflictService(assignmentRepo repository.AssignmentRepository, absenceRepo repository.AbsenceRepository) *ConflictService {
	return &ConflictService{
		assignmentRepo: assignmentRepo,
		absenceRepo:    absenceRepo,
	}
}

// Detect returns blocking overlaps per worker for the candidate window.
// The whole check costs exactly two store queries no matter how many workers
// are proposed: one batched assignment lookup and one batched absence lookup,
// issued concurrently and grouped by worker in a single pass. Workers with no
// hits are omitted from the map.
func (s *ConflictService) Detect(organizationID uint64, userIDs []uint64, start, end time.Time) (map[uint64][]Conflict, error) {
	ids := uniqueUint64(userIDs)
	if len(ids) == 0 {
		return map[uint64][]Conflict{}, nil
	}

	var (
		assignments []models.Assignment
		absences    []models.Absence
		g           errgroup.Group
	)

	g.Go(func() error {
		var err error
		assignments, err = s.assignmentRepo.FindOverlapping(organizationID, ids, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		absences, err = s.absenceRepo.FindOverlapping(organizationID, ids, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("conflict detection failed: %w", err)
	}

	overlapNames := make(map[uint64][]string)
	for _, a := range assignments {
		overlapNames[a.UserID] = appendUnique(overlapNames[a.UserID], projectLabel(a))
	}

	absenceLabels := make(map[uint64][]string)
	for _, a := range absences {
		absenceLabels[a.UserID] = appendUnique(absenceLabels[a.UserID], a.Type.Label())
	}

	conflicts := make(map[uint64][]Conflict)
	for _, id := range ids {
		if names, ok := overlapNames[id]; ok {
			conflicts[id] = append(conflicts[id], Conflict{
				UserID:  id,
				Type:    ConflictTypeOverlap,
				Details: strings.Join(names, ", "),
			})
		}
		if labels, ok := absenceLabels[id]; ok {
			conflicts[id] = append(conflicts[id], Conflict{
				UserID:  id,
				Type:    ConflictTypeAbsence,
				Details: strings.Join(labels, ", "),
			})
		}
	}

	return conflicts, nil
}

func projectLabel(a models.Assignment) string {
	if a.Project.Name != "" {
		return a.Project.Name
	}
	return fmt.Sprintf("project %d", a.ProjectID)
}

// appendUnique keeps first-occurrence order while dropping repeats
func appendUnique(values []string, v string) []string {
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}

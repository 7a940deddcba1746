package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bygglet/crew-scheduling-api/internal/constants"
	"github.com/bygglet/crew-scheduling-api/internal/dto"
	apierrors "github.com/bygglet/crew-scheduling-api/internal/errors"
	"github.com/bygglet/crew-scheduling-api/internal/middleware"
	"github.com/bygglet/crew-scheduling-api/internal/models"
	"github.com/bygglet/crew-scheduling-api/internal/repository"
	"github.com/bygglet/crew-scheduling-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AssignmentHandler coordinates assignment HTTP handlers.
type AssignmentHandler struct {
	assignmentService *services.AssignmentService
	aiService         *services.AIService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *services.AssignmentService, aiService *services.AIService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		aiService:         aiService,
	}
}

// ListAssignments returns assignments matching the query filters, newest
// start first.
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.InternalError(c, "Organization scope not resolved")
		return
	}

	filter := repository.AssignmentFilter{OrganizationID: orgID}

	if projectIDStr := c.Query("project_id"); projectIDStr != "" {
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id")
			return
		}
		filter.ProjectID = &projectID
	}
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		userID, err := strconv.ParseUint(userIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid user_id")
			return
		}
		filter.UserID = &userID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.AssignmentStatus(statusStr)
		filter.Status = &status
	}
	if from := c.Query("start_date"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			apierrors.BadRequest(c, "Invalid start_date")
			return
		}
		filter.StartFrom = &t
	}
	if to := c.Query("end_date"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			apierrors.BadRequest(c, "Invalid end_date")
			return
		}
		end := t.AddDate(0, 0, 1).Add(-time.Millisecond)
		filter.StartTo = &end
	}

	assignments, err := h.assignmentService.List(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch assignments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": dto.ToAssignmentDTOs(assignments)})
}

// CreateAssignments creates one assignment per worker for a shared window.
// Blocking conflicts come back as a 409 report with nothing created; the
// caller may resubmit with force=true to override.
func (h *AssignmentHandler) CreateAssignments(c *gin.Context) {
	orgID, _ := middleware.GetOrganizationID(c)
	role, _ := middleware.GetRole(c)
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateAssignmentsRequest struct {
		ProjectID       uint64    `json:"project_id" binding:"required"`
		UserIDs         []uint64  `json:"user_ids" binding:"required"`
		StartTs         time.Time `json:"start_ts" binding:"required"`
		EndTs           time.Time `json:"end_ts" binding:"required"`
		AllDay          bool      `json:"all_day"`
		Address         string    `json:"address"`
		Note            string    `json:"note"`
		SyncToMobile    *bool     `json:"sync_to_mobile"`
		Force           bool      `json:"force"`
		OverrideComment string    `json:"override_comment"`
	}

	var req CreateAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	syncToMobile := true
	if req.SyncToMobile != nil {
		syncToMobile = *req.SyncToMobile
	}

	result, err := h.assignmentService.CreateAssignments(services.CreateAssignmentsInput{
		OrganizationID:  orgID,
		ActorID:         userID,
		ActorRole:       role,
		ProjectID:       req.ProjectID,
		UserIDs:         req.UserIDs,
		StartTs:         req.StartTs.UTC(),
		EndTs:           req.EndTs.UTC(),
		AllDay:          req.AllDay,
		Address:         req.Address,
		Note:            req.Note,
		SyncToMobile:    syncToMobile,
		Force:           req.Force,
		OverrideComment: req.OverrideComment,
	})
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	if len(result.Conflicts) > 0 {
		c.JSON(http.StatusConflict, dto.CreateAssignmentsResponse{
			Created:   []uint64{},
			Conflicts: dto.FlattenConflicts(result.Conflicts),
		})
		return
	}

	c.JSON(http.StatusCreated, dto.CreateAssignmentsResponse{
		Created:   result.Created,
		Conflicts: []services.Conflict{},
	})
}

// SuggestAssignments extracts assignment drafts from free-text planning notes.
func (h *AssignmentHandler) SuggestAssignments(c *gin.Context) {
	role, _ := middleware.GetRole(c)
	if !role.CanSchedule() {
		apierrors.Forbidden(c, "Only supervisors can request suggestions")
		return
	}

	type SuggestRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if h.aiService == nil {
		apierrors.ServiceUnavailable(c, "Assignment suggestions are not configured")
		return
	}

	suggestions, err := h.aiService.SuggestAssignmentsFromText(context.Background(), req.Text)
	if err != nil {
		apierrors.InternalError(c, "Failed to generate suggestions")
		return
	}
	if len(suggestions) > constants.MaxSuggestedAssignments {
		suggestions = suggestions[:constants.MaxSuggestedAssignments]
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func respondAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrSchedulingNotPermitted):
		apierrors.Forbidden(c, "Your role cannot schedule work")
	case errors.Is(err, services.ErrNoWorkersProvided):
		apierrors.BadRequestWithDetails(c, "Invalid request", gin.H{"user_ids": "at least one worker is required"})
	case errors.Is(err, services.ErrInvalidTimeRange):
		apierrors.BadRequestWithDetails(c, "Invalid request", gin.H{"start_ts": "must be before end_ts"})
	case errors.Is(err, services.ErrWorkersNotMembers):
		apierrors.BadRequestWithDetails(c, "Invalid request", gin.H{"user_ids": "all workers must be active members"})
	default:
		apierrors.InternalError(c, "Failed to create assignments")
	}
}

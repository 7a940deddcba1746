package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bygglet/crew-scheduling-api/internal/dto"
	apierrors "github.com/bygglet/crew-scheduling-api/internal/errors"
	"github.com/bygglet/crew-scheduling-api/internal/middleware"
	"github.com/bygglet/crew-scheduling-api/internal/models"
	"github.com/bygglet/crew-scheduling-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AttendanceHandler handles attendance HTTP requests.
type AttendanceHandler struct {
	attendanceService *services.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// RecordEvent accepts a check-in or check-out report from a worker's device.
// Retransmissions are acknowledged with 200 instead of 201 so retrying
// clients can tell the event was already in the ledger.
func (h *AttendanceHandler) RecordEvent(c *gin.Context) {
	orgID, _ := middleware.GetOrganizationID(c)
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type RecordEventRequest struct {
		AssignmentID uint64    `json:"assignment_id" binding:"required"`
		Event        string    `json:"event" binding:"required"`
		Ts           time.Time `json:"ts"`
	}

	var req RecordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.attendanceService.RecordEvent(services.RecordEventInput{
		OrganizationID: orgID,
		UserID:         userID,
		AssignmentID:   req.AssignmentID,
		Event:          models.AttendanceEventType(req.Event),
		OccurredAt:     req.Ts,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAttendanceEvent):
			apierrors.BadRequestWithDetails(c, "Invalid request", gin.H{"event": "must be check_in or check_out"})
		case errors.Is(err, services.ErrAssignmentNotFound):
			apierrors.NotFound(c, "Assignment not found")
		default:
			apierrors.InternalError(c, "Failed to record attendance event")
		}
		return
	}

	if result.Duplicate {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"status":  result.Status,
			"message": "already recorded",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"status":  result.Status,
	})
}

// ListEvents returns the full attendance ledger for one assignment.
func (h *AttendanceHandler) ListEvents(c *gin.Context) {
	orgID, _ := middleware.GetOrganizationID(c)

	assignmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid assignment ID")
		return
	}

	events, err := h.attendanceService.ListEvents(orgID, assignmentID)
	if err != nil {
		if errors.Is(err, services.ErrAssignmentNotFound) {
			apierrors.NotFound(c, "Assignment not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch attendance events")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": dto.ToAttendanceEventDTOs(events)})
}

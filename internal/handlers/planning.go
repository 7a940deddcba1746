package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bygglet/crew-scheduling-api/internal/dto"
	apierrors "github.com/bygglet/crew-scheduling-api/internal/errors"
	"github.com/bygglet/crew-scheduling-api/internal/middleware"
	"github.com/bygglet/crew-scheduling-api/internal/services"
	"github.com/bygglet/crew-scheduling-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// PlanningHandler serves the weekly planning board.
type PlanningHandler struct {
	planningService *services.PlanningService
}

// NewPlanningHandler creates a new PlanningHandler.
func NewPlanningHandler(planningService *services.PlanningService) *PlanningHandler {
	return &PlanningHandler{planningService: planningService}
}

// GetWeekPlan returns the composite weekly view: active members, open
// projects, assignments starting in the week, and absences overlapping it.
// The week token accepts ISO week ("2025-W14") or any date in the week;
// anything else falls back to the current week.
func (h *PlanningHandler) GetWeekPlan(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.InternalError(c, "Organization scope not resolved")
		return
	}

	window := utils.ResolveWeek(c.Query("week"), time.Now())

	var projectID, userID *uint64
	if projectIDStr := c.Query("project_id"); projectIDStr != "" {
		id, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id")
			return
		}
		projectID = &id
	}
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		id, err := strconv.ParseUint(userIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid user_id")
			return
		}
		userID = &id
	}

	plan, err := h.planningService.GetWeekPlan(orgID, window, projectID, userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to assemble week plan")
		return
	}

	c.JSON(http.StatusOK, dto.ToWeekPlanResponse(plan))
}

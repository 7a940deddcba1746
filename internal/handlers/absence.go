package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bygglet/crew-scheduling-api/internal/database"
	"github.com/bygglet/crew-scheduling-api/internal/dto"
	apierrors "github.com/bygglet/crew-scheduling-api/internal/errors"
	"github.com/bygglet/crew-scheduling-api/internal/middleware"
	"github.com/bygglet/crew-scheduling-api/internal/models"
	"github.com/gin-gonic/gin"
)

type AbsenceHandler struct{}

func NewAbsenceHandler() *AbsenceHandler {
	return &AbsenceHandler{}
}

// ListAbsences returns absences in the scoped organization, optionally for
// one worker or overlapping a date range.
func (h *AbsenceHandler) ListAbsences(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.InternalError(c, "Organization scope not resolved")
		return
	}

	query := database.GetDB().Model(&models.Absence{}).
		Where("organization_id = ?", orgID)

	if userIDStr := c.Query("user_id"); userIDStr != "" {
		userID, err := strconv.ParseUint(userIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid user_id")
			return
		}
		query = query.Where("user_id = ?", userID)
	}
	if from := c.Query("start_date"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			apierrors.BadRequest(c, "Invalid start_date")
			return
		}
		query = query.Where("end_ts >= ?", t)
	}
	if to := c.Query("end_date"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			apierrors.BadRequest(c, "Invalid end_date")
			return
		}
		query = query.Where("start_ts <= ?", t.AddDate(0, 0, 1))
	}

	var absences []models.Absence
	if err := query.Order("start_ts ASC").Find(&absences).Error; err != nil {
		apierrors.InternalError(c, "Failed to fetch absences")
		return
	}

	absenceDTOs := make([]dto.AbsenceDTO, len(absences))
	for i, a := range absences {
		absenceDTOs[i] = dto.ToAbsenceDTO(a)
	}

	c.JSON(http.StatusOK, gin.H{"absences": absenceDTOs})
}

// CreateAbsence declares a worker's unavailability (supervisor-tier only).
func (h *AbsenceHandler) CreateAbsence(c *gin.Context) {
	orgID, _ := middleware.GetOrganizationID(c)
	role, _ := middleware.GetRole(c)
	if !role.CanSchedule() {
		apierrors.Forbidden(c, "Only supervisors can record absences")
		return
	}

	type CreateAbsenceRequest struct {
		UserID  uint64             `json:"user_id" binding:"required"`
		Type    models.AbsenceType `json:"type" binding:"required"`
		StartTs time.Time          `json:"start_ts" binding:"required"`
		EndTs   time.Time          `json:"end_ts" binding:"required"`
		Note    string             `json:"note"`
	}

	var req CreateAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if !req.StartTs.Before(req.EndTs) {
		apierrors.BadRequestWithDetails(c, "Invalid time range", gin.H{"start_ts": "must be before end_ts"})
		return
	}

	// The worker must be an active member of the scoped organization.
	var member models.OrganizationMember
	if err := database.GetDB().
		Where("organization_id = ? AND user_id = ? AND active = ?", orgID, req.UserID, true).
		First(&member).Error; err != nil {
		apierrors.NotFound(c, "Worker not found")
		return
	}

	absence := models.Absence{
		OrganizationID: orgID,
		UserID:         req.UserID,
		Type:           req.Type,
		StartTs:        req.StartTs.UTC(),
		EndTs:          req.EndTs.UTC(),
		Note:           req.Note,
	}

	if err := database.GetDB().Create(&absence).Error; err != nil {
		apierrors.InternalError(c, "Failed to create absence")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAbsenceDTO(absence))
}

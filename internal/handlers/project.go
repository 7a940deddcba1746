package handlers

import (
	"net/http"
	"strconv"

	"github.com/bygglet/crew-scheduling-api/internal/database"
	"github.com/bygglet/crew-scheduling-api/internal/dto"
	apierrors "github.com/bygglet/crew-scheduling-api/internal/errors"
	"github.com/bygglet/crew-scheduling-api/internal/middleware"
	"github.com/bygglet/crew-scheduling-api/internal/models"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct{}

func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{}
}

// ListProjects returns projects in the scoped organization, optionally
// filtered by status.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.InternalError(c, "Organization scope not resolved")
		return
	}

	query := database.GetDB().Model(&models.Project{}).
		Where("organization_id = ?", orgID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var projects []models.Project
	if err := query.Order("name ASC").Find(&projects).Error; err != nil {
		apierrors.InternalError(c, "Failed to fetch projects")
		return
	}

	projectDTOs := make([]dto.ProjectDTO, len(projects))
	for i, p := range projects {
		projectDTOs[i] = dto.ToProjectDTO(p)
	}

	c.JSON(http.StatusOK, gin.H{"projects": projectDTOs})
}

// CreateProject creates a new project (supervisor-tier only).
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	orgID, _ := middleware.GetOrganizationID(c)
	role, _ := middleware.GetRole(c)
	if !role.CanSchedule() {
		apierrors.Forbidden(c, "Only supervisors can create projects")
		return
	}

	type CreateProjectRequest struct {
		Name    string `json:"name" binding:"required"`
		Address string `json:"address"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project := models.Project{
		OrganizationID: orgID,
		Name:           req.Name,
		Status:         models.ProjectStatusActive,
		Address:        req.Address,
	}

	if err := database.GetDB().Create(&project).Error; err != nil {
		apierrors.InternalError(c, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(project))
}

// UpdateProjectStatus moves a project between active, paused and completed.
func (h *ProjectHandler) UpdateProjectStatus(c *gin.Context) {
	orgID, _ := middleware.GetOrganizationID(c)
	role, _ := middleware.GetRole(c)
	if !role.CanSchedule() {
		apierrors.Forbidden(c, "Only supervisors can update projects")
		return
	}

	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	type UpdateStatusRequest struct {
		Status models.ProjectStatus `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	switch req.Status {
	case models.ProjectStatusActive, models.ProjectStatusPaused, models.ProjectStatusCompleted:
	default:
		apierrors.BadRequest(c, "Invalid project status")
		return
	}

	var project models.Project
	if err := database.GetDB().
		Where("organization_id = ?", orgID).
		First(&project, projectID).Error; err != nil {
		apierrors.NotFound(c, "Project not found")
		return
	}

	project.Status = req.Status
	if err := database.GetDB().Save(&project).Error; err != nil {
		apierrors.InternalError(c, "Failed to update project")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(project))
}

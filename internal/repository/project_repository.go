package repository

import (
	"github.com/bygglet/crew-scheduling-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project scoped to one organization
func (r *GormProjectRepository) FindByID(organizationID, id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("organization_id = ?", organizationID).
		First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves projects in the given statuses, optionally one project
func (r *GormProjectRepository) List(organizationID uint64, statuses []models.ProjectStatus, projectID *uint64) ([]models.Project, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{}).
		Where("organization_id = ?", organizationID)

	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if projectID != nil {
		query = query.Where("id = ?", *projectID)
	}

	if err := query.Order("name ASC").Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

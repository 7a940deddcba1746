package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bygglet/crew-scheduling-api/internal/constants"
	"github.com/bygglet/crew-scheduling-api/internal/database"
	"github.com/bygglet/crew-scheduling-api/internal/models"
	"github.com/bygglet/crew-scheduling-api/internal/repository"
	"github.com/bygglet/crew-scheduling-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AssignmentHandlerTestSuite defines the test suite for AssignmentHandler
type AssignmentHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *AssignmentHandler
	org     *models.Organization
	project *models.Project
}

// SetupTest runs before each test
func (suite *AssignmentHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.Project{},
		&models.Assignment{},
		&models.Absence{},
		&models.AuditLog{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	assignmentRepo := repository.NewAssignmentRepository(suite.db)
	absenceRepo := repository.NewAbsenceRepository(suite.db)
	conflicts := services.NewConflictService(assignmentRepo, absenceRepo)
	assignmentService := services.NewAssignmentService(
		assignmentRepo,
		repository.NewProjectRepository(suite.db),
		repository.NewOrganizationRepository(suite.db),
		repository.NewAuditRepository(suite.db),
		conflicts,
	)

	// No AI service in tests
	suite.handler = NewAssignmentHandler(assignmentService, nil)

	gin.SetMode(gin.TestMode)

	suite.org = &models.Organization{Name: "Byggfirma Norr", InviteCode: "NORR-CODE"}
	suite.Require().NoError(suite.db.Create(suite.org).Error)

	suite.project = &models.Project{
		OrganizationID: suite.org.ID,
		Name:           "Villa Ekbacken",
		Status:         models.ProjectStatusActive,
	}
	suite.Require().NoError(suite.db.Create(suite.project).Error)
}

func (suite *AssignmentHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AssignmentHandlerTestSuite) createWorker(email string) *models.User {
	user := &models.User{Name: email, Email: email, PasswordHash: "hashed"}
	suite.Require().NoError(suite.db.Create(user).Error)
	suite.Require().NoError(suite.db.Create(&models.OrganizationMember{
		OrganizationID: suite.org.ID,
		UserID:         user.ID,
		Role:           models.RoleWorker,
		Active:         true,
	}).Error)
	return user
}

// createScopedContext simulates RequireAuth and RequireOrganizationScope
func (suite *AssignmentHandlerTestSuite) createScopedContext(method, url string, body []byte, userID uint64, role models.OrganizationRole) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)
	c.Set(constants.ContextKeyOrgID, suite.org.ID)
	c.Set(constants.ContextKeyRole, role)

	return c, w
}

func (suite *AssignmentHandlerTestSuite) createBody(userIDs []uint64, extra map[string]interface{}) []byte {
	payload := map[string]interface{}{
		"project_id": suite.project.ID,
		"user_ids":   userIDs,
		"start_ts":   "2025-06-09T07:00:00Z",
		"end_ts":     "2025-06-09T15:00:00Z",
	}
	for k, v := range extra {
		payload[k] = v
	}
	body, _ := json.Marshal(payload)
	return body
}

func (suite *AssignmentHandlerTestSuite) TestCreateAssignments_Success() {
	supervisor := suite.createWorker("boss@example.com")
	w1 := suite.createWorker("w1@example.com")

	body := suite.createBody([]uint64{w1.ID}, nil)
	c, w := suite.createScopedContext("POST", "/api/assignments", body, supervisor.ID, models.RoleSupervisor)

	suite.handler.CreateAssignments(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response struct {
		Created   []uint64            `json:"created"`
		Conflicts []services.Conflict `json:"conflicts"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response.Created, 1)
	assert.Empty(suite.T(), response.Conflicts)
}

func (suite *AssignmentHandlerTestSuite) TestCreateAssignments_ConflictReturns409() {
	supervisor := suite.createWorker("boss@example.com")
	w1 := suite.createWorker("w1@example.com")

	existing := &models.Assignment{
		OrganizationID: suite.org.ID,
		ProjectID:      suite.project.ID,
		UserID:         w1.ID,
		StartTs:        time.Date(2025, time.June, 9, 7, 0, 0, 0, time.UTC),
		EndTs:          time.Date(2025, time.June, 9, 15, 0, 0, 0, time.UTC),
		Status:         models.AssignmentStatusPlanned,
		CreatedBy:      supervisor.ID,
	}
	suite.Require().NoError(suite.db.Create(existing).Error)

	body := suite.createBody([]uint64{w1.ID}, nil)
	c, w := suite.createScopedContext("POST", "/api/assignments", body, supervisor.ID, models.RoleSupervisor)

	suite.handler.CreateAssignments(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	var response struct {
		Created   []uint64            `json:"created"`
		Conflicts []services.Conflict `json:"conflicts"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(suite.T(), response.Created)
	suite.Require().Len(response.Conflicts, 1)
	assert.Equal(suite.T(), w1.ID, response.Conflicts[0].UserID)

	// Only the pre-existing row remains.
	var count int64
	suite.db.Model(&models.Assignment{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *AssignmentHandlerTestSuite) TestCreateAssignments_ForceOverrides() {
	supervisor := suite.createWorker("boss@example.com")
	w1 := suite.createWorker("w1@example.com")

	existing := &models.Assignment{
		OrganizationID: suite.org.ID,
		ProjectID:      suite.project.ID,
		UserID:         w1.ID,
		StartTs:        time.Date(2025, time.June, 9, 7, 0, 0, 0, time.UTC),
		EndTs:          time.Date(2025, time.June, 9, 15, 0, 0, 0, time.UTC),
		Status:         models.AssignmentStatusPlanned,
		CreatedBy:      supervisor.ID,
	}
	suite.Require().NoError(suite.db.Create(existing).Error)

	body := suite.createBody([]uint64{w1.ID}, map[string]interface{}{
		"force":            true,
		"override_comment": "double crew approved",
	})
	c, w := suite.createScopedContext("POST", "/api/assignments", body, supervisor.ID, models.RoleSupervisor)

	suite.handler.CreateAssignments(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var auditCount int64
	suite.db.Model(&models.AuditLog{}).Count(&auditCount)
	assert.Equal(suite.T(), int64(1), auditCount)
}

func (suite *AssignmentHandlerTestSuite) TestCreateAssignments_WorkerRoleForbidden() {
	w1 := suite.createWorker("w1@example.com")

	body := suite.createBody([]uint64{w1.ID}, nil)
	c, w := suite.createScopedContext("POST", "/api/assignments", body, w1.ID, models.RoleWorker)

	suite.handler.CreateAssignments(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *AssignmentHandlerTestSuite) TestCreateAssignments_UnknownProjectNotFound() {
	supervisor := suite.createWorker("boss@example.com")
	w1 := suite.createWorker("w1@example.com")

	payload := map[string]interface{}{
		"project_id": 9999,
		"user_ids":   []uint64{w1.ID},
		"start_ts":   "2025-06-09T07:00:00Z",
		"end_ts":     "2025-06-09T15:00:00Z",
	}
	body, _ := json.Marshal(payload)
	c, w := suite.createScopedContext("POST", "/api/assignments", body, supervisor.ID, models.RoleSupervisor)

	suite.handler.CreateAssignments(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *AssignmentHandlerTestSuite) TestCreateAssignments_InvalidBody() {
	supervisor := suite.createWorker("boss@example.com")

	c, w := suite.createScopedContext("POST", "/api/assignments", []byte("not json"), supervisor.ID, models.RoleSupervisor)

	suite.handler.CreateAssignments(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *AssignmentHandlerTestSuite) TestCreateAssignments_InvertedTimeRange() {
	supervisor := suite.createWorker("boss@example.com")
	w1 := suite.createWorker("w1@example.com")

	payload := map[string]interface{}{
		"project_id": suite.project.ID,
		"user_ids":   []uint64{w1.ID},
		"start_ts":   "2025-06-09T15:00:00Z",
		"end_ts":     "2025-06-09T07:00:00Z",
	}
	body, _ := json.Marshal(payload)
	c, w := suite.createScopedContext("POST", "/api/assignments", body, supervisor.ID, models.RoleSupervisor)

	suite.handler.CreateAssignments(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *AssignmentHandlerTestSuite) TestListAssignments_FiltersByStatus() {
	supervisor := suite.createWorker("boss@example.com")
	w1 := suite.createWorker("w1@example.com")

	for _, status := range []models.AssignmentStatus{models.AssignmentStatusPlanned, models.AssignmentStatusDone} {
		suite.Require().NoError(suite.db.Create(&models.Assignment{
			OrganizationID: suite.org.ID,
			ProjectID:      suite.project.ID,
			UserID:         w1.ID,
			StartTs:        time.Date(2025, time.June, 9, 7, 0, 0, 0, time.UTC),
			EndTs:          time.Date(2025, time.June, 9, 15, 0, 0, 0, time.UTC),
			Status:         status,
			CreatedBy:      supervisor.ID,
		}).Error)
	}

	c, w := suite.createScopedContext("GET", "/api/assignments", nil, supervisor.ID, models.RoleSupervisor)
	c.Request.URL.RawQuery = "status=planned"

	suite.handler.ListAssignments(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string][]map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response["assignments"], 1)
	assert.Equal(suite.T(), "planned", response["assignments"][0]["status"])
}

func (suite *AssignmentHandlerTestSuite) TestSuggestAssignments_UnconfiguredReturns503() {
	supervisor := suite.createWorker("boss@example.com")

	body, _ := json.Marshal(map[string]interface{}{"text": "Erik och Anna till Villa Ekbacken på måndag"})
	c, w := suite.createScopedContext("POST", "/api/assignments/suggest", body, supervisor.ID, models.RoleSupervisor)

	suite.handler.SuggestAssignments(c)

	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
}

func TestAssignmentHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AssignmentHandlerTestSuite))
}

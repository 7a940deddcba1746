package services

import (
	"testing"

	"github.com/bygglet/crew-scheduling-api/internal/models"
	"github.com/bygglet/crew-scheduling-api/internal/repository"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OrganizationServiceTestSuite defines the test suite for OrganizationService
type OrganizationServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *OrganizationService
}

// SetupTest runs before each test
func (suite *OrganizationServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
	)
	suite.Require().NoError(err)

	suite.service = NewOrganizationService(repository.NewOrganizationRepository(suite.db))
}

func (suite *OrganizationServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *OrganizationServiceTestSuite) createUser(email string) *models.User {
	user := &models.User{Name: email, Email: email, PasswordHash: "hashed"}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *OrganizationServiceTestSuite) TestCreateOrganization_CallerBecomesOwner() {
	owner := suite.createUser("owner@example.com")

	org, err := suite.service.CreateOrganization("Byggfirma Norr", owner.ID)
	suite.Require().NoError(err)

	suite.NotEmpty(org.InviteCode)

	var member models.OrganizationMember
	suite.Require().NoError(suite.db.
		Where("organization_id = ? AND user_id = ?", org.ID, owner.ID).
		First(&member).Error)
	suite.Equal(models.RoleOwner, member.Role)
	suite.True(member.Active)
}

func (suite *OrganizationServiceTestSuite) TestCreateOrganization_EmptyNameRejected() {
	owner := suite.createUser("owner@example.com")

	_, err := suite.service.CreateOrganization("   ", owner.ID)
	suite.ErrorIs(err, ErrInvalidOrganizationName)
}

func (suite *OrganizationServiceTestSuite) TestJoinOrganizationByInvite_JoinsAsWorker() {
	owner := suite.createUser("owner@example.com")
	joiner := suite.createUser("joiner@example.com")

	org, err := suite.service.CreateOrganization("Byggfirma Norr", owner.ID)
	suite.Require().NoError(err)

	joined, err := suite.service.JoinOrganizationByInvite(joiner.ID, org.InviteCode)
	suite.Require().NoError(err)
	suite.Equal(org.ID, joined.ID)

	var member models.OrganizationMember
	suite.Require().NoError(suite.db.
		Where("organization_id = ? AND user_id = ?", org.ID, joiner.ID).
		First(&member).Error)
	suite.Equal(models.RoleWorker, member.Role)
}

func (suite *OrganizationServiceTestSuite) TestJoinOrganizationByInvite_UnknownCode() {
	joiner := suite.createUser("joiner@example.com")

	_, err := suite.service.JoinOrganizationByInvite(joiner.ID, "NO-SUCH-CODE")
	suite.ErrorIs(err, ErrInvalidInviteCode)
}

func (suite *OrganizationServiceTestSuite) TestJoinOrganizationByInvite_AlreadyMember() {
	owner := suite.createUser("owner@example.com")

	org, err := suite.service.CreateOrganization("Byggfirma Norr", owner.ID)
	suite.Require().NoError(err)

	_, err = suite.service.JoinOrganizationByInvite(owner.ID, org.InviteCode)
	suite.ErrorIs(err, ErrAlreadyOrganizationMember)
}

func (suite *OrganizationServiceTestSuite) TestUpdateMemberRole_PromotesWorker() {
	owner := suite.createUser("owner@example.com")
	worker := suite.createUser("worker@example.com")

	org, err := suite.service.CreateOrganization("Byggfirma Norr", owner.ID)
	suite.Require().NoError(err)
	_, err = suite.service.JoinOrganizationByInvite(worker.ID, org.InviteCode)
	suite.Require().NoError(err)

	member, err := suite.service.UpdateMemberRole(org.ID, owner.ID, worker.ID, models.RoleSupervisor)
	suite.Require().NoError(err)
	suite.Equal(models.RoleSupervisor, member.Role)
	suite.True(member.Role.CanSchedule())
}

func (suite *OrganizationServiceTestSuite) TestUpdateMemberRole_OwnRoleRefused() {
	owner := suite.createUser("owner@example.com")

	org, err := suite.service.CreateOrganization("Byggfirma Norr", owner.ID)
	suite.Require().NoError(err)

	_, err = suite.service.UpdateMemberRole(org.ID, owner.ID, owner.ID, models.RoleWorker)
	suite.ErrorIs(err, ErrCannotChangeOwnRole)
}

func (suite *OrganizationServiceTestSuite) TestUpdateMemberRole_InvalidRole() {
	owner := suite.createUser("owner@example.com")
	worker := suite.createUser("worker@example.com")

	org, err := suite.service.CreateOrganization("Byggfirma Norr", owner.ID)
	suite.Require().NoError(err)
	_, err = suite.service.JoinOrganizationByInvite(worker.ID, org.InviteCode)
	suite.Require().NoError(err)

	_, err = suite.service.UpdateMemberRole(org.ID, owner.ID, worker.ID, "foreman")
	suite.ErrorIs(err, ErrInvalidRole)
}

func (suite *OrganizationServiceTestSuite) TestDeactivateMember_KeepsHistoryButHidesResource() {
	owner := suite.createUser("owner@example.com")
	worker := suite.createUser("worker@example.com")

	org, err := suite.service.CreateOrganization("Byggfirma Norr", owner.ID)
	suite.Require().NoError(err)
	_, err = suite.service.JoinOrganizationByInvite(worker.ID, org.InviteCode)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.DeactivateMember(org.ID, worker.ID))

	members, err := suite.service.ListMembers(org.ID)
	suite.Require().NoError(err)
	suite.Require().Len(members, 1)
	suite.Equal(owner.ID, members[0].UserID)

	// The membership row survives for history.
	var member models.OrganizationMember
	suite.Require().NoError(suite.db.
		Where("organization_id = ? AND user_id = ?", org.ID, worker.ID).
		First(&member).Error)
	suite.False(member.Active)
}

func TestOrganizationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationServiceTestSuite))
}

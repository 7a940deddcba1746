package services

import (
	"testing"
	"time"

	"github.com/bygglet/crew-scheduling-api/internal/constants"
	"github.com/bygglet/crew-scheduling-api/internal/models"
	"github.com/bygglet/crew-scheduling-api/internal/repository"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// capturingNotifier records notifications instead of delivering them
type capturingNotifier struct {
	checkIns  []CheckInNotification
	checkOuts []CheckOutNotification
}

func (n *capturingNotifier) NotifyCheckIn(notification CheckInNotification) error {
	n.checkIns = append(n.checkIns, notification)
	return nil
}

func (n *capturingNotifier) NotifyCheckOut(notification CheckOutNotification) error {
	n.checkOuts = append(n.checkOuts, notification)
	return nil
}

// AttendanceServiceTestSuite defines the test suite for AttendanceService
type AttendanceServiceTestSuite struct {
	suite.Suite
	db              *gorm.DB
	service         *AttendanceService
	notifier        *capturingNotifier
	org             *models.Organization
	worker          *models.User
	assignment      *models.Assignment
	restoreDispatch func()
}

// SetupTest runs before each test
func (suite *AttendanceServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.Project{},
		&models.Assignment{},
		&models.AttendanceEvent{},
	)
	suite.Require().NoError(err)

	// Run side effects inline so assertions see them.
	previous := dispatchAsync
	dispatchAsync = func(fn func()) { fn() }
	suite.restoreDispatch = func() { dispatchAsync = previous }

	suite.notifier = &capturingNotifier{}
	suite.service = NewAttendanceService(
		repository.NewAssignmentRepository(suite.db),
		repository.NewAttendanceRepository(suite.db),
		repository.NewUserRepository(suite.db),
		suite.notifier,
		constants.DefaultAttendanceDedupSeconds*time.Second,
	)

	suite.org = &models.Organization{Name: "Byggfirma Norr", InviteCode: "NORR-CODE"}
	suite.Require().NoError(suite.db.Create(suite.org).Error)

	suite.worker = &models.User{Name: "Erik", Email: "erik@example.com", PasswordHash: "hashed"}
	suite.Require().NoError(suite.db.Create(suite.worker).Error)

	project := &models.Project{OrganizationID: suite.org.ID, Name: "Villa Ekbacken", Status: models.ProjectStatusActive}
	suite.Require().NoError(suite.db.Create(project).Error)

	suite.assignment = &models.Assignment{
		OrganizationID: suite.org.ID,
		ProjectID:      project.ID,
		UserID:         suite.worker.ID,
		StartTs:        time.Date(2025, time.June, 9, 7, 0, 0, 0, time.UTC),
		EndTs:          time.Date(2025, time.June, 9, 16, 0, 0, 0, time.UTC),
		Status:         models.AssignmentStatusPlanned,
		CreatedBy:      1,
	}
	suite.Require().NoError(suite.db.Create(suite.assignment).Error)
}

func (suite *AttendanceServiceTestSuite) TearDownTest() {
	suite.restoreDispatch()
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AttendanceServiceTestSuite) record(event models.AttendanceEventType, occurredAt time.Time) (*RecordEventResult, error) {
	return suite.service.RecordEvent(RecordEventInput{
		OrganizationID: suite.org.ID,
		UserID:         suite.worker.ID,
		AssignmentID:   suite.assignment.ID,
		Event:          event,
		OccurredAt:     occurredAt,
	})
}

func (suite *AttendanceServiceTestSuite) assignmentStatus() models.AssignmentStatus {
	var a models.Assignment
	suite.Require().NoError(suite.db.First(&a, suite.assignment.ID).Error)
	return a.Status
}

func (suite *AttendanceServiceTestSuite) ledgerCount() int64 {
	var count int64
	suite.db.Model(&models.AttendanceEvent{}).Count(&count)
	return count
}

func (suite *AttendanceServiceTestSuite) TestCheckIn_StartsWork() {
	checkIn := time.Date(2025, time.June, 9, 7, 2, 0, 0, time.UTC)

	result, err := suite.record(models.AttendanceCheckIn, checkIn)
	suite.Require().NoError(err)

	suite.False(result.Duplicate)
	suite.Equal(models.AssignmentStatusInProgress, result.Status)
	suite.Equal(models.AssignmentStatusInProgress, suite.assignmentStatus())
	suite.Equal(int64(1), suite.ledgerCount())

	suite.Require().Len(suite.notifier.checkIns, 1)
	suite.Equal("Erik", suite.notifier.checkIns[0].UserName)
}

func (suite *AttendanceServiceTestSuite) TestCheckIn_RetransmissionWithinWindow() {
	checkIn := time.Date(2025, time.June, 9, 7, 2, 0, 0, time.UTC)

	_, err := suite.record(models.AttendanceCheckIn, checkIn)
	suite.Require().NoError(err)

	// Same report 30 seconds later, as a retrying mobile client would send it.
	result, err := suite.record(models.AttendanceCheckIn, checkIn.Add(30*time.Second))
	suite.Require().NoError(err)

	suite.True(result.Duplicate)
	suite.Equal(models.AssignmentStatusInProgress, result.Status)
	suite.Equal(int64(1), suite.ledgerCount())
	suite.Len(suite.notifier.checkIns, 1)
}

func (suite *AttendanceServiceTestSuite) TestCheckIn_OutsideWindowIsNewEvent() {
	checkIn := time.Date(2025, time.June, 9, 7, 2, 0, 0, time.UTC)

	_, err := suite.record(models.AttendanceCheckIn, checkIn)
	suite.Require().NoError(err)

	result, err := suite.record(models.AttendanceCheckIn, checkIn.Add(5*time.Minute))
	suite.Require().NoError(err)

	suite.False(result.Duplicate)
	suite.Equal(int64(2), suite.ledgerCount())
	// Already in progress, so the second check-in changes nothing.
	suite.Equal(models.AssignmentStatusInProgress, suite.assignmentStatus())
}

func (suite *AttendanceServiceTestSuite) TestCheckOut_CompletesWorkAndReportsHours() {
	checkIn := time.Date(2025, time.June, 9, 7, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(5*time.Hour + 30*time.Minute)

	_, err := suite.record(models.AttendanceCheckIn, checkIn)
	suite.Require().NoError(err)

	result, err := suite.record(models.AttendanceCheckOut, checkOut)
	suite.Require().NoError(err)

	suite.Equal(models.AssignmentStatusDone, result.Status)
	suite.Equal(models.AssignmentStatusDone, suite.assignmentStatus())

	suite.Require().Len(suite.notifier.checkOuts, 1)
	suite.InDelta(5.5, suite.notifier.checkOuts[0].HoursWorked, 0.001)
}

func (suite *AttendanceServiceTestSuite) TestCheckOut_DurationFromEarliestCheckIn() {
	first := time.Date(2025, time.June, 9, 7, 0, 0, 0, time.UTC)

	_, err := suite.record(models.AttendanceCheckIn, first)
	suite.Require().NoError(err)
	_, err = suite.record(models.AttendanceCheckIn, first.Add(2*time.Hour))
	suite.Require().NoError(err)

	_, err = suite.record(models.AttendanceCheckOut, first.Add(8*time.Hour))
	suite.Require().NoError(err)

	suite.Require().Len(suite.notifier.checkOuts, 1)
	suite.InDelta(8.0, suite.notifier.checkOuts[0].HoursWorked, 0.001)
}

func (suite *AttendanceServiceTestSuite) TestCheckOut_WithoutCheckInFallsBackToPlannedStart() {
	// No check-in in the ledger: duration counts from the planned start.
	checkOut := suite.assignment.StartTs.Add(4 * time.Hour)

	result, err := suite.record(models.AttendanceCheckOut, checkOut)
	suite.Require().NoError(err)

	// planned -> check_out is a no-op transition; the event is still logged.
	suite.Equal(models.AssignmentStatusPlanned, result.Status)
	suite.Equal(int64(1), suite.ledgerCount())

	suite.Require().Len(suite.notifier.checkOuts, 1)
	suite.InDelta(4.0, suite.notifier.checkOuts[0].HoursWorked, 0.001)
}

func (suite *AttendanceServiceTestSuite) TestCheckOut_BeforeCheckInClampsToZero() {
	checkIn := time.Date(2025, time.June, 9, 7, 0, 0, 0, time.UTC)

	_, err := suite.record(models.AttendanceCheckIn, checkIn)
	suite.Require().NoError(err)

	_, err = suite.record(models.AttendanceCheckOut, checkIn.Add(-time.Hour))
	suite.Require().NoError(err)

	suite.Require().Len(suite.notifier.checkOuts, 1)
	suite.Equal(0.0, suite.notifier.checkOuts[0].HoursWorked)
}

func (suite *AttendanceServiceTestSuite) TestCheckIn_OnDoneAssignmentIsNoOp() {
	suite.Require().NoError(suite.db.Model(&models.Assignment{}).
		Where("id = ?", suite.assignment.ID).
		Update("status", models.AssignmentStatusDone).Error)

	result, err := suite.record(models.AttendanceCheckIn, time.Date(2025, time.June, 9, 17, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)

	suite.Equal(models.AssignmentStatusDone, result.Status)
	suite.Equal(int64(1), suite.ledgerCount())
}

func (suite *AttendanceServiceTestSuite) TestRecordEvent_InvalidEventRejected() {
	_, err := suite.service.RecordEvent(RecordEventInput{
		OrganizationID: suite.org.ID,
		UserID:         suite.worker.ID,
		AssignmentID:   suite.assignment.ID,
		Event:          "lunch_break",
	})
	suite.ErrorIs(err, ErrInvalidAttendanceEvent)
}

func (suite *AttendanceServiceTestSuite) TestRecordEvent_UnknownAssignment() {
	_, err := suite.service.RecordEvent(RecordEventInput{
		OrganizationID: suite.org.ID,
		UserID:         suite.worker.ID,
		AssignmentID:   9999,
		Event:          models.AttendanceCheckIn,
	})
	suite.ErrorIs(err, ErrAssignmentNotFound)
}

func (suite *AttendanceServiceTestSuite) TestRecordEvent_OtherWorkersAssignmentHidden() {
	other := &models.User{Name: "Anna", Email: "anna@example.com", PasswordHash: "hashed"}
	suite.Require().NoError(suite.db.Create(other).Error)

	_, err := suite.service.RecordEvent(RecordEventInput{
		OrganizationID: suite.org.ID,
		UserID:         other.ID,
		AssignmentID:   suite.assignment.ID,
		Event:          models.AttendanceCheckIn,
	})
	suite.ErrorIs(err, ErrAssignmentNotFound)
}

func (suite *AttendanceServiceTestSuite) TestListEvents_OldestFirst() {
	base := time.Date(2025, time.June, 9, 7, 0, 0, 0, time.UTC)

	_, err := suite.record(models.AttendanceCheckIn, base)
	suite.Require().NoError(err)
	_, err = suite.record(models.AttendanceCheckOut, base.Add(8*time.Hour))
	suite.Require().NoError(err)

	events, err := suite.service.ListEvents(suite.org.ID, suite.assignment.ID)
	suite.Require().NoError(err)

	suite.Require().Len(events, 2)
	suite.Equal(models.AttendanceCheckIn, events[0].Event)
	suite.Equal(models.AttendanceCheckOut, events[1].Event)
}

func TestAttendanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AttendanceServiceTestSuite))
}

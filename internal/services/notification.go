package services

import (
	"time"

	"github.com/sirupsen/logrus"
)

// CheckInNotification is handed to collaborators when a worker arrives on site.
type CheckInNotification struct {
	ProjectID   uint64
	UserID      uint64
	UserName    string
	CheckinTime time.Time
}

// CheckOutNotification is handed to collaborators when a worker leaves a site.
type CheckOutNotification struct {
	ProjectID    uint64
	UserID       uint64
	UserName     string
	CheckoutTime time.Time
	HoursWorked  float64
}

// Notifier delivers attendance notifications to collaborators. Delivery is
// best-effort: callers dispatch asynchronously and only log failures.
type Notifier interface {
	NotifyCheckIn(n CheckInNotification) error
	NotifyCheckOut(n CheckOutNotification) error
}

// dispatchAsync decouples side effects from the request path. Tests replace
// it with a synchronous version.
var dispatchAsync = func(fn func()) {
	go fn()
}

// LogNotifier logs notifications instead of delivering them. It stands in for
// the push/email dispatcher, which lives outside this service.
type LogNotifier struct{}

func (LogNotifier) NotifyCheckIn(n CheckInNotification) error {
	logrus.WithFields(logrus.Fields{
		"project_id": n.ProjectID,
		"user_id":    n.UserID,
		"user_name":  n.UserName,
		"checkin":    n.CheckinTime,
	}).Info("worker checked in")
	return nil
}

func (LogNotifier) NotifyCheckOut(n CheckOutNotification) error {
	logrus.WithFields(logrus.Fields{
		"project_id":   n.ProjectID,
		"user_id":      n.UserID,
		"user_name":    n.UserName,
		"checkout":     n.CheckoutTime,
		"hours_worked": n.HoursWorked,
	}).Info("worker checked out")
	return nil
}

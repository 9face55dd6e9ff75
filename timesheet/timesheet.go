package timesheet

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID   int64
	Name string
}

type Project struct {
	ID   int64
	Name string
}

// Assignment allows a user to log hours against a project.
type Assignment struct {
	UserID    int64
	ProjectID int64
}

// Entry is one recorded quantity of hours worked by one user on one project on one date.
// Date is always a local midnight; an empty Description means none was given.
type Entry struct {
	ID          int64
	UserID      int64
	ProjectID   int64
	Date        time.Time
	Hours       decimal.Decimal
	Description string
}

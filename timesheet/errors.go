package timesheet

import (
	"errors"
	"fmt"
)

// Kind names the reason an entry operation failed.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthorizedAdd
	KindUnauthorizedEdit
	KindUnauthorizedDelete
	KindUserNotFound
	KindProjectNotFound
	KindProjectNotAssigned
	KindDateInFuture
	KindInvalidHours
	KindDescriptionTooLong
	KindDuplicateEntry
	KindEntryNotFound
	KindAddFailed
	KindEditFailed
	KindStoreFailure
)

var kindCodes = map[Kind]string{
	KindUnknown:            "unknown",
	KindUnauthorizedAdd:    "unauthorized_add",
	KindUnauthorizedEdit:   "unauthorized_edit",
	KindUnauthorizedDelete: "unauthorized_delete",
	KindUserNotFound:       "user_not_found",
	KindProjectNotFound:    "project_not_found",
	KindProjectNotAssigned: "project_not_assigned",
	KindDateInFuture:       "date_in_future",
	KindInvalidHours:       "invalid_hours",
	KindDescriptionTooLong: "description_too_long",
	KindDuplicateEntry:     "duplicate_entry",
	KindEntryNotFound:      "entry_not_found",
	KindAddFailed:          "add_failed",
	KindEditFailed:         "edit_failed",
	KindStoreFailure:       "store_failure",
}

var kindMessages = map[Kind]string{
	KindUnknown:            "unknown error",
	KindUnauthorizedAdd:    "not authorised to add entries for other users",
	KindUnauthorizedEdit:   "not authorised to edit entries for other users",
	KindUnauthorizedDelete: "not authorised to delete entries for other users",
	KindUserNotFound:       "user not found",
	KindProjectNotFound:    "project not found",
	KindProjectNotAssigned: "project is not assigned to the user",
	KindDateInFuture:       "date must not be in the future",
	KindInvalidHours:       "hours out of the allowed range",
	KindDescriptionTooLong: "description is too long",
	KindDuplicateEntry:     "an entry for this user, project and date already exists",
	KindEntryNotFound:      "timesheet entry not found",
	KindAddFailed:          "error adding timesheet entry",
	KindEditFailed:         "failed to update timesheet entry",
	KindStoreFailure:       "timesheet store failure",
}

// String returns the stable machine-readable code of the kind.
func (k Kind) String() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return kindCodes[KindUnknown]
}

// Message returns the human-readable message of the kind.
func (k Kind) Message() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return kindMessages[KindUnknown]
}

// Error is the failure returned by every entry operation. Err is set only for
// faults raised by the store.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

var (
	ErrUnauthorizedAdd    = &Error{Kind: KindUnauthorizedAdd}
	ErrUnauthorizedEdit   = &Error{Kind: KindUnauthorizedEdit}
	ErrUnauthorizedDelete = &Error{Kind: KindUnauthorizedDelete}
	ErrUserNotFound       = &Error{Kind: KindUserNotFound}
	ErrProjectNotFound    = &Error{Kind: KindProjectNotFound}
	ErrProjectNotAssigned = &Error{Kind: KindProjectNotAssigned}
	ErrDateInFuture       = &Error{Kind: KindDateInFuture}
	ErrInvalidHours       = &Error{Kind: KindInvalidHours}
	ErrDescriptionTooLong = &Error{Kind: KindDescriptionTooLong}
	ErrDuplicateEntry     = &Error{Kind: KindDuplicateEntry}
	ErrEntryNotFound      = &Error{Kind: KindEntryNotFound}
	ErrAddFailed          = &Error{Kind: KindAddFailed}
	ErrEditFailed         = &Error{Kind: KindEditFailed}
	ErrStoreFailure       = &Error{Kind: KindStoreFailure}
)

func Fail(kind Kind) *Error {
	return &Error{Kind: kind}
}

func Failf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// StoreFault wraps an error raised by the store under the given kind.
func StoreFault(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	msg := e.Kind.Message()
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality so the exported sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUnknown
}

// IsStoreFault reports whether err came from the store rather than a rule violation.
func IsStoreFault(err error) bool {
	switch KindOf(err) {
	case KindAddFailed, KindEditFailed, KindStoreFailure:
		return true
	default:
		return false
	}
}

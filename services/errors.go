package services

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrInquiryNotFound = errors.New("inquiry not found")

	ErrInvalidDateRange  = errors.New("end_date must be after the start date")
	ErrRoomUnavailable   = errors.New("Room is not available for the selected dates")
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrBookingConflict is returned when the database refuses a booking write
	// because a concurrent write claimed the same room and dates.
	ErrBookingConflict = errors.New("booking conflicts with a concurrent reservation")

	ErrDuplicate          = errors.New("resource already exists")
	ErrInvalidReference   = errors.New("referenced resource does not exist")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
	ErrAccountBlocked     = errors.New("account is blocked")
)

// ValidationError carries the human-readable messages returned to the client.
// It unwraps to the sentinel reasons, so errors.Is(err, ErrRoomUnavailable) works.
type ValidationError struct {
	Messages []string
	reasons  []error
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() []error {
	return e.reasons
}

// Add appends a message. reason may be nil for plain field errors.
func (e *ValidationError) Add(reason error, message string) {
	e.Messages = append(e.Messages, message)
	if reason != nil {
		e.reasons = append(e.reasons, reason)
	}
}

func (e *ValidationError) empty() bool {
	return len(e.Messages) == 0
}

// orNil lets callers build up a ValidationError and return it only when something was added.
func (e *ValidationError) orNil() error {
	if e.empty() {
		return nil
	}
	return e
}

func validationError(reason error) *ValidationError {
	v := &ValidationError{}
	v.Add(reason, reason.Error())
	return v
}

func newValidationMessage(message string) *ValidationError {
	v := &ValidationError{}
	v.Add(nil, message)
	return v
}

// translateDBError maps driver specific failures onto the service sentinels.
// Errors it does not recognise are returned unchanged.
func translateDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrInvalidReference
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062:
			return ErrDuplicate
		case 1205, 1213: // lock wait timeout, deadlock
			return ErrBookingConflict
		case 1451, 1452:
			return ErrInvalidReference
		}
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23P01", "40001", "40P01": // exclusion violation, serialization failure, deadlock
			return ErrBookingConflict
		case "23505":
			return ErrDuplicate
		case "23503":
			return ErrInvalidReference
		}
		return err
	}

	// sqlite only exposes these through the message text.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ErrDuplicate
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ErrInvalidReference
	case strings.Contains(msg, "database is locked"):
		return ErrBookingConflict
	}
	return err
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

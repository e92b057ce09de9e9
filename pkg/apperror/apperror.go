// Package apperror defines the error taxonomy shared by services and handlers.
// Services return *Error values; only the HTTP adaptor turns a Kind into a status code.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFound"
	case KindForbidden:
		return "Forbidden"
	case KindConflict:
		return "Conflict"
	case KindUnauthorized:
		return "Unauthorized"
	default:
		return "Internal"
	}
}

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL_ERROR"
	CodeBookingNotFound    = "BOOKING_NOT_FOUND"
	CodeVehicleUnavailable = "VEHICLE_UNAVAILABLE"
	CodeSlotConflict       = "SLOT_CONFLICT"
	CodeInvalidState       = "INVALID_STATE"
	CodeVehicleInUse       = "VEHICLE_IN_USE"
	CodeStationInUse       = "STATION_IN_USE"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodePlateTaken         = "LICENSE_PLATE_TAKEN"
	CodePromotionTaken     = "PROMOTION_CODE_TAKEN"
	CodePaymentExists      = "PAYMENT_EXISTS"
	CodeDocumentApproved   = "DOCUMENT_APPROVED"
	CodeDocumentExists     = "DOCUMENT_EXISTS"
	CodeContractExists     = "CONTRACT_EXISTS"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind and Code so sentinel values work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

func (e *Error) WithDetails(details map[string]any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(message string, details map[string]any) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: message, Details: details}
}

func NotFound(code, resource string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: fmt.Sprintf("%s not found", resource)}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: CodeForbidden, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: CodeUnauthorized, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: message, Err: err}
}

// As extracts an *Error from err; anything else is reported as Internal.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// Core booking errors.
var (
	ErrBookingNotFound    = NotFound(CodeBookingNotFound, "booking")
	ErrVehicleUnavailable = Conflict(CodeVehicleUnavailable, "vehicle is not available")
	ErrSlotConflict       = Conflict(CodeSlotConflict, "vehicle already booked for an overlapping time slot")
)

func InvalidState(format string, args ...any) *Error {
	return Conflict(CodeInvalidState, fmt.Sprintf(format, args...))
}

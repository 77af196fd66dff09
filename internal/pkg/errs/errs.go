package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for classification with errors.Is. Each typed error below
// unwraps to exactly one of these.
var (
	// ErrObjectNotFound indicates a referenced entity does not exist.
	ErrObjectNotFound = errors.New("object not found")
	// ErrNotAuthorized indicates the caller lacks rights over the entity.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrConflict indicates the entity's state was already changed by a
	// concurrent operation and the requested transition lost the race.
	ErrConflict = errors.New("state conflict")
	// ErrValueIsInvalid indicates a supplied value is malformed or unusable.
	ErrValueIsInvalid = errors.New("value is invalid")
	// ErrValueIsRequired indicates a required value is missing.
	ErrValueIsRequired = errors.New("value is required")
	// ErrValueIsOutOfRange indicates a value lies outside its allowed bounds.
	ErrValueIsOutOfRange = errors.New("value is out of range")
)

// ObjectNotFoundError reports that the entity identified by ID, referenced via
// ParamName, could not be found.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without a cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %v (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %v", ErrObjectNotFound, e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// NotAuthorizedError reports that the subject identified by SubjectID has no
// rights over the entity named by ParamName.
type NotAuthorizedError struct {
	ParamName string
	SubjectID any
	Cause     error
}

// NewNotAuthorizedError creates a NotAuthorizedError without a cause.
func NewNotAuthorizedError(paramName string, subjectID any) *NotAuthorizedError {
	return &NotAuthorizedError{ParamName: paramName, SubjectID: subjectID}
}

// NewNotAuthorizedErrorWithCause creates a NotAuthorizedError wrapping cause.
func NewNotAuthorizedErrorWithCause(paramName string, subjectID any, cause error) *NotAuthorizedError {
	return &NotAuthorizedError{ParamName: paramName, SubjectID: subjectID, Cause: cause}
}

func (e *NotAuthorizedError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %v over %s (cause: %s)",
			ErrNotAuthorized, e.SubjectID, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %v over %s", ErrNotAuthorized, e.SubjectID, e.ParamName))
}

func (e *NotAuthorizedError) Unwrap() error {
	return ErrNotAuthorized
}

// ConflictError reports that the entity named by ParamName was not in the
// state the operation expected, typically because a concurrent operation
// committed first.
type ConflictError struct {
	ParamName string
	State     any
	Cause     error
}

// NewConflictError creates a ConflictError without a cause.
func NewConflictError(paramName string, state any) *ConflictError {
	return &ConflictError{ParamName: paramName, State: state}
}

// NewConflictErrorWithCause creates a ConflictError wrapping cause.
func NewConflictErrorWithCause(paramName string, state any, cause error) *ConflictError {
	return &ConflictError{ParamName: paramName, State: state, Cause: cause}
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s is %v (cause: %s)",
			ErrConflict, e.ParamName, e.State, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s is %v", ErrConflict, e.ParamName, e.State))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// ValueIsInvalidError reports that the value named by ParamName is invalid.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without a cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsRequiredError reports that the value named by ParamName is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without a cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsOutOfRangeError reports that Value for ParamName lies outside the
// inclusive range [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without a cause.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping cause.
func NewValueIsOutOfRangeErrorWithCause(paramName string, value, minValue, maxValue any, cause error) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v (cause: %s)",
			ErrValueIsOutOfRange, e.Value, e.ParamName, e.Min, e.Max, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsOutOfRange, e.Value, e.ParamName, e.Min, e.Max))
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// sanitize keeps error messages single-line so they stay log-friendly.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

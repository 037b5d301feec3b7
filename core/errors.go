package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// Reason classifies a ValidationError or an AuthFailure.
type Reason string

// validation reasons
const (
	ReasonMissingFields Reason = "missing_fields"
	ReasonEmptyFeedback Reason = "empty_feedback"
	ReasonInvalidRole   Reason = "invalid_role"
	ReasonInvalidActor  Reason = "invalid_actor"
	ReasonInvalidInput  Reason = "invalid_input"
)

// auth failure reasons
const (
	ReasonInvalidCredentials Reason = "invalid_credentials"
	ReasonEmailTaken         Reason = "email_taken"
	ReasonRoleMismatch       Reason = "role_mismatch"
	ReasonForbidden          Reason = "forbidden"
)

var (
	ErrNotFound = errors.New("not found")

	ErrMissingFields = &ValidationError{Reason: ReasonMissingFields}
	ErrEmptyFeedback = &ValidationError{Reason: ReasonEmptyFeedback}
	ErrInvalidRole   = &ValidationError{Reason: ReasonInvalidRole}
	ErrInvalidActor  = &ValidationError{Reason: ReasonInvalidActor}

	ErrInvalidCredentials = &AuthFailure{Reason: ReasonInvalidCredentials}
	ErrEmailTaken         = &AuthFailure{Reason: ReasonEmailTaken}
	ErrRoleMismatch       = &AuthFailure{Reason: ReasonRoleMismatch}
	ErrForbidden          = &AuthFailure{Reason: ReasonForbidden}

	ErrInvalidTransition = &InvalidStateTransition{}
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError reports invalid input. Nothing was written when it is returned.
type ValidationError struct {
	Reason Reason
	Err    error
	Fields []FieldError
}

func NewValidationError(reason Reason, err error, flds ...FieldError) error {
	return &ValidationError{Reason: reason, Err: err, Fields: flds}
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		return "validation failed: " + string(err.Reason)
	}
	return err.Err.Error()
}

func (err *ValidationError) Unwrap() error { return err.Err }

// Is matches any ValidationError carrying the same Reason.
func (err *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Reason == err.Reason
}

// AuthFailure reports bad credentials, a duplicate account or a missing capability.
type AuthFailure struct {
	Reason Reason
	Msg    string
}

func NewAuthFailure(reason Reason, msg string) error {
	return &AuthFailure{Reason: reason, Msg: msg}
}

func (err *AuthFailure) Error() string {
	if err.Msg == "" {
		return "authentication failed: " + string(err.Reason)
	}
	return err.Msg
}

func (err *AuthFailure) Is(target error) bool {
	t, ok := target.(*AuthFailure)
	return ok && t.Reason == err.Reason
}

// NotFoundError reports a reference to a record that does not exist. It matches ErrNotFound.
type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func (err *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", err.Resource, err.ID)
}

func (err *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidStateTransition reports a move the project state machine does not allow.
// The zero value matches any transition error.
type InvalidStateTransition struct {
	From string
	To   string
}

func (err *InvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %q to %q", err.From, err.To)
}

func (err *InvalidStateTransition) Is(target error) bool {
	t, ok := target.(*InvalidStateTransition)
	if !ok {
		return false
	}
	return (t.From == "" || t.From == err.From) && (t.To == "" || t.To == err.To)
}

// ReasonOf returns the Reason of a ValidationError or AuthFailure found in err's chain.
func ReasonOf(err error) (Reason, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Reason, true
	}
	var aErr *AuthFailure
	if errors.As(err, &aErr) {
		return aErr.Reason, true
	}
	return "", false
}

package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError is a local, recoverable input error. Field names the offending input.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// GatewayError reports a failed charge attempt. The caller may retry.
type GatewayError struct {
	Code string
	Msg  string
	Err  error
}

func (e GatewayError) Error() string {
	switch {
	case e.Msg != "" && e.Code != "":
		return fmt.Sprintf("payment failed (%s): %s", e.Code, e.Msg)
	case e.Msg != "":
		return "payment failed: " + e.Msg
	case e.Err != nil:
		return "payment failed: " + e.Err.Error()
	default:
		return "payment failed"
	}
}

func (e GatewayError) Unwrap() error { return e.Err }

// NotificationError is non-fatal: the booking stays confirmed.
type NotificationError struct {
	Recipient string
	Err       error
}

func (e NotificationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("notification to %s failed", e.Recipient)
	}
	return fmt.Sprintf("notification to %s failed: %v", e.Recipient, e.Err)
}

func (e NotificationError) Unwrap() error { return e.Err }

// DocumentError aborts a single document generation. A set Field means a required input was missing.
type DocumentError struct {
	Field string
	Err   error
}

func (e DocumentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("document: missing field %s", e.Field)
	}
	if e.Err != nil {
		return fmt.Sprintf("document: %v", e.Err)
	}
	return "document error"
}

func (e DocumentError) Unwrap() error { return e.Err }

// MissingField reports whether the document failed on absent input rather than rendering.
func (e DocumentError) MissingField() bool { return e.Field != "" }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// UnauthorizedError means the caller could not be identified.
type UnauthorizedError struct {
	Msg string
	Err error
}

func (e UnauthorizedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthorized"
}

func (e UnauthorizedError) Unwrap() error { return e.Err }

// ForbiddenError means the caller is known but its role may not perform the action.
type ForbiddenError struct {
	Action string
	Role   string
}

func (e ForbiddenError) Error() string {
	if e.Role == "" {
		return fmt.Sprintf("not allowed to %s", e.Action)
	}
	return fmt.Sprintf("role %s is not allowed to %s", e.Role, e.Action)
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsGateway(err error) bool {
	var target GatewayError
	return errors.As(err, &target)
}

func IsNotification(err error) bool {
	var target NotificationError
	return errors.As(err, &target)
}

func IsDocument(err error) bool {
	var target DocumentError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

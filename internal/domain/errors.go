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

// CapacityError signals that a booking asked for more seats than the
// schedule has left. Clients distinguish it from validation failures so
// they can offer alternative schedules.
type CapacityError struct {
	ScheduleID string
	Requested  int
	Available  int
}

func (e CapacityError) Error() string {
	return fmt.Sprintf("schedule %s: requested %d seats, only %d available", e.ScheduleID, e.Requested, e.Available)
}

// IntegrityError signals a dangling reference found while joining
// entities. It indicates a broken invariant and must be logged, never
// defaulted away.
type IntegrityError struct {
	Resource string
	Ref      string
}

func (e IntegrityError) Error() string {
	return fmt.Sprintf("integrity: %s references missing %s", e.Resource, e.Ref)
}

// PaymentError signals the payment collaborator declined or timed out.
// The booking is never created in this case.
type PaymentError struct {
	Msg string
	Err error
}

func (e PaymentError) Error() string {
	if e.Msg != "" {
		return "payment failed: " + e.Msg
	}
	return "payment failed"
}

func (e PaymentError) Unwrap() error { return e.Err }

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

func IsCapacity(err error) bool {
	var target CapacityError
	return errors.As(err, &target)
}

func IsIntegrity(err error) bool {
	var target IntegrityError
	return errors.As(err, &target)
}

func IsPayment(err error) bool {
	var target PaymentError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

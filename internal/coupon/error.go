package coupon

import (
	"errors"
	"fmt"
	"strconv"
)

type Reason string

const (
	ReasonEmptyCode     Reason = "EmptyCode"
	ReasonDatesRequired Reason = "DatesRequired"
	ReasonInvalidCode   Reason = "InvalidCode"
	ReasonInactive      Reason = "Inactive"
	ReasonExpired       Reason = "Expired"
	ReasonWrongProperty Reason = "WrongProperty"
	ReasonBelowMinimum  Reason = "BelowMinimum"
)

// RejectError is the Rejected outcome of applying or re-validating a coupon.
type RejectError struct {
	Reason    Reason
	Code      string
	MinAmount float64
}

func reject(reason Reason, c *Coupon) *RejectError {
	e := &RejectError{Reason: reason, Code: "", MinAmount: 0}

	if c != nil {
		e.Code = c.Code
		e.MinAmount = c.MinAmount
	}

	return e
}

func IsRejection(err error) *RejectError {
	if err == nil {
		return nil
	}

	var rejectError *RejectError

	if errors.As(err, &rejectError) {
		return rejectError
	}

	return nil
}

// Is makes errors.Is match on the reason alone.
func (e *RejectError) Is(target error) bool {
	t, ok := target.(*RejectError)

	return ok && t.Reason == e.Reason
}

// Error is the message shown next to the coupon input.
func (e *RejectError) Error() string {
	switch e.Reason {
	case ReasonEmptyCode:
		return "Please enter a coupon code"
	case ReasonDatesRequired:
		return "Please select dates first"
	case ReasonInvalidCode:
		return "Invalid coupon code"
	case ReasonInactive:
		return "This coupon is no longer active"
	case ReasonExpired:
		return "This coupon has expired"
	case ReasonWrongProperty:
		return "This coupon is not valid for this accommodation"
	case ReasonBelowMinimum:
		return fmt.Sprintf("Minimum amount for this coupon is ₹%s", strconv.FormatFloat(e.MinAmount, 'f', -1, 64))
	}

	return string(e.Reason)
}

var (
	ErrEmptyCode     = &RejectError{Reason: ReasonEmptyCode}     //nolint:exhaustruct
	ErrDatesRequired = &RejectError{Reason: ReasonDatesRequired} //nolint:exhaustruct
	ErrInvalidCode   = &RejectError{Reason: ReasonInvalidCode}   //nolint:exhaustruct
	ErrInactive      = &RejectError{Reason: ReasonInactive}      //nolint:exhaustruct
	ErrExpired       = &RejectError{Reason: ReasonExpired}       //nolint:exhaustruct
	ErrWrongProperty = &RejectError{Reason: ReasonWrongProperty} //nolint:exhaustruct
	ErrBelowMinimum  = &RejectError{Reason: ReasonBelowMinimum}  //nolint:exhaustruct
)

package booking

import (
	"errors"
	"fmt"
)

var (
	ErrIdempotencyKey  = errors.New("idempotency key not found")
	ErrRecordNotFound  = errors.New("record not found")
	ErrSessionNotFound = errors.New("booking session not found")
	ErrBookingRejected = errors.New("booking rejected by remote service")
)

type Kind string

const (
	KindDatesRequired        Kind = "DatesRequired"
	KindAvailabilityExceeded Kind = "AvailabilityExceeded"
	KindMissingGuestInfo     Kind = "MissingGuestInfo"
	KindMealMismatch         Kind = "MealMismatch"
)

// ValidationError is a pre-submit failure. The session stays usable.
type ValidationError struct {
	Kind    Kind
	Message string
}

func IsValidationError(err error) *ValidationError {
	if err == nil {
		return nil
	}

	var validationError *ValidationError

	if errors.As(err, &validationError) {
		return validationError
	}

	return nil
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)

	return ok && t.Kind == e.Kind
}

var (
	ErrDatesRequired        = &ValidationError{Kind: KindDatesRequired, Message: "Please select your check-in and check-out dates."}
	ErrAvailabilityExceeded = &ValidationError{Kind: KindAvailabilityExceeded, Message: "Not enough rooms available."}
	ErrMissingGuestInfo     = &ValidationError{Kind: KindMissingGuestInfo, Message: "Please fill in all required fields."}
	ErrMealMismatch         = &ValidationError{Kind: KindMealMismatch, Message: "Food preferences must match total guests."}
)

func availabilityExceeded(available int) *ValidationError {
	return &ValidationError{
		Kind:    KindAvailabilityExceeded,
		Message: fmt.Sprintf("Only %d room(s) available for selected dates.", available),
	}
}

func mealMismatch(meals, guests int) *ValidationError {
	return &ValidationError{
		Kind:    KindMealMismatch,
		Message: fmt.Sprintf("Food preferences (%d) must match total guests (%d).", meals, guests),
	}
}

// InputError collects malformed request fields.
type InputError struct {
	fields map[string][]string
}

func newInputError() *InputError {
	return &InputError{
		fields: make(map[string][]string),
	}
}

func IsInputError(err error) *InputError {
	if err == nil {
		return nil
	}

	var inputError *InputError

	if errors.As(err, &inputError) {
		return inputError
	}

	return nil
}

func (ie *InputError) addError(field, msg string) {
	ie.fields[field] = append(ie.fields[field], msg)
}

func (ie *InputError) Error() string {
	return fmt.Sprintf("%+v", ie.fields)
}

func (ie *InputError) Fields() map[string][]string {
	return ie.fields
}

package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAuth               = errors.New("authentication failed")
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrAuth)
	ErrSessionRequired    = fmt.Errorf("%w: session required", ErrAuth)

	ErrStore = errors.New("record store failure")
	ErrMedia = errors.New("media storage failure")

	ErrValidation   = errors.New("validation failed")
	ErrTourNotFound = fmt.Errorf("%w: tour not found", ErrValidation)

	ErrSubmitInProgress = errors.New("submit already in progress")
)

// ValidationError lists every problem found in one form.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func validationErr(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

// storeErr keeps both ErrStore and the adapter error (ports.ErrRecordNotFound
// in particular) visible to errors.Is.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

func mediaErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrMedia, op, err)
}

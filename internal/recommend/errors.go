// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package recommend

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	ErrInsufficientSignal = &InsufficientSignalError{}
	ErrModelNotFitted     = &ModelNotFittedError{}
	ErrUnknownItem        = errors.New("unknown item")
)

// UnknownItemError reports an item id absent from the catalog.
type UnknownItemError struct {
	ItemID int
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("unknown item: %d", e.ItemID)
}

// Is makes errors.Is(err, ErrUnknownItem) match any UnknownItemError.
func (e *UnknownItemError) Is(target error) bool {
	if target == ErrUnknownItem {
		return true
	}
	t, ok := target.(*UnknownItemError)
	return ok && t.ItemID == e.ItemID
}

// InsufficientSignalError is returned when a request carries no seed ratings.
type InsufficientSignalError struct{}

func (e *InsufficientSignalError) Error() string {
	return "insufficient signal: at least one seed rating is required"
}

// Is matches any InsufficientSignalError.
func (e *InsufficientSignalError) Is(target error) bool {
	_, ok := target.(*InsufficientSignalError)
	return ok
}

// ModelNotFittedError is returned when Predict is called before Fit.
type ModelNotFittedError struct {
	Model string
}

func (e *ModelNotFittedError) Error() string {
	if e.Model == "" {
		return "model not fitted"
	}
	return fmt.Sprintf("model not fitted: %s", e.Model)
}

// Is matches any ModelNotFittedError.
func (e *ModelNotFittedError) Is(target error) bool {
	_, ok := target.(*ModelNotFittedError)
	return ok
}

// DuplicateItemError reports an item rated more than once in a seed set.
type DuplicateItemError struct {
	ItemID int
}

func (e *DuplicateItemError) Error() string {
	return fmt.Sprintf("duplicate seed rating for item %d", e.ItemID)
}

// InvalidRatingError reports a rating outside the scale or off the half-star step.
type InvalidRatingError struct {
	ItemID int
	Value  float64
}

func (e *InvalidRatingError) Error() string {
	return fmt.Sprintf("invalid rating %.2f for item %d: must be in [%.1f, %.1f] in steps of %.1f",
		e.Value, e.ItemID, MinUserRating, MaxRating, RatingStep)
}

// InvalidRequestError reports a malformed request parameter.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is a caller-facing validation failure.
func IsValidationError(err error) bool {
	var (
		duplicate *DuplicateItemError
		invalid   *InvalidRatingError
		request   *InvalidRequestError
	)
	return errors.Is(err, ErrInsufficientSignal) ||
		errors.Is(err, ErrUnknownItem) ||
		errors.As(err, &duplicate) ||
		errors.As(err, &invalid) ||
		errors.As(err, &request)
}

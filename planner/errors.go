package planner

import (
	"errors"
	"fmt"
)

// Validation and availability failures are returned as typed errors so the
// caller can render a distinct message per kind. Nothing here is retried;
// the per-day fetch already did its own backoff.

type InvalidDurationError struct {
	Minutes int
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("duration must be 15-2880 minutes, got %d", e.Minutes)
}

// NoDataError means both day fetches failed or yielded nothing. Status
// carries the pipeline's per-day diagnostics.
type NoDataError struct {
	Status string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no price data available (%s)", e.Status)
}

// InsufficientAvailabilityError means raw data exists but the eligible
// future window holds fewer minutes than requested.
type InsufficientAvailabilityError struct {
	RequiredMinutes  int
	AvailableMinutes int
}

func (e *InsufficientAvailabilityError) Error() string {
	return fmt.Sprintf("need %d eligible minutes but only %d available",
		e.RequiredMinutes, e.AvailableMinutes)
}

var (
	ErrUnknownZone    = errors.New("unknown price zone")
	ErrInvalidTopN    = errors.New("slot count must be at least 1")
	ErrInvalidWindow  = errors.New("hour window must satisfy 0 <= start < end <= 24")
	ErrNoFeasibleSlot = errors.New("no contiguous block fits in the eligible window")
)

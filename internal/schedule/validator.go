package schedule

import (
	"errors"
	"fmt"
	"strings"

	"pitchbook/internal/models"
	"pitchbook/internal/timeutil"
)

var (
	// ErrMissingField means a required booking field is empty after trimming.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidRange means the end time is not strictly after the start time.
	ErrInvalidRange = errors.New("end time must be after start time")
)

// ConflictError reports an overlap with an already committed reservation and
// carries the conflicting interval for user-facing messages.
type ConflictError struct {
	With timeutil.Interval
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot overlaps with %s", e.With)
}

// BookingRequest is a proposed reservation before pricing and persistence.
type BookingRequest struct {
	CustomerName string
	Phone        string
	Email        string
	Date         string
	Interval     timeutil.Interval
}

// ValidateRequest accepts or rejects a proposal against the reservations
// already committed for the same date. Checks run in a fixed order and the
// first failure wins: required fields, interval sanity, overlap. It is a pure
// predicate with no knowledge of pricing or persistence.
func ValidateRequest(req BookingRequest, existingForDate []models.Reservation) error {
	fields := []struct {
		name  string
		value string
	}{
		{"customer_name", req.CustomerName},
		{"phone", req.Phone},
		{"email", req.Email},
		{"date", req.Date},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}

	if !req.Interval.Valid() {
		return ErrInvalidRange
	}

	for _, r := range existingForDate {
		if timeutil.Overlaps(req.Interval, r.Interval) {
			return &ConflictError{With: r.Interval}
		}
	}

	return nil
}

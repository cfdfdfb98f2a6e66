// Package lifecycle holds the application status state machine.
//
//	Pending ──► Interview ──► Hired | Rejected
//	   │            │ └─► Interview (reschedule)
//	   └────────────┴───► Withdrawn (candidate only)
//
// Hired, Rejected and Withdrawn are terminal.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"hr-portal/internal/models"
)

var (
	ErrUnknownStatus     = errors.New("unknown application status")
	ErrScheduleRequired  = errors.New("an interview requires a scheduled time")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Change is a requested status update.
type Change struct {
	Status      models.ApplicationStatus
	ScheduledAt *time.Time
}

// Result is the state an application moves to. Changed is false when the
// request is a no-op and nothing should be written.
type Result struct {
	Status      models.ApplicationStatus
	ScheduledAt *time.Time
	Changed     bool
}

// Actor reports which role may request a move to target.
func Actor(target models.ApplicationStatus) models.Role {
	if target == models.StatusWithdrawn {
		return models.RoleCandidate
	}
	return models.RoleRecruiter
}

// Apply validates moving an application from current (with its scheduled
// time) according to change.
func Apply(current models.ApplicationStatus, scheduledAt *time.Time, change Change) (Result, error) {
	target := change.Status
	if !target.Valid() {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownStatus, target)
	}

	if target == current && target != models.StatusInterview {
		return Result{Status: current, ScheduledAt: scheduledAt}, nil
	}

	if !allowed(current, target) {
		return Result{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, target)
	}

	if target == models.StatusInterview {
		if change.ScheduledAt == nil || change.ScheduledAt.IsZero() {
			return Result{}, ErrScheduleRequired
		}
		at := change.ScheduledAt.UTC()
		return Result{Status: target, ScheduledAt: &at, Changed: true}, nil
	}

	return Result{Status: target, Changed: true}, nil
}

// allowed lists the permitted edges; same-state moves are handled by Apply.
func allowed(from, to models.ApplicationStatus) bool {
	switch from {
	case models.StatusPending:
		return to == models.StatusInterview || to == models.StatusHired ||
			to == models.StatusRejected || to == models.StatusWithdrawn
	case models.StatusInterview:
		return to == models.StatusInterview || to == models.StatusHired ||
			to == models.StatusRejected || to == models.StatusWithdrawn
	default:
		// Terminal
		return false
	}
}

// Next lists the statuses reachable from current, for UI hints.
func Next(current models.ApplicationStatus) []models.ApplicationStatus {
	var next []models.ApplicationStatus
	for _, s := range models.AllStatuses {
		if allowed(current, s) {
			next = append(next, s)
		}
	}
	return next
}

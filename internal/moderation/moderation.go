// Package moderation is the single authority on review transitions for
// projects and applications.
package moderation

import (
	"strings"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/models"
)

type Action string

const (
	Approve Action = "approve"
	Reject  Action = "reject"
	Accept  Action = "accept"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case Approve, Reject, Accept:
		return a, nil
	}
	return "", apperr.Validation("action", "unknown moderation action: "+s)
}

// Next returns the project status reached by applying action to a project in
// status from. Only pending projects can be decided; approved is terminal and
// rejected projects are never reopened.
func Next(from string, action Action) (string, error) {
	var to string
	switch action {
	case Approve:
		to = models.StatusApproved
	case Reject:
		to = models.StatusRejected
	default:
		return "", apperr.Validation("action", "projects can only be approved or rejected")
	}

	switch from {
	case models.StatusPending:
		return to, nil
	case models.StatusApproved, models.StatusRejected:
		return "", apperr.AlreadyDecided("project", from)
	}
	return "", apperr.Validation("status", "unknown project status: "+from)
}

// NextApplication is Next for applications: pending goes to accepted or
// rejected, and both are terminal.
func NextApplication(from string, action Action) (string, error) {
	var to string
	switch action {
	case Accept, Approve:
		to = models.ApplicationAccepted
	case Reject:
		to = models.ApplicationRejected
	default:
		return "", apperr.Validation("action", "applications can only be accepted or rejected")
	}

	switch from {
	case models.ApplicationPending:
		return to, nil
	case models.ApplicationAccepted, models.ApplicationRejected:
		return "", apperr.AlreadyDecided("application", from)
	}
	return "", apperr.Validation("status", "unknown application status: "+from)
}

// Decided explains why a conditional update touched no rows: the row is
// either missing or already left pending.
func Decided(entity, current string, found bool) error {
	if !found {
		return apperr.NotFound(entity)
	}
	return apperr.AlreadyDecided(entity, current)
}

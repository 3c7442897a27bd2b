// Package service holds the business rules of the project manager.
// Services never touch HTTP; they take already-loaded resources and the acting user id.
package service

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"nexuspro/internal/model"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrReaderNil  = errors.New("reader is nil")

	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountUnconfirmed = errors.New("account not confirmed, a new confirmation code was sent")
	ErrAlreadyConfirmed   = errors.New("account already confirmed")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidToken       = errors.New("invalid token")

	ErrProjectNotFound    = errors.New("project not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrNoteNotFound       = errors.New("note not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrInvalidStatus      = errors.New("invalid task status")

	// ErrNoAccess: the user is neither manager nor member of the project.
	ErrNoAccess = errors.New("invalid action")
	// ErrNotManager: the mutation is reserved for the project manager.
	ErrNotManager = errors.New("invalid action")
	// ErrTaskProjectMismatch: the task belongs to another project.
	ErrTaskProjectMismatch = errors.New("invalid action")
	// ErrNotAuthor: only the author may delete a note.
	ErrNotAuthor = errors.New("invalid action")
	ErrForbidden = errors.New("forbidden")

	ErrMemberExists  = errors.New("user is already on the project team")
	ErrMemberMissing = errors.New("user is not on the project team")
	ErrManagerMember = errors.New("the project manager cannot be added to the team")
)

// EventPublisher pushes board changes to connected clients. Publish must not block.
type EventPublisher interface {
	Publish(e model.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(model.Event) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// RequireAccess returns ErrNoAccess unless userID manages or belongs to p.
func RequireAccess(p *model.Project, userID string) error {
	if p == nil || !p.CanAccess(userID) {
		return ErrNoAccess
	}
	return nil
}

// RequireManager returns ErrNotManager unless userID manages p.
func RequireManager(p *model.Project, userID string) error {
	if p == nil || !p.IsManager(userID) {
		return ErrNotManager
	}
	return nil
}

// RequireTaskInProject returns ErrTaskProjectMismatch if t is not on p.
func RequireTaskInProject(p *model.Project, t *model.Task) error {
	if p == nil || t == nil || t.ProjectID != p.ID {
		return ErrTaskProjectMismatch
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// notFound swaps sql.ErrNoRows for the domain error.
func notFound(err, domainErr error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domainErr
	}
	return err
}

func event(t model.EventType, projectID, actorID string, payload any, now time.Time) model.Event {
	return model.Event{Type: t, ProjectID: projectID, ActorID: actorID, Payload: payload, At: now}
}

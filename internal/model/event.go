package model

import "time"

// EventType names a board change pushed to connected clients.
type EventType string

const (
	EventProjectUpdated    EventType = "project.updated"
	EventProjectDeleted    EventType = "project.deleted"
	EventTeamUpdated       EventType = "team.updated"
	EventTaskCreated       EventType = "task.created"
	EventTaskUpdated       EventType = "task.updated"
	EventTaskDeleted       EventType = "task.deleted"
	EventTaskStatus        EventType = "task.status"
	EventNoteCreated       EventType = "note.created"
	EventNoteDeleted       EventType = "note.deleted"
	EventAttachmentCreated EventType = "attachment.created"
	EventAttachmentDeleted EventType = "attachment.deleted"
)

// Event is a single board change scoped to one project.
type Event struct {
	Type      EventType `json:"type"`
	ProjectID string    `json:"project_id"`
	ActorID   string    `json:"actor_id"`
	Payload   any       `json:"payload,omitempty"`
	At        time.Time `json:"at"`
}

// TeamChange is the team.updated payload: the project's participants after the change.
type TeamChange struct {
	ManagerID string        `json:"manager_id"`
	Members   []UserSummary `json:"members"`
}

// Allows reports whether userID is still a participant.
func (tc TeamChange) Allows(userID string) bool {
	if userID == "" {
		return false
	}
	if userID == tc.ManagerID {
		return true
	}
	for _, m := range tc.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

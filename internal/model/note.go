package model

import "time"

// Note is a comment left on a task.
type Note struct {
	ID        string      `json:"id"`
	TaskID    string      `json:"task"`
	Content   string      `json:"content"`
	CreatedBy UserSummary `json:"createdBy"`
	CreatedAt time.Time   `json:"createdAt"`
}

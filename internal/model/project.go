package model

import (
	"slices"
	"time"
)

// Project groups tasks under a single manager and an optional team.
type Project struct {
	ID          string    `json:"id"`
	ProjectName string    `json:"projectName"`
	ClientName  string    `json:"clientName"`
	Description string    `json:"description"`
	ManagerID   string    `json:"manager"`
	Team        []string  `json:"team"`
	Tasks       []Task    `json:"tasks,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsManager reports whether userID manages the project.
func (p *Project) IsManager(userID string) bool {
	return userID != "" && p.ManagerID == userID
}

// HasMember reports whether userID is on the project team.
func (p *Project) HasMember(userID string) bool {
	return slices.Contains(p.Team, userID)
}

// CanAccess reports whether userID may read the project.
func (p *Project) CanAccess(userID string) bool {
	return p.IsManager(userID) || p.HasMember(userID)
}

package task

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("task not found")

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task has exactly one owner, fixed at creation. Collaborators may read and
// update allow-listed fields but never delete. The collaborator list is a plain
// append-only set with no de-duplication, matching the system this replaces.
type Task struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner"`
	Title         string     `json:"Title"`
	Description   string     `json:"Description"`
	Completed     bool       `json:"Completed"`
	Priority      Priority   `json:"Task_Priority,omitempty"`
	DueDate       *time.Time `json:"Due_Date,omitempty"`
	Collaborators []string   `json:"collaborators"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CreateTaskRequest struct {
	Title         string     `json:"Title" binding:"required"`
	Description   string     `json:"Description" binding:"required"`
	Completed     bool       `json:"Completed"`
	Priority      Priority   `json:"Task_Priority" binding:"omitempty,oneof=low medium high"`
	DueDate       *time.Time `json:"Due_Date"`
	Collaborators []string   `json:"collaborators"`
}

type InviteCollaboratorRequest struct {
	Email string `json:"Email" binding:"required,email"`
}

type UpdateStatusRequest struct {
	Completed bool `json:"Completed"`
}

package task

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrInvalidField = errors.New("invalid update fields")

// Patch is the enumerated set of task fields mutable through the general
// update path. Completed and collaborators are deliberately absent: completion
// goes through the status endpoint and the collaborator set through invites.
type Patch struct {
	Title       *string    `json:"Title"`
	Description *string    `json:"Description"`
	Priority    *Priority  `json:"Task_Priority"`
	DueDate     *time.Time `json:"Due_Date"`
}

var patchFields = map[string]struct{}{
	"Title":         {},
	"Description":   {},
	"Task_Priority": {},
	"Due_Date":      {},
}

// ParsePatch decodes an update body and rejects it wholesale when any key is
// outside the allow-list, so an update never applies partially.
func ParsePatch(raw []byte) (Patch, error) {
	var keys map[string]json.RawMessage

	if err := json.Unmarshal(raw, &keys); err != nil {
		return Patch{}, ErrInvalidField
	}

	for k := range keys {
		if _, ok := patchFields[k]; !ok {
			return Patch{}, ErrInvalidField
		}
	}

	var p Patch

	if err := json.Unmarshal(raw, &p); err != nil {
		return Patch{}, ErrInvalidField
	}

	if p.Priority != nil && !p.Priority.Valid() {
		return Patch{}, ErrInvalidField
	}

	return p, nil
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil && p.DueDate == nil
}

// Apply returns a copy of t with the patch fields set. Used by the in-memory
// store; the Postgres store applies the same fields in SQL.
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	return t
}

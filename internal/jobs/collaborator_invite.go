package jobs

import (
	"encoding/json"
	"errors"
	"time"
)

const TypeCollaboratorInvite = "collaborator.invite"

var (
	ErrInvalidJobType    = errors.New("invalid job type")
	ErrInvalidJobPayload = errors.New("invalid job payload")
)

// CollaboratorInvitePayload is enqueued after the collaborator row has
// committed; the worker only delivers mail, it never touches the task.
type CollaboratorInvitePayload struct {
	TaskID      string    `json:"taskId"`
	TaskTitle   string    `json:"taskTitle"`
	Email       string    `json:"email"`
	InvitedByID string    `json:"invitedById"`
	RequestedAt time.Time `json:"requestedAt"`
}

func (p CollaboratorInvitePayload) JSON() (json.RawMessage, error) {
	b, err := json.Marshal(p)

	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

func (p CollaboratorInvitePayload) Validate() error {
	if p.TaskID == "" || p.Email == "" {
		return ErrInvalidJobPayload
	}
	return nil
}

// DecodeCollaboratorInvite unmarshals and validates an invite payload.
func DecodeCollaboratorInvite(raw json.RawMessage) (CollaboratorInvitePayload, error) {
	if len(raw) == 0 {
		return CollaboratorInvitePayload{}, ErrInvalidJobPayload
	}

	var p CollaboratorInvitePayload

	if err := json.Unmarshal(raw, &p); err != nil {
		return CollaboratorInvitePayload{}, ErrInvalidJobPayload
	}

	if err := p.Validate(); err != nil {
		return CollaboratorInvitePayload{}, err
	}

	return p, nil
}

package user

import (
	"encoding/json"
	"errors"
)

var (
	ErrInvalidField   = errors.New("invalid update fields")
	ErrEmailImmutable = errors.New("email update is not allowed")
)

// ProfilePatch is the enumerated set of profile fields a user may change.
// Email is immutable after registration.
type ProfilePatch struct {
	FirstName *string `json:"First_Name"`
	LastName  *string `json:"Last_Name"`
	Age       *int    `json:"Age"`
	Password  *string `json:"Password"`
}

var profileFields = map[string]struct{}{
	"First_Name": {},
	"Last_Name":  {},
	"Age":        {},
	"Password":   {},
}

// ParseProfilePatch decodes a profile update body, rejecting the whole update
// when any key falls outside the allow-list. No field is applied partially.
func ParseProfilePatch(raw []byte) (ProfilePatch, error) {
	var keys map[string]json.RawMessage

	if err := json.Unmarshal(raw, &keys); err != nil {
		return ProfilePatch{}, ErrInvalidField
	}

	if _, ok := keys["Email"]; ok {
		return ProfilePatch{}, ErrEmailImmutable
	}

	for k := range keys {
		if _, ok := profileFields[k]; !ok {
			return ProfilePatch{}, ErrInvalidField
		}
	}

	var p ProfilePatch

	if err := json.Unmarshal(raw, &p); err != nil {
		return ProfilePatch{}, ErrInvalidField
	}

	return p, nil
}

// Empty reports whether the patch would change nothing.
func (p ProfilePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Age == nil && p.Password == nil
}

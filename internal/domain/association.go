package domain

import "github.com/google/uuid"

// CommitteeMember is one row of an association's committee roster.
type CommitteeMember struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
}

// Association represents a member association and its committee roster.
// The roster is stored as a jsonb column; readers must tolerate a missing
// or empty roster.
type Association struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Location  string            `json:"location"`
	Committee []CommitteeMember `json:"committee,omitempty"`
}

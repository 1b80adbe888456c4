package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Project represents a client engagement moving through the status lifecycle.
// Team, deliverables and timeline are embedded documents stored as JSONB.
type Project struct {
	ID           uuid.UUID       `json:"id"`
	ClientID     uuid.UUID       `json:"client_id"`
	Name         string          `json:"name"`
	Status       string          `json:"status"`
	Brief        string          `json:"brief"`
	Team         TeamMembers     `json:"team"`
	Deliverables Deliverables    `json:"deliverables"`
	Timeline     TimelineEntries `json:"timeline"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProjectMember is a staff assignment on a project.
type ProjectMember struct {
	UserID  uuid.UUID `json:"user_id"`
	Role    string    `json:"role"`
	AddedAt time.Time `json:"added_at"`
}

// Deliverable is a unit of work handed off to the client, optionally with an
// attached file reference once the upload completes.
type Deliverable struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	FileURL   string    `json:"file_url,omitempty"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

// TimelineEntry is an append-only audit record of a status change.
// Entries are never rewritten once persisted.
type TimelineEntry struct {
	Status    string    `json:"status"`
	UpdatedBy uuid.UUID `json:"updated_by"`
	Comment   string    `json:"comment,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TeamMembers handles PostgreSQL JSONB serialization for the team array.
type TeamMembers []ProjectMember

// Value implements driver.Valuer for database serialization.
func (t TeamMembers) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for database deserialization.
func (t *TeamMembers) Scan(value interface{}) error {
	return scanJSONB(value, t)
}

// Deliverables handles PostgreSQL JSONB serialization for the deliverables array.
type Deliverables []Deliverable

// Value implements driver.Valuer for database serialization.
func (d Deliverables) Value() (driver.Value, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for database deserialization.
func (d *Deliverables) Scan(value interface{}) error {
	return scanJSONB(value, d)
}

// TimelineEntries handles PostgreSQL JSONB serialization for the timeline array.
type TimelineEntries []TimelineEntry

// Value implements driver.Valuer for database serialization.
func (t TimelineEntries) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for database deserialization.
func (t *TimelineEntries) Scan(value interface{}) error {
	return scanJSONB(value, t)
}

func scanJSONB(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T as JSONB", value)
	}
	return json.Unmarshal(bytes, dest)
}

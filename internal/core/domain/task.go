package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	StatusOpen      TaskStatus = "open"
	StatusAssigned  TaskStatus = "assigned"
	StatusSubmitted TaskStatus = "submitted"
	StatusCompleted TaskStatus = "completed"
	StatusCancelled TaskStatus = "cancelled"
)

// validTransitions defines the transitions the backend accepts.
// The client only uses it to decide which actions to offer.
var validTransitions = map[TaskStatus][]TaskStatus{
	StatusOpen:      {StatusAssigned, StatusCancelled},
	StatusAssigned:  {StatusSubmitted, StatusCancelled},
	StatusSubmitted: {StatusCompleted, StatusAssigned},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusAssigned, StatusSubmitted, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s TaskStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// UserRef points at a user. The backend sends either a bare id or a
// populated user object, depending on the endpoint.
type UserRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// IsZero reports whether the reference is empty.
func (r UserRef) IsZero() bool { return r.ID == "" && r.Name == "" }

func (r *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = UserRef{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = UserRef{ID: id}
		return nil
	}
	type plain UserRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = UserRef(p)
	return nil
}

// Task is a unit of work posted on the marketplace. It is owned by the
// backend; the client only reads it and requests transitions.
type Task struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Coins       int        `json:"coins"`
	Status      TaskStatus `json:"status"`
	PostedBy    UserRef    `json:"postedBy"`
	AssignedTo  *UserRef   `json:"assignedTo,omitempty"`
	Submission  string     `json:"submission,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

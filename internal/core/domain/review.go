package domain

import "time"

const (
	MinRating = 0
	MaxRating = 5
)

// Review is feedback left by one user about another. Append-only.
type Review struct {
	ID        string    `json:"_id"`
	Reviewer  UserRef   `json:"reviewer"`
	Reviewee  UserRef   `json:"reviewee"`
	Task      string    `json:"task,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

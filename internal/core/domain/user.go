package domain

import "time"

// User is the public profile of a marketplace member. A copy of the
// authenticated user's profile is cached client-side; the server copy is
// always authoritative.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Coins     int       `json:"coins"`
	Rating    float64   `json:"rating"`
	Bio       string    `json:"bio,omitempty"`
	Skills    []string  `json:"skills,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResult is the payload returned by login and registration.
type AuthResult struct {
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
}

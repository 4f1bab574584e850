package model

import (
	"strings"
	"time"
)

// Constants for validation
const (
	MaxNameLength = 255
	MaxBioLength  = 5000
)

// Author is referenced by royalty contracts and ledger rows. Names are
// unique case-insensitively.
type Author struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Bio       *string   `json:"bio,omitempty" db:"bio"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NormalizeName collapses runs of whitespace and trims the ends.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ToResponse converts Author to AuthorResponse
func (a *Author) ToResponse() AuthorResponse {
	return AuthorResponse{
		ID:   a.ID,
		Name: a.Name,
		Bio:  a.Bio,
	}
}

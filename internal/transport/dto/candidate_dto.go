package dto

import (
	"time"

	"github.com/google/uuid"
)

// SaveProfileRequest replaces the editable fields of the caller's profile.
type SaveProfileRequest struct {
	FullName   string `json:"full_name" validate:"required,max=200"`
	Email      string `json:"email" validate:"omitempty,email"` // defaults to the identity email
	Phone      string `json:"phone" validate:"max=50"`
	Education  string `json:"education" validate:"max=5000"`
	Experience string `json:"experience" validate:"max=5000"`
	Skills     string `json:"skills" validate:"max=2000"`
}

// CandidateResponse defines the profile data returned to the client.
type CandidateResponse struct {
	UserID     uuid.UUID `json:"user_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Education  string    `json:"education"`
	Experience string    `json:"experience"`
	Skills     string    `json:"skills"`
	ResumeURL  string    `json:"resume_url"`
	ResumeName string    `json:"resume_name"`
	AvatarURL  string    `json:"avatar_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProfileCompletion reports how much of a profile is filled in.
type ProfileCompletion struct {
	Percent int      `json:"percent"`
	Missing []string `json:"missing"`
}

package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// --- Role ---
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCandidate || r == RoleRecruiter
}

// Principal is the authenticated actor performing an action.
type Principal struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

func (p Principal) IsCandidate() bool { return p.Role == RoleCandidate }

func (p Principal) IsRecruiter() bool { return p.Role == RoleRecruiter }

// --- Job Status Enum ---
type JobStatus string

const (
	JobStatusOpen   JobStatus = "Open"
	JobStatusClosed JobStatus = "Closed"
)

// Scan implements the sql.Scanner interface for JobStatus
func (js *JobStatus) Scan(value interface{}) error {
	strVal, err := scanString(value, "JobStatus")
	if err != nil {
		return err
	}
	v := JobStatus(strVal)
	switch v {
	case JobStatusOpen, JobStatusClosed:
		*js = v
		return nil
	default:
		return fmt.Errorf("invalid JobStatus value: %s", strVal)
	}
}

// Value implements the driver.Valuer interface for JobStatus
func (js JobStatus) Value() (driver.Value, error) {
	return string(js), nil
}

// --- Application Status Enum ---
type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "Pending"
	StatusInterview ApplicationStatus = "Interview"
	StatusHired     ApplicationStatus = "Hired"
	StatusRejected  ApplicationStatus = "Rejected"
	StatusWithdrawn ApplicationStatus = "Withdrawn"
)

// AllStatuses lists every application status in lifecycle order.
var AllStatuses = []ApplicationStatus{StatusPending, StatusInterview, StatusHired, StatusRejected, StatusWithdrawn}

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInterview, StatusHired, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusHired || s == StatusRejected || s == StatusWithdrawn
}

// Scan implements the sql.Scanner interface for ApplicationStatus
func (s *ApplicationStatus) Scan(value interface{}) error {
	strVal, err := scanString(value, "ApplicationStatus")
	if err != nil {
		return err
	}
	v := ApplicationStatus(strVal)
	if !v.Valid() {
		return fmt.Errorf("invalid ApplicationStatus value: %s", strVal)
	}
	*s = v
	return nil
}

// Value implements the driver.Valuer interface for ApplicationStatus
func (s ApplicationStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func scanString(value interface{}, typeName string) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("failed to scan %s: value is not string or []byte", typeName)
	}
}

// Job is a posting owned by a recruiter.
type Job struct {
	ID             uuid.UUID `json:"id" db:"id"`
	RecruiterID    uuid.UUID `json:"recruiter_id" db:"recruiter_id"`
	Title          string    `json:"title" db:"title"`
	Description    string    `json:"description" db:"description"`
	Requirements   string    `json:"requirements" db:"requirements"`
	Location       string    `json:"location" db:"location"`
	CompanyName    string    `json:"company_name" db:"company_name"`
	SalaryRange    *string   `json:"salary_range,omitempty" db:"salary_range"` // NULL when not advertised
	Status         JobStatus `json:"status" db:"status"`
	ApplicantCount int       `json:"applicant_count" db:"applicant_count"` // advisory counter, never a gate
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Candidate is the profile attached to a candidate principal.
type Candidate struct {
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	FullName   string    `json:"full_name" db:"full_name"`
	Email      string    `json:"email" db:"email"`
	Phone      string    `json:"phone" db:"phone"`
	Education  string    `json:"education" db:"education"`
	Experience string    `json:"experience" db:"experience"`
	Skills     string    `json:"skills" db:"skills"`
	ResumeURL  string    `json:"resume_url" db:"resume_url"`
	ResumeName string    `json:"resume_name" db:"resume_name"`
	AvatarURL  string    `json:"avatar_url" db:"avatar_url"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Application links one candidate to one job.
type Application struct {
	ID             uuid.UUID         `json:"id" db:"id"`
	JobID          uuid.UUID         `json:"job_id" db:"job_id"`
	CandidateID    uuid.UUID         `json:"candidate_id" db:"candidate_id"`
	FullName       string            `json:"full_name" db:"full_name"`
	Email          string            `json:"email" db:"email"`
	ResumeURL      string            `json:"resume_url" db:"resume_url"`
	ResumeName     string            `json:"resume_name" db:"resume_name"`
	CoverLetterURL *string           `json:"cover_letter_url,omitempty" db:"cover_letter_url"`
	Status         ApplicationStatus `json:"status" db:"status"`
	ScheduledAt    *time.Time        `json:"scheduled_at,omitempty" db:"scheduled_at"` // set only while Interview
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}

// ApplicationWithJob is an application joined with the title of its job.
type ApplicationWithJob struct {
	Application
	JobTitle string `json:"job_title" db:"job_title"`
}

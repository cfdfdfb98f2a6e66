package storage

import (
	"context"
	"time"

	"hr-portal/internal/models"

	"github.com/google/uuid"
)

// JobRepository defines the interface for job data operations.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]models.Job, error)
	ListByStatus(ctx context.Context, status models.JobStatus) ([]models.Job, error)
	Update(ctx context.Context, id uuid.UUID, patch *JobPatch) (*models.Job, error)
	IncrementApplicantCount(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// JobPatch carries the editable job fields; nil fields are left unchanged.
type JobPatch struct {
	Title        *string
	Description  *string
	Requirements *string
	Location     *string
	CompanyName  *string
	SalaryRange  *string
	Status       *models.JobStatus
}

// Empty reports whether the patch changes nothing.
func (p *JobPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Requirements == nil && p.Location == nil &&
		p.CompanyName == nil && p.SalaryRange == nil && p.Status == nil
}

// CandidateRepository defines the interface for candidate profile operations.
type CandidateRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Candidate, error)
	// Upsert creates the profile or replaces its editable fields.
	Upsert(ctx context.Context, candidate *models.Candidate) (*models.Candidate, error)
	SetResume(ctx context.Context, userID uuid.UUID, url, name string) (*models.Candidate, error)
	SetAvatar(ctx context.Context, userID uuid.UUID, url string) (*models.Candidate, error)
	List(ctx context.Context) ([]models.Candidate, error)
}

// ApplicationRepository defines the interface for application data operations.
type ApplicationRepository interface {
	// Create returns ErrConflict when (job_id, candidate_id) already exists and
	// ErrInvalidReference when the job does not.
	Create(ctx context.Context, app *models.Application) (*models.Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	GetByJobAndCandidate(ctx context.Context, jobID, candidateID uuid.UUID) (*models.Application, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.ApplicationWithJob, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]models.ApplicationWithJob, error)
	// UpdateStatus writes status and scheduled_at only if the stored status still
	// equals expected; otherwise it returns ErrConflict.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, status models.ApplicationStatus, scheduledAt *time.Time) (*models.Application, error)
}

// Store groups the repositories and runs multi-row writes atomically.
type Store interface {
	Jobs() JobRepository
	Candidates() CandidateRepository
	Applications() ApplicationRepository
	// InTx runs fn against repositories bound to one transaction. The
	// transaction commits if fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(tx Store) error) error
}

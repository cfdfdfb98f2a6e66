package services

import (
	"context"

	"hr-portal/internal/blob"
	"hr-portal/internal/catalog"
	"hr-portal/internal/models"
	"hr-portal/internal/transport/dto"

	"github.com/google/uuid"
)

// JobService defines the interface for job posting business logic.
type JobService interface {
	Create(ctx context.Context, p models.Principal, req *dto.CreateJobRequest) (*models.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Job, error)
	Update(ctx context.Context, p models.Principal, id uuid.UUID, req *dto.UpdateJobRequest) (*models.Job, error)
	Delete(ctx context.Context, p models.Principal, id uuid.UUID) error
	ListByRecruiter(ctx context.Context, p models.Principal, recruiterID uuid.UUID) ([]models.Job, error)
	ListOpen(ctx context.Context) ([]models.Job, error)
	Browse(ctx context.Context, q catalog.Query) (catalog.Page, error)
	Facets(ctx context.Context) (catalog.Facets, error)
}

// ApplicationService defines the interface for the application lifecycle.
type ApplicationService interface {
	// FindByJobAndCandidate returns nil, nil when the candidate has not applied.
	FindByJobAndCandidate(ctx context.Context, jobID, candidateID uuid.UUID) (*models.Application, error)
	Create(ctx context.Context, p models.Principal, req *dto.NewApplicationRequest) (*models.Application, error)
	// Apply builds the application from the caller's profile. coverLetter may be nil.
	Apply(ctx context.Context, p models.Principal, jobID uuid.UUID, coverLetter *blob.File) (*models.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateApplicationStatusRequest, p models.Principal) (*models.Application, error)
	Get(ctx context.Context, p models.Principal, id uuid.UUID) (*models.ApplicationWithJob, error)
	ListForCandidate(ctx context.Context, p models.Principal, candidateID uuid.UUID) ([]models.ApplicationWithJob, error)
	ListForRecruiterJobs(ctx context.Context, p models.Principal, recruiterID uuid.UUID) ([]models.ApplicationWithJob, error)
	ListForJob(ctx context.Context, p models.Principal, jobID uuid.UUID) ([]models.Application, error)
}

// CandidateService defines the interface for candidate profiles and uploads.
type CandidateService interface {
	Get(ctx context.Context, p models.Principal, userID uuid.UUID) (*models.Candidate, error)
	Save(ctx context.Context, p models.Principal, req *dto.SaveProfileRequest) (*models.Candidate, error)
	UploadResume(ctx context.Context, p models.Principal, file *blob.File) (*models.Candidate, error)
	RemoveResume(ctx context.Context, p models.Principal) (*models.Candidate, error)
	UploadAvatar(ctx context.Context, p models.Principal, file *blob.File) (*models.Candidate, error)
	RemoveAvatar(ctx context.Context, p models.Principal) (*models.Candidate, error)
	Completion(ctx context.Context, p models.Principal) (*dto.ProfileCompletion, error)
	List(ctx context.Context, p models.Principal) ([]models.Candidate, error)
}

// OverviewService defines the interface for the dashboard figures.
type OverviewService interface {
	Recruiter(ctx context.Context, p models.Principal) (*RecruiterOverview, error)
	Candidate(ctx context.Context, p models.Principal) (*dto.CandidateSummary, error)
}

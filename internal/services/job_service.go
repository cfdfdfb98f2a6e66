package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hr-portal/internal/catalog"
	"hr-portal/internal/models"
	"hr-portal/internal/notify"
	"hr-portal/internal/storage"
	"hr-portal/internal/transport/dto"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type jobService struct {
	store     storage.Store
	notifier  notify.Publisher
	validator *validator.Validate
}

// NewJobService creates a new instance of JobService.
func NewJobService(store storage.Store, notifier notify.Publisher, v *validator.Validate) JobService {
	return &jobService{store: store, notifier: notifier, validator: v}
}

func (s *jobService) Create(ctx context.Context, p models.Principal, req *dto.CreateJobRequest) (*models.Job, error) {
	if !p.IsRecruiter() {
		return nil, fmt.Errorf("%w: only recruiters can post jobs", ErrForbidden)
	}
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, validationError("title is required")
	}

	job := &models.Job{
		RecruiterID:  p.ID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Requirements: req.Requirements,
		Location:     req.Location,
		CompanyName:  req.CompanyName,
		SalaryRange:  req.SalaryRange,
		Status:       models.JobStatusOpen,
	}
	if req.Status != nil {
		job.Status = *req.Status
	}

	created, err := s.store.Jobs().Create(ctx, job)
	if err != nil {
		log.Printf("JobService: Error creating job: %v", err)
		return nil, mapRepoError(err, "creating job")
	}

	s.notifyJobUpdated(ctx, created, "Job posted successfully")
	return created, nil
}

func (s *jobService) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := s.store.Jobs().GetByID(ctx, id)
	if err != nil {
		log.Printf("JobService: Error getting job %s: %v", id, err)
		return nil, mapRepoError(err, "getting job by ID")
	}
	return job, nil
}

func (s *jobService) Update(ctx context.Context, p models.Principal, id uuid.UUID, req *dto.UpdateJobRequest) (*models.Job, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	patch := &storage.JobPatch{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Location:     req.Location,
		CompanyName:  req.CompanyName,
		SalaryRange:  req.SalaryRange,
		Status:       req.Status,
	}
	if patch.Empty() {
		return nil, validationError("no fields to update")
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, validationError("title cannot be blank")
	}

	if _, err := s.owned(ctx, p, id); err != nil {
		return nil, err
	}

	updated, err := s.store.Jobs().Update(ctx, id, patch)
	if err != nil {
		log.Printf("JobService: Error updating job %s: %v", id, err)
		return nil, mapRepoError(err, "updating job")
	}

	s.notifyJobUpdated(ctx, updated, "Job updated successfully")
	return updated, nil
}

func (s *jobService) Delete(ctx context.Context, p models.Principal, id uuid.UUID) error {
	if _, err := s.owned(ctx, p, id); err != nil {
		return err
	}
	if err := s.store.Jobs().Delete(ctx, id); err != nil {
		log.Printf("JobService: Error deleting job %s: %v", id, err)
		return mapRepoError(err, "deleting job")
	}
	return nil
}

func (s *jobService) ListByRecruiter(ctx context.Context, p models.Principal, recruiterID uuid.UUID) ([]models.Job, error) {
	if !p.IsRecruiter() || p.ID != recruiterID {
		return nil, fmt.Errorf("%w: recruiters can only list their own jobs", ErrForbidden)
	}
	jobs, err := s.store.Jobs().ListByRecruiter(ctx, recruiterID)
	if err != nil {
		log.Printf("JobService: Error listing jobs for recruiter %s: %v", recruiterID, err)
		return nil, mapRepoError(err, "listing recruiter jobs")
	}
	return jobs, nil
}

func (s *jobService) ListOpen(ctx context.Context) ([]models.Job, error) {
	jobs, err := s.store.Jobs().ListByStatus(ctx, models.JobStatusOpen)
	if err != nil {
		log.Printf("JobService: Error listing open jobs: %v", err)
		return nil, mapRepoError(err, "listing open jobs")
	}
	return jobs, nil
}

func (s *jobService) Browse(ctx context.Context, q catalog.Query) (catalog.Page, error) {
	jobs, err := s.ListOpen(ctx)
	if err != nil {
		return catalog.Page{}, err
	}
	return catalog.Search(jobs, q), nil
}

func (s *jobService) Facets(ctx context.Context) (catalog.Facets, error) {
	jobs, err := s.ListOpen(ctx)
	if err != nil {
		return catalog.Facets{}, err
	}
	return catalog.ListFacets(jobs), nil
}

// owned loads a job and checks that p is the recruiter who posted it.
func (s *jobService) owned(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsRecruiter() || job.RecruiterID != p.ID {
		return nil, fmt.Errorf("%w: job %s belongs to another recruiter", ErrForbidden, id)
	}
	return job, nil
}

func (s *jobService) notifyJobUpdated(ctx context.Context, job *models.Job, message string) {
	publish(ctx, s.notifier, notify.Event{
		Type:       notify.EventJobUpdated,
		Recipients: []uuid.UUID{job.RecruiterID},
		JobID:      job.ID,
		Status:     string(job.Status),
		Message:    message,
		At:         time.Now().UTC(),
	})
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hr-portal/internal/blob"
	"hr-portal/internal/lifecycle"
	"hr-portal/internal/metrics"
	"hr-portal/internal/models"
	"hr-portal/internal/notify"
	"hr-portal/internal/storage"
	"hr-portal/internal/transport/dto"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type applicationService struct {
	store     storage.Store
	blobs     blob.Store
	notifier  notify.Publisher
	validator *validator.Validate
}

// NewApplicationService creates a new instance of ApplicationService.
func NewApplicationService(store storage.Store, blobs blob.Store, notifier notify.Publisher, v *validator.Validate) ApplicationService {
	return &applicationService{store: store, blobs: blobs, notifier: notifier, validator: v}
}

func (s *applicationService) FindByJobAndCandidate(ctx context.Context, jobID, candidateID uuid.UUID) (*models.Application, error) {
	app, err := s.store.Applications().GetByJobAndCandidate(ctx, jobID, candidateID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ApplicationService: Error finding application for job %s and candidate %s: %v", jobID, candidateID, err)
		return nil, mapRepoError(err, "finding application")
	}
	return app, nil
}

func (s *applicationService) Create(ctx context.Context, p models.Principal, req *dto.NewApplicationRequest) (*models.Application, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	if req.JobID == uuid.Nil || req.CandidateID == uuid.Nil {
		return nil, validationError("job_id and candidate_id are required")
	}
	if !p.IsCandidate() || p.ID != req.CandidateID {
		return nil, fmt.Errorf("%w: candidates can only apply for themselves", ErrForbidden)
	}

	job, err := s.checkApplicable(ctx, req.JobID, req.CandidateID)
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, job, req)
}

// checkApplicable loads the job and rejects closed jobs and candidates who
// already hold an application for it.
func (s *applicationService) checkApplicable(ctx context.Context, jobID, candidateID uuid.UUID) (*models.Job, error) {
	job, err := s.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return nil, mapRepoError(err, "loading job to apply")
	}
	if job.Status != models.JobStatusOpen {
		return nil, fmt.Errorf("%w: job %s is %s", ErrJobClosed, job.ID, job.Status)
	}

	existing, err := s.FindByJobAndCandidate(ctx, jobID, candidateID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: application %s", ErrDuplicate, existing.ID)
	}
	return job, nil
}

func (s *applicationService) insert(ctx context.Context, job *models.Job, req *dto.NewApplicationRequest) (*models.Application, error) {
	var created *models.Application
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		app, err := tx.Applications().Create(ctx, &models.Application{
			JobID:          req.JobID,
			CandidateID:    req.CandidateID,
			FullName:       req.FullName,
			Email:          req.Email,
			ResumeURL:      req.ResumeURL,
			ResumeName:     req.ResumeName,
			CoverLetterURL: req.CoverLetterURL,
		})
		if err != nil {
			return err
		}
		if err := tx.Jobs().IncrementApplicantCount(ctx, req.JobID); err != nil {
			return err
		}
		created = app
		return nil
	})
	if err != nil {
		log.Printf("ApplicationService: Error creating application for job %s: %v", req.JobID, err)
		return nil, mapRepoError(err, "creating application")
	}

	metrics.RecordApplicationCreated()
	publish(ctx, s.notifier, notify.Event{
		Type:          notify.EventApplicationSubmitted,
		Recipients:    []uuid.UUID{job.RecruiterID},
		JobID:         job.ID,
		ApplicationID: created.ID,
		Status:        string(created.Status),
		Message:       fmt.Sprintf("%s applied for %s", created.FullName, job.Title),
		At:            created.CreatedAt,
	})
	return created, nil
}

func (s *applicationService) Apply(ctx context.Context, p models.Principal, jobID uuid.UUID, coverLetter *blob.File) (*models.Application, error) {
	if !p.IsCandidate() {
		return nil, fmt.Errorf("%w: only candidates can apply", ErrForbidden)
	}
	profile, err := s.store.Candidates().GetByUserID(ctx, p.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, validationError("complete your profile before applying")
	}
	if err != nil {
		return nil, mapRepoError(err, "loading candidate profile")
	}
	if profile.ResumeURL == "" {
		return nil, validationError("upload your resume before applying")
	}
	if coverLetter != nil {
		if err := checkDocument(coverLetter); err != nil {
			return nil, err
		}
	}

	req := &dto.NewApplicationRequest{
		JobID:       jobID,
		CandidateID: p.ID,
		FullName:    profile.FullName,
		Email:       profile.Email,
		ResumeURL:   profile.ResumeURL,
		ResumeName:  profile.ResumeName,
	}
	if req.Email == "" {
		req.Email = p.Email
	}

	job, err := s.checkApplicable(ctx, jobID, p.ID)
	if err != nil {
		return nil, err
	}

	if coverLetter == nil {
		return s.insert(ctx, job, req)
	}

	objectPath, err := s.uploadCoverLetter(ctx, p.ID, jobID, coverLetter)
	if err != nil {
		return nil, err
	}
	url := s.blobs.PublicURL(blob.BucketCoverLetters, objectPath)
	req.CoverLetterURL = &url

	created, err := s.insert(ctx, job, req)
	if err != nil {
		// The object was written by this attempt only, so nothing else points at it.
		if rmErr := s.blobs.Remove(context.WithoutCancel(ctx), blob.BucketCoverLetters, objectPath); rmErr != nil {
			log.Printf("ApplicationService: Error removing cover letter %s after failed apply: %v", objectPath, rmErr)
		}
		return nil, err
	}
	return created, nil
}

// uploadCoverLetter stores the letter at <candidate>_<job>.<ext> and never
// replaces an existing object. When that path is taken, by a concurrent
// attempt or a leftover, the letter gets a path of its own.
func (s *applicationService) uploadCoverLetter(ctx context.Context, candidateID, jobID uuid.UUID, letter *blob.File) (string, error) {
	ext := blob.Extension(letter.Name)
	objectPath := fmt.Sprintf("%s_%s.%s", candidateID, jobID, ext)
	opts := blob.UploadOptions{ContentType: letter.ContentType}

	_, err := s.blobs.Upload(ctx, blob.BucketCoverLetters, objectPath, letter.Content, opts)
	if errors.Is(err, blob.ErrExists) {
		objectPath = fmt.Sprintf("%s_%s_%s.%s", candidateID, jobID, uuid.NewString()[:8], ext)
		_, err = s.blobs.Upload(ctx, blob.BucketCoverLetters, objectPath, letter.Content, opts)
	}
	metrics.RecordUpload(blob.BucketCoverLetters, err)
	if err != nil {
		log.Printf("ApplicationService: Error uploading cover letter for job %s: %v", jobID, err)
		return "", mapBlobError(err, "uploading cover letter")
	}
	return objectPath, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateApplicationStatusRequest, p models.Principal) (*models.Application, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}

	app, err := s.store.Applications().GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "getting application")
	}
	job, err := s.store.Jobs().GetByID(ctx, app.JobID)
	if err != nil {
		return nil, mapRepoError(err, "getting application job")
	}

	if err := authorizeStatusChange(p, req.Status, app, job); err != nil {
		return nil, err
	}

	next, err := lifecycle.Apply(app.Status, app.ScheduledAt, lifecycle.Change{Status: req.Status, ScheduledAt: req.ScheduledAt})
	switch {
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !next.Changed {
		return app, nil
	}

	updated, err := s.store.Applications().UpdateStatus(ctx, id, app.Status, next.Status, next.ScheduledAt)
	if errors.Is(err, storage.ErrConflict) {
		return nil, fmt.Errorf("%w: application %s changed concurrently", ErrInvalidTransition, id)
	}
	if err != nil {
		log.Printf("ApplicationService: Error updating status of application %s: %v", id, err)
		return nil, mapRepoError(err, "updating application status")
	}

	metrics.RecordStatusTransition(string(app.Status), string(updated.Status))
	publish(ctx, s.notifier, notify.Event{
		Type:          notify.EventApplicationStatusChanged,
		Recipients:    []uuid.UUID{updated.CandidateID, job.RecruiterID},
		JobID:         job.ID,
		ApplicationID: updated.ID,
		Status:        string(updated.Status),
		Message:       statusMessage(updated, job),
		At:            time.Now().UTC(),
	})
	return updated, nil
}

// authorizeStatusChange lets the candidate withdraw and the job's recruiter
// make every other move.
func authorizeStatusChange(p models.Principal, target models.ApplicationStatus, app *models.Application, job *models.Job) error {
	switch lifecycle.Actor(target) {
	case models.RoleCandidate:
		if p.IsCandidate() && p.ID == app.CandidateID {
			return nil
		}
		return fmt.Errorf("%w: only the applicant can withdraw", ErrForbidden)
	default:
		if p.IsRecruiter() && p.ID == job.RecruiterID {
			return nil
		}
		return fmt.Errorf("%w: only the job's recruiter can set status %s", ErrForbidden, target)
	}
}

func statusMessage(app *models.Application, job *models.Job) string {
	switch app.Status {
	case models.StatusInterview:
		return fmt.Sprintf("Interview for %s scheduled at %s", job.Title, app.ScheduledAt.Format(time.RFC3339))
	case models.StatusWithdrawn:
		return fmt.Sprintf("%s withdrew from %s", app.FullName, job.Title)
	default:
		return fmt.Sprintf("Application for %s is now %s", job.Title, strings.ToLower(string(app.Status)))
	}
}

func (s *applicationService) Get(ctx context.Context, p models.Principal, id uuid.UUID) (*models.ApplicationWithJob, error) {
	app, err := s.store.Applications().GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "getting application")
	}
	job, err := s.store.Jobs().GetByID(ctx, app.JobID)
	if err != nil {
		return nil, mapRepoError(err, "getting application job")
	}
	ownsAsCandidate := p.IsCandidate() && p.ID == app.CandidateID
	ownsAsRecruiter := p.IsRecruiter() && p.ID == job.RecruiterID
	if !ownsAsCandidate && !ownsAsRecruiter {
		return nil, fmt.Errorf("%w: application %s", ErrForbidden, id)
	}
	return &models.ApplicationWithJob{Application: *app, JobTitle: job.Title}, nil
}

func (s *applicationService) ListForCandidate(ctx context.Context, p models.Principal, candidateID uuid.UUID) ([]models.ApplicationWithJob, error) {
	if !p.IsCandidate() || p.ID != candidateID {
		return nil, fmt.Errorf("%w: candidates can only list their own applications", ErrForbidden)
	}
	apps, err := s.store.Applications().ListByCandidate(ctx, candidateID)
	if err != nil {
		log.Printf("ApplicationService: Error listing applications of candidate %s: %v", candidateID, err)
		return nil, mapRepoError(err, "listing candidate applications")
	}
	return apps, nil
}

func (s *applicationService) ListForRecruiterJobs(ctx context.Context, p models.Principal, recruiterID uuid.UUID) ([]models.ApplicationWithJob, error) {
	if !p.IsRecruiter() || p.ID != recruiterID {
		return nil, fmt.Errorf("%w: recruiters can only list applications to their own jobs", ErrForbidden)
	}
	apps, err := s.store.Applications().ListByRecruiter(ctx, recruiterID)
	if err != nil {
		log.Printf("ApplicationService: Error listing applications for recruiter %s: %v", recruiterID, err)
		return nil, mapRepoError(err, "listing recruiter applications")
	}
	return apps, nil
}

func (s *applicationService) ListForJob(ctx context.Context, p models.Principal, jobID uuid.UUID) ([]models.Application, error) {
	job, err := s.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return nil, mapRepoError(err, "getting job")
	}
	if !p.IsRecruiter() || p.ID != job.RecruiterID {
		return nil, fmt.Errorf("%w: job %s belongs to another recruiter", ErrForbidden, jobID)
	}
	apps, err := s.store.Applications().ListByJob(ctx, jobID)
	if err != nil {
		log.Printf("ApplicationService: Error listing applications for job %s: %v", jobID, err)
		return nil, mapRepoError(err, "listing job applications")
	}
	return apps, nil
}

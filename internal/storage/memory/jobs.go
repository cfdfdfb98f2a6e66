package memory

import (
	"context"
	"fmt"
	"time"

	"hr-portal/internal/models"
	"hr-portal/internal/storage"

	"github.com/google/uuid"
)

type jobRepo struct {
	s *Store
}

var _ storage.JobRepository = (*jobRepo)(nil)

func (r *jobRepo) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	var created models.Job
	err := r.s.with(ctx, func(st *state) error {
		created = *job
		if created.ID == uuid.Nil {
			created.ID = uuid.New()
		}
		if _, exists := st.jobs[created.ID]; exists {
			return fmt.Errorf("job %s already exists: %w", created.ID, storage.ErrConflict)
		}
		if created.Status == "" {
			created.Status = models.JobStatusOpen
		}
		now := r.s.now()
		created.ApplicantCount = 0
		created.CreatedAt = now
		created.UpdatedAt = now
		st.jobs[created.ID] = jobRecord{seq: st.next(), job: created}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *jobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var found models.Job
	err := r.s.with(ctx, func(st *state) error {
		rec, ok := st.jobs[id]
		if !ok {
			return storage.ErrNotFound
		}
		found = rec.job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *jobRepo) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]models.Job, error) {
	return r.list(ctx, func(j models.Job) bool { return j.RecruiterID == recruiterID })
}

func (r *jobRepo) ListByStatus(ctx context.Context, status models.JobStatus) ([]models.Job, error) {
	return r.list(ctx, func(j models.Job) bool { return j.Status == status })
}

func (r *jobRepo) list(ctx context.Context, keep func(models.Job) bool) ([]models.Job, error) {
	var records []jobRecord
	err := r.s.with(ctx, func(st *state) error {
		for _, rec := range st.jobs {
			if keep(rec.job) {
				records = append(records, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortNewestFirst(records,
		func(rec jobRecord) time.Time { return rec.job.CreatedAt },
		func(rec jobRecord) int64 { return rec.seq })

	jobs := make([]models.Job, 0, len(records))
	for _, rec := range records {
		jobs = append(jobs, rec.job)
	}
	return jobs, nil
}

func (r *jobRepo) Update(ctx context.Context, id uuid.UUID, patch *storage.JobPatch) (*models.Job, error) {
	if patch == nil || patch.Empty() {
		return nil, fmt.Errorf("no fields provided for update on job %s", id)
	}

	var updated models.Job
	err := r.s.with(ctx, func(st *state) error {
		rec, ok := st.jobs[id]
		if !ok {
			return storage.ErrNotFound
		}
		job := rec.job
		if patch.Title != nil {
			job.Title = *patch.Title
		}
		if patch.Description != nil {
			job.Description = *patch.Description
		}
		if patch.Requirements != nil {
			job.Requirements = *patch.Requirements
		}
		if patch.Location != nil {
			job.Location = *patch.Location
		}
		if patch.CompanyName != nil {
			job.CompanyName = *patch.CompanyName
		}
		if patch.SalaryRange != nil {
			if *patch.SalaryRange == "" {
				job.SalaryRange = nil
			} else {
				salary := *patch.SalaryRange
				job.SalaryRange = &salary
			}
		}
		if patch.Status != nil {
			job.Status = *patch.Status
		}
		job.UpdatedAt = r.s.now()
		rec.job = job
		st.jobs[id] = rec
		updated = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *jobRepo) IncrementApplicantCount(ctx context.Context, id uuid.UUID) error {
	return r.s.with(ctx, func(st *state) error {
		rec, ok := st.jobs[id]
		if !ok {
			return storage.ErrNotFound
		}
		rec.job.ApplicantCount++
		st.jobs[id] = rec
		return nil
	})
}

// Delete removes the job and cascades to its applications.
func (r *jobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.with(ctx, func(st *state) error {
		if _, ok := st.jobs[id]; !ok {
			return storage.ErrNotFound
		}
		delete(st.jobs, id)
		for appID, rec := range st.applications {
			if rec.app.JobID == id {
				delete(st.applications, appID)
				delete(st.pairs, pairKey{jobID: rec.app.JobID, candidateID: rec.app.CandidateID})
			}
		}
		return nil
	})
}

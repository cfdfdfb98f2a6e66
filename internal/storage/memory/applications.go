package memory

import (
	"context"
	"fmt"
	"time"

	"hr-portal/internal/models"
	"hr-portal/internal/storage"

	"github.com/google/uuid"
)

type applicationRepo struct {
	s *Store
}

var _ storage.ApplicationRepository = (*applicationRepo)(nil)

func (r *applicationRepo) Create(ctx context.Context, app *models.Application) (*models.Application, error) {
	var created models.Application
	err := r.s.with(ctx, func(st *state) error {
		if _, ok := st.jobs[app.JobID]; !ok {
			return fmt.Errorf("failed to create application: invalid reference to job %s: %w", app.JobID, storage.ErrInvalidReference)
		}
		key := pairKey{jobID: app.JobID, candidateID: app.CandidateID}
		if _, taken := st.pairs[key]; taken {
			return fmt.Errorf("failed to create application: unique constraint applications_job_id_candidate_id_key violated: %w", storage.ErrConflict)
		}

		created = *app
		if created.ID == uuid.Nil {
			created.ID = uuid.New()
		}
		now := r.s.now()
		created.Status = models.StatusPending
		created.ScheduledAt = nil
		created.CreatedAt = now
		created.UpdatedAt = now

		st.applications[created.ID] = applicationRecord{seq: st.next(), app: created}
		st.pairs[key] = created.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var found models.Application
	err := r.s.with(ctx, func(st *state) error {
		rec, ok := st.applications[id]
		if !ok {
			return storage.ErrNotFound
		}
		found = rec.app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *applicationRepo) GetByJobAndCandidate(ctx context.Context, jobID, candidateID uuid.UUID) (*models.Application, error) {
	var found models.Application
	err := r.s.with(ctx, func(st *state) error {
		id, ok := st.pairs[pairKey{jobID: jobID, candidateID: candidateID}]
		if !ok {
			return storage.ErrNotFound
		}
		found = st.applications[id].app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *applicationRepo) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.ApplicationWithJob, error) {
	return r.listWithJob(ctx, func(app models.Application, job models.Job) bool {
		return app.CandidateID == candidateID
	})
}

func (r *applicationRepo) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]models.ApplicationWithJob, error) {
	return r.listWithJob(ctx, func(app models.Application, job models.Job) bool {
		return job.RecruiterID == recruiterID
	})
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error) {
	joined, err := r.listWithJob(ctx, func(app models.Application, job models.Job) bool {
		return app.JobID == jobID
	})
	if err != nil {
		return nil, err
	}
	apps := make([]models.Application, 0, len(joined))
	for _, a := range joined {
		apps = append(apps, a.Application)
	}
	return apps, nil
}

type joinedRecord struct {
	seq int64
	app models.ApplicationWithJob
}

func (r *applicationRepo) listWithJob(ctx context.Context, keep func(models.Application, models.Job) bool) ([]models.ApplicationWithJob, error) {
	var records []joinedRecord
	err := r.s.with(ctx, func(st *state) error {
		for _, rec := range st.applications {
			job, ok := st.jobs[rec.app.JobID]
			if !ok || !keep(rec.app, job.job) {
				continue
			}
			records = append(records, joinedRecord{
				seq: rec.seq,
				app: models.ApplicationWithJob{Application: rec.app, JobTitle: job.job.Title},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortNewestFirst(records,
		func(rec joinedRecord) time.Time { return rec.app.CreatedAt },
		func(rec joinedRecord) int64 { return rec.seq })

	apps := make([]models.ApplicationWithJob, 0, len(records))
	for _, rec := range records {
		apps = append(apps, rec.app)
	}
	return apps, nil
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, expected, status models.ApplicationStatus, scheduledAt *time.Time) (*models.Application, error) {
	var updated models.Application
	err := r.s.with(ctx, func(st *state) error {
		rec, ok := st.applications[id]
		if !ok {
			return storage.ErrNotFound
		}
		if rec.app.Status != expected {
			return fmt.Errorf("application %s is no longer %s: %w", id, expected, storage.ErrConflict)
		}
		rec.app.Status = status
		if scheduledAt != nil {
			at := *scheduledAt
			rec.app.ScheduledAt = &at
		} else {
			rec.app.ScheduledAt = nil
		}
		rec.app.UpdatedAt = r.s.now()
		st.applications[id] = rec
		updated = rec.app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

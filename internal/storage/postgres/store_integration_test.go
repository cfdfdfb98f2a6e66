package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"hr-portal/internal/database"
	"hr-portal/internal/models"
	"hr-portal/internal/storage"
	"hr-portal/internal/storage/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore connects to TEST_DATABASE_URL, applies the migrations and
// empties the tables. Tests are skipped when the variable is not set.
func newTestStore(t *testing.T) (context.Context, *postgres.Store) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL environment variable not set")
	}
	require.NoError(t, database.Migrate(dsn))

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE applications, candidates, jobs CASCADE`)
	require.NoError(t, err, "Failed to truncate tables")

	return ctx, postgres.NewStore(pool)
}

func createTestJob(t *testing.T, ctx context.Context, s storage.Store, recruiterID uuid.UUID, title string) *models.Job {
	t.Helper()
	job, err := s.Jobs().Create(ctx, &models.Job{RecruiterID: recruiterID, Title: title, Location: "Remote", CompanyName: "Acme"})
	require.NoError(t, err, "Failed to create test job %s", title)
	return job
}

func TestStore_Integration_JobCRUD(t *testing.T) {
	ctx, s := newTestStore(t)
	recruiter := uuid.New()

	job := createTestJob(t, ctx, s, recruiter, "Engineer")
	assert.Equal(t, models.JobStatusOpen, job.Status)
	assert.Nil(t, job.SalaryRange)

	salary := "$50,000 - $70,000"
	closed := models.JobStatusClosed
	updated, err := s.Jobs().Update(ctx, job.ID, &storage.JobPatch{SalaryRange: &salary, Status: &closed})
	require.NoError(t, err)
	require.NotNil(t, updated.SalaryRange)
	assert.Equal(t, salary, *updated.SalaryRange)
	assert.Equal(t, models.JobStatusClosed, updated.Status)

	empty := ""
	updated, err = s.Jobs().Update(ctx, job.ID, &storage.JobPatch{SalaryRange: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.SalaryRange)

	open, err := s.Jobs().ListByStatus(ctx, models.JobStatusOpen)
	require.NoError(t, err)
	assert.Empty(t, open)

	mine, err := s.Jobs().ListByRecruiter(ctx, recruiter)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	_, err = s.Jobs().Update(ctx, uuid.New(), &storage.JobPatch{Title: &salary})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.Jobs().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_Integration_ApplicationConstraints(t *testing.T) {
	ctx, s := newTestStore(t)
	job := createTestJob(t, ctx, s, uuid.New(), "Engineer")
	candidate := uuid.New()

	app, err := s.Applications().Create(ctx, &models.Application{JobID: job.ID, CandidateID: candidate, FullName: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Nil(t, app.ScheduledAt)

	_, err = s.Applications().Create(ctx, &models.Application{JobID: job.ID, CandidateID: candidate})
	assert.ErrorIs(t, err, storage.ErrConflict)

	_, err = s.Applications().Create(ctx, &models.Application{JobID: uuid.New(), CandidateID: candidate})
	assert.ErrorIs(t, err, storage.ErrInvalidReference, "unknown job violates the foreign key")

	withJob, err := s.Applications().ListByCandidate(ctx, candidate)
	require.NoError(t, err)
	require.Len(t, withJob, 1)
	assert.Equal(t, "Engineer", withJob[0].JobTitle)
}

func TestStore_Integration_ConcurrentApplyKeepsOne(t *testing.T) {
	ctx, s := newTestStore(t)
	job := createTestJob(t, ctx, s, uuid.New(), "Engineer")
	candidate := uuid.New()

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.InTx(ctx, func(tx storage.Store) error {
				if _, err := tx.Applications().Create(ctx, &models.Application{JobID: job.ID, CandidateID: candidate}); err != nil {
					return err
				}
				return tx.Jobs().IncrementApplicantCount(ctx, job.ID)
			})
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, storage.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	reloaded, err := s.Jobs().GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.ApplicantCount)
}

func TestStore_Integration_UpdateStatusCompareAndSet(t *testing.T) {
	ctx, s := newTestStore(t)
	job := createTestJob(t, ctx, s, uuid.New(), "Engineer")
	app, err := s.Applications().Create(ctx, &models.Application{JobID: job.ID, CandidateID: uuid.New()})
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	updated, err := s.Applications().UpdateStatus(ctx, app.ID, models.StatusPending, models.StatusInterview, &at)
	require.NoError(t, err)
	require.NotNil(t, updated.ScheduledAt)
	assert.True(t, at.Equal(*updated.ScheduledAt))

	_, err = s.Applications().UpdateStatus(ctx, app.ID, models.StatusPending, models.StatusRejected, nil)
	assert.ErrorIs(t, err, storage.ErrConflict)

	_, err = s.Applications().UpdateStatus(ctx, uuid.New(), models.StatusPending, models.StatusRejected, nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_Integration_InTxRollsBack(t *testing.T) {
	ctx, s := newTestStore(t)
	job := createTestJob(t, ctx, s, uuid.New(), "Engineer")
	boom := errors.New("boom")

	err := s.InTx(ctx, func(tx storage.Store) error {
		if err := tx.Jobs().IncrementApplicantCount(ctx, job.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	reloaded, err := s.Jobs().GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.ApplicantCount)
}

func TestStore_Integration_DeleteCascades(t *testing.T) {
	ctx, s := newTestStore(t)
	job := createTestJob(t, ctx, s, uuid.New(), "Engineer")
	app, err := s.Applications().Create(ctx, &models.Application{JobID: job.ID, CandidateID: uuid.New()})
	require.NoError(t, err)

	require.NoError(t, s.Jobs().Delete(ctx, job.ID))

	_, err = s.Applications().GetByID(ctx, app.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.Jobs().Delete(ctx, job.ID), storage.ErrNotFound)
}

func TestStore_Integration_CandidateUpsertKeepsUploads(t *testing.T) {
	ctx, s := newTestStore(t)
	userID := uuid.New()

	_, err := s.Candidates().SetResume(ctx, userID, "x", "y")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.Candidates().Upsert(ctx, &models.Candidate{UserID: userID, FullName: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	_, err = s.Candidates().SetResume(ctx, userID, "http://files/resumes/cv.pdf", "cv.pdf")
	require.NoError(t, err)
	_, err = s.Candidates().SetAvatar(ctx, userID, "http://files/avatars/a.png")
	require.NoError(t, err)

	saved, err := s.Candidates().Upsert(ctx, &models.Candidate{UserID: userID, FullName: "Ada Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", saved.FullName)
	assert.Equal(t, "cv.pdf", saved.ResumeName)
	assert.Equal(t, "http://files/avatars/a.png", saved.AvatarURL)

	all, err := s.Candidates().List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

package services_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"hr-portal/internal/blob"
	"hr-portal/internal/models"
	"hr-portal/internal/notify"
	"hr-portal/internal/services"
	"hr-portal/internal/storage"
	"hr-portal/internal/storage/memory"
	"hr-portal/internal/transport/dto"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_HappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t, "Backend Engineer", nil)
	sub := f.hub.Subscribe(f.recruiter.ID)
	defer sub.Close()

	app := f.apply(t, job.ID)

	assert.Equal(t, models.StatusPending, app.Status)
	assert.Nil(t, app.ScheduledAt)
	assert.Equal(t, job.ID, app.JobID)
	assert.Equal(t, f.candidate.ID, app.CandidateID)

	reloaded, err := f.jobs.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.ApplicantCount)

	ev := receive(t, sub)
	assert.Equal(t, notify.EventApplicationSubmitted, ev.Type)
	assert.Equal(t, app.ID, ev.ApplicationID)

	found, err := f.apps.FindByJobAndCandidate(ctx, job.ID, f.candidate.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, app.ID, found.ID)
}

func TestFindByJobAndCandidate_NotApplied(t *testing.T) {
	f := newFixture(t)
	job := f.postJob(t, "Backend Engineer", nil)

	found, err := f.apps.FindByJobAndCandidate(context.Background(), job.ID, f.candidate.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestCreate_DuplicateApply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t, "Backend Engineer", nil)
	f.apply(t, job.ID)

	_, err := f.apps.Create(ctx, f.candidate, f.applicationRequest(job.ID, f.candidate))
	assert.ErrorIs(t, err, services.ErrDuplicate)

	reloaded, err := f.jobs.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.ApplicantCount)
}

func TestCreate_ConcurrentDuplicatesKeepOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t, "Backend Engineer", nil)

	const attempts = 20
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.apps.Create(ctx, f.candidate, f.applicationRequest(job.ID, f.candidate))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, services.ErrDuplicate)
	}
	assert.Equal(t, 1, succeeded)

	apps, err := f.apps.ListForJob(ctx, f.recruiter, job.ID)
	require.NoError(t, err)
	assert.Len(t, apps, 1)

	reloaded, err := f.jobs.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.ApplicantCount)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	job := f.postJob(t, "Backend Engineer", nil)

	tests := []struct {
		name   string
		mutate func(r *dto.NewApplicationRequest)
	}{
		{"missing full name", func(r *dto.NewApplicationRequest) { r.FullName = "" }},
		{"missing email", func(r *dto.NewApplicationRequest) { r.Email = "" }},
		{"malformed email", func(r *dto.NewApplicationRequest) { r.Email = "not-an-email" }},
		{"missing resume", func(r *dto.NewApplicationRequest) { r.ResumeURL = "" }},
		{"missing job", func(r *dto.NewApplicationRequest) { r.JobID = uuid.Nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.applicationRequest(job.ID, f.candidate)
			tt.mutate(req)
			_, err := f.apps.Create(context.Background(), f.candidate, req)
			assert.ErrorIs(t, err, services.ErrValidation)
		})
	}
}

func TestCreate_Authorization(t *testing.T) {
	f := newFixture(t)
	job := f.postJob(t, "Backend Engineer", nil)

	_, err := f.apps.Create(context.Background(), f.recruiter, f.applicationRequest(job.ID, f.candidate))
	assert.ErrorIs(t, err, services.ErrForbidden)

	other := candidatePrincipal()
	_, err = f.apps.Create(context.Background(), other, f.applicationRequest(job.ID, f.candidate))
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestCreate_JobMissingOrClosed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.apps.Create(ctx, f.candidate, f.applicationRequest(uuid.New(), f.candidate))
	assert.ErrorIs(t, err, services.ErrNotFound)

	job := f.postJob(t, "Backend Engineer", nil)
	closed := models.JobStatusClosed
	_, err = f.jobs.Update(ctx, f.recruiter, job.ID, &dto.UpdateJobRequest{Status: &closed})
	require.NoError(t, err)

	_, err = f.apps.Create(ctx, f.candidate, f.applicationRequest(job.ID, f.candidate))
	assert.ErrorIs(t, err, services.ErrJobClosed)
}

func TestUpdateStatus_InterviewRequiresSchedule(t *testing.T) {
	f := newFixture(t)
	app := f.apply(t, f.postJob(t, "Backend Engineer", nil).ID)

	_, err := f.setStatus(f.recruiter, app.ID, models.StatusInterview, nil)
	assert.ErrorIs(t, err, services.ErrValidation)

	at := time.Date(2024, 4, 2, 14, 0, 0, 0, time.FixedZone("CET", 3600))
	updated, err := f.setStatus(f.recruiter, app.ID, models.StatusInterview, &at)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInterview, updated.Status)
	require.NotNil(t, updated.ScheduledAt)
	assert.True(t, at.Equal(*updated.ScheduledAt))

	later := at.Add(24 * time.Hour)
	rescheduled, err := f.setStatus(f.recruiter, app.ID, models.StatusInterview, &later)
	require.NoError(t, err)
	require.NotNil(t, rescheduled.ScheduledAt)
	assert.True(t, later.Equal(*rescheduled.ScheduledAt))
}

func TestUpdateStatus_ScheduledOnlyWhileInterview(t *testing.T) {
	f := newFixture(t)
	app := f.apply(t, f.postJob(t, "Backend Engineer", nil).ID)
	at := time.Date(2024, 4, 2, 14, 0, 0, 0, time.UTC)

	_, err := f.setStatus(f.recruiter, app.ID, models.StatusInterview, &at)
	require.NoError(t, err)

	hired, err := f.setStatus(f.recruiter, app.ID, models.StatusHired, &at)
	require.NoError(t, err)
	assert.Equal(t, models.StatusHired, hired.Status)
	assert.Nil(t, hired.ScheduledAt)
}

func TestUpdateStatus_TerminalIsImmutable(t *testing.T) {
	f := newFixture(t)
	app := f.apply(t, f.postJob(t, "Backend Engineer", nil).ID)

	_, err := f.setStatus(f.recruiter, app.ID, models.StatusRejected, nil)
	require.NoError(t, err)

	at := time.Now().Add(time.Hour)
	for _, target := range []models.ApplicationStatus{models.StatusPending, models.StatusHired} {
		_, err := f.setStatus(f.recruiter, app.ID, target, nil)
		assert.ErrorIs(t, err, services.ErrInvalidTransition, "Rejected -> %s", target)
	}
	_, err = f.setStatus(f.recruiter, app.ID, models.StatusInterview, &at)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	_, err = f.setStatus(f.candidate, app.ID, models.StatusWithdrawn, nil)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	got, err := f.apps.Get(context.Background(), f.recruiter, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status)
}

func TestUpdateStatus_SameStateIsNoop(t *testing.T) {
	f := newFixture(t)
	app := f.apply(t, f.postJob(t, "Backend Engineer", nil).ID)

	same, err := f.setStatus(f.recruiter, app.ID, models.StatusPending, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, same.Status)
	assert.Equal(t, app.UpdatedAt, same.UpdatedAt)

	_, err = f.setStatus(f.recruiter, app.ID, models.StatusHired, nil)
	require.NoError(t, err)
	again, err := f.setStatus(f.recruiter, app.ID, models.StatusHired, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusHired, again.Status)
}

func TestUpdateStatus_AuthorizationMatrix(t *testing.T) {
	at := time.Date(2024, 4, 2, 14, 0, 0, 0, time.UTC)
	otherRecruiter := recruiterPrincipal()
	otherCandidate := candidatePrincipal()

	tests := []struct {
		name    string
		actor   func(f *fixture) models.Principal
		target  models.ApplicationStatus
		allowed bool
	}{
		{"recruiter schedules interview", func(f *fixture) models.Principal { return f.recruiter }, models.StatusInterview, true},
		{"recruiter hires", func(f *fixture) models.Principal { return f.recruiter }, models.StatusHired, true},
		{"recruiter rejects", func(f *fixture) models.Principal { return f.recruiter }, models.StatusRejected, true},
		{"recruiter cannot withdraw", func(f *fixture) models.Principal { return f.recruiter }, models.StatusWithdrawn, false},
		{"other recruiter cannot reject", func(*fixture) models.Principal { return otherRecruiter }, models.StatusRejected, false},
		{"candidate withdraws", func(f *fixture) models.Principal { return f.candidate }, models.StatusWithdrawn, true},
		{"candidate cannot hire", func(f *fixture) models.Principal { return f.candidate }, models.StatusHired, false},
		{"candidate cannot schedule", func(f *fixture) models.Principal { return f.candidate }, models.StatusInterview, false},
		{"other candidate cannot withdraw", func(*fixture) models.Principal { return otherCandidate }, models.StatusWithdrawn, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			app := f.apply(t, f.postJob(t, "Backend Engineer", nil).ID)

			var schedule *time.Time
			if tt.target == models.StatusInterview {
				schedule = &at
			}
			updated, err := f.setStatus(tt.actor(f), app.ID, tt.target, schedule)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.target, updated.Status)
				return
			}
			assert.ErrorIs(t, err, services.ErrForbidden)
			got, err := f.apps.Get(context.Background(), f.candidate, app.ID)
			require.NoError(t, err)
			assert.Equal(t, models.StatusPending, got.Status)
		})
	}
}

func TestUpdateStatus_Withdrawal(t *testing.T) {
	f := newFixture(t)
	app := f.apply(t, f.postJob(t, "Backend Engineer", nil).ID)
	at := time.Date(2024, 4, 2, 14, 0, 0, 0, time.UTC)
	_, err := f.setStatus(f.recruiter, app.ID, models.StatusInterview, &at)
	require.NoError(t, err)

	candSub := f.hub.Subscribe(f.candidate.ID)
	defer candSub.Close()
	recSub := f.hub.Subscribe(f.recruiter.ID)
	defer recSub.Close()

	withdrawn, err := f.setStatus(f.candidate, app.ID, models.StatusWithdrawn, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWithdrawn, withdrawn.Status)
	assert.Nil(t, withdrawn.ScheduledAt)

	for _, sub := range []*notify.Subscription{candSub, recSub} {
		ev := receive(t, sub)
		assert.Equal(t, notify.EventApplicationStatusChanged, ev.Type)
		assert.Equal(t, string(models.StatusWithdrawn), ev.Status)
	}

	_, err = f.setStatus(f.recruiter, app.ID, models.StatusHired, nil)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestUpdateStatus_UnknownApplication(t *testing.T) {
	f := newFixture(t)
	_, err := f.setStatus(f.recruiter, uuid.New(), models.StatusHired, nil)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestApply_RequiresResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t, "Backend Engineer", nil)

	_, err := f.apps.Apply(ctx, f.candidate, job.ID, nil)
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = f.candidates.Save(ctx, f.candidate, &dto.SaveProfileRequest{FullName: "Jane Doe"})
	require.NoError(t, err)
	_, err = f.apps.Apply(ctx, f.candidate, job.ID, nil)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestApply_WithCoverLetter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t, "Backend Engineer", nil)

	_, err := f.candidates.Save(ctx, f.candidate, &dto.SaveProfileRequest{FullName: "Jane Doe"})
	require.NoError(t, err)
	_, err = f.candidates.UploadResume(ctx, f.candidate, &blob.File{Name: "cv.pdf", Content: bytes.NewBufferString("%PDF-1.4")})
	require.NoError(t, err)

	letter := &blob.File{Name: "Letter.DOCX", Content: bytes.NewBufferString("dear hiring manager")}
	app, err := f.apps.Apply(ctx, f.candidate, job.ID, letter)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", app.FullName)
	assert.Equal(t, f.candidate.Email, app.Email)
	assert.Equal(t, "cv.pdf", app.ResumeName)
	require.NotNil(t, app.CoverLetterURL)
	objectPath := f.candidate.ID.String() + "_" + job.ID.String() + ".docx"
	assert.Equal(t, "/files/cover_letters/"+objectPath, *app.CoverLetterURL)

	obj, err := f.blobs.Open(blob.BucketCoverLetters, objectPath)
	require.NoError(t, err)
	defer obj.Close()
	content, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, "dear hiring manager", string(content))

	_, err = f.apps.Apply(ctx, f.candidate, job.ID, nil)
	assert.ErrorIs(t, err, services.ErrDuplicate)
}

// readLetter returns the content stored at objectPath in the cover letter bucket.
func readLetter(t *testing.T, blobs blob.Store, objectPath string) string {
	t.Helper()
	obj, err := blobs.Open(blob.BucketCoverLetters, objectPath)
	require.NoError(t, err)
	defer obj.Close()
	content, err := io.ReadAll(obj)
	require.NoError(t, err)
	return string(content)
}

func (f *fixture) completeProfile(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := f.candidates.Save(ctx, f.candidate, &dto.SaveProfileRequest{FullName: "Jane Doe"})
	require.NoError(t, err)
	_, err = f.candidates.UploadResume(ctx, f.candidate, &blob.File{Name: "cv.pdf", Content: bytes.NewBufferString("%PDF-1.4")})
	require.NoError(t, err)
}

func TestApply_DuplicateKeepsStoredCoverLetter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t, "Backend Engineer", nil)
	f.completeProfile(t)

	first, err := f.apps.Apply(ctx, f.candidate, job.ID, &blob.File{Name: "letter.pdf", Content: bytes.NewBufferString("original letter")})
	require.NoError(t, err)

	_, err = f.apps.Apply(ctx, f.candidate, job.ID, &blob.File{Name: "letter.pdf", Content: bytes.NewBufferString("second letter")})
	require.ErrorIs(t, err, services.ErrDuplicate)

	objectPath := f.candidate.ID.String() + "_" + job.ID.String() + ".pdf"
	assert.Equal(t, "original letter", readLetter(t, f.blobs, objectPath))

	// Terminal applications are protected the same way.
	_, err = f.setStatus(f.candidate, first.ID, models.StatusWithdrawn, nil)
	require.NoError(t, err)
	_, err = f.apps.Apply(ctx, f.candidate, job.ID, &blob.File{Name: "letter.pdf", Content: bytes.NewBufferString("after withdrawal")})
	require.ErrorIs(t, err, services.ErrDuplicate)
	assert.Equal(t, "original letter", readLetter(t, f.blobs, objectPath))
}

func TestApply_ClosedJobStoresNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t, "Backend Engineer", nil)
	f.completeProfile(t)
	_, err := f.jobs.Update(ctx, f.recruiter, job.ID, &dto.UpdateJobRequest{Status: ptr(models.JobStatusClosed)})
	require.NoError(t, err)

	_, err = f.apps.Apply(ctx, f.candidate, job.ID, &blob.File{Name: "letter.pdf", Content: bytes.NewBufferString("dear hiring manager")})
	require.ErrorIs(t, err, services.ErrJobClosed)

	_, err = f.blobs.Open(blob.BucketCoverLetters, f.candidate.ID.String()+"_"+job.ID.String()+".pdf")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestApply_TakenLetterPathIsNotOverwritten(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t, "Backend Engineer", nil)
	f.completeProfile(t)

	objectPath := f.candidate.ID.String() + "_" + job.ID.String() + ".pdf"
	_, err := f.blobs.Upload(ctx, blob.BucketCoverLetters, objectPath, bytes.NewBufferString("left over"), blob.UploadOptions{})
	require.NoError(t, err)

	app, err := f.apps.Apply(ctx, f.candidate, job.ID, &blob.File{Name: "letter.pdf", Content: bytes.NewBufferString("fresh letter")})
	require.NoError(t, err)
	require.NotNil(t, app.CoverLetterURL)

	assert.Equal(t, "left over", readLetter(t, f.blobs, objectPath))
	stored, ok := f.blobs.ObjectPath(blob.BucketCoverLetters, *app.CoverLetterURL)
	require.True(t, ok)
	assert.NotEqual(t, objectPath, stored)
	assert.Equal(t, "fresh letter", readLetter(t, f.blobs, stored))
}

// vanishingJobStore still reports a job the underlying store already deleted,
// as when the job is removed between the apply checks and the insert.
type vanishingJobStore struct {
	*memory.Store
	job models.Job
}

func (s *vanishingJobStore) Jobs() storage.JobRepository {
	return &vanishingJobs{JobRepository: s.Store.Jobs(), job: s.job}
}

type vanishingJobs struct {
	storage.JobRepository
	job models.Job
}

func (r *vanishingJobs) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	if id == r.job.ID {
		job := r.job
		return &job, nil
	}
	return r.JobRepository.GetByID(ctx, id)
}

func TestApply_JobDeletedBeforeInsert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t, "Backend Engineer", nil)
	f.completeProfile(t)
	require.NoError(t, f.jobs.Delete(ctx, f.recruiter, job.ID))

	store := &vanishingJobStore{Store: f.store, job: *job}
	apps := services.NewApplicationService(store, f.blobs, f.hub, validator.New())

	_, err := apps.Apply(ctx, f.candidate, job.ID, &blob.File{Name: "letter.pdf", Content: bytes.NewBufferString("dear hiring manager")})
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.NotErrorIs(t, err, services.ErrDuplicate)

	_, err = f.blobs.Open(blob.BucketCoverLetters, f.candidate.ID.String()+"_"+job.ID.String()+".pdf")
	assert.ErrorIs(t, err, blob.ErrNotFound, "the letter of a failed apply is removed")
}

func TestApply_RejectsCoverLetterType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t, "Backend Engineer", nil)
	_, err := f.candidates.UploadResume(ctx, f.candidate, &blob.File{Name: "cv.pdf", Content: bytes.NewBufferString("%PDF-1.4")})
	require.NoError(t, err)

	_, err = f.apps.Apply(ctx, f.candidate, job.ID, &blob.File{Name: "letter.exe", Content: bytes.NewBufferString("MZ")})
	assert.ErrorIs(t, err, services.ErrValidation)

	found, err := f.apps.FindByJobAndCandidate(ctx, job.ID, f.candidate.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestListings_NewestFirstAndScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.postJob(t, "Backend Engineer", nil)
	second := f.postJob(t, "Frontend Engineer", nil)
	a1 := f.apply(t, first.ID)
	a2 := f.apply(t, second.ID)

	mine, err := f.apps.ListForCandidate(ctx, f.candidate, f.candidate.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, a2.ID, mine[0].ID)
	assert.Equal(t, "Frontend Engineer", mine[0].JobTitle)
	assert.Equal(t, a1.ID, mine[1].ID)

	received, err := f.apps.ListForRecruiterJobs(ctx, f.recruiter, f.recruiter.ID)
	require.NoError(t, err)
	assert.Len(t, received, 2)

	_, err = f.apps.ListForCandidate(ctx, candidatePrincipal(), f.candidate.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
	_, err = f.apps.ListForRecruiterJobs(ctx, recruiterPrincipal(), f.recruiter.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
	_, err = f.apps.ListForJob(ctx, recruiterPrincipal(), first.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestGet_VisibleToOwnersOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.apply(t, f.postJob(t, "Backend Engineer", nil).ID)

	got, err := f.apps.Get(ctx, f.candidate, app.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", got.JobTitle)

	_, err = f.apps.Get(ctx, f.recruiter, app.ID)
	require.NoError(t, err)

	for _, stranger := range []models.Principal{candidatePrincipal(), recruiterPrincipal()} {
		_, err := f.apps.Get(ctx, stranger, app.ID)
		assert.True(t, errors.Is(err, services.ErrForbidden))
	}
}

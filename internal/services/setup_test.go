package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"hr-portal/internal/blob"
	"hr-portal/internal/models"
	"hr-portal/internal/notify"
	"hr-portal/internal/services"
	"hr-portal/internal/storage/memory"
	"hr-portal/internal/transport/dto"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      *memory.Store
	blobs      *blob.FSStore
	hub        *notify.Hub
	jobs       services.JobService
	apps       services.ApplicationService
	candidates services.CandidateService
	overview   services.OverviewService

	recruiter models.Principal
	candidate models.Principal
}

func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore().WithClock(steppingClock())
	blobs := blob.NewFSStore(afero.NewMemMapFs(), "/files")
	hub := notify.NewHub()
	t.Cleanup(hub.Close)
	v := validator.New()

	return &fixture{
		store:      store,
		blobs:      blobs,
		hub:        hub,
		jobs:       services.NewJobService(store, hub, v),
		apps:       services.NewApplicationService(store, blobs, hub, v),
		candidates: services.NewCandidateService(store, blobs, v),
		overview:   services.NewOverviewService(store),
		recruiter:  recruiterPrincipal(),
		candidate:  candidatePrincipal(),
	}
}

func recruiterPrincipal() models.Principal {
	return models.Principal{ID: uuid.New(), Email: "recruiter@acme.test", Role: models.RoleRecruiter}
}

func candidatePrincipal() models.Principal {
	return models.Principal{ID: uuid.New(), Email: "jane@example.com", Role: models.RoleCandidate}
}

func (f *fixture) postJob(t *testing.T, title string, salary *string) *models.Job {
	t.Helper()
	job, err := f.jobs.Create(context.Background(), f.recruiter, &dto.CreateJobRequest{
		Title:       title,
		Location:    "Remote",
		CompanyName: "Acme",
		SalaryRange: salary,
	})
	require.NoError(t, err)
	return job
}

func (f *fixture) applicationRequest(jobID uuid.UUID, p models.Principal) *dto.NewApplicationRequest {
	return &dto.NewApplicationRequest{
		JobID:       jobID,
		CandidateID: p.ID,
		FullName:    "Jane Doe",
		Email:       p.Email,
		ResumeURL:   "/files/resumes/" + p.ID.String() + "/cv.pdf",
		ResumeName:  "cv.pdf",
	}
}

func (f *fixture) apply(t *testing.T, jobID uuid.UUID) *models.Application {
	t.Helper()
	app, err := f.apps.Create(context.Background(), f.candidate, f.applicationRequest(jobID, f.candidate))
	require.NoError(t, err)
	return app
}

func (f *fixture) setStatus(p models.Principal, appID uuid.UUID, status models.ApplicationStatus, at *time.Time) (*models.Application, error) {
	return f.apps.UpdateStatus(context.Background(), appID, &dto.UpdateApplicationStatusRequest{Status: status, ScheduledAt: at}, p)
}

func receive(t *testing.T, sub *notify.Subscription) notify.Event {
	t.Helper()
	select {
	case ev := <-sub.C:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return notify.Event{}
	}
}

func ptr[T any](v T) *T { return &v }

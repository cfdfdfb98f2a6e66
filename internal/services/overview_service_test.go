package services_test

import (
	"context"
	"testing"
	"time"

	"hr-portal/internal/models"
	"hr-portal/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecruiterOverview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	at := time.Date(2024, 4, 2, 14, 0, 0, 0, time.UTC)

	var latest *models.Application
	for i := 0; i < 6; i++ {
		job := f.postJob(t, "Role", nil)
		latest = f.apply(t, job.ID)
	}
	_, err := f.setStatus(f.recruiter, latest.ID, models.StatusInterview, &at)
	require.NoError(t, err)

	overview, err := f.overview.Recruiter(ctx, f.recruiter)
	require.NoError(t, err)
	assert.Equal(t, 6, overview.ActiveJobs)
	assert.Equal(t, 6, overview.TotalApplicants)
	assert.Equal(t, 1, overview.Interviews)
	require.Len(t, overview.RecentApplicants, 5)
	assert.Equal(t, latest.ID, overview.RecentApplicants[0].ID)
	assert.Equal(t, "Role", overview.RecentApplicants[0].JobTitle)

	_, err = f.overview.Recruiter(ctx, f.candidate)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestCandidateSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.apply(t, f.postJob(t, "Backend Engineer", nil).ID)
	f.apply(t, f.postJob(t, "Frontend Engineer", nil).ID)
	_, err := f.setStatus(f.candidate, first.ID, models.StatusWithdrawn, nil)
	require.NoError(t, err)

	summary, err := f.overview.Candidate(ctx, f.candidate)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.ByStatus[models.StatusPending])
	assert.Equal(t, 1, summary.ByStatus[models.StatusWithdrawn])
	assert.Equal(t, 0, summary.ByStatus[models.StatusHired])

	_, err = f.overview.Candidate(ctx, f.recruiter)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

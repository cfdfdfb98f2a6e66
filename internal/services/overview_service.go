package services

import (
	"context"
	"fmt"

	"hr-portal/internal/models"
	"hr-portal/internal/storage"
	"hr-portal/internal/transport/dto"

	log "github.com/sirupsen/logrus"
)

// recentApplicantsLimit is how many applicants the recruiter dashboard shows.
const recentApplicantsLimit = 5

// RecruiterOverview holds the recruiter dashboard figures.
type RecruiterOverview struct {
	ActiveJobs       int
	TotalApplicants  int
	Interviews       int
	RecentApplicants []models.ApplicationWithJob
}

type overviewService struct {
	store storage.Store
}

// NewOverviewService creates a new instance of OverviewService.
func NewOverviewService(store storage.Store) OverviewService {
	return &overviewService{store: store}
}

func (s *overviewService) Recruiter(ctx context.Context, p models.Principal) (*RecruiterOverview, error) {
	if !p.IsRecruiter() {
		return nil, fmt.Errorf("%w: recruiter dashboard", ErrForbidden)
	}
	jobs, err := s.store.Jobs().ListByRecruiter(ctx, p.ID)
	if err != nil {
		log.Printf("OverviewService: Error listing jobs for %s: %v", p.ID, err)
		return nil, mapRepoError(err, "listing recruiter jobs")
	}
	apps, err := s.store.Applications().ListByRecruiter(ctx, p.ID)
	if err != nil {
		log.Printf("OverviewService: Error listing applications for %s: %v", p.ID, err)
		return nil, mapRepoError(err, "listing recruiter applications")
	}

	overview := &RecruiterOverview{TotalApplicants: len(apps)}
	for _, job := range jobs {
		if job.Status == models.JobStatusOpen {
			overview.ActiveJobs++
		}
	}
	for _, app := range apps {
		if app.Status == models.StatusInterview {
			overview.Interviews++
		}
	}
	// apps are newest first
	overview.RecentApplicants = apps[:min(len(apps), recentApplicantsLimit)]
	return overview, nil
}

func (s *overviewService) Candidate(ctx context.Context, p models.Principal) (*dto.CandidateSummary, error) {
	if !p.IsCandidate() {
		return nil, fmt.Errorf("%w: candidate dashboard", ErrForbidden)
	}
	apps, err := s.store.Applications().ListByCandidate(ctx, p.ID)
	if err != nil {
		log.Printf("OverviewService: Error listing applications for %s: %v", p.ID, err)
		return nil, mapRepoError(err, "listing candidate applications")
	}
	summary := &dto.CandidateSummary{Total: len(apps), ByStatus: make(map[models.ApplicationStatus]int, len(models.AllStatuses))}
	for _, status := range models.AllStatuses {
		summary.ByStatus[status] = 0
	}
	for _, app := range apps {
		summary.ByStatus[app.Status]++
	}
	return summary, nil
}

package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"hr-portal/internal/api/middleware"
	"hr-portal/internal/blob"
	"hr-portal/internal/catalog"
	"hr-portal/internal/models"
	"hr-portal/internal/services"
	"hr-portal/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockJobService is a mock implementation of services.JobService
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) Create(ctx context.Context, p models.Principal, req *dto.CreateJobRequest) (*models.Job, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) Update(ctx context.Context, p models.Principal, id uuid.UUID, req *dto.UpdateJobRequest) (*models.Job, error) {
	args := m.Called(ctx, p, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) Delete(ctx context.Context, p models.Principal, id uuid.UUID) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *MockJobService) ListByRecruiter(ctx context.Context, p models.Principal, recruiterID uuid.UUID) ([]models.Job, error) {
	args := m.Called(ctx, p, recruiterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *MockJobService) ListOpen(ctx context.Context) ([]models.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *MockJobService) Browse(ctx context.Context, q catalog.Query) (catalog.Page, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(catalog.Page), args.Error(1)
}

func (m *MockJobService) Facets(ctx context.Context) (catalog.Facets, error) {
	args := m.Called(ctx)
	return args.Get(0).(catalog.Facets), args.Error(1)
}

var _ services.JobService = (*MockJobService)(nil)

// MockApplicationService is a mock implementation of services.ApplicationService
type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) FindByJobAndCandidate(ctx context.Context, jobID, candidateID uuid.UUID) (*models.Application, error) {
	args := m.Called(ctx, jobID, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationService) Create(ctx context.Context, p models.Principal, req *dto.NewApplicationRequest) (*models.Application, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationService) Apply(ctx context.Context, p models.Principal, jobID uuid.UUID, coverLetter *blob.File) (*models.Application, error) {
	args := m.Called(ctx, p, jobID, coverLetter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationService) UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateApplicationStatusRequest, p models.Principal) (*models.Application, error) {
	args := m.Called(ctx, id, req, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationService) Get(ctx context.Context, p models.Principal, id uuid.UUID) (*models.ApplicationWithJob, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApplicationWithJob), args.Error(1)
}

func (m *MockApplicationService) ListForCandidate(ctx context.Context, p models.Principal, candidateID uuid.UUID) ([]models.ApplicationWithJob, error) {
	args := m.Called(ctx, p, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ApplicationWithJob), args.Error(1)
}

func (m *MockApplicationService) ListForRecruiterJobs(ctx context.Context, p models.Principal, recruiterID uuid.UUID) ([]models.ApplicationWithJob, error) {
	args := m.Called(ctx, p, recruiterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ApplicationWithJob), args.Error(1)
}

func (m *MockApplicationService) ListForJob(ctx context.Context, p models.Principal, jobID uuid.UUID) ([]models.Application, error) {
	args := m.Called(ctx, p, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Application), args.Error(1)
}

var _ services.ApplicationService = (*MockApplicationService)(nil)

// MockCandidateService is a mock implementation of services.CandidateService
type MockCandidateService struct {
	mock.Mock
}

func (m *MockCandidateService) candidate(args mock.Arguments) (*models.Candidate, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Candidate), args.Error(1)
}

func (m *MockCandidateService) Get(ctx context.Context, p models.Principal, userID uuid.UUID) (*models.Candidate, error) {
	return m.candidate(m.Called(ctx, p, userID))
}

func (m *MockCandidateService) Save(ctx context.Context, p models.Principal, req *dto.SaveProfileRequest) (*models.Candidate, error) {
	return m.candidate(m.Called(ctx, p, req))
}

func (m *MockCandidateService) UploadResume(ctx context.Context, p models.Principal, file *blob.File) (*models.Candidate, error) {
	return m.candidate(m.Called(ctx, p, file))
}

func (m *MockCandidateService) RemoveResume(ctx context.Context, p models.Principal) (*models.Candidate, error) {
	return m.candidate(m.Called(ctx, p))
}

func (m *MockCandidateService) UploadAvatar(ctx context.Context, p models.Principal, file *blob.File) (*models.Candidate, error) {
	return m.candidate(m.Called(ctx, p, file))
}

func (m *MockCandidateService) RemoveAvatar(ctx context.Context, p models.Principal) (*models.Candidate, error) {
	return m.candidate(m.Called(ctx, p))
}

func (m *MockCandidateService) Completion(ctx context.Context, p models.Principal) (*dto.ProfileCompletion, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProfileCompletion), args.Error(1)
}

func (m *MockCandidateService) List(ctx context.Context, p models.Principal) ([]models.Candidate, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Candidate), args.Error(1)
}

var _ services.CandidateService = (*MockCandidateService)(nil)

// --- Helpers ---

var (
	recruiter = models.Principal{ID: uuid.New(), Email: "rita@example.com", Role: models.RoleRecruiter}
	candidate = models.Principal{ID: uuid.New(), Email: "carl@example.com", Role: models.RoleCandidate}
)

// asPrincipal stands in for the JWT middleware.
func asPrincipal(p models.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetPrincipal(c, p)
		c.Next()
	}
}

func perform(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

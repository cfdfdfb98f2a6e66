package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hr-portal/internal/blob"
	"hr-portal/internal/metrics"
	"hr-portal/internal/models"
	"hr-portal/internal/storage"
	"hr-portal/internal/transport/dto"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// MaxAvatarBytes caps profile picture uploads.
const MaxAvatarBytes = 2 << 20

var avatarExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
	"image/bmp":  "bmp",
}

type candidateService struct {
	store     storage.Store
	blobs     blob.Store
	validator *validator.Validate
	now       func() time.Time
}

// NewCandidateService creates a new instance of CandidateService.
func NewCandidateService(store storage.Store, blobs blob.Store, v *validator.Validate) CandidateService {
	return &candidateService{store: store, blobs: blobs, validator: v, now: time.Now}
}

func (s *candidateService) Get(ctx context.Context, p models.Principal, userID uuid.UUID) (*models.Candidate, error) {
	if !p.IsRecruiter() && p.ID != userID {
		return nil, fmt.Errorf("%w: profile %s", ErrForbidden, userID)
	}
	c, err := s.store.Candidates().GetByUserID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, "getting candidate profile")
	}
	return c, nil
}

func (s *candidateService) Save(ctx context.Context, p models.Principal, req *dto.SaveProfileRequest) (*models.Candidate, error) {
	if !p.IsCandidate() {
		return nil, fmt.Errorf("%w: only candidates have profiles", ErrForbidden)
	}
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = p.Email
	}
	saved, err := s.store.Candidates().Upsert(ctx, &models.Candidate{
		UserID:     p.ID,
		FullName:   strings.TrimSpace(req.FullName),
		Email:      email,
		Phone:      strings.TrimSpace(req.Phone),
		Education:  req.Education,
		Experience: req.Experience,
		Skills:     req.Skills,
	})
	if err != nil {
		log.Printf("CandidateService: Error saving profile %s: %v", p.ID, err)
		return nil, mapRepoError(err, "saving candidate profile")
	}
	return saved, nil
}

func (s *candidateService) UploadResume(ctx context.Context, p models.Principal, file *blob.File) (*models.Candidate, error) {
	if !p.IsCandidate() {
		return nil, fmt.Errorf("%w: only candidates can upload resumes", ErrForbidden)
	}
	if err := checkDocument(file); err != nil {
		return nil, err
	}
	if _, err := s.ensureProfile(ctx, p); err != nil {
		return nil, err
	}

	name := safeFileName(file.Name)
	url, err := s.blobs.Upload(ctx, blob.BucketResumes, p.ID.String()+"/"+name, file.Content, blob.UploadOptions{
		ContentType: file.ContentType,
		Overwrite:   true,
	})
	metrics.RecordUpload(blob.BucketResumes, err)
	if err != nil {
		log.Printf("CandidateService: Error uploading resume for %s: %v", p.ID, err)
		return nil, mapBlobError(err, "uploading resume")
	}

	c, err := s.store.Candidates().SetResume(ctx, p.ID, url, name)
	if err != nil {
		return nil, mapRepoError(err, "saving resume")
	}
	return c, nil
}

func (s *candidateService) RemoveResume(ctx context.Context, p models.Principal) (*models.Candidate, error) {
	c, err := s.own(ctx, p)
	if err != nil {
		return nil, err
	}
	if c.ResumeURL == "" {
		return c, nil
	}
	if objectPath, ok := s.blobs.ObjectPath(blob.BucketResumes, c.ResumeURL); ok {
		if err := s.blobs.Remove(ctx, blob.BucketResumes, objectPath); err != nil && !errors.Is(err, blob.ErrNotFound) {
			return nil, mapBlobError(err, "removing resume")
		}
	}
	c, err = s.store.Candidates().SetResume(ctx, p.ID, "", "")
	if err != nil {
		return nil, mapRepoError(err, "clearing resume")
	}
	return c, nil
}

func (s *candidateService) UploadAvatar(ctx context.Context, p models.Principal, file *blob.File) (*models.Candidate, error) {
	if !p.IsCandidate() {
		return nil, fmt.Errorf("%w: only candidates can upload avatars", ErrForbidden)
	}
	if file == nil || file.Content == nil {
		return nil, validationError("no file provided")
	}
	if file.Size > MaxAvatarBytes {
		return nil, validationError("avatar must be at most %d bytes", MaxAvatarBytes)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, validationError("unreadable upload: %v", err)
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return nil, validationError("avatar must be an image, got %s", contentType)
	}

	current, err := s.ensureProfile(ctx, p)
	if err != nil {
		return nil, err
	}

	content := io.MultiReader(bytes.NewReader(head), file.Content)
	objectPath := fmt.Sprintf("%s_%d.%s", p.ID, s.now().UnixNano(), ext)
	url, err := s.blobs.Upload(ctx, blob.BucketAvatars, objectPath, content, blob.UploadOptions{ContentType: contentType})
	metrics.RecordUpload(blob.BucketAvatars, err)
	if err != nil {
		log.Printf("CandidateService: Error uploading avatar for %s: %v", p.ID, err)
		return nil, mapBlobError(err, "uploading avatar")
	}

	c, err := s.store.Candidates().SetAvatar(ctx, p.ID, url)
	if err != nil {
		return nil, mapRepoError(err, "saving avatar")
	}
	s.removeAvatarBlob(ctx, current.AvatarURL)
	return c, nil
}

func (s *candidateService) RemoveAvatar(ctx context.Context, p models.Principal) (*models.Candidate, error) {
	c, err := s.own(ctx, p)
	if err != nil {
		return nil, err
	}
	if c.AvatarURL == "" {
		return c, nil
	}
	previous := c.AvatarURL
	c, err = s.store.Candidates().SetAvatar(ctx, p.ID, "")
	if err != nil {
		return nil, mapRepoError(err, "clearing avatar")
	}
	s.removeAvatarBlob(ctx, previous)
	return c, nil
}

// removeAvatarBlob deletes a replaced avatar. Failures only leave an orphan.
func (s *candidateService) removeAvatarBlob(ctx context.Context, url string) {
	if url == "" {
		return
	}
	objectPath, ok := s.blobs.ObjectPath(blob.BucketAvatars, url)
	if !ok {
		return
	}
	if err := s.blobs.Remove(ctx, blob.BucketAvatars, objectPath); err != nil {
		log.Printf("CandidateService: Could not remove old avatar %s: %v", objectPath, err)
	}
}

func (s *candidateService) Completion(ctx context.Context, p models.Principal) (*dto.ProfileCompletion, error) {
	c, err := s.own(ctx, p)
	if errors.Is(err, ErrNotFound) {
		c = &models.Candidate{UserID: p.ID}
	} else if err != nil {
		return nil, err
	}
	completion := ProfileCompletion(c)
	return &completion, nil
}

func (s *candidateService) List(ctx context.Context, p models.Principal) ([]models.Candidate, error) {
	if !p.IsRecruiter() {
		return nil, fmt.Errorf("%w: only recruiters can browse candidates", ErrForbidden)
	}
	candidates, err := s.store.Candidates().List(ctx)
	if err != nil {
		log.Printf("CandidateService: Error listing candidates: %v", err)
		return nil, mapRepoError(err, "listing candidates")
	}
	return candidates, nil
}

// own loads the caller's own profile.
func (s *candidateService) own(ctx context.Context, p models.Principal) (*models.Candidate, error) {
	if !p.IsCandidate() {
		return nil, fmt.Errorf("%w: only candidates have profiles", ErrForbidden)
	}
	c, err := s.store.Candidates().GetByUserID(ctx, p.ID)
	if err != nil {
		return nil, mapRepoError(err, "getting candidate profile")
	}
	return c, nil
}

// ensureProfile returns the caller's profile, creating an empty one
// seeded with the identity email when none exists yet.
func (s *candidateService) ensureProfile(ctx context.Context, p models.Principal) (*models.Candidate, error) {
	c, err := s.store.Candidates().GetByUserID(ctx, p.ID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, mapRepoError(err, "getting candidate profile")
	}
	c, err = s.store.Candidates().Upsert(ctx, &models.Candidate{UserID: p.ID, Email: p.Email})
	if err != nil {
		return nil, mapRepoError(err, "creating candidate profile")
	}
	return c, nil
}

// ProfileCompletion reports which of the seven profile fields are filled in.
func ProfileCompletion(c *models.Candidate) dto.ProfileCompletion {
	fields := []struct {
		name  string
		value string
	}{
		{"full_name", c.FullName},
		{"email", c.Email},
		{"phone", c.Phone},
		{"education", c.Education},
		{"experience", c.Experience},
		{"skills", c.Skills},
		{"resume", c.ResumeURL},
	}
	missing := []string{}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	filled := len(fields) - len(missing)
	return dto.ProfileCompletion{
		Percent: filled * 100 / len(fields),
		Missing: missing,
	}
}

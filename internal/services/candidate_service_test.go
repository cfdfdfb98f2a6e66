package services_test

import (
	"bytes"
	"context"
	"testing"

	"hr-portal/internal/blob"
	"hr-portal/internal/models"
	"hr-portal/internal/services"
	"hr-portal/internal/transport/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestSave_DefaultsEmailToIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.candidates.Save(ctx, f.candidate, &dto.SaveProfileRequest{FullName: "  Jane Doe ", Skills: "Go, SQL"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", c.FullName)
	assert.Equal(t, f.candidate.Email, c.Email)

	c, err = f.candidates.Save(ctx, f.candidate, &dto.SaveProfileRequest{FullName: "Jane Doe", Email: "jane.doe@work.test"})
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@work.test", c.Email)
	assert.Empty(t, c.Skills)
}

func TestSave_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.candidates.Save(ctx, f.recruiter, &dto.SaveProfileRequest{FullName: "Rita"})
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = f.candidates.Save(ctx, f.candidate, &dto.SaveProfileRequest{})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = f.candidates.Save(ctx, f.candidate, &dto.SaveProfileRequest{FullName: "Jane", Email: "nope"})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestGetProfile_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.candidates.Save(ctx, f.candidate, &dto.SaveProfileRequest{FullName: "Jane Doe"})
	require.NoError(t, err)

	_, err = f.candidates.Get(ctx, f.candidate, f.candidate.ID)
	require.NoError(t, err)
	_, err = f.candidates.Get(ctx, f.recruiter, f.candidate.ID)
	require.NoError(t, err)
	_, err = f.candidates.Get(ctx, candidatePrincipal(), f.candidate.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
	_, err = f.candidates.Get(ctx, f.recruiter, f.recruiter.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestResume_UploadAndRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.candidates.UploadResume(ctx, f.candidate, &blob.File{Name: "cv.txt", Content: bytes.NewBufferString("plain")})
	assert.ErrorIs(t, err, services.ErrValidation)

	c, err := f.candidates.UploadResume(ctx, f.candidate, &blob.File{Name: "../My CV.pdf", Content: bytes.NewBufferString("%PDF-1.4")})
	require.NoError(t, err)
	assert.Equal(t, "My CV.pdf", c.ResumeName)
	assert.Equal(t, "/files/resumes/"+f.candidate.ID.String()+"/My%20CV.pdf", c.ResumeURL)
	assert.Equal(t, f.candidate.Email, c.Email, "profile created on first upload")

	obj, err := f.blobs.Open(blob.BucketResumes, f.candidate.ID.String()+"/My CV.pdf")
	require.NoError(t, err)
	obj.Close()

	c, err = f.candidates.RemoveResume(ctx, f.candidate)
	require.NoError(t, err)
	assert.Empty(t, c.ResumeURL)
	assert.Empty(t, c.ResumeName)

	_, err = f.blobs.Open(blob.BucketResumes, f.candidate.ID.String()+"/My CV.pdf")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestAvatar_ReplacesPrevious(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.candidates.UploadAvatar(ctx, f.candidate, &blob.File{Name: "me.png", Size: int64(len(pngHeader)), Content: bytes.NewReader(pngHeader)})
	require.NoError(t, err)
	require.NotEmpty(t, first.AvatarURL)
	firstPath, ok := f.blobs.ObjectPath(blob.BucketAvatars, first.AvatarURL)
	require.True(t, ok)
	assert.Equal(t, "png", blob.Extension(firstPath))

	second, err := f.candidates.UploadAvatar(ctx, f.candidate, &blob.File{Name: "me.png", Size: int64(len(pngHeader)), Content: bytes.NewReader(pngHeader)})
	require.NoError(t, err)
	assert.NotEqual(t, first.AvatarURL, second.AvatarURL)

	_, err = f.blobs.Open(blob.BucketAvatars, firstPath)
	assert.ErrorIs(t, err, blob.ErrNotFound)

	cleared, err := f.candidates.RemoveAvatar(ctx, f.candidate)
	require.NoError(t, err)
	assert.Empty(t, cleared.AvatarURL)
}

func TestAvatar_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.candidates.UploadAvatar(ctx, f.candidate, &blob.File{Name: "me.png", Content: bytes.NewBufferString("just some text")})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = f.candidates.UploadAvatar(ctx, f.candidate, &blob.File{Name: "me.png", Size: services.MaxAvatarBytes + 1, Content: bytes.NewReader(pngHeader)})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = f.candidates.UploadAvatar(ctx, f.recruiter, &blob.File{Name: "me.png", Content: bytes.NewReader(pngHeader)})
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestProfileCompletion(t *testing.T) {
	empty := services.ProfileCompletion(&models.Candidate{})
	assert.Equal(t, 0, empty.Percent)
	assert.Len(t, empty.Missing, 7)

	partial := services.ProfileCompletion(&models.Candidate{FullName: "Jane", Email: "jane@example.com", Phone: " "})
	assert.Equal(t, 28, partial.Percent)
	assert.Contains(t, partial.Missing, "phone")
	assert.Contains(t, partial.Missing, "resume")

	full := services.ProfileCompletion(&models.Candidate{
		FullName: "Jane", Email: "jane@example.com", Phone: "555", Education: "BSc",
		Experience: "5y", Skills: "Go", ResumeURL: "/files/resumes/x/cv.pdf",
	})
	assert.Equal(t, 100, full.Percent)
	assert.Empty(t, full.Missing)
}

func TestCompletion_WithoutProfile(t *testing.T) {
	f := newFixture(t)
	completion, err := f.candidates.Completion(context.Background(), f.candidate)
	require.NoError(t, err)
	assert.Equal(t, 0, completion.Percent)
}

func TestListCandidates_RecruitersOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.candidates.Save(ctx, f.candidate, &dto.SaveProfileRequest{FullName: "Jane Doe"})
	require.NoError(t, err)

	list, err := f.candidates.List(ctx, f.recruiter)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.candidates.List(ctx, f.candidate)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

package handlers

import (
	"context"
	"net/http"

	"hr-portal/internal/blob"
	"hr-portal/internal/models"
	"hr-portal/internal/services"
	"hr-portal/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const uploadField = "file"

// CandidateHandler holds dependencies for profile operations.
type CandidateHandler struct {
	service        services.CandidateService
	validator      *validator.Validate
	maxUploadBytes int64
}

// NewCandidateHandler creates a new CandidateHandler.
func NewCandidateHandler(service services.CandidateService, validate *validator.Validate, maxUploadBytes int64) *CandidateHandler {
	return &CandidateHandler{
		service:        service,
		validator:      validate,
		maxUploadBytes: maxUploadBytes,
	}
}

// ListCandidates godoc
// @Summary      List candidate profiles
// @Tags         candidates
// @Produce      json
// @Success      200 {array}   dto.CandidateResponse
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Recruiters only"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /candidates [get]
// @Security     BearerAuth
func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	candidates, err := h.service.List(c.Request.Context(), p)
	if err != nil {
		respondError(c, err, "Failed to list candidates")
		return
	}
	resp := make([]dto.CandidateResponse, 0, len(candidates))
	for i := range candidates {
		resp = append(resp, MapCandidateModelToResponse(&candidates[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetMyProfile godoc
// @Summary      Get the caller's profile
// @Tags         candidates
// @Produce      json
// @Success      200 {object}  dto.CandidateResponse
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      404 {object}  map[string]string "Profile not created yet"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /candidates/me [get]
// @Security     BearerAuth
func (h *CandidateHandler) GetMyProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	h.writeProfile(c, p, p.ID)
}

// GetCandidate godoc
// @Summary      Get a candidate profile
// @Description  Recruiters may view any profile; candidates only their own.
// @Tags         candidates
// @Produce      json
// @Param        id path      string true "Candidate user ID" Format(uuid)
// @Success      200 {object}  dto.CandidateResponse
// @Failure      400 {object}  map[string]string "Invalid ID format"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Forbidden"
// @Failure      404 {object}  map[string]string "Profile Not Found"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /candidates/{id} [get]
// @Security     BearerAuth
func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "id", "candidate")
	if !ok {
		return
	}
	h.writeProfile(c, p, userID)
}

func (h *CandidateHandler) writeProfile(c *gin.Context, p models.Principal, userID uuid.UUID) {
	profile, err := h.service.Get(c.Request.Context(), p, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve profile")
		return
	}
	c.JSON(http.StatusOK, MapCandidateModelToResponse(profile))
}

// SaveMyProfile godoc
// @Summary      Create or update the caller's profile
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        profile body      dto.SaveProfileRequest true "Profile fields"
// @Success      200 {object}  dto.CandidateResponse
// @Failure      400 {object}  map[string]string "Bad Request - Invalid input"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Candidates only"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /candidates/me [put]
// @Security     BearerAuth
func (h *CandidateHandler) SaveMyProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req dto.SaveProfileRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	profile, err := h.service.Save(c.Request.Context(), p, &req)
	if err != nil {
		respondError(c, err, "Failed to save profile")
		return
	}
	c.JSON(http.StatusOK, MapCandidateModelToResponse(profile))
}

// GetMyCompletion godoc
// @Summary      Profile completion
// @Description  Percentage of the seven profile fields that are filled in, with the missing ones.
// @Tags         candidates
// @Produce      json
// @Success      200 {object}  dto.ProfileCompletion
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Candidates only"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /candidates/me/completion [get]
// @Security     BearerAuth
func (h *CandidateHandler) GetMyCompletion(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	completion, err := h.service.Completion(c.Request.Context(), p)
	if err != nil {
		respondError(c, err, "Failed to compute profile completion")
		return
	}
	c.JSON(http.StatusOK, completion)
}

// UploadResume godoc
// @Summary      Upload the caller's resume
// @Tags         candidates
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData  file true "PDF, DOC or DOCX resume"
// @Success      200 {object}  dto.CandidateResponse
// @Failure      400 {object}  map[string]string "Missing or unsupported file"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Candidates only"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /candidates/me/resume [post]
// @Security     BearerAuth
func (h *CandidateHandler) UploadResume(c *gin.Context) {
	h.upload(c, "resume", h.service.UploadResume)
}

// DeleteResume godoc
// @Summary      Remove the caller's resume
// @Tags         candidates
// @Produce      json
// @Success      200 {object}  dto.CandidateResponse
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      404 {object}  map[string]string "Profile Not Found"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /candidates/me/resume [delete]
// @Security     BearerAuth
func (h *CandidateHandler) DeleteResume(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	profile, err := h.service.RemoveResume(c.Request.Context(), p)
	if err != nil {
		respondError(c, err, "Failed to remove resume")
		return
	}
	c.JSON(http.StatusOK, MapCandidateModelToResponse(profile))
}

// UploadAvatar godoc
// @Summary      Upload the caller's profile picture
// @Tags         candidates
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData  file true "Image, at most 2 MiB"
// @Success      200 {object}  dto.CandidateResponse
// @Failure      400 {object}  map[string]string "Missing, oversized or non-image file"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Candidates only"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /candidates/me/avatar [post]
// @Security     BearerAuth
func (h *CandidateHandler) UploadAvatar(c *gin.Context) {
	h.upload(c, "avatar", h.service.UploadAvatar)
}

// DeleteAvatar godoc
// @Summary      Remove the caller's profile picture
// @Tags         candidates
// @Produce      json
// @Success      200 {object}  dto.CandidateResponse
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      404 {object}  map[string]string "Profile Not Found"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /candidates/me/avatar [delete]
// @Security     BearerAuth
func (h *CandidateHandler) DeleteAvatar(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	profile, err := h.service.RemoveAvatar(c.Request.Context(), p)
	if err != nil {
		respondError(c, err, "Failed to remove avatar")
		return
	}
	c.JSON(http.StatusOK, MapCandidateModelToResponse(profile))
}

type uploadFunc func(ctx context.Context, p models.Principal, file *blob.File) (*models.Candidate, error)

func (h *CandidateHandler) upload(c *gin.Context, kind string, store uploadFunc) {
	p, ok := principal(c)
	if !ok {
		return
	}
	file, closeFile, err := formFile(c, uploadField, h.maxUploadBytes)
	if err != nil {
		log.Printf("Error reading %s upload: %v", kind, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + kind + " upload"})
		return
	}
	defer closeFile()
	if file == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	profile, err := store(c.Request.Context(), p, file)
	if err != nil {
		respondError(c, err, "Failed to upload "+kind)
		return
	}
	c.JSON(http.StatusOK, MapCandidateModelToResponse(profile))
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"hr-portal/internal/blob"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// FileHandler serves objects of the local blob store.
type FileHandler struct {
	blobs blob.Store
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(blobs blob.Store) *FileHandler {
	return &FileHandler{blobs: blobs}
}

// ServeFile godoc
// @Summary      Download an uploaded file
// @Tags         files
// @Produce      octet-stream
// @Param        bucket path string true "resumes, avatars or cover_letters"
// @Param        path   path string true "Object path"
// @Success      200 {file}    binary
// @Failure      404 {object}  map[string]string "File Not Found"
// @Router       /files/{bucket}/{path} [get]
func (h *FileHandler) ServeFile(c *gin.Context) {
	bucket := c.Param("bucket")
	objectPath := strings.TrimPrefix(c.Param("path"), "/")

	obj, err := h.blobs.Open(bucket, objectPath)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) || errors.Is(err, blob.ErrInvalidPath) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		log.Printf("Error opening %s/%s: %v", bucket, objectPath, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		log.Printf("Error reading %s/%s: %v", bucket, objectPath, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	c.Header("X-Content-Type-Options", "nosniff")
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), obj)
}

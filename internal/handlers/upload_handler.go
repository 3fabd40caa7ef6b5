package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/01moynul/lumino-partner-portal/internal/fetch"
	"github.com/01moynul/lumino-partner-portal/internal/models"
	"github.com/01moynul/lumino-partner-portal/internal/storage"
	"github.com/gin-gonic/gin"
)

// UploadInput is a base64 document from the wizard.
type UploadInput struct {
	FileContent string `json:"fileContent" binding:"required"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Email       string `json:"email"`
}

// UploadFile handles POST /v1/uploads
// It stores the document under the partner's folder and returns its public URL.
func (h *Handlers) UploadFile(c *gin.Context) {
	state := models.UploadIdle

	// 1. --- Bind & Validate JSON ---
	var input UploadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err, "Missing required fields")
		return
	}
	state, _ = state.Transition(models.UploadUploading)

	fail := func(status int, err error, message string) {
		state, _ = state.Transition(models.UploadError)
		logFailure(c, status, err, message)
		body := failure(message)
		body["status"] = state
		c.JSON(status, body)
	}

	// 2. --- Decode ---
	data, err := storage.DecodeBase64(input.FileContent)
	if errors.Is(err, storage.ErrTooLarge) {
		fail(http.StatusBadRequest, err, "File size exceeds 10MB limit")
		return
	}
	if err != nil {
		fail(http.StatusBadRequest, err, "File content is not valid base64")
		return
	}

	// 3. --- Store ---
	key := storage.ObjectKey(input.Email, input.Filename, h.now())
	url, err := h.Files.Put(c.Request.Context(), key, data, input.ContentType)
	if err != nil {
		fail(http.StatusInternalServerError, err, "Upload failed")
		return
	}
	state, _ = state.Transition(models.UploadSuccess)

	// 4. --- Return the Public URL ---
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"url":      url,
		"filename": key,
		"status":   state,
	})
}

// Download handles GET /v1/download?url=&filename=
// It proxies a stored document so the browser saves it under filename.
func (h *Handlers) Download(c *gin.Context) {
	src := c.Query("url")
	if src == "" {
		respondError(c, http.StatusBadRequest, nil, "Missing file URL")
		return
	}
	filename := strings.TrimSpace(c.DefaultQuery("filename", "download"))
	if filename == "" {
		filename = "download"
	}

	// Only hosts the fetcher was configured with are reachable, so this
	// cannot be used to probe internal addresses.
	file, err := h.Fetcher.Fetch(c.Request.Context(), src)
	if errors.Is(err, fetch.ErrHostNotAllowed) {
		respondError(c, http.StatusForbidden, err, "File URL is not allowed")
		return
	}
	if errors.Is(err, fetch.ErrTooLarge) {
		respondError(c, http.StatusRequestEntityTooLarge, err, "File is too large")
		return
	}
	if err != nil {
		respondError(c, http.StatusBadGateway, err, "Failed to fetch file")
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/stemsi/transfer-backend/internal/response"
	"github.com/stemsi/transfer-backend/internal/service"
	"github.com/stemsi/transfer-backend/internal/validator"
)

// TranscriptHandler serves a student's completed course list.
type TranscriptHandler struct {
	transcriptService *service.TranscriptService
	maxImportBytes    int64
	log               zerolog.Logger
}

// NewTranscriptHandler creates a new TranscriptHandler.
func NewTranscriptHandler(transcriptService *service.TranscriptService, maxImportBytes int64, log zerolog.Logger) *TranscriptHandler {
	return &TranscriptHandler{
		transcriptService: transcriptService,
		maxImportBytes:    maxImportBytes,
		log:               log.With().Str("component", "transcript_handler").Logger(),
	}
}

// Get godoc
// GET /api/v1/students/:email/transcript
func (h *TranscriptHandler) Get(c *gin.Context) {
	transcript, err := h.transcriptService.Get(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"courses": transcript})
}

// Replace godoc
// PUT /api/v1/students/:email/transcript
// Replaces the whole course list.
func (h *TranscriptHandler) Replace(c *gin.Context) {
	var req model.ReplaceTranscriptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	transcript, err := h.transcriptService.Replace(c.Request.Context(), c.Param("email"), req.Courses)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"courses": transcript})
}

// Import godoc
// POST /api/v1/students/:email/transcript/import
// Replaces the course list from an uploaded .xlsx workbook (form field "file").
func (h *TranscriptHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImportBytes+1<<20)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		return
	}
	if header.Size > h.maxImportBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}

	transcript, err := h.transcriptService.Import(c.Request.Context(), c.Param("email"), file)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info().
		Str("file", header.Filename).
		Int("courses", len(transcript)).
		Msg("Transcript imported")
	response.Success(c, http.StatusOK, gin.H{"courses": transcript})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/stemsi/transfer-backend/internal/response"
	"github.com/stemsi/transfer-backend/internal/service"
	"github.com/stemsi/transfer-backend/internal/validator"
)

// StudentHandler serves student profiles and transfer targets.
type StudentHandler struct {
	studentService *service.StudentService
	log            zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		log:            log.With().Str("component", "student_handler").Logger(),
	}
}

// Register godoc
// POST /api/v1/students
// Creates a student profile.
func (h *StudentHandler) Register(c *gin.Context) {
	var req model.RegisterStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// Get godoc
// GET /api/v1/students/:email
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.studentService.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// Update godoc
// PUT /api/v1/students/:email
// Edits name, declared major and community college.
func (h *StudentHandler) Update(c *gin.Context) {
	var req model.UpdateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), c.Param("email"), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// SelectTarget godoc
// POST /api/v1/students/:email/target
// Picks the transfer campus and optionally a major other than the declared one.
func (h *StudentHandler) SelectTarget(c *gin.Context) {
	var req model.SelectTargetRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.SelectTarget(c.Request.Context(), c.Param("email"), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": student})
}

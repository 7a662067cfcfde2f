package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/stemsi/transfer-backend/internal/response"
	"github.com/stemsi/transfer-backend/internal/service"
	"github.com/stemsi/transfer-backend/internal/validator"
)

// EligibilityHandler runs verifications and serves stored reports, receipts
// and advisor summaries.
type EligibilityHandler struct {
	eligibilityService *service.EligibilityService
	receiptService     *service.ReceiptService
	advisorService     *service.AdvisorService
	log                zerolog.Logger
}

// NewEligibilityHandler creates a new EligibilityHandler.
func NewEligibilityHandler(
	eligibilityService *service.EligibilityService,
	receiptService *service.ReceiptService,
	advisorService *service.AdvisorService,
	log zerolog.Logger,
) *EligibilityHandler {
	return &EligibilityHandler{
		eligibilityService: eligibilityService,
		receiptService:     receiptService,
		advisorService:     advisorService,
		log:                log.With().Str("component", "eligibility_handler").Logger(),
	}
}

// Verify godoc
// POST /api/v1/students/:email/verify
// Evaluates the transcript against the selected target and stores a new
// report version.
func (h *EligibilityHandler) Verify(c *gin.Context) {
	rec, err := h.eligibilityService.Verify(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": rec})
}

// Results godoc
// GET /api/v1/students/:email/results
func (h *EligibilityHandler) Results(c *gin.Context) {
	rec, err := h.eligibilityService.Results(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": rec})
}

// History godoc
// GET /api/v1/students/:email/results/history?limit=
func (h *EligibilityHandler) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"limit": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	history, err := h.eligibilityService.History(c.Request.Context(), c.Param("email"), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if limit == 0 {
		limit = service.DefaultHistoryLimit
	}
	if limit > service.MaxHistoryLimit {
		limit = service.MaxHistoryLimit
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"versions": history}, &response.Pagination{
		Limit:    limit,
		Returned: len(history),
	})
}

// IssueReceipt godoc
// POST /api/v1/students/:email/results/receipt
// Signs a shareable receipt for the latest report.
func (h *EligibilityHandler) IssueReceipt(c *gin.Context) {
	receipt, err := h.receiptService.Issue(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"receipt": receipt})
}

// VerifyReceipt godoc
// POST /api/v1/receipts/verify
func (h *EligibilityHandler) VerifyReceipt(c *gin.Context) {
	var req model.VerifyReceiptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	verification, err := h.receiptService.Verify(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"receipt": verification})
}

// AdvisorSummary godoc
// POST /api/v1/students/:email/advisor-summary
// Explains the latest report in plain language.
func (h *EligibilityHandler) AdvisorSummary(c *gin.Context) {
	summary, err := h.advisorService.Summarize(c.Request.Context(), c.Param("email"))
	if err != nil {
		if isGenerationFailure(err) {
			h.log.Error().Err(err).Msg("Advisor summary failed")
			response.Fail(c, http.StatusBadGateway, response.ErrAdvisorFailed)
			return
		}
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"advisor": summary})
}

func isGenerationFailure(err error) bool {
	var genErr *service.GenerationError
	return errors.As(err, &genErr)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/transfer-backend/internal/catalog"
	"github.com/stemsi/transfer-backend/internal/response"
	"github.com/stemsi/transfer-backend/internal/service"
)

// CatalogHandler exposes the read-only requirement data.
type CatalogHandler struct {
	catalog service.RequirementCatalog
	log     zerolog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cat service.RequirementCatalog, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: cat,
		log:     log.With().Str("component", "catalog_handler").Logger(),
	}
}

// Colleges godoc
// GET /api/v1/catalog/colleges
func (h *CatalogHandler) Colleges(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"colleges": h.catalog.Colleges()})
}

// Campuses godoc
// GET /api/v1/catalog/campuses
// Lists every campus; only available ones can be selected as a target.
func (h *CatalogHandler) Campuses(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"campuses": h.catalog.Campuses()})
}

// Majors godoc
// GET /api/v1/catalog/:university/majors
func (h *CatalogHandler) Majors(c *gin.Context) {
	majors, err := h.catalog.Majors(c.Param("university"))
	if err != nil {
		h.catalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"majors": majors})
}

// Profile godoc
// GET /api/v1/catalog/:university/majors/:major
// Returns the full requirement profile of one major.
func (h *CatalogHandler) Profile(c *gin.Context) {
	profile, err := h.catalog.Profile(c.Param("university"), c.Param("major"))
	if err != nil {
		h.catalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

func (h *CatalogHandler) catalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrUniversityNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrCampusUnavailable)
	case errors.Is(err, catalog.ErrProfileNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrMajorUnsupported)
	default:
		respondError(c, h.log, err)
	}
}

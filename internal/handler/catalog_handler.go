package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lernfeld/semesterplan-api/internal/models"
	"github.com/lernfeld/semesterplan-api/pkg/response"
)

// CatalogServiceAPI is the master data surface consumed by the handler.
type CatalogServiceAPI interface {
	Areas(ctx context.Context) ([]models.Area, error)
	AreaBySlug(ctx context.Context, slug string) (*models.Area, error)
	ClassesByArea(ctx context.Context, areaID string) ([]models.Class, error)
	Subjects(ctx context.Context) ([]models.Subject, error)
	TimeSpans(ctx context.Context) ([]models.TimeSpan, error)
}

// CatalogHandler exposes the master data read endpoints.
type CatalogHandler struct {
	catalog CatalogServiceAPI
}

// NewCatalogHandler constructs a catalog handler.
func NewCatalogHandler(catalog CatalogServiceAPI) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Areas godoc
// @Summary List areas
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /areas [get]
func (h *CatalogHandler) Areas(c *gin.Context) {
	areas, err := h.catalog.Areas(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, areas)
}

// Area godoc
// @Summary Get one area by id or route name
// @Tags Catalog
// @Produce json
// @Param slug path string true "Area id or route name"
// @Success 200 {object} response.Envelope
// @Router /areas/{slug} [get]
func (h *CatalogHandler) Area(c *gin.Context) {
	area, err := h.catalog.AreaBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, area)
}

// Classes godoc
// @Summary List classes of one area
// @Tags Catalog
// @Produce json
// @Param slug path string true "Area id or route name"
// @Success 200 {object} response.Envelope
// @Router /areas/{slug}/classes [get]
func (h *CatalogHandler) Classes(c *gin.Context) {
	area, err := h.catalog.AreaBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	classes, err := h.catalog.ClassesByArea(c.Request.Context(), area.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes)
}

// Subjects godoc
// @Summary List subjects
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *CatalogHandler) Subjects(c *gin.Context) {
	subjects, err := h.catalog.Subjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects)
}

// TimeSpans godoc
// @Summary List semesters
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timespans [get]
func (h *CatalogHandler) TimeSpans(c *gin.Context) {
	spans, err := h.catalog.TimeSpans(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, spans)
}

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/waveriff/waveriff/internal/catalog"
	"github.com/waveriff/waveriff/internal/models"
	"github.com/waveriff/waveriff/internal/repositories"
)

// CatalogHandler registers and serves locally referenced catalog items.
// The external catalog client is optional; without it, resolve requests
// must carry their own metadata.
type CatalogHandler struct {
	catalogRepository repositories.CatalogRepository
	reviewRepository  repositories.ReviewRepository
	client            catalog.Client // optional
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogRepo repositories.CatalogRepository, reviewRepo repositories.ReviewRepository, client catalog.Client) *CatalogHandler {
	return &CatalogHandler{
		catalogRepository: catalogRepo,
		reviewRepository:  reviewRepo,
		client:            client,
	}
}

// RegisterCatalogRoutes registers catalog item routes
func (h *CatalogHandler) RegisterCatalogRoutes(g *echo.Group) {
	g.GET("/items/:id", h.GetItem)
	g.GET("/items/:id/reviews", h.GetItemReviews)
	g.POST("/items/resolve", h.ResolveItem)
}

// GetItem returns a catalog item with its rating aggregates
func (h *CatalogHandler) GetItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	item, err := h.catalogRepository.GetItemByID(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": item, "average_rating": item.AverageRating()})
}

// GetItemReviews returns one page of an item's reviews, newest first
func (h *CatalogHandler) GetItemReviews(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	page, limit := parsePagination(c)

	ctx := c.Request().Context()
	if _, err := h.catalogRepository.GetItemByID(ctx, id); err != nil {
		return respondError(err)
	}

	reviews, total, err := h.reviewRepository.GetReviewsByItemID(ctx, id, (page-1)*limit, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respondPage(c, reviews, page, limit, total)
}

// ResolveItem registers a local row for an external catalog reference
func (h *CatalogHandler) ResolveItem(c echo.Context) error {
	var req models.ResolveItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	item := &models.CatalogItem{
		Kind:       req.Kind,
		ExternalID: req.ExternalID,
		Name:       req.Name,
		ArtistName: req.ArtistName,
	}

	if h.client != nil && item.Name == "" {
		info, err := h.client.Lookup(ctx, req.Kind, req.ExternalID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadGateway, "Catalog lookup failed")
		}
		item.Name = info.Name
		item.ArtistName = info.ArtistName
	}
	if item.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Item name required when no catalog client is configured")
	}

	if err := h.catalogRepository.FindOrCreateItem(ctx, item); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, item)
}

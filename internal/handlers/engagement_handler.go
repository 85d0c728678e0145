package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/waveriff/waveriff/internal/models"
	"github.com/waveriff/waveriff/internal/services"
)

// EngagementHandler exposes upvotes and ratings over HTTP
type EngagementHandler struct {
	engagement *services.EngagementService
}

// NewEngagementHandler creates a new EngagementHandler
func NewEngagementHandler(engagement *services.EngagementService) *EngagementHandler {
	return &EngagementHandler{engagement: engagement}
}

// RegisterEngagementRoutes registers upvote and rating routes
func (h *EngagementHandler) RegisterEngagementRoutes(g *echo.Group) {
	g.POST("/posts/:id/upvote", h.upvote(models.TargetPost))
	g.DELETE("/posts/:id/upvote", h.removeUpvote(models.TargetPost))
	g.POST("/comments/:id/upvote", h.upvote(models.TargetComment))
	g.DELETE("/comments/:id/upvote", h.removeUpvote(models.TargetComment))
	g.POST("/reviews/:id/upvote", h.upvote(models.TargetReview))
	g.DELETE("/reviews/:id/upvote", h.removeUpvote(models.TargetReview))
	g.PUT("/items/:id/rating", h.RateItem)
	g.DELETE("/items/:id/rating", h.RemoveRating)
}

// upvote registers an upvote on a post, comment or review
func (h *EngagementHandler) upvote(targetType string) echo.HandlerFunc {
	return func(c echo.Context) error {
		targetID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		err = h.engagement.Upvote(c.Request().Context(), getUserIDFromContext(c), targetType, targetID)
		if err != nil {
			return respondError(err)
		}
		return c.JSON(http.StatusCreated, echo.Map{"success": true})
	}
}

// removeUpvote removes the authenticated user's upvote
func (h *EngagementHandler) removeUpvote(targetType string) echo.HandlerFunc {
	return func(c echo.Context) error {
		targetID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		err = h.engagement.RemoveUpvote(c.Request().Context(), getUserIDFromContext(c), targetType, targetID)
		if err != nil {
			return respondError(err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	}
}

// RateItem upserts the authenticated user's rating of a catalog item
func (h *EngagementHandler) RateItem(c echo.Context) error {
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.RateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	review, err := h.engagement.RateOrReview(c.Request().Context(), getUserIDFromContext(c), itemID, req.Rating, req.Title, req.Body)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, review)
}

// RemoveRating removes the authenticated user's rating of a catalog item
func (h *EngagementHandler) RemoveRating(c echo.Context) error {
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	err = h.engagement.RemoveRating(c.Request().Context(), getUserIDFromContext(c), itemID)
	if err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

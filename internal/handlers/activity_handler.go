package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/waveriff/waveriff/internal/services"
)

// ActivityHandler handles the followed-accounts review stream
type ActivityHandler struct {
	activityService *services.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// RegisterActivityRoutes registers activity routes
func (h *ActivityHandler) RegisterActivityRoutes(g *echo.Group) {
	g.GET("/activity", h.GetActivity)
}

// GetActivity returns reviews from accounts the viewer follows
func (h *ActivityHandler) GetActivity(c echo.Context) error {
	page, limit := parsePagination(c)

	items, total, err := h.activityService.ComposeActivity(c.Request().Context(), getUserIDFromContext(c), page, limit)
	if err != nil {
		return respondError(err)
	}
	return respondPage(c, items, page, limit, total)
}

package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/waveriff/waveriff/internal/repositories"
	"github.com/waveriff/waveriff/internal/services"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// RegisterFeedRoutes registers authenticated feed routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/communities/:id/feed", h.GetCommunityFeed)
}

// RegisterPublicFeedRoutes registers feed routes served without auth
func (h *FeedHandler) RegisterPublicFeedRoutes(g *echo.Group) {
	g.GET("/feeds/tagged/:tag", h.GetTaggedFeed)
}

// GetFeed returns the viewer's home feed
func (h *FeedHandler) GetFeed(c echo.Context) error {
	page, limit := parsePagination(c)
	filter := c.QueryParam("filter")
	if filter == "" {
		filter = services.FilterAll
	}
	sort := c.QueryParam("sort")
	if sort == "" {
		sort = repositories.SortLatest
	}

	items, total, err := h.feedService.ComposeFeed(c.Request().Context(), getUserIDFromContext(c), filter, sort, page, limit)
	if err != nil {
		return respondError(err)
	}
	return respondPage(c, items, page, limit, total)
}

// GetCommunityFeed returns one community's feed
func (h *FeedHandler) GetCommunityFeed(c echo.Context) error {
	communityID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	page, limit := parsePagination(c)
	sort := c.QueryParam("sort")
	if sort == "" {
		sort = repositories.SortLatest
	}

	items, total, err := h.feedService.ComposeCommunityFeed(c.Request().Context(), getUserIDFromContext(c), communityID, sort, page, limit)
	if err != nil {
		return respondError(err)
	}
	return respondPage(c, items, page, limit, total)
}

// GetTaggedFeed returns a public tagged feed; no authentication required
func (h *FeedHandler) GetTaggedFeed(c echo.Context) error {
	page, limit := parsePagination(c)
	sort := c.QueryParam("sort")
	if sort == "" {
		sort = repositories.SortLatest
	}

	items, total, err := h.feedService.ComposeTaggedFeed(c.Request().Context(), c.Param("tag"), sort, page, limit)
	if err != nil {
		return respondError(err)
	}
	return respondPage(c, items, page, limit, total)
}

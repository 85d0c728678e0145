package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/waveriff/waveriff/internal/cache"
	"github.com/waveriff/waveriff/internal/models"
	"github.com/waveriff/waveriff/internal/repositories"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	postRepository      repositories.PostRepository
	communityRepository repositories.CommunityRepository
	upvoteRepository    repositories.UpvoteRepository
	feedCache           cache.FeedCache // optional
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, communityRepo repositories.CommunityRepository, upvoteRepo repositories.UpvoteRepository, feedCache cache.FeedCache) *PostHandler {
	return &PostHandler{
		postRepository:      postRepo,
		communityRepository: communityRepo,
		upvoteRepository:    upvoteRepo,
		feedCache:           feedCache,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if req.CommunityID != nil {
		if _, err := h.communityRepository.GetCommunityByID(ctx, *req.CommunityID); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Community not found")
		}
	}

	post := &models.Post{
		AuthorID:    getUserIDFromContext(c),
		CommunityID: req.CommunityID,
		Title:       req.Title,
		LinkURL:     req.LinkURL,
		Body:        req.Body,
		IsFresh:     req.IsFresh,
	}
	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// New posts change the discovery feed.
	if h.feedCache != nil {
		h.feedCache.InvalidateGlobal(ctx)
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost returns a single post with the viewer's upvote status
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, id)
	if err != nil {
		return respondError(err)
	}

	hasUpvoted := false
	if viewerID := getUserIDFromContext(c); viewerID != 0 {
		hasUpvoted, _ = h.upvoteRepository.HasUpvoted(ctx, viewerID, models.TargetPost, id)
	}

	return c.JSON(http.StatusOK, echo.Map{"post": post, "has_upvoted": hasUpvoted})
}

// DeletePost deletes a post owned by the authenticated user
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, id)
	if err != nil {
		return respondError(err)
	}
	if post.AuthorID != getUserIDFromContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	if err := h.postRepository.DeletePost(ctx, id); err != nil {
		return respondError(err)
	}
	if h.feedCache != nil {
		h.feedCache.InvalidateGlobal(ctx)
	}
	return c.NoContent(http.StatusNoContent)
}

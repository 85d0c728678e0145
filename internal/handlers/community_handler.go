package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/waveriff/waveriff/internal/models"
	"github.com/waveriff/waveriff/internal/repositories"
)

// CommunityHandler handles community and membership HTTP requests
type CommunityHandler struct {
	communityRepository repositories.CommunityRepository
}

// NewCommunityHandler creates a new CommunityHandler
func NewCommunityHandler(communityRepo repositories.CommunityRepository) *CommunityHandler {
	return &CommunityHandler{communityRepository: communityRepo}
}

// RegisterCommunityRoutes registers community-related routes
func (h *CommunityHandler) RegisterCommunityRoutes(g *echo.Group) {
	g.POST("/communities", h.CreateCommunity)
	g.GET("/communities/:id", h.GetCommunity)
	g.POST("/communities/:id/join", h.JoinCommunity)
	g.DELETE("/communities/:id/join", h.LeaveCommunity)
}

// CreateCommunity creates a community; the creator becomes its moderator
func (h *CommunityHandler) CreateCommunity(c echo.Context) error {
	var req models.CreateCommunityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	currentUserID := getUserIDFromContext(c)
	community := &models.Community{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   currentUserID,
	}
	if err := h.communityRepository.CreateCommunity(community); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "Community name already taken")
	}

	membership := &models.CommunityMembership{
		UserID:      currentUserID,
		CommunityID: community.ID,
		Role:        models.RoleModerator,
	}
	if err := h.communityRepository.CreateMembership(membership); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, community)
}

// GetCommunity returns a community
func (h *CommunityHandler) GetCommunity(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	community, err := h.communityRepository.GetCommunityByID(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, community)
}

// JoinCommunity adds the authenticated user as a member
func (h *CommunityHandler) JoinCommunity(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.communityRepository.GetCommunityByID(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Community not found")
	}

	currentUserID := getUserIDFromContext(c)
	isMember, err := h.communityRepository.IsMember(currentUserID, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if isMember {
		return echo.NewHTTPError(http.StatusConflict, "Already a member of this community")
	}

	membership := &models.CommunityMembership{
		UserID:      currentUserID,
		CommunityID: id,
		Role:        models.RoleMember,
	}
	if err := h.communityRepository.CreateMembership(membership); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true})
}

// LeaveCommunity removes the authenticated user's membership
func (h *CommunityHandler) LeaveCommunity(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.communityRepository.DeleteMembership(getUserIDFromContext(c), id); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

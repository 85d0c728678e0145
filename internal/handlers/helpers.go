package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/waveriff/waveriff/internal/apperrors"
	"github.com/waveriff/waveriff/internal/models"
	"github.com/waveriff/waveriff/internal/services"
	"gorm.io/gorm"
)

// getUserIDFromContext extracts the authenticated user ID set by the JWT
// middleware, or 0 when the request is unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// parsePagination reads page/limit query parameters with platform defaults.
func parsePagination(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	return services.NormalizePage(page, limit)
}

// pagination is the output envelope's pagination block.
type pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// respondPage writes the standard paginated envelope.
func respondPage(c echo.Context, data interface{}, page, limit int, total int64) error {
	return c.JSON(http.StatusOK, echo.Map{
		"data": data,
		"pagination": pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: services.TotalPages(total, limit),
		},
	})
}

// respondError maps domain errors to transport status codes.
func respondError(err error) error {
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		return echo.NewHTTPError(domainErr.HTTPStatus(), domainErr.Message)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

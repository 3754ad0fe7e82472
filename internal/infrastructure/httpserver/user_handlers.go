package httpserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/chatly/user-service/internal/core/domain/user"
	"github.com/chatly/user-service/internal/infrastructure/httpserver/helpers"
)

func (s *Server) myProfile(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	u, err := s.identitySvc.GetUser(c.Request().Context(), userID)
	if err != nil {
		return s.toHTTPError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Profile fetched successfully",
		"user":    u,
	})
}

func (s *Server) updateName(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req user.UpdateNameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	u, token, err := s.identitySvc.UpdateName(c.Request().Context(), userID, req.Name)
	if err != nil {
		return s.toHTTPError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "User updated successfully",
		"user":    u,
		"token":   token,
	})
}

func (s *Server) listUsers(c echo.Context) error {
	limit := 50
	offset := 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	users, err := s.identitySvc.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		return s.toHTTPError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Users fetched successfully",
		"users":   users,
	})
}

func (s *Server) getUserByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}

	u, err := s.identitySvc.GetUser(c.Request().Context(), id)
	if err != nil {
		return s.toHTTPError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "User fetched successfully",
		"user":    u,
	})
}

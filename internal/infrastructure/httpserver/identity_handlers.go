package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatly/user-service/internal/core/domain/user"
)

func (s *Server) signup(c echo.Context) error {
	var req user.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := s.identitySvc.Signup(c.Request().Context(), &req); err != nil {
		return s.toHTTPError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "OTP sent to your mail successfully",
	})
}

func (s *Server) verifySignupOTP(c echo.Context) error {
	var req user.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.OTP == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and OTP required!")
	}

	u, err := s.identitySvc.VerifySignup(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		return s.toHTTPError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    u,
	})
}

func (s *Server) resendSignupOTP(c echo.Context) error {
	var req user.ResendOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := s.identitySvc.ResendSignupOTP(c.Request().Context(), req.Email); err != nil {
		return s.toHTTPError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "OTP resent to your mail successfully",
	})
}

func (s *Server) login(c echo.Context) error {
	var req user.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	u, token, err := s.identitySvc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.toHTTPError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Logged in successfully",
		"user":    u,
		"token":   token,
	})
}

func (s *Server) forgotPassword(c echo.Context) error {
	var req user.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := s.identitySvc.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return s.toHTTPError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "OTP sent to your mail successfully",
	})
}

func (s *Server) resendForgotOTP(c echo.Context) error {
	var req user.ResendOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := s.identitySvc.ResendForgotOTP(c.Request().Context(), req.Email); err != nil {
		return s.toHTTPError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "OTP resent to your mail successfully",
	})
}

func (s *Server) verifyForgotOTP(c echo.Context) error {
	var req user.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.OTP == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and OTP required!")
	}

	if err := s.identitySvc.VerifyForgotOTP(c.Request().Context(), req.Email, req.OTP); err != nil {
		return s.toHTTPError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "OTP verified. You can now reset your password",
	})
}

func (s *Server) resetPassword(c echo.Context) error {
	var req user.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := s.identitySvc.ResetPassword(c.Request().Context(), &req); err != nil {
		return s.toHTTPError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Password reset successfully",
	})
}

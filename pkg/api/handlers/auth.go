package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/brokerhub/pkg/api/errors"
	"github.com/jordanlanch/brokerhub/pkg/metrics"
	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/session"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	sessions  *session.Service
	metrics   *metrics.Metrics
	validator *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions *session.Service, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		sessions:  sessions,
		metrics:   m,
		validator: validator.New(),
	}
}

// Login authenticates a user with email and password
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	resp, err := h.sessions.Login(c.Request().Context(), req)
	if err != nil {
		h.metrics.RecordLoginAttempt(false)
		return errors.Respond(c, err)
	}

	h.metrics.RecordLoginAttempt(true)
	return c.JSON(http.StatusOK, resp)
}

// Register creates a new user account
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	resp, err := h.sessions.Register(c.Request().Context(), req)
	if err != nil {
		return errors.Respond(c, err)
	}

	h.metrics.RecordUserRegistered()
	return c.JSON(http.StatusCreated, resp)
}

// Me returns the current session user
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.sessions.Current(c.Request().Context())
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// Logout clears the current session
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context()); err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Logged out"})
}

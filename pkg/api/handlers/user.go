package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/brokerhub/pkg/api/errors"
	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

// UserHandler handles team-member endpoints
type UserHandler struct {
	store     *store.Store
	validator *validator.Validate
}

// NewUserHandler creates a new user handler
func NewUserHandler(st *store.Store) *UserHandler {
	return &UserHandler{store: st, validator: validator.New()}
}

// List returns all team members without password hashes
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.store.Users(c.Request().Context())
	if err != nil {
		return errors.Respond(c, err)
	}

	sanitized := make([]models.User, len(users))
	for i, u := range users {
		sanitized[i] = u.Sanitized()
	}
	return c.JSON(http.StatusOK, sanitized)
}

// Get returns one team member by id
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.store.UserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, user.Sanitized())
}

// Update applies a partial update to a team member
func (h *UserHandler) Update(c echo.Context) error {
	var patch models.UserPatch
	if err := c.Bind(&patch); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(patch); err != nil {
		return errors.ValidationError(c, err)
	}

	user, err := h.store.UpdateUser(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, user.Sanitized())
}

// Delete removes a team member
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.store.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

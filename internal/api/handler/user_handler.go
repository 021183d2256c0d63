package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clublink/usersync/internal/core/ports"
)

// UserHandler serves the test-db user resource. All four methods share one
// path; PUT and DELETE select the user with the id query parameter.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List returns every user.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  userListResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/test-db [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Success: true, Data: users, Count: len(users)})
}

// Create adds a user.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      userRequest  true  "User"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/test-db [post]
func (h *UserHandler) Create(c echo.Context) error {
	req, err := bindUser(c)
	if err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), req.toDraft())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{Success: true, Data: user, Message: "User created successfully"})
}

// Update replaces email, role and clerk ID of the user named by ?id=.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    query     string       true  "User ID"
// @Param        body  body      userRequest  true  "User"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/test-db [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}
	req, err := bindUser(c)
	if err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), id, req.toDraft())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Success: true, Data: user, Message: "User updated successfully"})
}

// Delete removes the user named by ?id=.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        id   query     string  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/test-db [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}

	user, err := h.service.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Success: true, Data: user, Message: "User deleted successfully"})
}

func bindUser(c echo.Context) (userRequest, error) {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return req, nil
}

func requireID(c echo.Context) (string, error) {
	id := c.QueryParam("id")
	if id == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "User ID is required")
	}
	return id, nil
}

// errorResponse documents the failure envelope rendered by the API error handler.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

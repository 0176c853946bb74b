package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snimarbadr-source/health-interviews/internal/api/metrics"
	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
	"github.com/snimarbadr-source/health-interviews/internal/core/ports"
)

// UserHandler serves the user administration endpoints.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /v1/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userListResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	actor, err := ctxSession(c)
	if err != nil {
		return err
	}
	rows, err := h.service.ListUsers(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Items: rows, Roles: domain.Roles()})
}

// Add handles POST /v1/users.
//
// @Summary      Add a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addUserRequest  true  "New account"
// @Success      201   {object}  ports.UserRow
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users [post]
func (h *UserHandler) Add(c echo.Context) error {
	actor, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req addUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	row, err := h.service.AddUser(c.Request().Context(), actor, ports.AddUserInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	metrics.AdminOperationsTotal.WithLabelValues("user_add").Inc()
	return c.JSON(http.StatusCreated, row)
}

// ChangeRole handles PATCH /v1/users/:username/role.
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        username  path  string             true  "Username"
// @Param        body      body  changeRoleRequest  true  "New role"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/users/{username}/role [patch]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	actor, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.service.ChangeRole(c.Request().Context(), actor, c.Param("username"), req.Role); err != nil {
		return err
	}

	metrics.AdminOperationsTotal.WithLabelValues("role_change").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/users/:username.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        username  path  string  true  "Username"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{username} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteUser(c.Request().Context(), actor, c.Param("username")); err != nil {
		return err
	}

	metrics.AdminOperationsTotal.WithLabelValues("user_delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

// AuditHandler serves the audit log.
type AuditHandler struct {
	service ports.AuditService
}

func NewAuditHandler(service ports.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List handles GET /v1/audit.
//
// @Summary      Audit log, newest first
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  auditListResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/audit [get]
func (h *AuditHandler) List(c echo.Context) error {
	actor, err := ctxSession(c)
	if err != nil {
		return err
	}
	entries, err := h.service.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, auditListResponse{Items: entries, Count: len(entries)})
}

// Clear handles DELETE /v1/audit.
//
// @Summary      Clear the audit log
// @Tags         audit
// @Security     BearerAuth
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /v1/audit [delete]
func (h *AuditHandler) Clear(c echo.Context) error {
	actor, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.service.Clear(c.Request().Context(), actor); err != nil {
		return err
	}

	metrics.AdminOperationsTotal.WithLabelValues("audit_clear").Inc()
	return c.NoContent(http.StatusNoContent)
}

// FieldHandler serves custom field configuration.
type FieldHandler struct {
	service ports.FieldService
}

func NewFieldHandler(service ports.FieldService) *FieldHandler {
	return &FieldHandler{service: service}
}

// List handles GET /v1/fields.
//
// @Summary      List custom fields
// @Tags         fields
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  fieldListResponse
// @Router       /v1/fields [get]
func (h *FieldHandler) List(c echo.Context) error {
	fields, err := h.service.ListFields(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fieldListResponse{Items: fields})
}

// Create handles POST /v1/fields.
//
// @Summary      Create a custom field
// @Tags         fields
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      fieldRequest  true  "Field definition"
// @Success      201   {object}  domain.CustomField
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/fields [post]
func (h *FieldHandler) Create(c echo.Context) error {
	return h.save(c, "", http.StatusCreated)
}

// Update handles PUT /v1/fields/:key.
//
// @Summary      Update a custom field
// @Tags         fields
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key   path      string        true  "Field key"
// @Param        body  body      fieldRequest  true  "Field definition"
// @Success      200   {object}  domain.CustomField
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/fields/{key} [put]
func (h *FieldHandler) Update(c echo.Context) error {
	return h.save(c, c.Param("key"), http.StatusOK)
}

func (h *FieldHandler) save(c echo.Context, key string, status int) error {
	actor, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req fieldRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	field, err := h.service.SaveField(c.Request().Context(), actor, ports.FieldInput{
		Key:     key,
		Label:   req.Label,
		Type:    req.Type,
		Options: req.Options,
	})
	if err != nil {
		return err
	}

	metrics.AdminOperationsTotal.WithLabelValues("field_save").Inc()
	return c.JSON(status, field)
}

// Delete handles DELETE /v1/fields/:key.
//
// @Summary      Delete a custom field
// @Tags         fields
// @Security     BearerAuth
// @Param        key  path  string  true  "Field key"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/fields/{key} [delete]
func (h *FieldHandler) Delete(c echo.Context) error {
	actor, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteField(c.Request().Context(), actor, c.Param("key")); err != nil {
		return err
	}

	metrics.AdminOperationsTotal.WithLabelValues("field_delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/snimarbadr-source/health-interviews/internal/api/metrics"
	"github.com/snimarbadr-source/health-interviews/internal/core/ports"
)

const (
	defaultRecentLimit = 5
	maxRecentLimit     = 50
)

// CandidateHandler handles HTTP requests for candidate operations.
type CandidateHandler struct {
	service ports.CandidateService
}

func NewCandidateHandler(service ports.CandidateService) *CandidateHandler {
	return &CandidateHandler{service: service}
}

// List handles GET /v1/candidates.
//
// @Summary      List candidates
// @Tags         candidates
// @Produce      json
// @Security     BearerAuth
// @Param        q       query     string  false  "Matches name or national id, case-insensitive"
// @Param        status  query     string  false  "Pending, Accepted, Rejected or all"
// @Success      200     {object}  candidateListResponse
// @Failure      401     {object}  errorResponse
// @Router       /v1/candidates [get]
func (h *CandidateHandler) List(c echo.Context) error {
	cards, err := h.service.ListCandidates(c.Request().Context(), ports.CandidateFilter{
		Text:   c.QueryParam("q"),
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, candidateListResponse{Items: cards, Count: len(cards)})
}

// Recent handles GET /v1/candidates/recent.
//
// @Summary      Recently updated candidates
// @Tags         candidates
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum number of items (default 5)"
// @Success      200    {object}  candidateListResponse
// @Failure      400    {object}  errorResponse
// @Router       /v1/candidates/recent [get]
func (h *CandidateHandler) Recent(c echo.Context) error {
	limit := defaultRecentLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRecentLimit {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 50")
		}
		limit = n
	}

	cards, err := h.service.RecentlyUpdated(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, candidateListResponse{Items: cards, Count: len(cards)})
}

// Get handles GET /v1/candidates/:id.
//
// @Summary      Get a candidate
// @Tags         candidates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Candidate id"
// @Success      200  {object}  ports.CandidateCard
// @Failure      404  {object}  errorResponse
// @Router       /v1/candidates/{id} [get]
func (h *CandidateHandler) Get(c echo.Context) error {
	card, err := h.service.GetCandidate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, card)
}

// Create handles POST /v1/candidates.
//
// @Summary      Create a blank candidate
// @Tags         candidates
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  domain.Candidate
// @Failure      403  {object}  errorResponse
// @Router       /v1/candidates [post]
func (h *CandidateHandler) Create(c echo.Context) error {
	actor, err := ctxSession(c)
	if err != nil {
		return err
	}

	created, err := h.service.CreateCandidate(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	metrics.CandidateOperationsTotal.WithLabelValues("create").Inc()
	c.Response().Header().Set(echo.HeaderLocation, "/v1/candidates/"+created.ID)
	return c.JSON(http.StatusCreated, created)
}

// Save handles PUT /v1/candidates/:id.
//
// @Summary      Save a candidate
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Candidate id"
// @Param        body  body      candidateRequest  true  "Editable fields"
// @Success      200   {object}  ports.CandidateCard
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/candidates/{id} [put]
func (h *CandidateHandler) Save(c echo.Context) error {
	actor, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req candidateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	card, err := h.service.SaveCandidate(c.Request().Context(), actor, c.Param("id"), req.toForm())
	if err != nil {
		return err
	}

	metrics.CandidateOperationsTotal.WithLabelValues("save").Inc()
	metrics.CandidateScoreTotal.Observe(card.Total)
	return c.JSON(http.StatusOK, card)
}

// Delete handles DELETE /v1/candidates/:id.
//
// @Summary      Delete a candidate
// @Tags         candidates
// @Security     BearerAuth
// @Param        id   path  string  true  "Candidate id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/candidates/{id} [delete]
func (h *CandidateHandler) Delete(c echo.Context) error {
	actor, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteCandidate(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}

	metrics.CandidateOperationsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Summary handles GET /v1/candidates/:id/summary.
//
// @Summary      Render the clipboard summary
// @Tags         candidates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Candidate id"
// @Success      200  {object}  summaryResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/candidates/{id}/summary [get]
func (h *CandidateHandler) Summary(c echo.Context) error {
	text, err := h.service.Summary(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaryResponse{Text: text})
}

// Copy handles POST /v1/candidates/:id/copy. It returns the summary and
// records the export in the audit log.
//
// @Summary      Copy the summary
// @Tags         candidates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Candidate id"
// @Success      200  {object}  summaryResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/candidates/{id}/copy [post]
func (h *CandidateHandler) Copy(c echo.Context) error {
	actor, err := ctxSession(c)
	if err != nil {
		return err
	}

	text, err := h.service.CopySummary(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.CandidateOperationsTotal.WithLabelValues("copy").Inc()
	return c.JSON(http.StatusOK, summaryResponse{Text: text})
}

// Schema handles GET /v1/schema.
//
// @Summary      Score schema
// @Tags         candidates
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  schemaResponse
// @Router       /v1/schema [get]
func (h *CandidateHandler) Schema(c echo.Context) error {
	schema, err := h.service.Schema(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, schemaResponse{Items: schema, MaxTotal: schema.MaxTotal()})
}

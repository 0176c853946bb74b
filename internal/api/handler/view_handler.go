package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snimarbadr-source/health-interviews/internal/api/metrics"
	"github.com/snimarbadr-source/health-interviews/internal/core/ports"
)

// ViewHandler resolves navigation tokens for the front end.
type ViewHandler struct {
	service ports.ViewService
}

func NewViewHandler(service ports.ViewService) *ViewHandler {
	return &ViewHandler{service: service}
}

// Open handles GET /v1/views. Without a valid token the caller is treated as
// signed out and lands on the login view.
//
// @Summary      Resolve a navigation token
// @Tags         views
// @Produce      json
// @Param        token   query     string  false  "Navigation token, e.g. #/candidate/<id>"
// @Param        q       query     string  false  "Candidate list text filter"
// @Param        status  query     string  false  "Candidate list status filter"
// @Success      200     {object}  ports.Page
// @Router       /v1/views [get]
func (h *ViewHandler) Open(c echo.Context) error {
	page, err := h.service.Open(c.Request().Context(), optionalSession(c), ports.ViewRequest{
		Token:  c.QueryParam("token"),
		Text:   c.QueryParam("q"),
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return err
	}

	notice := string(page.Navigation.Notice)
	if notice == "" {
		notice = "none"
	}
	metrics.ViewNavigationsTotal.WithLabelValues(string(page.Navigation.View), notice).Inc()
	return c.JSON(http.StatusOK, page)
}

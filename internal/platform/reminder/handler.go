package reminder

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the scheduled queue over HTTP so clients can inspect and
// prune pending reminders.
type Handler struct {
	queue Queue
}

func NewHandler(queue Queue) *Handler {
	return &Handler{queue: queue}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/notifications", h.ListScheduled)
	g.DELETE("/notifications/:id", h.CancelScheduled)
}

func (h *Handler) ListScheduled(c echo.Context) error {
	list, err := h.queue.ListScheduled(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) CancelScheduled(c echo.Context) error {
	if err := h.queue.Cancel(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

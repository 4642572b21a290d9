package reactive

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Alelanderos/Thalos-app/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/reactives", h.ListReactives)
	api.POST("/reactives", h.CreateReactive)
	api.GET("/reactives/:id", h.GetReactive)
	api.PUT("/reactives/:id", h.UpdateReactive)
	api.DELETE("/reactives/:id", h.DeleteReactive)

	api.POST("/reactives/:id/doses", h.RecordDose)
	api.GET("/reactives/:id/doses", h.ListReactiveDoses)
	api.POST("/reactives/:id/refill", h.Refill)

	api.GET("/doses", h.ListDoses)
	api.GET("/doses/today", h.ListTodaysDoses)

	api.DELETE("/data", h.ClearData)
}

func (h *Handler) ListReactives(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.List(c.Request().Context()))
}

func (h *Handler) CreateReactive(c echo.Context) error {
	var r Reactive
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.Create(c.Request().Context(), &r); err != nil {
		if errors.Is(err, ErrInvalid) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) GetReactive(c echo.Context) error {
	r, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "reactive not found")
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) UpdateReactive(c echo.Context) error {
	var r Reactive
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	r.ID = c.Param("id")
	if err := h.svc.Update(c.Request().Context(), r); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteReactive(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type recordDoseRequest struct {
	Taken     bool   `json:"taken"`
	Timestamp string `json:"timestamp"`
}

func (h *Handler) RecordDose(c echo.Context) error {
	var req recordDoseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	dose, err := h.svc.RecordDose(c.Request().Context(), c.Param("id"), req.Taken, req.Timestamp)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, dose)
}

func (h *Handler) ListReactiveDoses(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.DosesForReactive(c.Request().Context(), c.Param("id")))
}

func (h *Handler) Refill(c echo.Context) error {
	r, err := h.svc.Refill(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "reactive not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ListDoses(c echo.Context) error {
	p := pagination.FromContext(c)
	all := h.svc.DoseHistory(c.Request().Context())

	start := p.Offset
	if start > len(all) {
		start = len(all)
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(all[start:end], len(all), p.Limit, p.Offset))
}

func (h *Handler) ListTodaysDoses(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.TodaysDoses(c.Request().Context()))
}

func (h *Handler) ClearData(c echo.Context) error {
	if err := h.svc.ClearAllData(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	gate *Gate
}

func NewHandler(gate *Gate) *Handler {
	return &Handler{gate: gate}
}

// RegisterRoutes mounts the verify endpoint on an unprotected group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/auth/verify", h.Verify)
}

type verifyRequest struct {
	PIN string `json:"pin"`
}

type verifyResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

// Verify handles POST /auth/verify. Failure is retryable: the client gets a
// 401 with a message and may try again.
func (h *Handler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, err := h.gate.Verify(req.PIN)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, ErrVerificationFailed.Error())
	}
	return c.JSON(http.StatusOK, verifyResponse{
		Token:     token,
		ExpiresIn: int(h.gate.TTL().Seconds()),
	})
}

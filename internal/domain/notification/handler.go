package notification

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medora/medora/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the notification feed endpoints. The feed is always
// scoped to the authenticated caller; there is no cross-user read.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	n := g.Group("/notifications", auth.RequireRole("patient", "doctor"))
	n.GET("", h.List)
	n.GET("/unread-count", h.UnreadCount)
	n.PATCH("/:id/read", h.MarkRead)
	n.PATCH("/read-all", h.MarkAllRead)
}

func callerID(c echo.Context) (uuid.UUID, error) {
	p := auth.PrincipalFromContext(c.Request().Context())
	id, err := uuid.Parse(p.UserID)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid caller identity")
	}
	return id, nil
}

func (h *Handler) List(c echo.Context) error {
	recipientID, err := callerID(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListByRecipient(c.Request().Context(), recipientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if items == nil {
		items = []*Notification{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UnreadCount(c echo.Context) error {
	recipientID, err := callerID(c)
	if err != nil {
		return err
	}
	count, err := h.svc.UnreadCount(c.Request().Context(), recipientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

func (h *Handler) MarkRead(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid notification id")
	}
	if err := h.svc.MarkRead(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) MarkAllRead(c echo.Context) error {
	recipientID, err := callerID(c)
	if err != nil {
		return err
	}
	if err := h.svc.MarkAllRead(c.Request().Context(), recipientID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.NoContent(http.StatusNoContent)
}

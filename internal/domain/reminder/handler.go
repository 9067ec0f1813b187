package reminder

import (
	"errors"
	"net/http"
	"time"

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

// RegisterRoutes mounts the reminder endpoints under /reminders.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	r := g.Group("/reminders", auth.RequireRole("patient", "doctor"))
	r.POST("", h.Create)
	r.GET("/patient/:patientId", h.ListByPatient)
	r.GET("/today/:patientId", h.Today)
	r.PATCH("/:id/done", h.MarkDone)
	r.PATCH("/:id/toggle", h.Toggle)
	r.DELETE("/:id", h.Delete)
}

type createRequest struct {
	PatientID      uuid.UUID  `json:"patient_id"`
	PrescriptionID string     `json:"prescription_id"`
	Label          string     `json:"label"`
	ScheduledTimes []string   `json:"scheduled_times"`
	Frequency      Frequency  `json:"frequency"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	Notes          *string    `json:"notes"`
	Category       Category   `json:"category"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	source := CustomSource()
	if req.PrescriptionID != "" && req.PrescriptionID != "custom" {
		pid, err := uuid.Parse(req.PrescriptionID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid prescription_id")
		}
		source = PrescriptionSource(pid)
	}

	r, err := h.svc.Create(c.Request().Context(), Draft{
		PatientID:      req.PatientID,
		Source:         source,
		Label:          req.Label,
		ScheduledTimes: req.ScheduledTimes,
		Frequency:      req.Frequency,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Notes:          req.Notes,
		Category:       req.Category,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	activeOnly := c.QueryParam("active") == "true"

	items, err := h.svc.ListByPatient(c.Request().Context(), patientID, activeOnly)
	if err != nil {
		return httpError(err)
	}
	if items == nil {
		items = []*Reminder{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Today(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	sched, err := h.svc.Today(c.Request().Context(), patientID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sched)
}

type markDoneRequest struct {
	Time string `json:"time"`
}

func (h *Handler) MarkDone(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reminder id")
	}
	var req markDoneRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	r, err := h.svc.MarkCompleted(c.Request().Context(), id, req.Time)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) Toggle(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reminder id")
	}
	r, err := h.svc.ToggleActive(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reminder id")
	}
	r, err := h.svc.Delete(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, r)
}

// httpError maps domain errors to HTTP status codes.
func httpError(err error) error {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "reminder not found")
	case errors.Is(err, ErrPrescriptionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "prescription not found")
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "prescription does not belong to this patient")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/asoline/lawncare-booking/internal/queue"
	queue_publisher "github.com/asoline/lawncare-booking/internal/service"
	"github.com/asoline/lawncare-booking/internal/store"
	"github.com/asoline/lawncare-booking/internal/validate"
)

// AppointmentHandler serves booking creation and the scheduler views.
// Creation and reads require authentication; partial updates are admin
// only (enforced by middleware on the route, not here).
type AppointmentHandler struct {
	Store store.Store
}

func NewAppointmentHandler(s store.Store) *AppointmentHandler {
	return &AppointmentHandler{Store: s}
}

// appointmentReq is the field set a customer may submit when booking.
// Lifecycle fields are deliberately absent: whatever the client sends
// for status or payment state never reaches the store.
type appointmentReq struct {
	CustomerName   string  `json:"customerName"`
	CustomerEmail  string  `json:"customerEmail"`
	CustomerPhone  string  `json:"customerPhone"`
	ServiceType    string  `json:"serviceType"`
	ServiceAddress string  `json:"serviceAddress"`
	ScheduledDate  string  `json:"scheduledDate"`
	ScheduledTime  string  `json:"scheduledTime"`
	Notes          *string `json:"notes"`
}

// appointmentPatchReq mirrors the four mutable appointment fields.
type appointmentPatchReq struct {
	Status        *string `json:"status"`
	Notes         *string `json:"notes"`
	PaymentStatus *string `json:"paymentStatus"`
	PaymentID     *string `json:"paymentId"`
}

// Create handles POST /api/appointments.
func (h *AppointmentHandler) Create(c echo.Context) error {
	var req appointmentReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	in := store.NewAppointment{
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerPhone:  req.CustomerPhone,
		ServiceType:    req.ServiceType,
		ServiceAddress: req.ServiceAddress,
		ScheduledDate:  req.ScheduledDate,
		ScheduledTime:  req.ScheduledTime,
		Notes:          req.Notes,
	}
	if err := validate.Appointment(in); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Store.CreateAppointment(ctx, in)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to create appointment")
	}

	// Best-effort event for the notification consumer; booking never
	// fails because the broker is down.
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pubCancel()
		_ = queue_publisher.PublishAppointmentBooked(pubCtx, queue.AppointmentBookedEvent{
			AppointmentID: a.ID,
			CustomerName:  a.CustomerName,
			CustomerEmail: a.CustomerEmail,
			ServiceType:   a.ServiceType,
			ScheduledDate: a.ScheduledDate,
			ScheduledTime: a.ScheduledTime,
			BookedAt:      a.CreatedAt.Format(time.RFC3339),
		})
	}()

	return respondData(c, http.StatusCreated, a)
}

// List handles GET /api/appointments.
func (h *AppointmentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	appointments, err := h.Store.Appointments(ctx)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to retrieve appointments")
	}
	return respondData(c, http.StatusOK, appointments)
}

// Get handles GET /api/appointments/:id.
func (h *AppointmentHandler) Get(c echo.Context) error {
	id, err := appointmentID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid appointment id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Store.Appointment(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "appointment not found")
		}
		return respondError(c, http.StatusInternalServerError, "failed to retrieve appointment")
	}
	return respondData(c, http.StatusOK, a)
}

// Update handles PATCH /api/appointments/:id (admin only).
func (h *AppointmentHandler) Update(c echo.Context) error {
	id, err := appointmentID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid appointment id")
	}

	var req appointmentPatchReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	patch := store.AppointmentPatch{
		Status:        req.Status,
		Notes:         req.Notes,
		PaymentStatus: req.PaymentStatus,
		PaymentID:     req.PaymentID,
	}
	if err := validate.AppointmentPatch(patch); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Store.UpdateAppointment(ctx, id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "appointment not found")
		}
		return respondError(c, http.StatusInternalServerError, "failed to update appointment")
	}
	return respondData(c, http.StatusOK, a)
}

// appointmentID parses the :id path parameter.
func appointmentID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

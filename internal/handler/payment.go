package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/asoline/lawncare-booking/internal/config"
	"github.com/asoline/lawncare-booking/internal/model"
	"github.com/asoline/lawncare-booking/internal/payments"
	"github.com/asoline/lawncare-booking/internal/queue"
	queue_publisher "github.com/asoline/lawncare-booking/internal/service"
	"github.com/asoline/lawncare-booking/internal/store"
	"github.com/asoline/lawncare-booking/internal/validate"
)

// PaymentHandler serves payment records and the simulated Square flow.
// All routes require authentication.
type PaymentHandler struct {
	Cfg     config.Config
	Store   store.Store
	Gateway payments.Gateway
}

func NewPaymentHandler(cfg config.Config, s store.Store, g payments.Gateway) *PaymentHandler {
	return &PaymentHandler{Cfg: cfg, Store: s, Gateway: g}
}

// paymentReq is the field set accepted when recording a payment
// directly (as opposed to going through the Square flow).
type paymentReq struct {
	AppointmentID   uint64  `json:"appointmentId"`
	SquarePaymentID *string `json:"squarePaymentId"`
	Amount          int64   `json:"amount"`
	Currency        string  `json:"currency"`
	Status          string  `json:"status"`
}

// squareProcessReq is the Square payment processing request. Amount is
// a pointer so a missing field can be told apart from zero cents.
type squareProcessReq struct {
	SourceID      string `json:"sourceId"`
	AppointmentID uint64 `json:"appointmentId"`
	Amount        *int64 `json:"amount"`
}

// Create handles POST /api/payments. A payment created with status
// "completed" runs the lifecycle cascade: the referenced appointment is
// marked paid in the same atomic store operation.
func (h *PaymentHandler) Create(c echo.Context) error {
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	in := store.NewPayment{
		AppointmentID:   req.AppointmentID,
		SquarePaymentID: req.SquarePaymentID,
		AmountCents:     req.Amount,
		Currency:        req.Currency,
		Status:          req.Status,
	}
	if err := validate.Payment(in); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Store.Appointment(ctx, in.AppointmentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return respondError(c, http.StatusBadRequest, "appointmentId references no appointment")
		}
		return respondError(c, http.StatusInternalServerError, "failed to create payment")
	}

	if in.Status == model.PaymentCompleted {
		ref := "pay_" + uuid.NewString()
		if in.SquarePaymentID != nil && *in.SquarePaymentID != "" {
			ref = *in.SquarePaymentID
		}
		p, a, err := h.Store.CompletePayment(ctx, in, ref)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return respondError(c, http.StatusBadRequest, "appointmentId references no appointment")
			}
			return respondError(c, http.StatusInternalServerError, "failed to create payment")
		}
		h.publishCompleted(p, a)
		return respondData(c, http.StatusCreated, p)
	}

	p, err := h.Store.CreatePayment(ctx, in)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to create payment")
	}
	return respondData(c, http.StatusCreated, p)
}

// ListByAppointment handles GET /api/appointments/:id/payments.
func (h *PaymentHandler) ListByAppointment(c echo.Context) error {
	id, err := appointmentID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid appointment id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Store.PaymentsByAppointment(ctx, id)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to retrieve payments")
	}
	return respondData(c, http.StatusOK, list)
}

// SquareInitialize handles POST /api/square/initialize. It hands the
// client the placeholder application credentials the payment form needs.
func (h *PaymentHandler) SquareInitialize(c echo.Context) error {
	return respondData(c, http.StatusOK, echo.Map{
		"applicationId": h.Cfg.SquareAppID,
		"locationId":    h.Cfg.SquareLocID,
	})
}

// SquareProcess handles POST /api/square/process. Required fields are
// checked before anything is written; the gateway charge and the
// two-entity lifecycle write happen only after the appointment has been
// confirmed to exist.
func (h *PaymentHandler) SquareProcess(c echo.Context) error {
	var req squareProcessReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	var missing validate.Errors
	if req.SourceID == "" {
		missing.Violations = append(missing.Violations, "sourceId is required")
	}
	if req.AppointmentID == 0 {
		missing.Violations = append(missing.Violations, "appointmentId is required")
	}
	if req.Amount == nil {
		missing.Violations = append(missing.Violations, "amount is required")
	} else if *req.Amount < 0 {
		missing.Violations = append(missing.Violations, "amount must be a non-negative integer number of cents")
	}
	if len(missing.Violations) > 0 {
		return respondError(c, http.StatusBadRequest, missing.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := h.Store.Appointment(ctx, req.AppointmentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "appointment not found")
		}
		return respondError(c, http.StatusInternalServerError, "failed to process payment")
	}

	res, err := h.Gateway.Charge(ctx, req.SourceID, *req.Amount, model.DefaultCurrency)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "payment gateway error")
	}

	p, updated, err := h.Store.CompletePayment(ctx, store.NewPayment{
		AppointmentID: req.AppointmentID,
		AmountCents:   *req.Amount,
	}, res.PaymentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "appointment not found")
		}
		return respondError(c, http.StatusInternalServerError, "failed to record payment")
	}

	h.publishCompleted(p, updated)
	return respondData(c, http.StatusOK, p)
}

// publishCompleted emits the payment.completed event best-effort; the
// request never fails because the broker is down.
func (h *PaymentHandler) publishCompleted(p model.Payment, a model.Appointment) {
	ref := ""
	if p.SquarePaymentID != nil {
		ref = *p.SquarePaymentID
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishPaymentCompleted(pubCtx, queue.PaymentCompletedEvent{
			PaymentID:       p.ID,
			AppointmentID:   a.ID,
			SquarePaymentID: ref,
			AmountCents:     p.AmountCents,
			Currency:        p.Currency,
			CompletedAt:     p.CreatedAt.Format(time.RFC3339),
		})
	}()
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/asoline/lawncare-booking/internal/store"
	"github.com/asoline/lawncare-booking/internal/validate"
)

// ContactHandler serves the public contact form and the admin message
// list.
type ContactHandler struct {
	Store store.Store
}

func NewContactHandler(s store.Store) *ContactHandler {
	return &ContactHandler{Store: s}
}

// contactReq is the exact field set accepted from the contact form;
// anything else in the request body is dropped during binding.
type contactReq struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Service string  `json:"service"`
	Address *string `json:"address"`
	Message string  `json:"message"`
}

// Create handles POST /api/contact. The endpoint is public; abuse is
// kept in check by the rate limiter in front of it.
func (h *ContactHandler) Create(c echo.Context) error {
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	in := store.NewContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Service: req.Service,
		Address: req.Address,
		Message: req.Message,
	}
	if err := validate.ContactMessage(in); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Store.CreateContactMessage(ctx, in)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to store contact message")
	}
	return respondDataMessage(c, http.StatusCreated, m,
		"Thank you for your message. We'll get back to you shortly.")
}

// List handles GET /api/contact (admin only).
func (h *ContactHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	messages, err := h.Store.ContactMessages(ctx)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to retrieve contact messages")
	}
	return respondData(c, http.StatusOK, messages)
}

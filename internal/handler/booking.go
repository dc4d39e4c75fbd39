package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bluemoon1528/clusters/internal/booking"
	"github.com/bluemoon1528/clusters/internal/model"
)

// BookingHandler exposes the storefront booking endpoints.
type BookingHandler struct {
	Svc *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler { return &BookingHandler{Svc: svc} }

type createBookingResp struct {
	Booking model.Booking `json:"booking"`
	// CloudError carries a best-effort remote failure. The booking is
	// already durably stored locally when this is non-empty.
	CloudError string `json:"cloud_error,omitempty"`
}

// Create accepts a booking submission, prices it and stores it. A remote
// push failure is reported alongside the created record, never as a request
// failure: local-first durability takes precedence over remote consistency.
func (h *BookingHandler) Create(c echo.Context) error {
	var in booking.CreateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, cloudErr, err := h.Svc.Create(ctx, in)
	if err != nil {
		if errors.Is(err, booking.ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	return c.JSON(http.StatusCreated, createBookingResp{Booking: b, CloudError: cloudErr})
}

// Stats returns the dashboard aggregates plus the live tickets-sold count
// shown on the storefront.
func (h *BookingHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Svc.Stats())
}

// TheatreQR returns the current payment-QR reference.
func (h *BookingHandler) TheatreQR(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	return c.JSON(http.StatusOK, echo.Map{"qr": h.Svc.TheatreQR(ctx)})
}

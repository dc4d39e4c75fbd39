package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bluemoon1528/clusters/internal/auth"
	"github.com/bluemoon1528/clusters/internal/booking"
	"github.com/bluemoon1528/clusters/internal/ledger"
	"github.com/bluemoon1528/clusters/internal/repository"
)

// AdminHandler exposes the back-office ledger and account operations. Every
// destructive operation is re-checked by the core gate immediately before
// acting; these handlers only translate errors to HTTP responses.
type AdminHandler struct {
	Svc *booking.Service
}

func NewAdminHandler(svc *booking.Service) *AdminHandler { return &AdminHandler{Svc: svc} }

// adminErr maps core error kinds onto HTTP statuses shared by all
// back-office endpoints.
func adminErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrAuthentication):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, repository.ErrNoAccount):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict), errors.Is(err, repository.ErrAccountExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrValidation), errors.Is(err, booking.ErrConfirmationRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "operation failed"})
	}
}

// ListBookings returns the full ledger for the dashboard table.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	if err := h.Svc.Gate().RequireAuthenticated(); err != nil {
		return adminErr(c, err)
	}
	return c.JSON(http.StatusOK, h.Svc.Bookings())
}

// DeleteBooking removes a single booking by id (super only).
func (h *AdminHandler) DeleteBooking(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	cloudErr, err := h.Svc.Delete(ctx, c.Param("id"))
	if err != nil {
		return adminErr(c, err)
	}
	resp := echo.Map{"deleted": c.Param("id")}
	if cloudErr != "" {
		resp["cloud_error"] = cloudErr
	}
	return c.JSON(http.StatusOK, resp)
}

// ClearBookings empties the entire ledger (super only).
func (h *AdminHandler) ClearBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	n, err := h.Svc.ClearAll(ctx)
	if err != nil {
		return adminErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"cleared": n})
}

// ----- admin account directory -----

type accountReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type passwordReq struct {
	Password string `json:"password"`
}

// ListAccounts lists the administrative accounts (hashes blanked).
func (h *AdminHandler) ListAccounts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accounts, err := h.Svc.Gate().Accounts(ctx)
	if err != nil {
		return adminErr(c, err)
	}
	return c.JSON(http.StatusOK, accounts)
}

// AddAccount creates a new (non-super) administrative account.
func (h *AdminHandler) AddAccount(c echo.Context) error {
	var req accountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Gate().AddAccount(ctx, req.Username, req.Password); err != nil {
		return adminErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": req.Username})
}

// RotatePassword replaces an account's credential (super only).
func (h *AdminHandler) RotatePassword(c echo.Context) error {
	var req passwordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Gate().RotatePassword(ctx, c.Param("username"), req.Password); err != nil {
		return adminErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": c.Param("username")})
}

// DeleteAccount removes an administrative account (super only; the last
// account and foreign super accounts are protected).
func (h *AdminHandler) DeleteAccount(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Gate().DeleteAccount(ctx, c.Param("username")); err != nil {
		return adminErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": c.Param("username")})
}

// ----- payment QR -----

type qrReq struct {
	Image string `json:"image"` // JPEG data URL
	// One-time credential challenge, honored only when no session is
	// active.
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// SaveTheatreQR replaces the shared payment QR (super, or a successful
// one-time credential challenge).
func (h *AdminHandler) SaveTheatreQR(c echo.Context) error {
	var req qrReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.SaveTheatreQR(ctx, req.Image, req.Username, req.Password); err != nil {
		return adminErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": "theatreQR"})
}

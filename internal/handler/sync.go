package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bluemoon1528/clusters/internal/booking"
)

// SyncHandler exposes the operator-facing cloud reconciliation controls.
type SyncHandler struct {
	Svc    *booking.Service
	Syncer *booking.Syncer
}

func NewSyncHandler(svc *booking.Service, sy *booking.Syncer) *SyncHandler {
	return &SyncHandler{Svc: svc, Syncer: sy}
}

type pushReq struct {
	// Confirm must be true: a push unconditionally overwrites remote state
	// per booking id and cannot be undone.
	Confirm bool `json:"confirm"`
}

// Push writes every local booking to the remote store (super only).
func (h *SyncHandler) Push(c echo.Context) error {
	var req pushReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	n, err := h.Svc.Push(ctx, req.Confirm)
	if err != nil {
		return adminErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pushed": n})
}

// Pull fetches the full remote collection and force-merges it locally with
// overwrite semantics (super only). Used to reconcile after suspected drift.
func (h *SyncHandler) Pull(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	res, fetched, err := h.Svc.Pull(ctx)
	if err != nil {
		return adminErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"fetched": fetched,
		"added":   res.Added,
		"updated": res.Updated,
	})
}

// Enable starts the live snapshot feed (insert-only merging).
func (h *SyncHandler) Enable(c echo.Context) error {
	if started := h.Syncer.Enable(); !started {
		return c.JSON(http.StatusOK, echo.Map{"sync": "already enabled"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sync": "enabled"})
}

// Disable stops the live snapshot feed.
func (h *SyncHandler) Disable(c echo.Context) error {
	h.Syncer.Disable()
	return c.JSON(http.StatusOK, echo.Map{"sync": "disabled"})
}

// Status reports whether the live feed is running.
func (h *SyncHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"enabled": h.Syncer.Enabled()})
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bluemoon1528/clusters/internal/booking"
	"github.com/bluemoon1528/clusters/internal/catalog"
	"github.com/bluemoon1528/clusters/internal/model"
)

// CatalogHandler exposes movie catalog browsing and administration. The
// catalog is a pass-through to whichever source backs it; no booking logic
// lives here.
type CatalogHandler struct {
	Svc *booking.Service
}

func NewCatalogHandler(svc *booking.Service) *CatalogHandler { return &CatalogHandler{Svc: svc} }

// List returns the current movie listings for the storefront.
func (h *CatalogHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movies, err := h.Svc.Catalog().List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list movies failed"})
	}
	if movies == nil {
		movies = []model.Movie{}
	}
	return c.JSON(http.StatusOK, movies)
}

// Save creates a movie when the body carries no id, and updates it
// otherwise.
func (h *CatalogHandler) Save(c echo.Context) error {
	var m model.Movie
	if err := c.Bind(&m); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if m.Name == "" || m.Poster == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and poster are required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	saved, err := h.Svc.Catalog().Save(ctx, m)
	if err != nil {
		if errors.Is(err, catalog.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save movie failed"})
	}
	status := http.StatusOK
	if m.ID == 0 {
		status = http.StatusCreated
	}
	return c.JSON(status, saved)
}

// Delete removes a movie listing. Existing bookings keep their denormalized
// snapshot of it.
func (h *CatalogHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Catalog().Delete(ctx, id); err != nil {
		if errors.Is(err, catalog.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete movie failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bluemoon1528/clusters/internal/auth"
)

// AuthHandler bundles dependencies for session endpoints.
type AuthHandler struct {
	Gate *auth.Gate
}

func NewAuthHandler(g *auth.Gate) *AuthHandler { return &AuthHandler{Gate: g} }

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionPart struct {
	Username string `json:"username"`
	IsSuper  bool   `json:"isSuper"`
}

type loginResp struct {
	Session sessionPart `json:"session"`
	Token   string      `json:"token"`
	Expires time.Time   `json:"expires"`
}

// Login: verify credentials against the identity service and install a
// persisted session. The three authentication sub-kinds map to distinct
// user-facing messages but share the 401 status.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, tok, err := h.Gate.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAuthentication) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	return c.JSON(http.StatusOK, loginResp{
		Session: sessionPart{Username: sess.Username, IsSuper: sess.IsSuper},
		Token:   tok.Token,
		Expires: tok.Exp,
	})
}

// Logout clears the active session and the persisted token.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	h.Gate.Logout(ctx)
	return c.NoContent(http.StatusNoContent)
}

// Me returns the active session, or 401 when anonymous.
func (h *AuthHandler) Me(c echo.Context) error {
	sess := h.Gate.Current()
	if sess == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not logged in"})
	}
	return c.JSON(http.StatusOK, sessionPart{Username: sess.Username, IsSuper: sess.IsSuper})
}

package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens

	"github.com/bluemoon1528/clusters/internal/model"
)

// SessionToken is a signed HS256 JWT representing an admin session, along
// with its expiry. The token string is what gets persisted to durable
// storage so the session survives a restart.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// ErrInvalidSessionToken covers every way a persisted or presented token can
// fail verification: bad signature, wrong algorithm, expired, or malformed
// claims.
var ErrInvalidSessionToken = errors.New("invalid session token")

// NewSessionToken builds and signs an HS256 JWT for an admin session. The
// claims carry the username as subject and the super-privilege flag, plus
// standard exp and iat.
func NewSessionToken(secret string, s model.Session, ttlHours int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlHours) * time.Hour)
	claims := jwt.MapClaims{
		"sub":   s.Username,
		"super": s.IsSuper,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies a serialized session token and reconstructs the
// session it carries. Tokens signed with anything but HMAC are rejected.
func ParseSessionToken(secret, raw string) (model.Session, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSessionToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return model.Session{}, ErrInvalidSessionToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.Session{}, ErrInvalidSessionToken
	}
	username, _ := claims["sub"].(string)
	if username == "" {
		return model.Session{}, ErrInvalidSessionToken
	}
	isSuper, _ := claims["super"].(bool)
	return model.Session{Username: username, IsSuper: isSuper}, nil
}

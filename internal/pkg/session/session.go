// Package session issues and reads the signed "session" cookie used by the
// back office.
package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v4"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/internal/pkg/env"
)

const (
	CookieName = "session"
	TTL        = 24 * time.Hour
)

var (
	ErrNoSession    = errors.New("no session cookie")
	ErrInvalidToken = errors.New("invalid session token")
)

// Claims is the payload of the session token.
type Claims struct {
	UserID uint   `json:"uid"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == models.ROLE_ADMIN
}

var (
	secretOnce sync.Once
	secret     []byte
)

// Secret returns SESSION_SECRET. Without it a random per-process key is
// used, which invalidates sessions on restart.
func Secret() []byte {
	secretOnce.Do(func() {
		if s := env.GetEnv("SESSION_SECRET", ""); s != "" {
			secret = []byte(s)
			return
		}
		log.Warnf("[Session] SESSION_SECRET not set, using an ephemeral key")
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			panic(err)
		}
	})
	return secret
}

// Issue signs a token for the user valid for TTL from now.
func Issue(key []byte, user *models.User, now time.Time) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// Parse verifies the signature and expiry of a token.
func Parse(key []byte, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Login issues a token for the user and stores it in the session cookie.
func Login(c *fiber.Ctx, user *models.User) error {
	token, err := Issue(Secret(), user, time.Now())
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TTL.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   !env.IsDev(),
	})
	return nil
}

// Logout expires the session cookie.
func Logout(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   !env.IsDev(),
	})
}

// FromRequest decodes the session cookie of the request.
func FromRequest(c *fiber.Ctx) (*Claims, error) {
	token := c.Cookies(CookieName)
	if token == "" {
		return nil, ErrNoSession
	}
	return Parse(Secret(), token)
}

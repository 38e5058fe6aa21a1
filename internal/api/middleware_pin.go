package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// PinRequired guards data routes while a PIN is configured. Requests without
// a valid unlock token are rejected until the PIN is verified.
func (handler *Handler) PinRequired(c *fiber.Ctx) error {
	enabled, err := handler.pinLock.Enabled()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to read lock state")
	}
	if !enabled {
		return c.Next()
	}

	if err := handler.verifyUnlockCookie(c); err != nil {
		return apiError(c, fiber.StatusUnauthorized, "locked")
	}
	return c.Next()
}

func (handler *Handler) setUnlockCookie(c *fiber.Ctx) error {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "unlock",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(unlockTokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(handler.secretKey)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     unlockCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
	})
	return nil
}

func (handler *Handler) clearUnlockCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     unlockCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

func (handler *Handler) verifyUnlockCookie(c *fiber.Ctx) error {
	rawToken := strings.TrimSpace(c.Cookies(unlockCookieName))
	if rawToken == "" {
		return errors.New("missing unlock cookie")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	})
	if err != nil || !token.Valid {
		return errors.New("invalid unlock token")
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return errors.New("unlock token expired")
	}
	return nil
}

func (handler *Handler) isUnlocked(c *fiber.Ctx) bool {
	return handler.verifyUnlockCookie(c) == nil
}

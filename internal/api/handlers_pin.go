package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lunaria-app/lunaria/internal/security"
)

type pinPayload struct {
	Pin string `json:"pin" form:"pin"`
}

type setPinPayload struct {
	Pin        string `json:"pin" form:"pin"`
	CurrentPin string `json:"currentPin" form:"currentPin"`
}

func (handler *Handler) PinStatus(c *fiber.Ctx) error {
	enabled, err := handler.pinLock.Enabled()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to read lock state")
	}

	return c.JSON(fiber.Map{
		"enabled":  enabled,
		"unlocked": !enabled || handler.isUnlocked(c),
	})
}

// SetPin stores a new credential. While a PIN is already enabled, changing it
// demands the same proof as any guarded route: an unlocked session or the
// current PIN in the payload. Otherwise a locked-out client could overwrite
// the credential and walk straight past the lock.
func (handler *Handler) SetPin(c *fiber.Ctx) error {
	payload := setPinPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	enabled, err := handler.pinLock.Enabled()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to read lock state")
	}
	if enabled && !handler.isUnlocked(c) {
		ok, err := handler.pinLock.Verify(payload.CurrentPin)
		if err != nil && !errors.Is(err, security.ErrInvalidPinFormat) {
			return apiError(c, fiber.StatusInternalServerError, "failed to verify pin")
		}
		if err != nil || !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"ok": false})
		}
	}

	if err := handler.pinLock.SetCredential(payload.Pin); err != nil {
		if errors.Is(err, security.ErrInvalidPinFormat) {
			return apiError(c, fiber.StatusBadRequest, "pin must be exactly 4 digits")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to store pin")
	}

	// The session that set the PIN stays unlocked.
	if err := handler.setUnlockCookie(c); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create unlock session")
	}
	return c.JSON(fiber.Map{"ok": true})
}

// VerifyPin reports a wrong PIN as a plain unauthorized response; it never
// errors for a legitimately-formatted code.
func (handler *Handler) VerifyPin(c *fiber.Ctx) error {
	payload := pinPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ok, err := handler.pinLock.Verify(payload.Pin)
	if err != nil {
		if errors.Is(err, security.ErrInvalidPinFormat) {
			return apiError(c, fiber.StatusBadRequest, "pin must be exactly 4 digits")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to verify pin")
	}
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"ok": false})
	}

	if err := handler.setUnlockCookie(c); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create unlock session")
	}
	return c.JSON(fiber.Map{"ok": true})
}

// LockNow drops the unlock session so the next data request requires the PIN
// again.
func (handler *Handler) LockNow(c *fiber.Ctx) error {
	handler.clearUnlockCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

// DisablePin removes the credential entirely. The current PIN is required.
func (handler *Handler) DisablePin(c *fiber.Ctx) error {
	payload := pinPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ok, err := handler.pinLock.Verify(payload.Pin)
	if err != nil {
		if errors.Is(err, security.ErrInvalidPinFormat) {
			return apiError(c, fiber.StatusBadRequest, "pin must be exactly 4 digits")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to verify pin")
	}
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"ok": false})
	}

	if err := handler.pinLock.Clear(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to disable pin")
	}
	handler.clearUnlockCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

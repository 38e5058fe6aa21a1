package security

import (
	"errors"

	"github.com/lunaria-app/lunaria/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidPinFormat = errors.New("pin must be exactly 4 digits")

type CredentialStore interface {
	Get(key string) (string, bool, error)
	Set(key string, value string) error
	Delete(key string) error
}

// PinLock stores the one-way-hashed 4-digit unlock code. There is no lockout
// or backoff policy on repeated failures; a mismatch is a plain false.
type PinLock struct {
	settings CredentialStore
}

func NewPinLock(settings CredentialStore) *PinLock {
	return &PinLock{settings: settings}
}

func (lock *PinLock) SetCredential(pin string) error {
	if !IsValidPin(pin) {
		return ErrInvalidPinFormat
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := lock.settings.Set(models.SettingPinHash, string(hash)); err != nil {
		return err
	}
	return lock.settings.Set(models.SettingPinEnabled, "1")
}

// Verify checks the candidate against the stored hash. A legitimately-
// formatted wrong PIN yields (false, nil); errors are reserved for malformed
// input and storage failures.
func (lock *PinLock) Verify(pin string) (bool, error) {
	if !IsValidPin(pin) {
		return false, ErrInvalidPinFormat
	}

	hash, exists, err := lock.settings.Get(models.SettingPinHash)
	if err != nil {
		return false, err
	}
	if !exists || hash == "" {
		return false, nil
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil, nil
}

func (lock *PinLock) Enabled() (bool, error) {
	value, exists, err := lock.settings.Get(models.SettingPinEnabled)
	if err != nil {
		return false, err
	}
	return exists && value == "1", nil
}

// Clear disables the lock and forgets the credential.
func (lock *PinLock) Clear() error {
	if err := lock.settings.Delete(models.SettingPinEnabled); err != nil {
		return err
	}
	return lock.settings.Delete(models.SettingPinHash)
}

func IsValidPin(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, character := range pin {
		if character < '0' || character > '9' {
			return false
		}
	}
	return true
}

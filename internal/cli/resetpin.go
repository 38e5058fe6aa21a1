package cli

import (
	"fmt"

	"github.com/lunaria-app/lunaria/internal/db"
	"github.com/lunaria-app/lunaria/internal/security"
)

// RunResetPinCommand replaces the stored PIN with a freshly generated one and
// prints it. Meant for recovering a locked-out installation from the host
// shell; it talks to the database directly, bypassing the HTTP surface.
func RunResetPinCommand(dbPath string) error {
	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	settings := db.NewSettingRepository(database)
	lock := security.NewPinLock(settings)

	pin, err := security.RandomPin()
	if err != nil {
		return fmt.Errorf("generate temporary pin: %w", err)
	}

	if err := lock.SetCredential(pin); err != nil {
		return fmt.Errorf("store temporary pin: %w", err)
	}

	fmt.Println("PIN reset successful")
	fmt.Printf("Temporary PIN: %s\n", pin)
	fmt.Println("Change it from the settings screen after unlocking.")

	return nil
}

package models

const (
	SettingPinHash    = "pin_hash"
	SettingPinEnabled = "pin_enabled"
	SettingTheme      = "theme"
	SettingLanguage   = "language"
)

// Setting is a single application-level key/value pair. Only keys on the
// backup allow-list travel through backup and restore.
type Setting struct {
	ID    uint   `gorm:"primaryKey"`
	Key   string `gorm:"type:text;not null;uniqueIndex"`
	Value string `gorm:"not null"`
}

// BackupSettingKeys is the fixed allow-list of setting keys included in a
// backup file. Unknown keys in an imported backup are skipped.
func BackupSettingKeys() []string {
	return []string{
		SettingPinHash,
		SettingPinEnabled,
		SettingTheme,
		SettingLanguage,
	}
}

func IsBackupSettingKey(key string) bool {
	for _, allowed := range BackupSettingKeys() {
		if key == allowed {
			return true
		}
	}
	return false
}

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lunaria-app/lunaria/internal/models"
)

var ErrEmptyBackup = errors.New("backup contains no recognized keys")

type BackupLogStore interface {
	ListAll() ([]models.LogRecord, error)
	Put(record *models.LogRecord) error
}

type BackupSettingStore interface {
	ListAllowed() (map[string]string, error)
	Set(key string, value string) error
}

// BackupService builds and restores the backup file: a single flat JSON
// object mapping every date key to its raw record JSON plus the allow-listed
// setting keys to their raw values. A backup re-imports verbatim.
type BackupService struct {
	logs     BackupLogStore
	settings BackupSettingStore
}

func NewBackupService(logs BackupLogStore, settings BackupSettingStore) *BackupService {
	return &BackupService{logs: logs, settings: settings}
}

func (service *BackupService) Build() (map[string]string, error) {
	records, err := service.logs.ListAll()
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	payload := make(map[string]string, len(records))
	for _, record := range records {
		serialized, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("serialize record %s: %w", record.Date, err)
		}
		payload[record.Date] = string(serialized)
	}

	settings, err := service.settings.ListAllowed()
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	for key, value := range settings {
		payload[key] = value
	}

	return payload, nil
}

// Restore imports a backup payload. Date-shaped keys are parsed as records,
// allow-listed keys as settings; anything else is skipped with a warning.
// Restoring never deletes data outside the payload.
func (service *BackupService) Restore(payload map[string]string) (int, error) {
	restored := 0
	for key, value := range payload {
		if _, err := time.Parse(models.DateLayout, key); err == nil {
			record := models.LogRecord{}
			if err := json.Unmarshal([]byte(value), &record); err != nil {
				log.Printf("backup restore: skipping %s: malformed record: %v", key, err)
				continue
			}
			record.ID = 0
			record.Date = key
			if !models.IsValidFlow(record.PeriodFlow) {
				log.Printf("backup restore: skipping %s: unknown flow %q", key, record.PeriodFlow)
				continue
			}
			if err := service.logs.Put(&record); err != nil {
				return restored, fmt.Errorf("restore record %s: %w", key, err)
			}
			restored++
			continue
		}

		if models.IsBackupSettingKey(key) {
			if err := service.settings.Set(key, value); err != nil {
				return restored, fmt.Errorf("restore setting %s: %w", key, err)
			}
			restored++
			continue
		}

		log.Printf("backup restore: skipping unrecognized key %q", key)
	}

	if restored == 0 {
		return 0, ErrEmptyBackup
	}
	return restored, nil
}

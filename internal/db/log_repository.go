package db

import (
	"log"

	"github.com/lunaria-app/lunaria/internal/changefeed"
	"github.com/lunaria-app/lunaria/internal/models"
	"gorm.io/gorm"
)

// LogRepository is the persistent store for daily log records, keyed by the
// canonical yyyy-MM-dd date string. Every mutation is announced on the change
// bus so in-memory mirrors can reload.
type LogRepository struct {
	database *gorm.DB
	changes  *changefeed.Bus
}

func NewLogRepository(database *gorm.DB, changes *changefeed.Bus) *LogRepository {
	return &LogRepository{database: database, changes: changes}
}

func (repo *LogRepository) GetByDate(date string) (models.LogRecord, bool, error) {
	record := models.LogRecord{}
	result := repo.database.Where("date = ?", date).Limit(1).Find(&record)
	if result.Error != nil {
		return models.LogRecord{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.LogRecord{}, false, nil
	}
	return record, true, nil
}

// Put replaces the record for its date wholesale. Last write wins.
func (repo *LogRepository) Put(record *models.LogRecord) error {
	existing := models.LogRecord{}
	result := repo.database.Where("date = ?", record.Date).Limit(1).Find(&existing)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		if err := repo.database.Save(record).Error; err != nil {
			return err
		}
	} else if err := repo.database.Create(record).Error; err != nil {
		return err
	}

	repo.publish(changefeed.DateChanged(record.Date))
	return nil
}

func (repo *LogRepository) DeleteByDate(date string) error {
	if err := repo.database.Where("date = ?", date).Delete(&models.LogRecord{}).Error; err != nil {
		return err
	}
	repo.publish(changefeed.DateChanged(date))
	return nil
}

func (repo *LogRepository) DeleteAll() error {
	if err := repo.database.Where("1 = 1").Delete(&models.LogRecord{}).Error; err != nil {
		return err
	}
	repo.publish(changefeed.BulkChanged())
	return nil
}

// ListAll returns every stored record with a well-formed shape. Rows with a
// malformed date key or an unknown flow value are skipped with a warning
// rather than failing the whole read.
func (repo *LogRepository) ListAll() ([]models.LogRecord, error) {
	records := make([]models.LogRecord, 0)
	if err := repo.database.Order("date ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	valid := records[:0]
	for _, record := range records {
		if _, ok := record.Day(); !ok {
			log.Printf("skipping log record %d: malformed date %q", record.ID, record.Date)
			continue
		}
		if !models.IsValidFlow(record.PeriodFlow) {
			log.Printf("skipping log record %s: unknown flow %q", record.Date, record.PeriodFlow)
			continue
		}
		valid = append(valid, record)
	}
	return valid, nil
}

func (repo *LogRepository) publish(change changefeed.Change) {
	if repo.changes != nil {
		repo.changes.Publish(change)
	}
}

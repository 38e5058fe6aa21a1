package db

import (
	"github.com/lunaria-app/lunaria/internal/models"
	"gorm.io/gorm"
)

type SettingRepository struct {
	database *gorm.DB
}

func NewSettingRepository(database *gorm.DB) *SettingRepository {
	return &SettingRepository{database: database}
}

func (repo *SettingRepository) Get(key string) (string, bool, error) {
	setting := models.Setting{}
	result := repo.database.Where("key = ?", key).Limit(1).Find(&setting)
	if result.Error != nil {
		return "", false, result.Error
	}
	if result.RowsAffected == 0 {
		return "", false, nil
	}
	return setting.Value, true, nil
}

func (repo *SettingRepository) Set(key string, value string) error {
	existing := models.Setting{}
	result := repo.database.Where("key = ?", key).Limit(1).Find(&existing)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		existing.Value = value
		return repo.database.Save(&existing).Error
	}
	return repo.database.Create(&models.Setting{Key: key, Value: value}).Error
}

func (repo *SettingRepository) Delete(key string) error {
	return repo.database.Where("key = ?", key).Delete(&models.Setting{}).Error
}

// ListAllowed returns the stored values for the backup allow-list, keyed by
// setting key. Keys with no stored value are omitted.
func (repo *SettingRepository) ListAllowed() (map[string]string, error) {
	settings := make([]models.Setting, 0)
	if err := repo.database.Where("key IN ?", models.BackupSettingKeys()).Find(&settings).Error; err != nil {
		return nil, err
	}

	values := make(map[string]string, len(settings))
	for _, setting := range settings {
		values[setting.Key] = setting.Value
	}
	return values, nil
}

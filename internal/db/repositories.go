package db

import (
	"github.com/lunaria-app/lunaria/internal/changefeed"
	"gorm.io/gorm"
)

type Repositories struct {
	Logs     *LogRepository
	Settings *SettingRepository
}

func NewRepositories(database *gorm.DB, changes *changefeed.Bus) *Repositories {
	return &Repositories{
		Logs:     NewLogRepository(database, changes),
		Settings: NewSettingRepository(database),
	}
}

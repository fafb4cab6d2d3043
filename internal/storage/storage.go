package storage

import (
	"os"
	"sync"

	"journal-backend/internal/config"
	"journal-backend/internal/util/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

var (
	db     *gorm.DB
	dbOnce sync.Once
)

func GetDb() *gorm.DB {
	dbOnce.Do(loadDb)
	return db
}

func loadDb() {
	log := logger.GetLogger()

	conn, err := gorm.Open(postgres.Open(config.GetEnv().DatabaseDsn), &gorm.Config{
		Logger: gorm_logger.Default.LogMode(gorm_logger.Silent),
	})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	sqlDb, err := conn.DB()
	if err != nil {
		log.Error("Failed to get database handle", "error", err)
		os.Exit(1)
	}

	sqlDb.SetMaxOpenConns(10)
	sqlDb.SetMaxIdleConns(5)

	log.Info("Connected to database")
	db = conn
}

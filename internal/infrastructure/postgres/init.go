package postgres

import (
	"log"

	"github.com/bgoldmann/darkstore/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MustInitDB opens the pool. Schema is owned by the SQL migrations, not AutoMigrate.
func MustInitDB(cfg *config.EscrowConfig) *gorm.DB {
	dsn := cfg.OrderDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v\n", err.Error())
	}
	sqlDB.SetMaxOpenConns(cfg.OrderDB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.OrderDB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.OrderDB.ConnMaxLifetime)

	return db
}

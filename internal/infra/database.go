package infra

import (
	"fmt"
	"time"

	"bodega/internal/config"
	"bodega/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase opens the Postgres connection pool and migrates the schema.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.Env == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info().Msg("database connected and migrated")
	return db, nil
}

// Migrate applies the schema. Order matters: referenced tables first.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Proveedor{},
		&model.Categoria{},
		&model.Marca{},
		&model.Producto{},
		&model.Pedido{},
		&model.PedidoItem{},
		&model.MovimientoStock{},
	)
}

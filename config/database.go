package config

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"videoflix/constant"
)

const (
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverSQLite   = "sqlite"
)

// NewDB opens the catalog database. Postgres goes through lib/pq so the pool
// settings apply to the *sql.DB that gorm wraps.
func NewDB(cfg Database, environment string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
	if environment == constant.EnvironmentDevelop.String() {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	switch cfg.Driver {
	case DatabaseDriverPostgres, "":
		db, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(time.Hour)
		return gorm.Open(postgres.New(postgres.Config{Conn: db}), gormCfg)
	case DatabaseDriverSQLite:
		gormDB, err := gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
		if err != nil {
			return nil, err
		}
		db, err := gormDB.DB()
		if err != nil {
			return nil, err
		}
		// sqlite serialises writers; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		return gormDB, nil
	default:
		return nil, fmt.Errorf("unknown database driver: %s (supported: postgres, sqlite)", cfg.Driver)
	}
}

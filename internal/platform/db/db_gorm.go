// Package db opens the service database and runs schema migrations.
package db

import (
	"log"
	"time"

	"stock_watchlist/internal/config"
	stocksadapters "stock_watchlist/internal/feature/stocks/adapters"
	watchlistentity "stock_watchlist/internal/feature/watchlist/domain/entity"

	gpostgres "gorm.io/driver/postgres"
	gsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenDB opens the configured database and migrates the schema.
// When a Postgres DSN is configured it connects with a retry loop (the
// database may still be starting); otherwise it opens the local SQLite file.
func OpenDB(cfg config.Database) *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	if cfg.PostgresDSN != "" {
		deadline := time.Now().Add(60 * time.Second)
		for {
			db, err = gorm.Open(gpostgres.Open(cfg.PostgresDSN), &gorm.Config{})
			if err == nil {
				break
			}
			if time.Now().After(deadline) {
				log.Fatalf("DB connect failed after 60s: %v", err)
			}
			log.Printf("DB connect failed, retrying...: %v", err)
			time.Sleep(3 * time.Second)
		}
	} else {
		path := cfg.SQLitePath
		if path == "" {
			path = "stock_watchlist.db"
		}
		db, err = gorm.Open(gsqlite.Open(path), &gorm.Config{})
		if err != nil {
			log.Fatalf("open sqlite %s: %v", path, err)
		}
	}

	if err := db.AutoMigrate(
		&watchlistentity.WatchedSymbol{},
		&stocksadapters.PriceSampleModel{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return db
}

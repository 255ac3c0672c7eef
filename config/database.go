package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

var (
	DB         *sql.DB
	initDBOnce sync.Once
)

// InitDB opens the PostgreSQL connection backing STORAGE_DRIVER=postgres.
func InitDB() error {
	var initError error
	initDBOnce.Do(func() {
		connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			PostgresUser, PostgresPassword, PostgresHost, PostgresPort, PostgresDB)

		db, err := sql.Open("postgres", connStr)
		if err != nil {
			initError = fmt.Errorf("open PostgreSQL connection: %w", err)
			return
		}

		// The portal writes a handful of keys; a small pool is plenty.
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(10 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			initError = fmt.Errorf("ping PostgreSQL: %w", err)
			return
		}

		DB = db
		log.Println("✅ Connected to PostgreSQL")
	})

	return initError
}

// CloseDB closes the database connection gracefully
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

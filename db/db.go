package db

import (
	"database/sql"
	"fmt"

	"blogger-api/config"
	"blogger-api/logger"

	_ "github.com/lib/pq"
)

func Connect(cfg config.DatabaseConfig) (*sql.DB, error) {
	logger.Log.WithField("connection", cfg.SafeURL()).Info("Attempting to connect to the database")

	db, err := sql.Open("postgres", cfg.URL())
	if err != nil {
		logger.Log.WithError(err).Error("Failed to open database connection")
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = db.Ping(); err != nil {
		logger.Log.WithError(err).Error("Failed to ping database")
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Log.Info("Database connection established successfully")
	return db, nil
}

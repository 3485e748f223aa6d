package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"adinsights/internal/config"
)

type Database struct {
	DB     *sql.DB
	logger *zap.Logger
}

func NewDatabase(cfg *config.Config, logger *zap.Logger) (*Database, error) {
	// Build PostgreSQL connection string
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	db, err := sql.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connected successfully",
		zap.String("driver", cfg.Database.Driver),
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("dbname", cfg.Database.DBName),
	)

	database := &Database{
		DB:     db,
		logger: logger,
	}

	// Run migrations
	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return database, nil
}

func (d *Database) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS api_tokens (
			id SERIAL PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			provider VARCHAR(64) NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT DEFAULT '',
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, provider)
		);`,
		`CREATE TABLE IF NOT EXISTS ad_accounts (
			id SERIAL PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			platform VARCHAR(64) NOT NULL,
			account_id TEXT NOT NULL,
			account_name TEXT DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, platform, account_id)
		);`,
		`CREATE TABLE IF NOT EXISTS connected_forms (
			form_id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			website_url TEXT DEFAULT '',
			field_mappings JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS leads (
			id UUID PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			form_id VARCHAR(255) NOT NULL,
			source VARCHAR(64) NOT NULL,
			raw_data JSONB NOT NULL DEFAULT '{}',
			email TEXT DEFAULT '',
			name TEXT DEFAULT '',
			phone TEXT DEFAULT '',
			company TEXT DEFAULT '',
			message TEXT DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS lead_remarks (
			id UUID PRIMARY KEY,
			lead_id UUID NOT NULL,
			user_id VARCHAR(255) NOT NULL,
			remark TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS user_preferences (
			user_id VARCHAR(255) NOT NULL,
			platform VARCHAR(64) NOT NULL,
			account_id TEXT NOT NULL,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY(user_id, platform)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_api_tokens_user_provider ON api_tokens(user_id, provider);`,
		`CREATE INDEX IF NOT EXISTS idx_ad_accounts_user ON ad_accounts(user_id, platform);`,
		`CREATE INDEX IF NOT EXISTS idx_leads_user ON leads(user_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_lead_remarks_lead ON lead_remarks(lead_id);`,
	}

	for _, stmt := range statements {
		if _, err := d.DB.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	d.logger.Info("Database migrations completed successfully")
	return nil
}

func (d *Database) Close() error {
	return d.DB.Close()
}

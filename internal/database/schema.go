package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Timestamps are BIGINT Unix milliseconds in both dialects so that range
// scans on start_date compare plain integers.

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                       BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email                    VARCHAR(255) NOT NULL,
		password_hash            VARCHAR(255) NOT NULL,
		name                     VARCHAR(255) NOT NULL DEFAULT '',
		plan                     VARCHAR(16)  NOT NULL DEFAULT 'free',
		city                     VARCHAR(128) NOT NULL DEFAULT '',
		state                    VARCHAR(128) NOT NULL DEFAULT '',
		country                  VARCHAR(128) NOT NULL DEFAULT '',
		interests                TEXT         NOT NULL,
		has_completed_onboarding TINYINT(1)   NOT NULL DEFAULT 0,
		free_events_created      INT          NOT NULL DEFAULT 0,
		created_at               BIGINT       NOT NULL,
		updated_at               BIGINT       NOT NULL,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS events (
		id                 BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title              VARCHAR(255)  NOT NULL,
		description        TEXT          NOT NULL,
		category           VARCHAR(32)   NOT NULL,
		tags               TEXT          NOT NULL,
		start_date         BIGINT        NOT NULL,
		end_date           BIGINT        NOT NULL,
		timezone           VARCHAR(64)   NOT NULL DEFAULT '',
		location_type      VARCHAR(16)   NOT NULL DEFAULT 'physical',
		venue              VARCHAR(1024) NOT NULL DEFAULT '',
		address            VARCHAR(512)  NOT NULL DEFAULT '',
		city               VARCHAR(128)  NOT NULL,
		state              VARCHAR(128)  NOT NULL DEFAULT '',
		country            VARCHAR(128)  NOT NULL DEFAULT '',
		capacity           INT           NOT NULL,
		ticket_type        VARCHAR(16)   NOT NULL DEFAULT 'free',
		ticket_price       DOUBLE        NULL,
		cover_image        VARCHAR(1024) NOT NULL DEFAULT '',
		theme_color        VARCHAR(16)   NOT NULL DEFAULT '#1e3a8a',
		registration_count INT           NOT NULL DEFAULT 0,
		created_by         BIGINT UNSIGNED NOT NULL,
		created_at         BIGINT        NOT NULL,
		INDEX idx_events_start (start_date),
		INDEX idx_events_category_start (category, start_date),
		INDEX idx_events_city_start (city, start_date),
		INDEX idx_events_state_start (state, start_date),
		INDEX idx_events_created_by (created_by),
		CONSTRAINT fk_events_user FOREIGN KEY (created_by) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS registrations (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		event_id       BIGINT UNSIGNED NOT NULL,
		user_id        BIGINT UNSIGNED NOT NULL,
		attendee_name  VARCHAR(255) NOT NULL DEFAULT '',
		attendee_email VARCHAR(255) NOT NULL DEFAULT '',
		qr_code        VARCHAR(64)  NOT NULL,
		checked_in     TINYINT(1)   NOT NULL DEFAULT 0,
		checked_in_at  BIGINT       NULL,
		created_at     BIGINT       NOT NULL,
		UNIQUE KEY uq_registrations_code (qr_code),
		UNIQUE KEY uq_registrations_event_user (event_id, user_id),
		INDEX idx_registrations_user (user_id),
		CONSTRAINT fk_registrations_event FOREIGN KEY (event_id) REFERENCES events(id),
		CONSTRAINT fk_registrations_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at BIGINT   NOT NULL,
		revoked_at BIGINT   NULL,
		created_at BIGINT   NOT NULL,
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		INDEX idx_refresh_tokens_user (user_id),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                       INTEGER PRIMARY KEY AUTOINCREMENT,
		email                    TEXT    NOT NULL UNIQUE,
		password_hash            TEXT    NOT NULL,
		name                     TEXT    NOT NULL DEFAULT '',
		plan                     TEXT    NOT NULL DEFAULT 'free',
		city                     TEXT    NOT NULL DEFAULT '',
		state                    TEXT    NOT NULL DEFAULT '',
		country                  TEXT    NOT NULL DEFAULT '',
		interests                TEXT    NOT NULL DEFAULT '[]',
		has_completed_onboarding INTEGER NOT NULL DEFAULT 0,
		free_events_created      INTEGER NOT NULL DEFAULT 0,
		created_at               INTEGER NOT NULL,
		updated_at               INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		title              TEXT    NOT NULL,
		description        TEXT    NOT NULL,
		category           TEXT    NOT NULL,
		tags               TEXT    NOT NULL DEFAULT '[]',
		start_date         INTEGER NOT NULL,
		end_date           INTEGER NOT NULL,
		timezone           TEXT    NOT NULL DEFAULT '',
		location_type      TEXT    NOT NULL DEFAULT 'physical',
		venue              TEXT    NOT NULL DEFAULT '',
		address            TEXT    NOT NULL DEFAULT '',
		city               TEXT    NOT NULL,
		state              TEXT    NOT NULL DEFAULT '',
		country            TEXT    NOT NULL DEFAULT '',
		capacity           INTEGER NOT NULL CHECK (capacity >= 1),
		ticket_type        TEXT    NOT NULL DEFAULT 'free',
		ticket_price       REAL,
		cover_image        TEXT    NOT NULL DEFAULT '',
		theme_color        TEXT    NOT NULL DEFAULT '#1e3a8a',
		registration_count INTEGER NOT NULL DEFAULT 0,
		created_by         INTEGER NOT NULL REFERENCES users(id),
		created_at         INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_start ON events (start_date)`,
	`CREATE INDEX IF NOT EXISTS idx_events_category_start ON events (category, start_date)`,
	`CREATE INDEX IF NOT EXISTS idx_events_city_start ON events (city, start_date)`,
	`CREATE INDEX IF NOT EXISTS idx_events_state_start ON events (state, start_date)`,
	`CREATE INDEX IF NOT EXISTS idx_events_created_by ON events (created_by)`,
	`CREATE TABLE IF NOT EXISTS registrations (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id       INTEGER NOT NULL REFERENCES events(id),
		user_id        INTEGER NOT NULL REFERENCES users(id),
		attendee_name  TEXT    NOT NULL DEFAULT '',
		attendee_email TEXT    NOT NULL DEFAULT '',
		qr_code        TEXT    NOT NULL UNIQUE,
		checked_in     INTEGER NOT NULL DEFAULT 0,
		checked_in_at  INTEGER,
		created_at     INTEGER NOT NULL,
		UNIQUE (event_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_registrations_user ON registrations (user_id)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    INTEGER NOT NULL REFERENCES users(id),
		token_hash TEXT    NOT NULL UNIQUE,
		expires_at INTEGER NOT NULL,
		revoked_at INTEGER,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user ON refresh_tokens (user_id)`,
}

// Migrate creates any missing tables and indexes.  Statements run one at a
// time because the MySQL driver rejects multi-statement Exec by default.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	var stmts []string
	switch db.DriverName() {
	case "mysql":
		stmts = mysqlSchema
	case "sqlite":
		stmts = sqliteSchema
	default:
		return fmt.Errorf("migrate: unsupported driver %q", db.DriverName())
	}
	for i, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}

package database

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          UUID PRIMARY KEY,
		username    VARCHAR(150) NOT NULL,
		email       VARCHAR(254) NOT NULL,
		password    VARCHAR(255) NOT NULL,
		first_name  VARCHAR(150) NOT NULL DEFAULT '',
		last_name   VARCHAR(150) NOT NULL DEFAULT '',
		role        VARCHAR(20)  NOT NULL DEFAULT 'member',
		is_active   BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
		CONSTRAINT users_username_key UNIQUE (username)
	)`,
	`CREATE INDEX IF NOT EXISTS users_email_idx ON users (email)`,
	`CREATE TABLE IF NOT EXISTS movies (
		id            UUID PRIMARY KEY,
		title         VARCHAR(100)     NOT NULL,
		description   TEXT,
		release_date  DATE             NOT NULL,
		genre         VARCHAR(50)      NOT NULL,
		rating        DOUBLE PRECISION NOT NULL,
		cast_members  JSONB,
		director      VARCHAR(100),
		created_at    TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
		CONSTRAINT movies_rating_between_0_and_5 CHECK (rating >= 0.0 AND rating <= 5.0)
	)`,
	`CREATE INDEX IF NOT EXISTS movies_genre_idx ON movies (genre)`,
}

// Migrate creates the tables if they don't exist.
func Migrate(ctx context.Context, db PgxIface) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

package db

import "log"

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS favorites (
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	media_id BIGINT NOT NULL,
	media_type TEXT NOT NULL,
	UNIQUE (user_id, media_id, media_type)
);

CREATE TABLE IF NOT EXISTS notifications (
	id SERIAL PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	show_id TEXT NOT NULL,
	date_created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	notification_date TEXT NOT NULL,
	UNIQUE (user_id, show_id, notification_date)
);
`

// Migrate applies the schema. Every statement is idempotent, so it is safe
// to run on every startup.
func Migrate() {
	if _, err := DB.Exec(schema); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	log.Println("Database schema is up to date")
}

package database

import (
	"context"
	"fmt"
)

// schemaStatements create the three record collections. The partial unique
// index on bookings(slot_id) backs the slot claim at the store level: a slot
// can never carry two pending/confirmed bookings.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS experiences (
		id                UUID PRIMARY KEY,
		title             TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		short_description TEXT NOT NULL DEFAULT '',
		price             BIGINT NOT NULL CHECK (price >= 0),
		images            TEXT[] NOT NULL DEFAULT '{}',
		available_dates   TEXT[] NOT NULL DEFAULT '{}',
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS slots (
		id            UUID PRIMARY KEY,
		experience_id UUID NOT NULL REFERENCES experiences(id) ON DELETE CASCADE,
		slot_date     TEXT NOT NULL,
		slot_time     TEXT NOT NULL,
		is_booked     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (experience_id, slot_date, slot_time)
	)`,
	`CREATE INDEX IF NOT EXISTS slots_experience_id_idx ON slots (experience_id)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id              UUID PRIMARY KEY,
		experience_id   UUID NOT NULL REFERENCES experiences(id),
		slot_id         UUID NOT NULL REFERENCES slots(id),
		user_name       TEXT NOT NULL CHECK (user_name <> ''),
		user_email      TEXT NOT NULL CHECK (user_email <> ''),
		user_phone      TEXT NOT NULL CHECK (user_phone <> ''),
		slot_date       TEXT NOT NULL,
		slot_time       TEXT NOT NULL,
		original_price  BIGINT NOT NULL CHECK (original_price >= 0),
		discount        BIGINT NOT NULL DEFAULT 0 CHECK (discount >= 0),
		total_price     BIGINT NOT NULL CHECK (total_price >= 0),
		promo_code      TEXT,
		status          TEXT NOT NULL DEFAULT 'confirmed'
		                CHECK (status IN ('pending', 'confirmed', 'cancelled')),
		idempotency_key TEXT UNIQUE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS bookings_active_slot_idx
		ON bookings (slot_id) WHERE status <> 'cancelled'`,
}

// Migrate creates the schema if it does not exist yet
func Migrate(ctx context.Context, db DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

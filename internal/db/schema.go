package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'manager', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    email      TEXT,
    phone      TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE TABLE IF NOT EXISTS projects (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    code       TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE TABLE IF NOT EXISTS assets (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    serial      TEXT NOT NULL,
    barcode     TEXT NOT NULL,
    status      TEXT NOT NULL DEFAULT 'available'
                CHECK (status IN ('available', 'checked_out', 'maintenance', 'retired')),
    notes       TEXT,
    photo       BLOB,
    photo_mime  TEXT,
    photo_thumb BLOB,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at  DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_assets_serial_active
    ON assets(serial) WHERE deleted_at IS NULL;
CREATE UNIQUE INDEX IF NOT EXISTS idx_assets_barcode_active
    ON assets(barcode) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS kits (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    barcode     TEXT NOT NULL,
    description TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at  DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_kits_barcode_active
    ON kits(barcode) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS work_orders (
    id                   INTEGER PRIMARY KEY,
    title                TEXT NOT NULL,
    status               TEXT NOT NULL DEFAULT 'draft'
                         CHECK (status IN ('draft', 'in_progress', 'ready', 'checked_out', 'cancelled')),
    custodian_user_id    INTEGER REFERENCES users(id),
    custodian_contact_id INTEGER REFERENCES contacts(id),
    custodian_project_id INTEGER REFERENCES projects(id),
    assigned_to          INTEGER REFERENCES users(id),
    due_date             DATETIME,
    pickup_date          DATETIME,
    expected_return_date DATETIME,
    notes                TEXT,
    created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK (
        (custodian_user_id IS NOT NULL) + (custodian_contact_id IS NOT NULL) +
        (custodian_project_id IS NOT NULL) = 1
    )
);

CREATE TABLE IF NOT EXISTS work_order_items (
    id            INTEGER PRIMARY KEY,
    work_order_id INTEGER NOT NULL REFERENCES work_orders(id) ON DELETE CASCADE,
    asset_id      INTEGER REFERENCES assets(id),
    kit_id        INTEGER REFERENCES kits(id),
    quantity      INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
    is_staged     INTEGER NOT NULL DEFAULT 0,
    CHECK ((asset_id IS NOT NULL) + (kit_id IS NOT NULL) = 1)
);

CREATE INDEX IF NOT EXISTS idx_work_order_items_order
    ON work_order_items(work_order_id);

CREATE TABLE IF NOT EXISTS transactions (
    id            INTEGER PRIMARY KEY,
    reference     TEXT NOT NULL UNIQUE,
    work_order_id INTEGER NOT NULL REFERENCES work_orders(id),
    custodian     TEXT NOT NULL,
    item_count    INTEGER NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    created_by    INTEGER REFERENCES users(id)
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

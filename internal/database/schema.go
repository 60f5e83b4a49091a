package database

// Table definitions for the relational side. EnsureSchema is idempotent:
// IF NOT EXISTS makes an already-created table benign, matching the
// create-on-startup behavior expected of the store.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		color TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		room_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id BIGINT PRIMARY KEY,
		short_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		admin_id BIGINT NOT NULL REFERENCES accounts (id),
		created TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS room_members (
		room_id BIGINT NOT NULL REFERENCES rooms (id),
		user_id BIGINT NOT NULL REFERENCES accounts (id),
		UNIQUE (room_id, user_id)
	)`,
}

func (db *PgAccountRepository) EnsureSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

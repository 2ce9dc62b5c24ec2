package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Child tables cascade on session delete, so removing a session (or a whole
// trip on import) never leaves orphans.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trips (
    owner_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS participants (
    session_id TEXT NOT NULL,
    id INTEGER NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (session_id, id),
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    session_id TEXT NOT NULL,
    id INTEGER NOT NULL,
    title TEXT NOT NULL,
    payer_id INTEGER NOT NULL,
    amount REAL NOT NULL,
    split_mode TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (session_id, id),
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expense_involved (
    session_id TEXT NOT NULL,
    expense_id INTEGER NOT NULL,
    participant_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    FOREIGN KEY (session_id, expense_id) REFERENCES expenses(session_id, id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expense_splits (
    session_id TEXT NOT NULL,
    expense_id INTEGER NOT NULL,
    participant_id INTEGER NOT NULL,
    amount REAL NOT NULL,
    PRIMARY KEY (session_id, expense_id, participant_id),
    FOREIGN KEY (session_id, expense_id) REFERENCES expenses(session_id, id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS paid_settlements (
    session_id TEXT NOT NULL,
    settlement_key TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (session_id, settlement_key),
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_sessions_owner_id ON sessions(owner_id);
CREATE INDEX IF NOT EXISTS idx_participants_session_id ON participants(session_id);
CREATE INDEX IF NOT EXISTS idx_expenses_session_id ON expenses(session_id);
CREATE INDEX IF NOT EXISTS idx_expense_involved_expense ON expense_involved(session_id, expense_id);
CREATE INDEX IF NOT EXISTS idx_expense_splits_expense ON expense_splits(session_id, expense_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

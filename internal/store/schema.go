package store

// Currency and rate columns hold decimal strings so values survive a round
// trip without float formatting drift.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
    session_id           TEXT PRIMARY KEY,
    current_year         INTEGER NOT NULL,
    retirement_year      INTEGER NOT NULL,
    monthly_income       TEXT NOT NULL,
    monthly_expenses     TEXT NOT NULL,
    retirement_rate      TEXT NOT NULL,
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS goals (
    session_id           TEXT NOT NULL REFERENCES sessions(session_id) ON DELETE CASCADE,
    position             INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    target_amount        TEXT NOT NULL,
    target_year          INTEGER NOT NULL,
    monthly_contribution TEXT NOT NULL,
    annual_rate          TEXT NOT NULL,
    solved_for           TEXT NOT NULL,
    created_year         INTEGER NOT NULL,
    PRIMARY KEY (session_id, position)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_goals_name ON goals(session_id, name);
CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);
`

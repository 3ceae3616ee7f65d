package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE ENGAGEMENT STATE
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create engagement state table
-- Version: 001

-- The engine persists one live progression record plus two auxiliary flags.
-- Each lives under its own fixed key, mirroring the key-value layout used
-- by the Redis backend.
CREATE TABLE IF NOT EXISTS engagement_state (
    key TEXT PRIMARY KEY,
    value JSONB NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT known_key CHECK (key IN (
        'udst:health:user',
        'udst:health:daily_bonus',
        'udst:health:pinned'
    ))
);
`

const migration001Down = `
DROP TABLE IF EXISTS engagement_state;
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_engagement_state",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
	}
}

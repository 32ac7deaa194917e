package postgres

// ══════════════════════════════════════════════════════════════════════════════
// SCHEMA
// ══════════════════════════════════════════════════════════════════════════════

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS tracker_documents (
    name TEXT PRIMARY KEY,
    body JSONB NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

const selectDocument = `SELECT body::text FROM tracker_documents WHERE name = $1`

const upsertDocument = `
INSERT INTO tracker_documents (name, body, updated_at)
VALUES ($1, $2::jsonb, NOW())
ON CONFLICT (name) DO UPDATE
SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
`

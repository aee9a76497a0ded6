package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Owner and collaborator columns carry no foreign keys on purpose: deleting a
// user does not retract their tasks, categories, or collaborator references.
// The original system behaved this way and nothing downstream assumes
// referential cleanup.
//
// task_collaborators has no uniqueness over (task_id, user_id): repeated
// invites append repeated rows, as before.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL,
	age           INT  NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	id         UUID PRIMARY KEY,
	user_id    UUID NOT NULL,
	token_hash TEXT NOT NULL,
	revoked_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions (user_id);

CREATE TABLE IF NOT EXISTS tasks (
	id          UUID PRIMARY KEY,
	owner_id    UUID NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	completed   BOOLEAN NOT NULL DEFAULT FALSE,
	priority    TEXT,
	due_date    TIMESTAMPTZ,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks (owner_id);

CREATE TABLE IF NOT EXISTS task_collaborators (
	task_id    UUID NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	user_id    UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_task_collaborators_task ON task_collaborators (task_id);
CREATE INDEX IF NOT EXISTS idx_task_collaborators_user ON task_collaborators (user_id);

CREATE TABLE IF NOT EXISTS categories (
	id         UUID PRIMARY KEY,
	owner_id   UUID NOT NULL,
	name       TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS jobs (
	id              UUID PRIMARY KEY,
	type            TEXT NOT NULL,
	payload         JSONB NOT NULL,
	status          TEXT NOT NULL,
	attempts        INT NOT NULL DEFAULT 0,
	max_attempts    INT NOT NULL,
	run_at          TIMESTAMPTZ NOT NULL,
	locked_at       TIMESTAMPTZ,
	locked_by       TEXT,
	last_error      TEXT,
	idempotency_key TEXT UNIQUE,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_claim ON jobs (status, run_at);
`

// EnsureSchema creates the tables on startup when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}

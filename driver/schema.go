package driver

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id                 UUID PRIMARY KEY,
    email              VARCHAR(255) NOT NULL UNIQUE,
    tier               VARCHAR(32)  NOT NULL DEFAULT 'FREE',
    stripe_customer_id VARCHAR(255) UNIQUE,
    created_at         TIMESTAMPTZ  NOT NULL DEFAULT now(),
    updated_at         TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tickets (
    id                 UUID PRIMARY KEY,
    user_id            UUID         NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    pcn_number         VARCHAR(64)  NOT NULL,
    vehicle_reg        VARCHAR(16)  NOT NULL,
    issuer_type        VARCHAR(32)  NOT NULL,
    issuer             VARCHAR(255) NOT NULL,
    contravention_code VARCHAR(16)  NOT NULL DEFAULT '',
    location           TEXT         NOT NULL DEFAULT '',
    initial_amount     BIGINT       NOT NULL,
    status             VARCHAR(64)  NOT NULL,
    issued_at          TIMESTAMPTZ  NOT NULL,
    created_at         TIMESTAMPTZ  NOT NULL DEFAULT now(),
    updated_at         TIMESTAMPTZ  NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS tickets_user_id_idx ON tickets (user_id);

CREATE TABLE IF NOT EXISTS price_increases (
    id           UUID PRIMARY KEY,
    ticket_id    UUID        NOT NULL REFERENCES tickets (id) ON DELETE CASCADE,
    amount       BIGINT      NOT NULL,
    effective_at TIMESTAMPTZ NOT NULL,
    source_type  VARCHAR(32) NOT NULL,
    reason       TEXT        NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS price_increases_ticket_id_idx ON price_increases (ticket_id);

CREATE TABLE IF NOT EXISTS reminders (
    id                UUID PRIMARY KEY,
    ticket_id         UUID        NOT NULL REFERENCES tickets (id) ON DELETE CASCADE,
    send_at           TIMESTAMPTZ NOT NULL,
    type              VARCHAR(32) NOT NULL,
    notification_type VARCHAR(16) NOT NULL,
    sent_at           TIMESTAMPTZ,
    claimed_at        TIMESTAMPTZ,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
ALTER TABLE reminders ADD COLUMN IF NOT EXISTS claimed_at TIMESTAMPTZ;
CREATE INDEX IF NOT EXISTS reminders_due_idx ON reminders (send_at) WHERE sent_at IS NULL;

CREATE TABLE IF NOT EXISTS challenges (
    id         UUID PRIMARY KEY,
    ticket_id  UUID         NOT NULL REFERENCES tickets (id) ON DELETE CASCADE,
    job_id     VARCHAR(255) NOT NULL UNIQUE,
    type       VARCHAR(64)  NOT NULL,
    status     VARCHAR(32)  NOT NULL,
    result     JSONB,
    created_at TIMESTAMPTZ  NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS events (
    source     VARCHAR(32)  NOT NULL,
    id         VARCHAR(255) NOT NULL,
    type       VARCHAR(255) NOT NULL,
    processed  BOOLEAN      NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ  NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ  NOT NULL DEFAULT now(),
    PRIMARY KEY (source, id)
);
`

// Migrate creates any missing tables. It is safe to run on every start.
func Migrate(ctx context.Context, pool PostgresPool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

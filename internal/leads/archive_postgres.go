package leads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"leadgate/pkg/sentinel"
)

// PostgresArchive persists leads in PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE leads (
//	    id           UUID PRIMARY KEY,
//	    session_id   TEXT NOT NULL UNIQUE,
//	    first_name   TEXT NOT NULL,
//	    last_name    TEXT NOT NULL,
//	    email        TEXT NOT NULL,
//	    phone_number TEXT NOT NULL,
//	    vehicle_type TEXT NOT NULL,
//	    loan_amount  TEXT NOT NULL,
//	    bot          BOOLEAN NOT NULL DEFAULT FALSE,
//	    payload      JSONB NOT NULL,
//	    response     JSONB,
//	    submitted_at TIMESTAMPTZ NOT NULL
//	);
type PostgresArchive struct {
	db *sql.DB
}

func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{db: db}
}

// Record inserts the lead. A session that was already archived is left
// untouched; the UNIQUE constraint on session_id makes retries idempotent.
func (a *PostgresArchive) Record(ctx context.Context, lead *Lead) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO leads (
			id, session_id, first_name, last_name, email, phone_number,
			vehicle_type, loan_amount, bot, payload, response, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (session_id) DO NOTHING`,
		lead.ID, lead.SessionID, lead.FirstName, lead.LastName,
		lead.Email, lead.PhoneNumber, lead.VehicleType, lead.LoanAmount,
		lead.Bot, []byte(lead.Payload), nullableJSON(lead.Response), lead.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("record lead: %w", err)
	}
	return nil
}

func (a *PostgresArchive) FindBySessionID(ctx context.Context, sessionID string) (*Lead, error) {
	var lead Lead
	var response []byte
	err := a.db.QueryRowContext(ctx, `
		SELECT id, session_id, first_name, last_name, email, phone_number,
		       vehicle_type, loan_amount, bot, payload, response, submitted_at
		FROM leads WHERE session_id = $1`, sessionID,
	).Scan(
		&lead.ID, &lead.SessionID, &lead.FirstName, &lead.LastName,
		&lead.Email, &lead.PhoneNumber, &lead.VehicleType, &lead.LoanAmount,
		&lead.Bot, &lead.Payload, &response, &lead.SubmittedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lead for session %q: %w", sessionID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find lead: %w", err)
	}
	if response != nil {
		lead.Response = response
	}
	return &lead, nil
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

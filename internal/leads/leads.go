// Package leads archives successfully submitted applications. The archive is
// the durable record of what went to the finance provider; the wizard session
// itself is ephemeral.
package leads

import (
	"context"
	"encoding/json"
	"time"
)

// Lead is one archived submission.
type Lead struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"sessionId"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phoneNumber"`
	VehicleType string          `json:"vehicleType"`
	LoanAmount  string          `json:"loanAmount"`
	Bot         bool            `json:"bot,omitempty"`
	Payload     json.RawMessage `json:"payload"`
	Response    json.RawMessage `json:"response,omitempty"`
	SubmittedAt time.Time       `json:"submittedAt"`
}

// Archive persists leads. Record must be idempotent on session ID so a
// retried submission cannot double-archive.
type Archive interface {
	Record(ctx context.Context, lead *Lead) error
	FindBySessionID(ctx context.Context, sessionID string) (*Lead, error)
}

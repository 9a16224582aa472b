// Package queue defines message payloads exchanged over the message broker.
package queue

// PaymentRecordedEvent is published when a payment is written to the ledger.
// It carries enough for downstream consumers to log, notify, or feed
// analytics without querying the primary database. Amount and status are the
// values at recording time; later updates are not republished.
type PaymentRecordedEvent struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method"`
	UserID        uint64  `json:"user_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

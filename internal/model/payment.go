package model

import "time"

// Payment statuses. A payment reaches exactly one terminal state; only the
// transition to StatusSuccess stamps ProcessedAt.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Accepted payment methods.
const (
	MethodCreditCard   = "credit_card"
	MethodDebitCard    = "debit_card"
	MethodPayPal       = "paypal"
	MethodBankTransfer = "bank_transfer"
	MethodCrypto       = "crypto"
)

// ValidStatus reports whether s is one of the known payment statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusSuccess || s == StatusFailed
}

// ValidMethod reports whether m is one of the accepted payment methods.
func ValidMethod(m string) bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodPayPal, MethodBankTransfer, MethodCrypto:
		return true
	}
	return false
}

// Party identifies one side of a transaction. All fields are optional
// free-text contact details.
type Party struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Payment is a single transaction record in the ledger.
//
// TransactionID is generated by the server on insert and never changes.
// FailureReason is meaningful only when Status is failed; ProcessedAt is nil
// until the payment succeeds. UserID references the owning account and is
// zero for unowned records.
type Payment struct {
	ID            uint64     `json:"id"`
	TransactionID string     `json:"transactionId"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"paymentMethod"`
	Sender        Party      `json:"sender"`
	Receiver      Party      `json:"receiver"`
	Description   string     `json:"description,omitempty"`
	FailureReason string     `json:"failureReason,omitempty"`
	ProcessedAt   *time.Time `json:"processedAt"`
	UserID        uint64     `json:"userId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

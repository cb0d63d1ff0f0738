package models

// Payment represents money that actually changed hands between two members,
// reducing what the payer owes the recipient. Recording the transfer
// suggested by a settlement plan produces exactly one of these.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// GroupID is the group this payment belongs to.
	GroupID string

	// PayerID is the member who handed over the money (debtor settling up).
	PayerID string

	// RecipientID is the member who received it (creditor being paid).
	RecipientID string

	// Amount is the transferred amount in minor currency units.
	Amount int64

	// Currency is the ISO 4217 code the payment was made in.
	Currency string

	// Description is an optional note (e.g., "momo transfer").
	Description string

	// Date is the Unix timestamp of when the transfer happened.
	Date int64

	// CreatedBy is the user ID that recorded the payment.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}

package models

// Expense represents a shared cost paid by one member and divided among
// participants via explicit shares. Expenses are immutable after creation
// except through an explicit edit, which replaces the row (and its shares)
// under the same ID.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// PayerID is the member who fronted the money. Must be a group member.
	PayerID string

	// Amount is the total cost in minor currency units.
	Amount int64

	// Currency is the ISO 4217 code the expense was incurred in. May differ
	// from the group default, in which case balances require a conversion rate.
	Currency string

	// Description is the human-readable label (e.g., "Dinner at Madam Lan").
	Description string

	// Date is the Unix timestamp of when the cost occurred (not when it was
	// recorded). Drives exchange-rate lookup for foreign-currency expenses.
	Date int64

	// Shares divides Amount among participants. The sum of share amounts must
	// equal Amount; storage enforces this at create/edit time.
	Shares []ParticipantShare

	// CreatedBy is the user ID that recorded the expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ParticipantShare is one member's portion of an expense.
type ParticipantShare struct {
	// MemberID is the participant owing this portion.
	MemberID string

	// Amount is the portion in the same minor units as the expense amount.
	Amount int64
}

// ShareTotal returns the sum of all share amounts.
func (e *Expense) ShareTotal() int64 {
	var total int64
	for _, s := range e.Shares {
		total += s.Amount
	}
	return total
}

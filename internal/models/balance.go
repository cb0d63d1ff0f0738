package models

// BalanceSheet is the derived net position of every group member, expressed
// in the group's default currency. It is recomputed from the full expense
// and payment set on every change and never persisted.
type BalanceSheet struct {
	// Balances maps member ID to signed net amount in minor units.
	// Positive = owed to this member; negative = this member owes the group.
	// For consistent input the values sum to exactly zero.
	Balances map[string]int64

	// Unresolved lists IDs of expenses/payments that were excluded because no
	// exchange rate to the group currency was available. Non-empty means the
	// sheet is incomplete and the UI should show a mixed-currency warning.
	Unresolved []string
}

// HasMixedCurrencyWarning reports whether any transaction could not be
// converted to the group currency and was excluded from the sheet.
func (b *BalanceSheet) HasMixedCurrencyWarning() bool {
	return len(b.Unresolved) > 0
}

// Total returns the sum of all balances. Zero for consistent input; a
// nonzero total is the symptom of shares not summing to their expense total.
func (b *BalanceSheet) Total() int64 {
	var total int64
	for _, amount := range b.Balances {
		total += amount
	}
	return total
}

// SettlementSuggestion is one proposed transfer in a settlement plan:
// Payer hands Amount to Recipient. Applying every suggestion in a plan as a
// real Payment drives all balances to zero.
type SettlementSuggestion struct {
	// PayerID is the debtor who should pay.
	PayerID string

	// RecipientID is the creditor who should receive.
	RecipientID string

	// Amount is the suggested transfer in minor units of the group currency.
	// Always > 0.
	Amount int64
}

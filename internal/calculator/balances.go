// Package calculator implements the pure balance and settlement
// computations. Both entry points are synchronous, side-effect-free
// functions over in-memory snapshots; callers own persistence and
// recomputation triggers.
package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/splitmate/splitmate/internal/models"
)

// ComputeBalances derives every member's net position in the group's
// default currency from the full expense and payment set.
//
// For each expense the payer's balance increases by the expense total (they
// fronted the money) and each participant's balance decreases by their
// share. A payer who is also a participant nets naturally, since both
// adjustments land on the same member. For each payment the payer's balance
// increases and the recipient's decreases by the amount, mirroring the
// transfer.
//
// Foreign-currency transactions are converted via rates; when no rate is
// available the transaction is excluded and its ID recorded in the sheet's
// Unresolved list, so the caller sees an incomplete sheet instead of a
// silently wrong one.
//
// The calculator trusts its input. Shares that do not sum to their expense
// total are applied as-is; the resulting nonzero sheet total is the
// detectable symptom, and upstream validation is responsible for prevention.
func ComputeBalances(defaultCurrency string, expenses []models.Expense, payments []models.Payment, rates RateProvider) *models.BalanceSheet {
	sheet := &models.BalanceSheet{
		Balances: make(map[string]int64),
	}

	for _, e := range expenses {
		if e.Currency == defaultCurrency {
			sheet.Balances[e.PayerID] += e.Amount
			for _, s := range e.Shares {
				sheet.Balances[s.MemberID] -= s.Amount
			}
			continue
		}

		rate, ok := lookupRate(rates, e.Currency, defaultCurrency, e.Date)
		if !ok {
			sheet.Unresolved = append(sheet.Unresolved, e.ID)
			continue
		}

		total := convert(e.Amount, rate)
		sheet.Balances[e.PayerID] += total
		for _, s := range convertShares(e.Shares, rate, total) {
			sheet.Balances[s.MemberID] -= s.Amount
		}
	}

	for _, p := range payments {
		amount := p.Amount
		if p.Currency != defaultCurrency {
			rate, ok := lookupRate(rates, p.Currency, defaultCurrency, p.Date)
			if !ok {
				sheet.Unresolved = append(sheet.Unresolved, p.ID)
				continue
			}
			amount = convert(p.Amount, rate)
		}
		// Both sides move by the same converted amount, so the transfer is
		// symmetric and conservation holds regardless of rounding.
		sheet.Balances[p.PayerID] += amount
		sheet.Balances[p.RecipientID] -= amount
	}

	sort.Strings(sheet.Unresolved)
	return sheet
}

func lookupRate(rates RateProvider, from, to string, date int64) (decimal.Decimal, bool) {
	if rates == nil {
		return decimal.Decimal{}, false
	}
	return rates.Rate(from, to, date)
}

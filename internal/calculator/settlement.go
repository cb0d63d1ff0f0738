package calculator

import (
	"errors"
	"sort"

	"github.com/splitmate/splitmate/internal/models"
)

// ErrUnbalanced is returned when the planner terminates with residual
// nonzero balances. That can only happen when the input did not sum to
// zero, which indicates an upstream bug; callers should log it rather than
// present a partial plan as complete.
var ErrUnbalanced = errors.New("balances do not sum to zero")

// ComputeSettlementPlan produces an ordered list of suggested transfers
// that drives every balance to zero.
//
// The plan is built greedily: the debtor with the largest outstanding debt
// pays the creditor with the largest outstanding credit, the transfer being
// the smaller of the two magnitudes. Each round fully settles at least one
// member, so a group with n nonzero balances needs at most n-1 transfers.
// Exact minimization is NP-hard and the greedy bound is what the product
// promises.
//
// Ties on magnitude break by member ID ascending, so identical balance maps
// always yield the identical ordered plan.
//
// An empty map or one with only zero balances yields an empty plan and nil
// error. Residual imbalance after the loop yields the partial plan and
// ErrUnbalanced.
func ComputeSettlementPlan(balances map[string]int64) ([]models.SettlementSuggestion, error) {
	type position struct {
		memberID string
		amount   int64 // always > 0: credit for creditors, |debt| for debtors
	}

	var debtors, creditors []position
	for memberID, balance := range balances {
		switch {
		case balance < 0:
			debtors = append(debtors, position{memberID, -balance})
		case balance > 0:
			creditors = append(creditors, position{memberID, balance})
		}
	}

	// largest picks the index of the entry with the greatest amount,
	// breaking ties by member ID.
	largest := func(entries []position) int {
		best := 0
		for i := 1; i < len(entries); i++ {
			if entries[i].amount > entries[best].amount ||
				(entries[i].amount == entries[best].amount && entries[i].memberID < entries[best].memberID) {
				best = i
			}
		}
		return best
	}

	remove := func(entries []position, i int) []position {
		return append(entries[:i], entries[i+1:]...)
	}

	var plan []models.SettlementSuggestion
	for len(debtors) > 0 && len(creditors) > 0 {
		d := largest(debtors)
		c := largest(creditors)

		amount := debtors[d].amount
		if creditors[c].amount < amount {
			amount = creditors[c].amount
		}

		plan = append(plan, models.SettlementSuggestion{
			PayerID:     debtors[d].memberID,
			RecipientID: creditors[c].memberID,
			Amount:      amount,
		})

		debtors[d].amount -= amount
		creditors[c].amount -= amount
		if debtors[d].amount == 0 {
			debtors = remove(debtors, d)
		}
		if creditors[c].amount == 0 {
			creditors = remove(creditors, c)
		}
	}

	if len(debtors) > 0 || len(creditors) > 0 {
		return plan, ErrUnbalanced
	}
	return plan, nil
}

// SplitEqually divides total into shares for the given members, spreading
// any indivisible remainder one minor unit at a time across members in ID
// order so the shares always sum exactly to total. Works for negative
// totals (refunds) too: division floors, leaving a non-negative remainder.
func SplitEqually(total int64, memberIDs []string) []models.ParticipantShare {
	if len(memberIDs) == 0 {
		return nil
	}

	sorted := make([]string, len(memberIDs))
	copy(sorted, memberIDs)
	sort.Strings(sorted)

	n := int64(len(sorted))
	base := total / n
	remainder := total - base*n
	if remainder < 0 {
		base--
		remainder += n
	}

	shares := make([]models.ParticipantShare, len(sorted))
	for i, memberID := range sorted {
		amount := base
		if int64(i) < remainder {
			amount++
		}
		shares[i] = models.ParticipantShare{MemberID: memberID, Amount: amount}
	}
	return shares
}

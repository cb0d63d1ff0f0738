package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/splitmate/splitmate/internal/models"
)

// fakeRates implements RateProvider from a static table keyed by "FROM/TO".
type fakeRates map[string]decimal.Decimal

func (f fakeRates) Rate(from, to string, date int64) (decimal.Decimal, bool) {
	rate, ok := f[from+"/"+to]
	return rate, ok
}

func equalShares(total int64, members ...string) []models.ParticipantShare {
	return SplitEqually(total, members)
}

func TestComputeBalances(t *testing.T) {
	tests := []struct {
		name         string
		expenses     []models.Expense
		payments     []models.Payment
		rates        RateProvider
		wantBalances map[string]int64
		wantWarning  bool
	}{
		{
			name: "single expense split equally",
			expenses: []models.Expense{
				{ID: "e1", PayerID: "A", Amount: 300000, Currency: "VND", Shares: equalShares(300000, "A", "B", "C")},
			},
			wantBalances: map[string]int64{"A": 200000, "B": -100000, "C": -100000},
		},
		{
			name: "payment moves both sides toward zero",
			expenses: []models.Expense{
				{ID: "e1", PayerID: "A", Amount: 90000, Currency: "VND", Shares: equalShares(90000, "A", "B", "C")},
			},
			payments: []models.Payment{
				{ID: "p1", PayerID: "B", RecipientID: "A", Amount: 30000, Currency: "VND"},
			},
			wantBalances: map[string]int64{"A": 30000, "B": 0, "C": -30000},
		},
		{
			name: "payer who is not a participant",
			expenses: []models.Expense{
				{ID: "e1", PayerID: "A", Amount: 50000, Currency: "VND", Shares: equalShares(50000, "B", "C")},
			},
			wantBalances: map[string]int64{"A": 50000, "B": -25000, "C": -25000},
		},
		{
			name: "zero-amount payment is a no-op",
			expenses: []models.Expense{
				{ID: "e1", PayerID: "A", Amount: 40000, Currency: "VND", Shares: equalShares(40000, "A", "B")},
			},
			payments: []models.Payment{
				{ID: "p1", PayerID: "B", RecipientID: "A", Amount: 0, Currency: "VND"},
			},
			wantBalances: map[string]int64{"A": 20000, "B": -20000},
		},
		{
			name: "foreign expense converted with known rate",
			expenses: []models.Expense{
				// 10 USD at 25000 VND/USD = 250000 VND, split between A and B.
				{ID: "e1", PayerID: "A", Amount: 1000, Currency: "USD", Date: 100, Shares: equalShares(1000, "A", "B")},
			},
			rates:        fakeRates{"USD/VND": decimal.NewFromInt(250)},
			wantBalances: map[string]int64{"A": 125000, "B": -125000},
		},
		{
			name: "foreign expense without rate is excluded and flagged",
			expenses: []models.Expense{
				{ID: "e1", PayerID: "A", Amount: 300000, Currency: "VND", Shares: equalShares(300000, "A", "B", "C")},
				{ID: "e2", PayerID: "B", Amount: 500, Currency: "EUR", Shares: equalShares(500, "A", "B")},
			},
			rates:        fakeRates{},
			wantBalances: map[string]int64{"A": 200000, "B": -100000, "C": -100000},
			wantWarning:  true,
		},
		{
			name: "foreign payment without rate is excluded and flagged",
			payments: []models.Payment{
				{ID: "p1", PayerID: "B", RecipientID: "A", Amount: 10, Currency: "EUR"},
			},
			wantWarning: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := ComputeBalances("VND", tt.expenses, tt.payments, tt.rates)

			for member, want := range tt.wantBalances {
				if got := sheet.Balances[member]; got != want {
					t.Errorf("balance[%s] = %d, want %d", member, got, want)
				}
			}
			if got := sheet.HasMixedCurrencyWarning(); got != tt.wantWarning {
				t.Errorf("HasMixedCurrencyWarning() = %v, want %v", got, tt.wantWarning)
			}
		})
	}
}

func TestComputeBalancesZeroSum(t *testing.T) {
	// The conservation law: whenever every expense's shares sum to its
	// total, the sheet total is exactly zero, payments and conversions
	// included.
	rates := fakeRates{
		"USD/VND": decimal.RequireFromString("25387.5"),
		"THB/VND": decimal.RequireFromString("731.13"),
	}

	expenses := []models.Expense{
		{ID: "e1", PayerID: "A", Amount: 299999, Currency: "VND", Shares: equalShares(299999, "A", "B", "C")},
		{ID: "e2", PayerID: "B", Amount: 1003, Currency: "USD", Shares: equalShares(1003, "A", "B", "C", "D")},
		{ID: "e3", PayerID: "C", Amount: 777, Currency: "THB", Shares: equalShares(777, "B", "D")},
		{ID: "e4", PayerID: "D", Amount: 1, Currency: "VND", Shares: equalShares(1, "A", "B", "C")},
	}
	payments := []models.Payment{
		{ID: "p1", PayerID: "C", RecipientID: "A", Amount: 40000, Currency: "VND"},
		{ID: "p2", PayerID: "D", RecipientID: "B", Amount: 13, Currency: "USD"},
	}

	sheet := ComputeBalances("VND", expenses, payments, rates)
	if sheet.HasMixedCurrencyWarning() {
		t.Fatalf("unexpected mixed-currency warning, unresolved: %v", sheet.Unresolved)
	}
	if total := sheet.Total(); total != 0 {
		t.Errorf("sheet total = %d, want 0 (balances: %v)", total, sheet.Balances)
	}
}

func TestComputeBalancesDoesNotFixBadInput(t *testing.T) {
	// Shares sum to 250000 but the expense total is 300000. The calculator
	// must apply the arithmetic as-is; the nonzero sheet total is the symptom.
	expenses := []models.Expense{
		{ID: "e1", PayerID: "A", Amount: 300000, Currency: "VND", Shares: []models.ParticipantShare{
			{MemberID: "A", Amount: 100000},
			{MemberID: "B", Amount: 150000},
		}},
	}

	sheet := ComputeBalances("VND", expenses, nil, nil)
	if total := sheet.Total(); total != 50000 {
		t.Errorf("sheet total = %d, want 50000 (bad input must stay visible)", total)
	}
}

func TestConvertSharesRoundingResidue(t *testing.T) {
	// 100 units at rate 0.07 -> total converts to 7; floors of the shares
	// (2.31, 2.31, 2.38) sum to 6, so one leftover unit goes to the largest
	// fractional remainder.
	rate := decimal.RequireFromString("0.07")
	shares := []models.ParticipantShare{
		{MemberID: "A", Amount: 33},
		{MemberID: "B", Amount: 33},
		{MemberID: "C", Amount: 34},
	}

	total := convert(100, rate)
	if total != 7 {
		t.Fatalf("convert(100, 0.07) = %d, want 7", total)
	}

	converted := convertShares(shares, rate, total)
	var sum int64
	for _, s := range converted {
		sum += s.Amount
	}
	if sum != total {
		t.Errorf("converted shares sum = %d, want %d", sum, total)
	}
	// C has the largest fraction (0.38) and picks up the residue unit.
	if converted[2].Amount != 3 {
		t.Errorf("share[C] = %d, want 3", converted[2].Amount)
	}
}

func TestSplitEqually(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		members []string
		want    map[string]int64
	}{
		{
			name:    "divides evenly",
			total:   300000,
			members: []string{"A", "B", "C"},
			want:    map[string]int64{"A": 100000, "B": 100000, "C": 100000},
		},
		{
			name:    "remainder goes to first members by ID",
			total:   100,
			members: []string{"C", "A", "B"},
			want:    map[string]int64{"A": 34, "B": 33, "C": 33},
		},
		{
			name:    "negative total floors so shares still sum",
			total:   -5,
			members: []string{"A", "B", "C"},
			want:    map[string]int64{"A": -1, "B": -2, "C": -2},
		},
		{
			name:    "no members",
			total:   100,
			members: nil,
			want:    map[string]int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := SplitEqually(tt.total, tt.members)
			if len(shares) != len(tt.want) {
				t.Fatalf("got %d shares, want %d", len(shares), len(tt.want))
			}
			var sum int64
			for _, s := range shares {
				if s.Amount != tt.want[s.MemberID] {
					t.Errorf("share[%s] = %d, want %d", s.MemberID, s.Amount, tt.want[s.MemberID])
				}
				sum += s.Amount
			}
			if len(shares) > 0 && sum != tt.total {
				t.Errorf("shares sum = %d, want %d", sum, tt.total)
			}
		})
	}
}

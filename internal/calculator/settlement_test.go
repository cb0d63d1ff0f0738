package calculator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/splitmate/splitmate/internal/models"
)

func TestComputeSettlementPlan(t *testing.T) {
	tests := []struct {
		name     string
		balances map[string]int64
		want     []models.SettlementSuggestion
	}{
		{
			name:     "two debtors one creditor",
			balances: map[string]int64{"A": 200000, "B": -100000, "C": -100000},
			want: []models.SettlementSuggestion{
				{PayerID: "B", RecipientID: "A", Amount: 100000},
				{PayerID: "C", RecipientID: "A", Amount: 100000},
			},
		},
		{
			name:     "single remaining debt after partial settlement",
			balances: map[string]int64{"A": 30000, "B": 0, "C": -30000},
			want: []models.SettlementSuggestion{
				{PayerID: "C", RecipientID: "A", Amount: 30000},
			},
		},
		{
			name:     "largest debtor matched with largest creditor first",
			balances: map[string]int64{"A": 50, "B": 30, "C": -60, "D": -20},
			want: []models.SettlementSuggestion{
				{PayerID: "C", RecipientID: "A", Amount: 50},
				{PayerID: "D", RecipientID: "B", Amount: 20},
				{PayerID: "C", RecipientID: "B", Amount: 10},
			},
		},
		{
			name:     "ties break by member id",
			balances: map[string]int64{"B": 40, "A": 40, "D": -40, "C": -40},
			want: []models.SettlementSuggestion{
				{PayerID: "C", RecipientID: "A", Amount: 40},
				{PayerID: "D", RecipientID: "B", Amount: 40},
			},
		},
		{
			name:     "all zero balances yield empty plan",
			balances: map[string]int64{"A": 0, "B": 0},
			want:     nil,
		},
		{
			name:     "empty input yields empty plan",
			balances: map[string]int64{},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := ComputeSettlementPlan(tt.balances)
			if err != nil {
				t.Fatalf("ComputeSettlementPlan() error = %v", err)
			}
			if !reflect.DeepEqual(plan, tt.want) {
				t.Errorf("plan = %+v, want %+v", plan, tt.want)
			}
		})
	}
}

func TestComputeSettlementPlanUnbalanced(t *testing.T) {
	// A map that does not sum to zero is an upstream bug; the planner must
	// surface it instead of presenting a partial plan as complete.
	_, err := ComputeSettlementPlan(map[string]int64{"A": 100, "B": -40})
	if !errors.Is(err, ErrUnbalanced) {
		t.Errorf("error = %v, want ErrUnbalanced", err)
	}
}

func TestComputeSettlementPlanDeterminism(t *testing.T) {
	balances := map[string]int64{
		"alice": 73000, "bob": -21000, "carol": -52000,
		"dave": 15000, "erin": -15000,
	}

	first, err := ComputeSettlementPlan(balances)
	if err != nil {
		t.Fatalf("first run error = %v", err)
	}
	second, err := ComputeSettlementPlan(balances)
	if err != nil {
		t.Fatalf("second run error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("plans differ across runs:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestComputeSettlementPlanProperties(t *testing.T) {
	tests := []struct {
		name     string
		balances map[string]int64
	}{
		{
			name:     "three members",
			balances: map[string]int64{"A": 200000, "B": -100000, "C": -100000},
		},
		{
			name:     "five members uneven",
			balances: map[string]int64{"A": 73000, "B": -21000, "C": -52000, "D": 15000, "E": -15000},
		},
		{
			name:     "two-party debt",
			balances: map[string]int64{"A": 1, "B": -1},
		},
		{
			name:     "zero-balance members are excluded",
			balances: map[string]int64{"A": 500, "B": -500, "C": 0, "D": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := ComputeSettlementPlan(tt.balances)
			if err != nil {
				t.Fatalf("ComputeSettlementPlan() error = %v", err)
			}

			// Boundedness: at most n-1 transfers for n nonzero balances.
			nonzero := 0
			for _, b := range tt.balances {
				if b != 0 {
					nonzero++
				}
			}
			if bound := nonzero - 1; len(plan) > bound {
				t.Errorf("plan has %d transfers, bound is %d", len(plan), bound)
			}

			// Correctness: applying every suggestion as a real payment
			// zeroes all balances.
			remaining := make(map[string]int64, len(tt.balances))
			for member, b := range tt.balances {
				remaining[member] = b
			}
			for _, s := range plan {
				if s.Amount <= 0 {
					t.Errorf("suggestion %+v has non-positive amount", s)
				}
				remaining[s.PayerID] += s.Amount
				remaining[s.RecipientID] -= s.Amount
			}
			for member, b := range remaining {
				if b != 0 {
					t.Errorf("balance[%s] = %d after applying plan, want 0", member, b)
				}
			}
		})
	}
}

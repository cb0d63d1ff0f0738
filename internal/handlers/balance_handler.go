package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/splitmate/splitmate/internal/middleware"
	"github.com/splitmate/splitmate/internal/models"
)

type balanceEntry struct {
	MemberID    string `json:"memberId"`
	DisplayName string `json:"displayName"`
	Amount      int64  `json:"amount"`
}

type balancesResponse struct {
	GroupID              string         `json:"groupId"`
	Currency             string         `json:"currency"`
	Balances             []balanceEntry `json:"balances"`
	Unresolved           []string       `json:"unresolved,omitempty"`
	MixedCurrencyWarning bool           `json:"mixedCurrencyWarning"`
	ComputedAt           int64          `json:"computedAt"`
}

type suggestionResponse struct {
	PayerID     string `json:"payerId"`
	RecipientID string `json:"recipientId"`
	Amount      int64  `json:"amount"`
}

type settlementResponse struct {
	GroupID              string               `json:"groupId"`
	Currency             string               `json:"currency"`
	Suggestions          []suggestionResponse `json:"suggestions"`
	Unbalanced           bool                 `json:"unbalanced"`
	MixedCurrencyWarning bool                 `json:"mixedCurrencyWarning"`
	ComputedAt           int64                `json:"computedAt"`
}

// GetBalances returns each member's net position in the group currency.
func (h *Handlers) GetBalances(c *gin.Context) {
	group := h.requireGroupMember(c, c.Param("id"), middleware.GetUserID(c))
	if group == nil {
		return
	}

	snapshot, err := h.engine.Latest(c.Request.Context(), group.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	// The sheet can carry members no longer in the group (removed before
	// settling up). They stay in the response until their balance is zero,
	// so the published entries always sum to what the sheet sums to.
	memberIDs := append([]string(nil), group.Members...)
	var former []string
	for memberID, amount := range snapshot.Sheet.Balances {
		if amount != 0 && !group.HasMember(memberID) {
			former = append(former, memberID)
		}
	}
	sort.Strings(former)
	memberIDs = append(memberIDs, former...)

	members, err := h.memberDetails(c, memberIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	entries := make([]balanceEntry, len(memberIDs))
	for i, member := range members {
		entries[i] = balanceEntry{
			MemberID:    member.ID,
			DisplayName: member.DisplayName,
			Amount:      snapshot.Sheet.Balances[member.ID],
		}
	}

	c.JSON(http.StatusOK, balancesResponse{
		GroupID:              group.ID,
		Currency:             group.DefaultCurrency,
		Balances:             entries,
		Unresolved:           snapshot.Sheet.Unresolved,
		MixedCurrencyWarning: snapshot.Sheet.HasMixedCurrencyWarning(),
		ComputedAt:           snapshot.ComputedAt.Unix(),
	})
}

// GetSettlementPlan returns the minimal transfer set that zeroes the
// group's balances.
func (h *Handlers) GetSettlementPlan(c *gin.Context) {
	group := h.requireGroupMember(c, c.Param("id"), middleware.GetUserID(c))
	if group == nil {
		return
	}

	snapshot, err := h.engine.Latest(c.Request.Context(), group.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	suggestions := make([]suggestionResponse, len(snapshot.Plan))
	for i, s := range snapshot.Plan {
		suggestions[i] = toSuggestionResponse(s)
	}

	c.JSON(http.StatusOK, settlementResponse{
		GroupID:              group.ID,
		Currency:             group.DefaultCurrency,
		Suggestions:          suggestions,
		Unbalanced:           snapshot.Unbalanced,
		MixedCurrencyWarning: snapshot.Sheet.HasMixedCurrencyWarning(),
		ComputedAt:           snapshot.ComputedAt.Unix(),
	})
}

func toSuggestionResponse(s models.SettlementSuggestion) suggestionResponse {
	return suggestionResponse{
		PayerID:     s.PayerID,
		RecipientID: s.RecipientID,
		Amount:      s.Amount,
	}
}

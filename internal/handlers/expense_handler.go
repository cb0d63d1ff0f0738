package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/splitmate/splitmate/internal/calculator"
	"github.com/splitmate/splitmate/internal/events"
	"github.com/splitmate/splitmate/internal/middleware"
	"github.com/splitmate/splitmate/internal/models"
)

type shareRequest struct {
	MemberID string `json:"memberId" binding:"required"`
	Amount   int64  `json:"amount"`
}

type expenseRequest struct {
	PayerID     string `json:"payerId" binding:"required"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Currency    string `json:"currency" binding:"required,len=3,uppercase"`
	Description string `json:"description"`
	Date        int64  `json:"date"`

	// Either explicit shares, or participants for an equal split.
	Shares       []shareRequest `json:"shares"`
	Participants []string       `json:"participants"`
}

type shareResponse struct {
	MemberID string `json:"memberId"`
	Amount   int64  `json:"amount"`
}

type expenseResponse struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"groupId"`
	PayerID     string          `json:"payerId"`
	Amount      int64           `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Date        int64           `json:"date"`
	Shares      []shareResponse `json:"shares"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   int64           `json:"createdAt"`
}

func toExpenseResponse(expense *models.Expense) expenseResponse {
	shares := make([]shareResponse, len(expense.Shares))
	for i, s := range expense.Shares {
		shares[i] = shareResponse{MemberID: s.MemberID, Amount: s.Amount}
	}
	return expenseResponse{
		ID:          expense.ID,
		GroupID:     expense.GroupID,
		PayerID:     expense.PayerID,
		Amount:      expense.Amount,
		Currency:    expense.Currency,
		Description: expense.Description,
		Date:        expense.Date,
		Shares:      shares,
		CreatedBy:   expense.CreatedBy,
		CreatedAt:   expense.CreatedAt,
	}
}

// resolveShares turns the request into participant shares: explicit shares
// win; otherwise the amount is split equally among the participants.
func (r *expenseRequest) resolveShares() []models.ParticipantShare {
	if len(r.Shares) > 0 {
		shares := make([]models.ParticipantShare, len(r.Shares))
		for i, s := range r.Shares {
			shares[i] = models.ParticipantShare{MemberID: s.MemberID, Amount: s.Amount}
		}
		return shares
	}
	return calculator.SplitEqually(r.Amount, r.Participants)
}

// validateExpenseMembers checks the payer and every share member belong to
// the group. Responds and returns false on violation.
func validateExpenseMembers(c *gin.Context, group *models.Group, payerID string, shares []models.ParticipantShare) bool {
	if !group.HasMember(payerID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payer must be a group member"})
		return false
	}
	for _, s := range shares {
		if !group.HasMember(s.MemberID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "share member " + s.MemberID + " is not in the group"})
			return false
		}
	}
	if len(shares) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expense needs shares or participants"})
		return false
	}
	return true
}

// CreateExpense records a new expense in a group and re-triggers the
// group's balance computation.
func (h *Handlers) CreateExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)
	group := h.requireGroupMember(c, c.Param("id"), userID)
	if group == nil {
		return
	}

	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shares := req.resolveShares()
	if !validateExpenseMembers(c, group, req.PayerID, shares) {
		return
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		PayerID:     req.PayerID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		Date:        req.Date,
		Shares:      shares,
		CreatedBy:   userID,
	}
	if err := h.store.CreateExpense(c.Request.Context(), expense); err != nil {
		respondError(c, err)
		return
	}

	h.engine.Trigger(group.ID, "local_write")
	h.publishEvent(c, events.ExpenseCreated, group.ID, expense.ID, userID)

	slog.Info("Expense created", "expense_id", expense.ID, "group_id", group.ID, "amount", expense.Amount, "currency", expense.Currency)
	c.JSON(http.StatusCreated, gin.H{"expense": toExpenseResponse(expense)})
}

// ListExpenses returns a group's expenses, newest first.
func (h *Handlers) ListExpenses(c *gin.Context) {
	group := h.requireGroupMember(c, c.Param("id"), middleware.GetUserID(c))
	if group == nil {
		return
	}

	expenses, err := h.store.ListExpensesByGroup(c.Request.Context(), group.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]expenseResponse, len(expenses))
	for i, expense := range expenses {
		responses[i] = toExpenseResponse(expense)
	}
	c.JSON(http.StatusOK, gin.H{"expenses": responses})
}

// GetExpense returns one expense, provided the caller is in its group.
func (h *Handlers) GetExpense(c *gin.Context) {
	expense, err := h.store.GetExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if h.requireGroupMember(c, expense.GroupID, middleware.GetUserID(c)) == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"expense": toExpenseResponse(expense)})
}

// UpdateExpense replaces an expense under the same ID.
func (h *Handlers) UpdateExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)

	existing, err := h.store.GetExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	group := h.requireGroupMember(c, existing.GroupID, userID)
	if group == nil {
		return
	}

	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shares := req.resolveShares()
	if !validateExpenseMembers(c, group, req.PayerID, shares) {
		return
	}

	expense := &models.Expense{
		ID:          existing.ID,
		GroupID:     existing.GroupID,
		PayerID:     req.PayerID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		Date:        req.Date,
		Shares:      shares,
		CreatedBy:   existing.CreatedBy,
		CreatedAt:   existing.CreatedAt,
	}
	if expense.Date == 0 {
		expense.Date = existing.Date
	}
	if err := h.store.UpdateExpense(c.Request.Context(), expense); err != nil {
		respondError(c, err)
		return
	}

	h.engine.Trigger(group.ID, "local_write")
	h.publishEvent(c, events.ExpenseUpdated, group.ID, expense.ID, userID)

	slog.Info("Expense updated", "expense_id", expense.ID, "group_id", group.ID)
	c.JSON(http.StatusOK, gin.H{"expense": toExpenseResponse(expense)})
}

// DeleteExpense removes an expense.
func (h *Handlers) DeleteExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)

	expense, err := h.store.GetExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if h.requireGroupMember(c, expense.GroupID, userID) == nil {
		return
	}

	if err := h.store.DeleteExpense(c.Request.Context(), expense.ID); err != nil {
		respondError(c, err)
		return
	}

	h.engine.Trigger(expense.GroupID, "local_write")
	h.publishEvent(c, events.ExpenseDeleted, expense.GroupID, expense.ID, userID)

	slog.Info("Expense deleted", "expense_id", expense.ID, "group_id", expense.GroupID)
	c.Status(http.StatusNoContent)
}

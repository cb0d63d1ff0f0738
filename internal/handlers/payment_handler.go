package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/splitmate/splitmate/internal/events"
	"github.com/splitmate/splitmate/internal/middleware"
	"github.com/splitmate/splitmate/internal/models"
)

type paymentRequest struct {
	PayerID     string `json:"payerId" binding:"required"`
	RecipientID string `json:"recipientId" binding:"required"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Currency    string `json:"currency" binding:"required,len=3,uppercase"`
	Description string `json:"description"`
	Date        int64  `json:"date"`
}

type paymentResponse struct {
	ID          string `json:"id"`
	GroupID     string `json:"groupId"`
	PayerID     string `json:"payerId"`
	RecipientID string `json:"recipientId"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Date        int64  `json:"date"`
	CreatedBy   string `json:"createdBy"`
	CreatedAt   int64  `json:"createdAt"`
}

func toPaymentResponse(payment *models.Payment) paymentResponse {
	return paymentResponse{
		ID:          payment.ID,
		GroupID:     payment.GroupID,
		PayerID:     payment.PayerID,
		RecipientID: payment.RecipientID,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		Description: payment.Description,
		Date:        payment.Date,
		CreatedBy:   payment.CreatedBy,
		CreatedAt:   payment.CreatedAt,
	}
}

// CreatePayment records a settlement transfer between two members.
func (h *Handlers) CreatePayment(c *gin.Context) {
	userID := middleware.GetUserID(c)
	group := h.requireGroupMember(c, c.Param("id"), userID)
	if group == nil {
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PayerID == req.RecipientID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payer and recipient must differ"})
		return
	}
	if !group.HasMember(req.PayerID) || !group.HasMember(req.RecipientID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payer and recipient must be group members"})
		return
	}

	payment := &models.Payment{
		GroupID:     group.ID,
		PayerID:     req.PayerID,
		RecipientID: req.RecipientID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		Date:        req.Date,
		CreatedBy:   userID,
	}
	if err := h.store.CreatePayment(c.Request.Context(), payment); err != nil {
		respondError(c, err)
		return
	}

	h.engine.Trigger(group.ID, "local_write")
	h.publishEvent(c, events.PaymentCreated, group.ID, payment.ID, userID)

	slog.Info("Payment recorded", "payment_id", payment.ID, "group_id", group.ID, "amount", payment.Amount)
	c.JSON(http.StatusCreated, gin.H{"payment": toPaymentResponse(payment)})
}

// ListPayments returns a group's payments, newest first.
func (h *Handlers) ListPayments(c *gin.Context) {
	group := h.requireGroupMember(c, c.Param("id"), middleware.GetUserID(c))
	if group == nil {
		return
	}

	payments, err := h.store.ListPaymentsByGroup(c.Request.Context(), group.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]paymentResponse, len(payments))
	for i, payment := range payments {
		responses[i] = toPaymentResponse(payment)
	}
	c.JSON(http.StatusOK, gin.H{"payments": responses})
}

// DeletePayment removes a payment, typically to undo a mistaken entry.
func (h *Handlers) DeletePayment(c *gin.Context) {
	userID := middleware.GetUserID(c)

	payment, err := h.store.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if h.requireGroupMember(c, payment.GroupID, userID) == nil {
		return
	}

	if err := h.store.DeletePayment(c.Request.Context(), payment.ID); err != nil {
		respondError(c, err)
		return
	}

	h.engine.Trigger(payment.GroupID, "local_write")
	h.publishEvent(c, events.PaymentDeleted, payment.GroupID, payment.ID, userID)

	slog.Info("Payment deleted", "payment_id", payment.ID, "group_id", payment.GroupID)
	c.Status(http.StatusNoContent)
}

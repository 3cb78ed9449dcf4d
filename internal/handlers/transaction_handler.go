package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusledger/internal/currency"
	apperrors "campusledger/internal/errors"
	"campusledger/internal/models"
	"campusledger/internal/store"
)

// TransactionHandler serves the authenticated user's ledger entries.
type TransactionHandler struct {
	store *store.Store
	conv  *currency.Converter
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(s *store.Store, conv *currency.Converter) *TransactionHandler {
	return &TransactionHandler{store: s, conv: conv}
}

// TransactionRequest represents the create/update payload. OccurredAt and
// NextOccurrenceAt are epoch milliseconds.
type TransactionRequest struct {
	CategoryID       uint    `json:"category_id" binding:"required"`
	CurrencyID       uint    `json:"currency_id"`
	Amount           float64 `json:"amount" binding:"required,gt=0"`
	OccurredAt       int64   `json:"occurred_at" binding:"required"`
	Description      string  `json:"description" binding:"max=255"`
	ReceiptPath      string  `json:"receipt_path" binding:"max=255"`
	Kind             string  `json:"kind" binding:"required,transaction_kind"`
	IsRecurring      bool    `json:"is_recurring"`
	RecurrencePeriod string  `json:"recurrence_period" binding:"omitempty,recurrence_period"`
	NextOccurrenceAt int64   `json:"next_occurrence_at"`
}

// transactionPayload renders a transaction with its display amount in both
// the entry's own currency and the canonical one.
func (h *TransactionHandler) transactionPayload(t *models.Transaction) gin.H {
	return gin.H{
		"id":                 t.ID,
		"user_id":            t.UserID,
		"category_id":        t.CategoryID,
		"currency_id":        t.CurrencyID,
		"amount":             t.Amount,
		"formatted_amount":   h.conv.FormatWithCanonical(t.Amount, t.CurrencyID),
		"occurred_at":        t.OccurredAt,
		"description":        t.Description,
		"receipt_path":       t.ReceiptPath,
		"kind":               t.Kind,
		"is_recurring":       t.IsRecurring,
		"recurrence_period":  t.RecurrencePeriod,
		"next_occurrence_at": t.NextOccurrenceAt,
		"created_at":         t.CreatedAt,
	}
}

func (h *TransactionHandler) fromRequest(userID uint, req TransactionRequest) models.Transaction {
	return models.Transaction{
		UserID:           userID,
		CategoryID:       req.CategoryID,
		CurrencyID:       req.CurrencyID,
		Amount:           req.Amount,
		OccurredAt:       req.OccurredAt,
		Description:      req.Description,
		ReceiptPath:      req.ReceiptPath,
		Kind:             models.TransactionKind(req.Kind),
		IsRecurring:      req.IsRecurring,
		RecurrencePeriod: models.RecurrencePeriod(req.RecurrencePeriod),
		NextOccurrenceAt: req.NextOccurrenceAt,
	}
}

// ownedTransaction fetches a transaction and verifies the caller owns it.
func (h *TransactionHandler) ownedTransaction(c *gin.Context) (*models.Transaction, error) {
	userID, err := getUserID(c)
	if err != nil {
		return nil, err
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		return nil, err
	}
	t, err := h.store.GetTransactionByID(id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return t, nil
}

// Create records a new transaction for the authenticated user.
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	t := h.fromRequest(userID, req)
	if err := h.store.InsertTransaction(&t); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": h.transactionPayload(&t)})
}

// List returns the authenticated user's transactions, newest first.
func (h *TransactionHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.store.ListTransactionsByUser(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	payload := make([]gin.H, 0, len(transactions))
	for i := range transactions {
		payload = append(payload, h.transactionPayload(&transactions[i]))
	}
	c.JSON(http.StatusOK, gin.H{"transactions": payload})
}

// Get returns a single transaction owned by the caller.
func (h *TransactionHandler) Get(c *gin.Context) {
	t, err := h.ownedTransaction(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": h.transactionPayload(t)})
}

// Update replaces a transaction's editable fields.
func (h *TransactionHandler) Update(c *gin.Context) {
	t, err := h.ownedTransaction(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	updated := h.fromRequest(t.UserID, req)
	updated.ID = t.ID
	if err := h.store.UpdateTransaction(&updated); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": h.transactionPayload(&updated)})
}

// Delete removes a transaction. The deleted row is echoed back so clients can
// offer undo by re-submitting it to Create.
func (h *TransactionHandler) Delete(c *gin.Context) {
	t, err := h.ownedTransaction(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.store.DeleteTransaction(t.ID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "transaction deleted",
		"transaction": h.transactionPayload(t),
	})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campusledger/internal/budget"
	"campusledger/internal/currency"
	apperrors "campusledger/internal/errors"
	"campusledger/internal/logger"
	"campusledger/internal/models"
	"campusledger/internal/notify"
	"campusledger/internal/store"
)

// BudgetHandler serves budgets and their consumption reports.
type BudgetHandler struct {
	store     *store.Store
	conv      *currency.Converter
	evaluator *budget.Evaluator
	notifier  notify.Notifier
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(s *store.Store, conv *currency.Converter, evaluator *budget.Evaluator, notifier notify.Notifier) *BudgetHandler {
	return &BudgetHandler{store: s, conv: conv, evaluator: evaluator, notifier: notifier}
}

// BudgetRequest represents the create/update payload. CategoryID 0 means the
// budget covers all categories. Period bounds are epoch milliseconds.
type BudgetRequest struct {
	CategoryID  uint    `json:"category_id"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	PeriodStart int64   `json:"period_start" binding:"required"`
	PeriodEnd   int64   `json:"period_end" binding:"required"`
}

// ownedBudget fetches a budget and verifies the caller owns it.
func (h *BudgetHandler) ownedBudget(c *gin.Context) (*models.Budget, error) {
	userID, err := getUserID(c)
	if err != nil {
		return nil, err
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		return nil, err
	}
	b, err := h.store.GetBudgetByID(id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return b, nil
}

// Create records a new budget for the authenticated user.
func (h *BudgetHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	b := models.Budget{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
	}
	if err := h.store.InsertBudget(&b); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget": b})
}

// List returns the authenticated user's budgets, latest period first.
func (h *BudgetHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.store.ListBudgetsByUser(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// Get returns a single budget owned by the caller.
func (h *BudgetHandler) Get(c *gin.Context) {
	b, err := h.ownedBudget(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": b})
}

// Update replaces a budget's editable fields.
func (h *BudgetHandler) Update(c *gin.Context) {
	b, err := h.ownedBudget(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	b.CategoryID = req.CategoryID
	b.Amount = req.Amount
	b.PeriodStart = req.PeriodStart
	b.PeriodEnd = req.PeriodEnd
	if err := h.store.UpdateBudget(b); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": b})
}

// Delete removes a budget.
func (h *BudgetHandler) Delete(c *gin.Context) {
	b, err := h.ownedBudget(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.store.DeleteBudget(b.ID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "budget deleted",
		"budget":  b,
	})
}

// Progress reports how much of the budget is consumed, formatted amounts, and
// the linear spend projection. Crossing the alert threshold raises a budget
// alert on the notifier; a failed alert never fails the report.
func (h *BudgetHandler) Progress(c *gin.Context) {
	b, err := h.ownedBudget(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.store.ListTransactionsByUser(b.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	spent := h.evaluator.Spent(*b, transactions)
	percentage := h.evaluator.PercentageSpent(*b, spent)
	remaining := h.evaluator.Remaining(*b, spent)
	projection := h.evaluator.Predict(*b, spent, time.Now().UnixMilli())

	canonicalID := h.conv.Canonical().ID
	if percentage > budget.AlertThresholdPercent {
		categoryName := "All categories"
		if b.CategoryID != models.AllCategories {
			if cat, err := h.store.GetCategoryByID(b.CategoryID); err == nil {
				categoryName = cat.Name
			}
		}
		event := notify.NewBudgetAlertEvent(b.UserID, b.ID, categoryName, percentage,
			h.conv.Format(remaining, canonicalID), projection.Message)
		if err := h.notifier.PublishBudgetAlert(c.Request.Context(), event); err != nil {
			logger.Get().Warnw("failed to publish budget alert",
				"budget_id", b.ID,
				"error", err,
			)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"budget":              b,
		"spent":               spent,
		"formatted_spent":     h.conv.Format(spent, canonicalID),
		"remaining":           remaining,
		"formatted_remaining": h.conv.Format(remaining, canonicalID),
		"percentage_spent":    percentage,
		"alert":               percentage > budget.AlertThresholdPercent,
		"projection":          projection,
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusledger/internal/currency"
	apperrors "campusledger/internal/errors"
	"campusledger/internal/store"
)

// CurrencyHandler serves the currency table and administrator rate edits.
type CurrencyHandler struct {
	store *store.Store
	conv  *currency.Converter
}

// NewCurrencyHandler creates a new CurrencyHandler
func NewCurrencyHandler(s *store.Store, conv *currency.Converter) *CurrencyHandler {
	return &CurrencyHandler{store: s, conv: conv}
}

// UpdateCurrencyRequest represents a rate edit payload.
type UpdateCurrencyRequest struct {
	Code   string  `json:"code" binding:"required,len=3,uppercase"`
	Rate   float64 `json:"rate" binding:"required,gt=0"`
	Symbol string  `json:"symbol" binding:"required,max=8"`
}

// List returns every currency, canonical first.
func (h *CurrencyHandler) List(c *gin.Context) {
	currencies, err := h.store.ListCurrencies()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"currencies": currencies})
}

// Get returns a single currency.
func (h *CurrencyHandler) Get(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	cur, err := h.store.GetCurrencyByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"currency": cur})
}

// Update edits a currency's code, rate and symbol, then reloads the converter
// so new rates take effect immediately.
func (h *CurrencyHandler) Update(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cur, err := h.store.GetCurrencyByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cur.Code = req.Code
	cur.Rate = req.Rate
	cur.Symbol = req.Symbol
	if err := h.store.UpdateCurrency(cur); err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.conv.Reload(); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"currency": cur})
}

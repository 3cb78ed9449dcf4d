package store

import (
	"errors"

	"gorm.io/gorm"

	apperrors "campusledger/internal/errors"
	"campusledger/internal/models"
)

// validateTransaction enforces the write invariants: positive amount, a
// recognized kind, and a coherent recurrence sub-record. A non-recurring
// transaction has its recurrence fields cleared rather than rejected.
func (s *Store) validateTransaction(t *models.Transaction) error {
	if t.Amount <= 0 {
		return apperrors.ErrNonPositiveAmount
	}
	if !t.Kind.Valid() {
		return apperrors.ErrInvalidKind
	}
	if t.IsRecurring {
		if !t.RecurrencePeriod.Valid() || t.NextOccurrenceAt <= 0 {
			return apperrors.ErrInvalidRecurrence
		}
	} else {
		t.ClearRecurrence()
	}
	return nil
}

// checkTransactionRefs verifies the rows a transaction references exist, so
// callers get a specific not-found instead of a bare constraint failure.
func (s *Store) checkTransactionRefs(t *models.Transaction) error {
	if _, err := s.GetUserByID(t.UserID); err != nil {
		return err
	}
	ok, err := s.categoryExists(t.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrCategoryNotFound
	}
	if t.CurrencyID == 0 {
		t.CurrencyID = 1
	}
	ok, err = s.currencyExists(t.CurrencyID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrCurrencyNotFound
	}
	return nil
}

// InsertTransaction inserts a new ledger entry; the assigned id is written
// back into t. Re-inserting a caller-held copy of a deleted transaction is
// the supported undo path and always yields a new id.
func (s *Store) InsertTransaction(t *models.Transaction) error {
	if err := s.validateTransaction(t); err != nil {
		return err
	}
	if err := s.checkTransactionRefs(t); err != nil {
		return err
	}
	if err := s.db.Create(t).Error; err != nil {
		return translate(err)
	}
	return nil
}

// ListTransactionsByUser returns every transaction owned by the user,
// newest occurrence first.
func (s *Store) ListTransactionsByUser(userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.Where("user_id = ?", userID).Order("occurred_at DESC").Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// GetTransactionByID retrieves a single transaction.
func (s *Store) GetTransactionByID(id uint) (*models.Transaction, error) {
	var t models.Transaction
	if err := s.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &t, nil
}

// UpdateTransaction persists changes to an existing transaction.
func (s *Store) UpdateTransaction(t *models.Transaction) error {
	if err := s.validateTransaction(t); err != nil {
		return err
	}
	if err := s.checkTransactionRefs(t); err != nil {
		return err
	}

	res := s.db.Model(&models.Transaction{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
		"category_id":        t.CategoryID,
		"currency_id":        t.CurrencyID,
		"amount":             t.Amount,
		"occurred_at":        t.OccurredAt,
		"description":        t.Description,
		"receipt_path":       t.ReceiptPath,
		"kind":               t.Kind,
		"is_recurring":       t.IsRecurring,
		"recurrence_period":  t.RecurrencePeriod,
		"next_occurrence_at": t.NextOccurrenceAt,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// DeleteTransaction removes a transaction by id. Callers keep their own copy
// if they want to offer undo by re-insertion.
func (s *Store) DeleteTransaction(id uint) error {
	res := s.db.Delete(&models.Transaction{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// ListDueRecurringTransactions returns every recurring transaction whose next
// occurrence is at or before asOf (epoch milliseconds).
func (s *Store) ListDueRecurringTransactions(asOf int64) ([]models.Transaction, error) {
	var due []models.Transaction
	err := s.db.
		Where("is_recurring = ? AND next_occurrence_at > 0 AND next_occurrence_at <= ?", true, asOf).
		Order("occurred_at DESC").
		Find(&due).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return due, nil
}

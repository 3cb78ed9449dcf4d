package store

import (
	"errors"

	"gorm.io/gorm"

	apperrors "campusledger/internal/errors"
	"campusledger/internal/models"
)

// validateBudget enforces the budget write invariants: positive cap and a
// period that ends after it starts.
func (s *Store) validateBudget(b *models.Budget) error {
	if b.Amount <= 0 {
		return apperrors.ErrNonPositiveAmount
	}
	if b.PeriodEnd <= b.PeriodStart {
		return apperrors.ErrInvalidPeriod
	}
	return nil
}

// checkBudgetRefs verifies the owner exists and, for non-sentinel budgets,
// that the category exists. Category 0 means "all categories" and is valid
// without a stored row.
func (s *Store) checkBudgetRefs(b *models.Budget) error {
	if _, err := s.GetUserByID(b.UserID); err != nil {
		return err
	}
	if b.CategoryID != models.AllCategories {
		ok, err := s.categoryExists(b.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ErrCategoryNotFound
		}
	}
	return nil
}

// InsertBudget inserts a new budget; the assigned id is written back into b.
// Like transactions, deleted budgets are restored by re-insertion and get a
// new id.
func (s *Store) InsertBudget(b *models.Budget) error {
	if err := s.validateBudget(b); err != nil {
		return err
	}
	if err := s.checkBudgetRefs(b); err != nil {
		return err
	}
	if err := s.db.Create(b).Error; err != nil {
		return translate(err)
	}
	return nil
}

// ListBudgetsByUser returns every budget owned by the user, latest period
// first.
func (s *Store) ListBudgetsByUser(userID uint) ([]models.Budget, error) {
	var budgets []models.Budget
	err := s.db.Where("user_id = ?", userID).Order("period_end DESC").Find(&budgets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudgetByID retrieves a single budget.
func (s *Store) GetBudgetByID(id uint) (*models.Budget, error) {
	var b models.Budget
	if err := s.db.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &b, nil
}

// UpdateBudget persists changes to an existing budget.
func (s *Store) UpdateBudget(b *models.Budget) error {
	if err := s.validateBudget(b); err != nil {
		return err
	}
	if err := s.checkBudgetRefs(b); err != nil {
		return err
	}

	res := s.db.Model(&models.Budget{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"category_id":  b.CategoryID,
		"amount":       b.Amount,
		"period_start": b.PeriodStart,
		"period_end":   b.PeriodEnd,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}

// DeleteBudget removes a budget by id.
func (s *Store) DeleteBudget(id uint) error {
	res := s.db.Delete(&models.Budget{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}

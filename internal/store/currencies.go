package store

import (
	"errors"

	"gorm.io/gorm"

	apperrors "campusledger/internal/errors"
	"campusledger/internal/models"
)

// ListCurrencies returns every currency ordered by id, canonical first.
func (s *Store) ListCurrencies() ([]models.Currency, error) {
	var currencies []models.Currency
	if err := s.db.Order("id").Find(&currencies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return currencies, nil
}

// GetCurrencyByID retrieves a currency by id.
func (s *Store) GetCurrencyByID(id uint) (*models.Currency, error) {
	var currency models.Currency
	if err := s.db.First(&currency, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &currency, nil
}

// UpdateCurrency persists an administrator rate edit. Rates are static
// otherwise; callers holding a currency converter must reload it afterward.
func (s *Store) UpdateCurrency(currency *models.Currency) error {
	if currency.Rate <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "rate must be greater than zero")
	}
	if currency.Code == "" || currency.Symbol == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "code and symbol are required")
	}

	res := s.db.Model(&models.Currency{}).Where("id = ?", currency.ID).Updates(map[string]interface{}{
		"code":         currency.Code,
		"rate_to_base": currency.Rate,
		"symbol":       currency.Symbol,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCurrencyNotFound
	}
	return nil
}

// currencyExists reports whether a currency row exists for the given id.
func (s *Store) currencyExists(id uint) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Currency{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

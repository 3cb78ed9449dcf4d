package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "campusledger/internal/errors"
	"campusledger/internal/models"
)

// CreateUser inserts a new user. Emails are stored lowercase and must be
// unique; the assigned id is written back into user.
func (s *Store) CreateUser(user *models.User) error {
	if user.Email == "" || user.PasswordHash == "" || user.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "email, password, and name are required")
	}
	user.Email = strings.ToLower(user.Email)

	var count int64
	s.db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count)
	if count > 0 {
		return apperrors.ErrDuplicateEmail
	}

	if user.DefaultCurrencyID == 0 {
		user.DefaultCurrencyID = 1
	}

	if err := s.db.Create(user).Error; err != nil {
		return translate(err)
	}
	return nil
}

// GetUserByID retrieves a user by id.
func (s *Store) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// UpdateUser persists changes to an existing user.
func (s *Store) UpdateUser(user *models.User) error {
	if user.Email == "" || user.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "email and name are required")
	}
	user.Email = strings.ToLower(user.Email)

	var count int64
	s.db.Model(&models.User{}).Where("email = ? AND id <> ?", user.Email, user.ID).Count(&count)
	if count > 0 {
		return apperrors.ErrDuplicateEmail
	}

	res := s.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"email":               user.Email,
		"password_hash":       user.PasswordHash,
		"name":                user.Name,
		"address":             user.Address,
		"phone":               user.Phone,
		"avatar_path":         user.AvatarPath,
		"dark_mode_enabled":   user.DarkModeEnabled,
		"default_currency_id": user.DefaultCurrencyID,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// DeleteUser removes a user; the schema cascades the delete onto the user's
// transactions and budgets.
func (s *Store) DeleteUser(id uint) error {
	res := s.db.Delete(&models.User{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	apperrors "campusledger/internal/errors"
	"campusledger/internal/store"
)

// UserHandler serves the authenticated user's profile.
type UserHandler struct {
	store *store.Store
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s *store.Store) *UserHandler {
	return &UserHandler{store: s}
}

// UpdateProfileRequest represents the profile update payload. Zero-value
// fields are left unchanged; Password, when set, is re-hashed.
type UpdateProfileRequest struct {
	Email             string `json:"email" binding:"omitempty,email,max=255"`
	Password          string `json:"password" binding:"omitempty,min=8,max=128"`
	Name              string `json:"name" binding:"omitempty,max=100"`
	Address           string `json:"address" binding:"max=255"`
	Phone             string `json:"phone" binding:"max=32"`
	AvatarPath        string `json:"avatar_path" binding:"max=255"`
	DarkModeEnabled   *bool  `json:"dark_mode_enabled"`
	DefaultCurrencyID uint   `json:"default_currency_id"`
}

// GetProfile returns the authenticated user's profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.store.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":                  user.ID,
			"email":               user.Email,
			"name":                user.Name,
			"address":             user.Address,
			"phone":               user.Phone,
			"avatar_path":         user.AvatarPath,
			"dark_mode_enabled":   user.DarkModeEnabled,
			"default_currency_id": user.DefaultCurrencyID,
		},
	})
}

// UpdateProfile applies a partial update to the authenticated user.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.store.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
			return
		}
		user.PasswordHash = string(hash)
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.AvatarPath != "" {
		user.AvatarPath = req.AvatarPath
	}
	if req.DarkModeEnabled != nil {
		user.DarkModeEnabled = *req.DarkModeEnabled
	}
	if req.DefaultCurrencyID != 0 {
		if _, err := h.store.GetCurrencyByID(req.DefaultCurrencyID); err != nil {
			respondWithError(c, err)
			return
		}
		user.DefaultCurrencyID = req.DefaultCurrencyID
	}

	if err := h.store.UpdateUser(user); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":                  user.ID,
			"email":               user.Email,
			"name":                user.Name,
			"address":             user.Address,
			"phone":               user.Phone,
			"avatar_path":         user.AvatarPath,
			"dark_mode_enabled":   user.DarkModeEnabled,
			"default_currency_id": user.DefaultCurrencyID,
		},
	})
}

// DeleteAccount removes the authenticated user and, via the schema's cascade,
// their transactions and budgets.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.store.DeleteUser(userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

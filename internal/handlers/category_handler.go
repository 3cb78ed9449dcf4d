package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusledger/internal/store"
)

// CategoryHandler serves the fixed category catalog.
type CategoryHandler struct {
	store *store.Store
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(s *store.Store) *CategoryHandler {
	return &CategoryHandler{store: s}
}

// List returns every category, ordered by name.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.store.ListCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Get returns a single category.
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.store.GetCategoryByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

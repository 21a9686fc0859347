package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neuroscreen/internal/models"
)

type ItemsHandler struct {
	log  *zap.Logger
	Bank *models.ItemBank
}

func NewItemsHandler(log *zap.Logger, bank *models.ItemBank) *ItemsHandler {
	return &ItemsHandler{log: log, Bank: bank}
}

// Emotions returns the static emotion-recognition items.
func (h *ItemsHandler) Emotions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.Bank.Emotions})
}

// Patterns returns the static pattern puzzles.
func (h *ItemsHandler) Patterns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.Bank.Patterns})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		httperr.Unauthorized(c, "user_not_in_context", "Sessão inválida.")
		return
	}

	userID, ok := userIDVal.(uint)
	if !ok {
		httperr.Unauthorized(c, "invalid_user_id_type", "Sessão inválida.")
		return
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Unauthorized(c, "user_not_found", "Usuário não encontrado.")
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

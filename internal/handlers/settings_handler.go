package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
)

// SettingsHandler expõe a configuração da agenda para o front montar a grade.
type SettingsHandler struct {
	config *config.Config
}

func NewSettingsHandler(cfg *config.Config) *SettingsHandler {
	return &SettingsHandler{config: cfg}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	httpresp.OK(c, gin.H{
		"timezone":                 h.config.SalonTimezone,
		"workday_start":            h.config.WorkdayStart,
		"workday_end":              h.config.WorkdayEnd,
		"default_duration_minutes": int(h.config.DefaultServiceDuration.Minutes()),
		"suggestion_step_minutes":  int(h.config.SuggestionStep.Minutes()),
		"max_suggestions":          h.config.MaxSuggestions,
	})
}

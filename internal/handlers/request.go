package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// bookingRequest é o corpo aceito por todas as rotas de criação.
type bookingRequest struct {
	CustomerID   uint   `json:"customerId"`
	Phone        string `json:"phone"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ServiceID    uint   `json:"serviceId"`
	ServiceIDs   []uint `json:"serviceIds"`
	Date         string `json:"date"`
	Professional string `json:"professional"`
	Notes        string `json:"notes"`
}

// services junta serviceId e serviceIds, mantendo a ordem pedida.
func (r bookingRequest) services() []uint {
	if len(r.ServiceIDs) > 0 {
		return r.ServiceIDs
	}
	if r.ServiceID != 0 {
		return []uint{r.ServiceID}
	}
	return nil
}

type updateRequest struct {
	Date          *string `json:"date"`
	ServiceID     *uint   `json:"serviceId"`
	Professional  *string `json:"professional"`
	Notes         *string `json:"notes"`
	Justification string  `json:"justification"`
}

type statusRequest struct {
	Status        string `json:"status" binding:"required"`
	Reason        string `json:"reason"`
	Justification string `json:"justification"`
}

// reason aceita "justification" (área do cliente) ou "reason" (painel).
func (r statusRequest) reason() string {
	if strings.TrimSpace(r.Justification) != "" {
		return r.Justification
	}
	return r.Reason
}

// parseStart: vazio é tratado pelo use case (missing_date).
func parseStart(c *gin.Context, raw string, loc *time.Location) (time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, true
	}
	t, err := timezone.ParseDateTime(raw, loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida. Use ISO 8601 (ex.: 2026-10-20T14:00).")
		return time.Time{}, false
	}
	return t, true
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

func optionalUintQuery(c *gin.Context, key string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+key, "Parâmetro inválido: "+key+".")
		return 0, false
	}
	return uint(v), true
}

// serviceIDsQuery lê serviceIds=1,2 ou serviceId=1 (repetível).
func serviceIDsQuery(c *gin.Context) ([]uint, bool) {
	var raw []string
	for _, v := range c.QueryArray("serviceIds") {
		raw = append(raw, strings.Split(v, ",")...)
	}
	raw = append(raw, c.QueryArray("serviceId")...)

	var ids []uint
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_serviceIds", "Serviços inválidos.")
			return nil, false
		}
		ids = append(ids, uint(id))
	}
	return ids, true
}

func dateQuery(c *gin.Context, loc *time.Location) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return time.Time{}, false
	}
	d, err := timezone.ParseDate(raw, loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return time.Time{}, false
	}
	return d, true
}

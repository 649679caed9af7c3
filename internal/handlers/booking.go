package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

// booking reúne o que as três portas de entrada da agenda (painel, página
// pública e área do cliente) fazem igual.
type booking struct {
	scheduler *appointment.Scheduler
	loc       *time.Location
}

func (b booking) create(c *gin.Context, actor domain.Actor, req bookingRequest) {
	start, ok := parseStart(c, req.Date, b.loc)
	if !ok {
		return
	}

	in := appointment.BookInput{
		Actor:         actor,
		CustomerID:    req.CustomerID,
		CustomerName:  req.Name,
		CustomerPhone: req.Phone,
		CustomerEmail: req.Email,
		ServiceIDs:    req.services(),
		Start:         start,
		Professional:  req.Professional,
		Notes:         req.Notes,
	}

	created, err := b.scheduler.Book(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	// um serviço → o próprio agendamento; sequência → lista
	if len(created) == 1 {
		httpresp.Created(c, created[0])
		return
	}
	httpresp.Created(c, gin.H{"appointments": created})
}

func (b booking) update(c *gin.Context, actor domain.Actor) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	in := appointment.RescheduleInput{
		Actor:         actor,
		AppointmentID: id,
		ServiceID:     req.ServiceID,
		Professional:  req.Professional,
		Notes:         req.Notes,
		Justification: req.Justification,
	}
	if req.Date != nil {
		start, ok := parseStart(c, *req.Date, b.loc)
		if !ok {
			return
		}
		if !start.IsZero() {
			in.Start = &start
		}
	}

	updated, err := b.scheduler.Reschedule(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (b booking) changeStatus(c *gin.Context, actor domain.Actor) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "missing_status", "Informe o novo status.")
		return
	}

	updated, err := b.scheduler.ChangeStatus(c.Request.Context(), appointment.StatusInput{
		Actor:         actor,
		AppointmentID: id,
		Status:        req.Status,
		Reason:        req.reason(),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// slots: GET ?date=YYYY-MM-DD&professional=&excludeId=
func (b booking) slots(c *gin.Context) {
	day, ok := dateQuery(c, b.loc)
	if !ok {
		return
	}
	excludeID, ok := optionalUintQuery(c, "excludeId")
	if !ok {
		return
	}

	blocks, err := b.scheduler.OccupiedSlots(
		c.Request.Context(),
		day,
		c.Query("professional"),
		excludeID,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	if blocks == nil {
		blocks = []domain.Block{}
	}
	c.JSON(http.StatusOK, blocks)
}

// suggestions: GET ?date=YYYY-MM-DD&time=HH:MM&serviceIds=1,2&professional=
// (date também aceita data e hora juntos).
func (b booking) suggestions(c *gin.Context, actor domain.Actor) {
	raw := strings.TrimSpace(c.Query("date"))
	if t := strings.TrimSpace(c.Query("time")); t != "" && raw != "" {
		raw += "T" + t
	}
	if raw == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}
	start, err := timezone.ParseDateTime(raw, b.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	serviceIDs, ok := serviceIDsQuery(c)
	if !ok {
		return
	}
	excludeID, ok := optionalUintQuery(c, "excludeId")
	if !ok {
		return
	}

	suggestions, err := b.scheduler.Suggest(c.Request.Context(), appointment.SuggestInput{
		Actor:        actor,
		Start:        start,
		ServiceIDs:   serviceIDs,
		Professional: c.Query("professional"),
		ExcludeID:    excludeID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if suggestions == nil {
		suggestions = []time.Time{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

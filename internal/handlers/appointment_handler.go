package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// AppointmentHandler atende o painel da equipe.
type AppointmentHandler struct {
	db          *gorm.DB
	booking     booking
	listByDate  *appointment.ListAppointmentsByDate
	listByMonth *appointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	db *gorm.DB,
	scheduler *appointment.Scheduler,
	listByDate *appointment.ListAppointmentsByDate,
	listByMonth *appointment.ListAppointmentsByMonth,
	loc *time.Location,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:          db,
		booking:     booking{scheduler: scheduler, loc: loc},
		listByDate:  listByDate,
		listByMonth: listByMonth,
	}
}

func staffActor(c *gin.Context) domain.Actor {
	return domain.Staff(c.MustGet(middleware.ContextUserID).(uint))
}

// ======================================================
// ESCRITA
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	h.booking.create(c, staffActor(c), req)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	h.booking.update(c, staffActor(c))
}

func (h *AppointmentHandler) ChangeStatus(c *gin.Context) {
	h.booking.changeStatus(c, staffActor(c))
}

// ======================================================
// LEITURA
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var ap models.Appointment
	err := h.db.WithContext(c.Request.Context()).
		Preload("Customer").
		Preload("Service").
		First(&ap, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

// ListByDate: GET ?date=YYYY-MM-DD&professional=
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	day, ok := dateQuery(c, h.booking.loc)
	if !ok {
		return
	}

	items, err := h.listByDate.Execute(c.Request.Context(), day, c.Query("professional"))
	if err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, items)
}

// ListByMonth: GET ?year=2026&month=10&professional=
func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		httperr.BadRequest(c, "invalid_month", "Informe ano e mês.")
		return
	}

	items, err := h.listByMonth.Execute(c.Request.Context(), year, month, c.Query("professional"))
	if err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, items)
}

func (h *AppointmentHandler) Slots(c *gin.Context) {
	h.booking.slots(c)
}

func (h *AppointmentHandler) Suggestions(c *gin.Context) {
	h.booking.suggestions(c, staffActor(c))
}

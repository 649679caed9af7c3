package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

// ClientPortalHandler é a área do cliente logado. O cliente vem sempre do
// token, nunca do corpo da requisição.
type ClientPortalHandler struct {
	booking booking
	list    *appointment.ListCustomerAppointments
}

func NewClientPortalHandler(
	scheduler *appointment.Scheduler,
	list *appointment.ListCustomerAppointments,
	loc *time.Location,
) *ClientPortalHandler {
	return &ClientPortalHandler{
		booking: booking{scheduler: scheduler, loc: loc},
		list:    list,
	}
}

func customerActor(c *gin.Context) domain.Actor {
	return domain.Customer(c.MustGet(middleware.ContextCustomerID).(uint))
}

func (h *ClientPortalHandler) List(c *gin.Context) {
	actor := customerActor(c)

	items, err := h.list.Execute(c.Request.Context(), actor.CustomerID)
	if err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, items)
}

func (h *ClientPortalHandler) Create(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	h.booking.create(c, customerActor(c), req)
}

func (h *ClientPortalHandler) Update(c *gin.Context) {
	h.booking.update(c, customerActor(c))
}

func (h *ClientPortalHandler) ChangeStatus(c *gin.Context) {
	h.booking.changeStatus(c, customerActor(c))
}

func (h *ClientPortalHandler) Suggestions(c *gin.Context) {
	h.booking.suggestions(c, customerActor(c))
}

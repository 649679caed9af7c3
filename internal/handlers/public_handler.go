package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler atende a página de agendamento, sem login.
type PublicHandler struct {
	db      *gorm.DB
	booking booking
}

func NewPublicHandler(db *gorm.DB, scheduler *appointment.Scheduler, loc *time.Location) *PublicHandler {
	return &PublicHandler{
		db:      db,
		booking: booking{scheduler: scheduler, loc: loc},
	}
}

////////////////////////////////////////////////////////
// CATÁLOGO
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("active = ?", true)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services})
}

func (h *PublicHandler) ListProfessionals(c *gin.Context) {
	var professionals []models.Professional
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Services", "active = ?", true).
		Where("active = ?", true).
		Order("name ASC").
		Find(&professionals).Error; err != nil {

		httperr.Internal(c, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	out := make([]dto.PublicProfessionalDTO, 0, len(professionals))
	for _, p := range professionals {
		out = append(out, dto.ToPublicProfessional(p))
	}
	c.JSON(http.StatusOK, gin.H{"professionals": out})
}

////////////////////////////////////////////////////////
// AGENDA
////////////////////////////////////////////////////////

func (h *PublicHandler) Slots(c *gin.Context) {
	h.booking.slots(c)
}

func (h *PublicHandler) Suggestions(c *gin.Context) {
	h.booking.suggestions(c, domain.Public())
}

// CreateAppointment identifica o cliente só pelo telefone; customerId
// enviado pela página pública é ignorado.
func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	req.CustomerID = 0

	h.booking.create(c, domain.Public(), req)
}

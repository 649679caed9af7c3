package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ProfessionalHandler mantém a equipe de atendimento e os serviços que cada
// profissional está habilitado a fazer.
type ProfessionalHandler struct {
	db *gorm.DB
}

func NewProfessionalHandler(db *gorm.DB) *ProfessionalHandler {
	return &ProfessionalHandler{db: db}
}

type CreateProfessionalRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	ServiceIDs []uint `json:"serviceIds"`
}

type UpdateProfessionalRequest struct {
	Name       *string `json:"name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Active     *bool   `json:"active,omitempty"`
	ServiceIDs *[]uint `json:"serviceIds,omitempty"`
}

var errUnknownService = errors.New("unknown service")

func (h *ProfessionalHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Preload("Services")

	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	var professionals []models.Professional
	if err := q.Order("name ASC").Find(&professionals).Error; err != nil {
		httperr.Internal(c, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	c.JSON(http.StatusOK, professionals)
}

func (h *ProfessionalHandler) Create(c *gin.Context) {
	var req CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		httperr.BadRequest(c, "missing_name", "Informe o nome do profissional.")
		return
	}

	p := models.Professional{Name: name, Phone: req.Phone, Active: true}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		services, err := loadServices(tx, req.ServiceIDs)
		if err != nil {
			return err
		}
		p.Services = services
		return tx.Create(&p).Error
	})
	if !h.handleWriteError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var p models.Professional

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Services").First(&p, id).Error; err != nil {
			return err
		}

		if req.Name != nil {
			p.Name = strings.TrimSpace(*req.Name)
		}
		if req.Phone != nil {
			p.Phone = *req.Phone
		}
		if req.Active != nil {
			p.Active = *req.Active
		}
		if err := tx.Omit("Services").Save(&p).Error; err != nil {
			return err
		}

		if req.ServiceIDs == nil {
			return nil
		}
		services, err := loadServices(tx, *req.ServiceIDs)
		if err != nil {
			return err
		}
		p.Services = services
		return tx.Model(&p).Association("Services").Replace(services)
	})
	if !h.handleWriteError(c, err) {
		return
	}

	c.JSON(http.StatusOK, p)
}

// handleWriteError responde e devolve false quando err != nil.
func (h *ProfessionalHandler) handleWriteError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, gorm.ErrRecordNotFound):
		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
	case errors.Is(err, errUnknownService):
		httperr.BadRequest(c, "service_not_found", "Serviço não encontrado.")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		httperr.Conflict(c, "professional_name_taken", "Já existe um profissional com este nome.")
	default:
		writeError(c, err)
	}
	return false
}

func loadServices(tx *gorm.DB, ids []uint) ([]models.Service, error) {
	if len(ids) == 0 {
		return []models.Service{}, nil
	}

	var services []models.Service
	if err := tx.Where("id IN ?", ids).Find(&services).Error; err != nil {
		return nil, err
	}
	if len(services) != len(uniqueIDs(ids)) {
		return nil, errUnknownService
	}
	return services, nil
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

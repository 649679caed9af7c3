package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type CustomerHandler struct {
	db *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{db: db}
}

// List: GET ?query=&limit= (nome, telefone ou e-mail).
func (h *CustomerHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := h.db.WithContext(c.Request.Context())
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	var customers []models.Customer
	if err := q.Order("name ASC").Limit(limit).Find(&customers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_customers", "Erro ao listar clientes.")
		return
	}

	httpresp.List(c, customers)
}

type SetCustomerPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// SetPassword libera a área do cliente para quem já existe no cadastro
// (normalmente quem agendou pela página pública). Só a equipe chega aqui.
func (h *CustomerHandler) SetPassword(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req SetCustomerPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "customer_not_found", "Cliente não encontrado.")
			return
		}
		writeError(c, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := db.Model(&customer).Update("password_hash", string(hashed)).Error; err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, customer)
}

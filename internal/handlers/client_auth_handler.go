package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

// customerAccounts é o recorte do repositório da agenda usado pelo login do
// cliente.
type customerAccounts interface {
	FindCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
}

// ClientAuthHandler cuida do login da área do cliente. O telefone é o login.
type ClientAuthHandler struct {
	customers customerAccounts
	config    *config.Config
}

func NewClientAuthHandler(customers customerAccounts, cfg *config.Config) *ClientAuthHandler {
	return &ClientAuthHandler{customers: customers, config: cfg}
}

type ClientRegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required,min=6"`
}

type ClientLoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register só cria clientes novos. Telefone já cadastrado, com ou sem senha,
// recebe 409 e o registro não é tocado: quem agendou pela página pública
// recebe a senha pela equipe (PUT /admin/customers/:id/password).
func (h *ClientAuthHandler) Register(c *gin.Context) {
	var req ClientRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	phone, ok := validators.NormalizePhone(req.Phone)
	if !ok {
		httperr.BadRequest(c, "invalid_phone", "Telefone inválido.")
		return
	}

	ctx := c.Request.Context()

	_, err := h.customers.FindCustomerByPhone(ctx, phone)
	switch {
	case err == nil:
		phoneRegistered(c)
		return
	case !errors.Is(err, domain.ErrNotFound):
		writeError(c, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(c, err)
		return
	}

	customer := models.Customer{
		Name:         strings.TrimSpace(req.Name),
		Phone:        phone,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
	}

	// o índice único do telefone decide cadastros simultâneos
	err = h.customers.CreateCustomer(ctx, &customer)
	if errors.Is(err, domain.ErrDuplicate) {
		phoneRegistered(c)
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, &customer)
}

func phoneRegistered(c *gin.Context) {
	httperr.Conflict(c, "phone_already_registered", "Este telefone já possui cadastro. Faça login ou peça acesso no salão.")
}

func (h *ClientAuthHandler) Login(c *gin.Context) {
	var req ClientLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	phone, ok := validators.NormalizePhone(req.Phone)
	if !ok {
		httperr.Unauthorized(c, "invalid_credentials", "Telefone ou senha inválidos.")
		return
	}

	customer, err := h.customers.FindCustomerByPhone(c.Request.Context(), phone)
	if errors.Is(err, domain.ErrNotFound) {
		httperr.Unauthorized(c, "invalid_credentials", "Telefone ou senha inválidos.")
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	if customer.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(req.Password)) != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Telefone ou senha inválidos.")
		return
	}

	h.respondWithToken(c, http.StatusOK, customer)
}

func (h *ClientAuthHandler) respondWithToken(c *gin.Context, status int, customer *models.Customer) {
	token, err := middleware.IssueToken(h.config, middleware.TokenCustomer, customer.ID, "")
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar token.")
		return
	}

	c.JSON(status, gin.H{
		"customer": customer,
		"token":    token,
	})
}

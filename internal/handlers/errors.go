package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
)

type errorMapping struct {
	status  int
	message string
}

// Códigos de negócio devolvidos pelos use cases → resposta HTTP.
var businessErrors = map[string]errorMapping{
	// validação
	"missing_service":  {http.StatusBadRequest, "Informe ao menos um serviço."},
	"missing_date":     {http.StatusBadRequest, "Informe a data e o horário."},
	"missing_customer": {http.StatusBadRequest, "Informe o cliente ou o telefone."},
	"missing_name":     {http.StatusBadRequest, "Informe o nome do cliente."},
	"invalid_phone":    {http.StatusBadRequest, "Telefone inválido."},
	"invalid_status":   {http.StatusBadRequest, "Status inválido."},
	"invalid_month":    {http.StatusBadRequest, "Mês inválido."},
	"past_date":        {http.StatusBadRequest, "Não é possível agendar em um horário que já passou."},
	"invalid_duration": {http.StatusBadRequest, "A duração deve ser maior que zero."},

	// referências
	"service_not_found":          {http.StatusBadRequest, "Serviço não encontrado."},
	"professional_not_found":     {http.StatusBadRequest, "Profissional não encontrado ou inativo."},
	"professional_not_qualified": {http.StatusBadRequest, "O profissional escolhido não realiza este serviço."},
	"customer_not_found":         {http.StatusBadRequest, "Cliente não encontrado."},
	"appointment_not_found":      {http.StatusNotFound, "Agendamento não encontrado."},

	// conflitos
	"professional_conflict": {http.StatusConflict, "Nenhum profissional disponível neste horário."},
	"customer_conflict":     {http.StatusConflict, "Você já possui um agendamento neste horário."},
	"agenda_busy":           {http.StatusConflict, "A agenda está sendo alterada. Tente novamente."},

	"service_duration_conflict": {http.StatusConflict, "A nova duração sobrepõe agendamentos já marcados."},

	// estado / permissão
	"invalid_state":               {http.StatusBadRequest, "O agendamento não permite esta alteração."},
	"justification_required":      {http.StatusBadRequest, "Informe uma justificativa (mínimo de 3 caracteres)."},
	"forbidden_status_transition": {http.StatusForbidden, "Você só pode confirmar ou cancelar o agendamento."},
	"appointment_locked":          {http.StatusForbidden, "Este agendamento não pode mais ser alterado."},
	"forbidden":                   {http.StatusForbidden, "Operação não permitida."},
}

// writeError traduz o erro do use case. Erros sem código de negócio viram
// 500 genérico e ficam só no log.
func writeError(c *gin.Context, err error) {
	if be, ok := httperr.AsBusiness(err); ok {
		m, known := businessErrors[be.Code]
		if !known {
			m = errorMapping{http.StatusBadRequest, "Requisição inválida."}
		}
		httperr.WriteWithDetails(c, m.status, be.Code, m.message, be.Meta)
		return
	}

	logging.FromContext(c.Request.Context()).Error("request failed",
		"path", c.FullPath(),
		"err", err,
	)
	httperr.Internal(c, "internal_error", "Erro interno. Tente novamente.")
}

package appointment

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Block é um intervalo ocupado [Start, End) derivado de um agendamento.
type Block struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ServiceDuration devolve a duração do serviço, ou fallback quando o serviço
// não veio carregado ou tem duração inválida.
func ServiceDuration(svc models.Service, fallback time.Duration) time.Duration {
	if svc.ID == 0 || svc.DurationMin <= 0 {
		return fallback
	}
	return time.Duration(svc.DurationMin) * time.Minute
}

// ExtractBlocks converte agendamentos em blocos ordenados pelo início.
// O filtro (dia, status, profissional, cliente) é responsabilidade de quem chama.
func ExtractBlocks(appointments []models.Appointment, fallback time.Duration) []Block {
	blocks := make([]Block, 0, len(appointments))
	for _, ap := range appointments {
		start := ap.Date
		blocks = append(blocks, Block{
			Start: start,
			End:   start.Add(ServiceDuration(ap.Service, fallback)),
		})
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Start.Before(blocks[j].Start)
	})
	return blocks
}

// HasOverlap testa [start, end) contra os blocos. Encostar no fim de um
// bloco não é conflito.
func HasOverlap(start, end time.Time, blocks []Block) bool {
	_, ok := FirstOverlap(start, end, blocks)
	return ok
}

func FirstOverlap(start, end time.Time, blocks []Block) (Block, bool) {
	for _, b := range blocks {
		if start.Before(b.End) && end.After(b.Start) {
			return b, true
		}
	}
	return Block{}, false
}

// --------------------------------------------------
// Filtros sobre o conjunto do dia
// --------------------------------------------------

func filter(aps []models.Appointment, keep func(models.Appointment) bool) []models.Appointment {
	out := make([]models.Appointment, 0, len(aps))
	for _, ap := range aps {
		if keep(ap) {
			out = append(out, ap)
		}
	}
	return out
}

func ActiveOnly(aps []models.Appointment) []models.Appointment {
	return filter(aps, func(ap models.Appointment) bool {
		return IsActive(Status(ap.Status))
	})
}

func ForProfessional(aps []models.Appointment, professional string) []models.Appointment {
	return filter(aps, func(ap models.Appointment) bool {
		return ap.Professional == professional
	})
}

func ForCustomer(aps []models.Appointment, customerID uint) []models.Appointment {
	return filter(aps, func(ap models.Appointment) bool {
		return ap.CustomerID == customerID
	})
}

// Excluding remove o agendamento em edição (id 0 não remove nada).
func Excluding(aps []models.Appointment, id uint) []models.Appointment {
	if id == 0 {
		return aps
	}
	return filter(aps, func(ap models.Appointment) bool {
		return ap.ID != id
	})
}

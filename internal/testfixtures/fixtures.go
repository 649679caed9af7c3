package testfixtures

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Salon monta o cenário padrão: corte (60), escova (30), coloração (45),
// Maria e João habilitados em tudo, Ana inativa.
type Salon struct {
	Repo *MemoryRepository

	Haircut  models.Service
	Blowdry  models.Service
	Coloring models.Service

	Maria models.Professional
	Joao  models.Professional
	Ana   models.Professional

	CustomerX models.Customer
	CustomerY models.Customer
}

func NewSalon() *Salon {
	repo := NewMemoryRepository()

	s := &Salon{Repo: repo}
	s.Haircut = repo.AddService(models.Service{Name: "Corte", DurationMin: 60, Price: 80, Active: true})
	s.Blowdry = repo.AddService(models.Service{Name: "Escova", DurationMin: 30, Price: 50, Active: true})
	s.Coloring = repo.AddService(models.Service{Name: "Coloração", DurationMin: 45, Price: 150, Active: true})

	all := []models.Service{s.Haircut, s.Blowdry, s.Coloring}
	s.Maria = repo.AddProfessional(models.Professional{Name: "Maria", Active: true, Services: all})
	s.Joao = repo.AddProfessional(models.Professional{Name: "João", Active: true, Services: all})
	s.Ana = repo.AddProfessional(models.Professional{Name: "Ana", Active: false, Services: all})

	s.CustomerX = repo.AddCustomer(models.Customer{Name: "Cliente X", Phone: "11999990001"})
	s.CustomerY = repo.AddCustomer(models.Customer{Name: "Cliente Y", Phone: "11999990002"})
	return s
}

// At devolve o horário local (São Paulo) do dia de referência + days.
func At(days, hour, minute int) time.Time {
	ref := ReferenceTime()
	return time.Date(ref.Year(), ref.Month(), ref.Day()+days, hour, minute, 0, 0, SalonLocation())
}

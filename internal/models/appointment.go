package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint     `gorm:"index" json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	// Date é o início do atendimento. EndsAt é gravado na criação apenas para a
	// constraint de exclusão do banco; a agenda recalcula o fim pela duração do serviço.
	Date   time.Time `gorm:"index;not null" json:"date"`
	EndsAt time.Time `json:"ends_at"`

	Status string `gorm:"size:20;default:'agendado';index" json:"status"`

	// Vazio significa "qualquer profissional disponível".
	Professional string `gorm:"size:100;index" json:"professional"`

	Notes              string     `gorm:"size:255" json:"notes"`
	CancellationReason string     `gorm:"size:255" json:"cancellation_reason"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	CompletedAt        *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Constraints de exclusão criadas em db.NewDB (ignoram cancelados).
const (
	ProfessionalOverlapConstraint = "appointments_professional_no_overlap"
	CustomerOverlapConstraint     = "appointments_customer_no_overlap"
)

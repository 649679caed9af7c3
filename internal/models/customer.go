package models

import "time"

// Cliente do salão. O telefone identifica o cliente nos agendamentos públicos;
// PasswordHash só existe para quem usa a área do cliente.
type Customer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Phone        string `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Email        string `gorm:"size:100" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

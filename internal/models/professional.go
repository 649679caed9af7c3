package models

import "time"

type Professional struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name   string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Phone  string `gorm:"size:20" json:"phone"`
	Active bool   `gorm:"default:true" json:"active"`

	Services []Service `gorm:"many2many:professional_services;" json:"services"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Performs informa se o profissional está habilitado para o serviço.
func (p *Professional) Performs(serviceID uint) bool {
	for _, s := range p.Services {
		if s.ID == serviceID {
			return true
		}
	}
	return false
}

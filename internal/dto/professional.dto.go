package dto

import "github.com/BruksfildServices01/salon-scheduler/internal/models"

// PublicProfessionalDTO é o profissional como a página pública enxerga.
type PublicProfessionalDTO struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	ServiceIDs []uint `json:"service_ids"`
}

func ToPublicProfessional(p models.Professional) PublicProfessionalDTO {
	ids := make([]uint, 0, len(p.Services))
	for _, s := range p.Services {
		ids = append(ids, s.ID)
	}
	return PublicProfessionalDTO{ID: p.ID, Name: p.Name, ServiceIDs: ids}
}

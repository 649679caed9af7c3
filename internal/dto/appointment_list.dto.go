package dto

import "time"

type AppointmentListDTO struct {
	ID            uint      `json:"id"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Status        string    `json:"status"`
	CustomerID    uint      `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	ServiceID     uint      `json:"service_id"`
	ServiceName   string    `json:"service_name"`
	Professional  string    `json:"professional"`
	Notes         string    `json:"notes"`
}

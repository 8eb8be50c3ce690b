package domain

import "time"

// ContactSubmission é o registro bruto de cada envio do formulário do guia
type ContactSubmission struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	BusinessName *string   `json:"business_name"`
	Message      *string   `json:"message"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
}

type GuideRequest struct {
	Name         string  `json:"name" validate:"required"`
	Email        string  `json:"email" validate:"required"`
	Phone        string  `json:"phone" validate:"required"`
	BusinessName *string `json:"business_name"`
	Message      *string `json:"message"`
}

// GuideResponse é o corpo JSON do endpoint /api/guide
type GuideResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

package domain

import "time"

// Client é o tenant: escopo de leads, campanhas e usuários
type Client struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Slug               string    `json:"slug"`
	ContactName        *string   `json:"contact_name"`
	ContactEmail       *string   `json:"contact_email"`
	ContactPhone       *string   `json:"contact_phone"`
	MetaAdAccountID    *string   `json:"meta_ad_account_id"`
	MetaPixelID        *string   `json:"meta_pixel_id"`
	MetaPageID         *string   `json:"meta_page_id"`
	InstagramAccountID *string   `json:"instagram_account_id"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ClientFilter struct {
	ClientID *string
	Search   string
	IsActive *bool
}

type CreateClientRequest struct {
	Name               string  `json:"name" validate:"required,max=200"`
	ContactName        *string `json:"contact_name"`
	ContactEmail       *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone       *string `json:"contact_phone"`
	MetaAdAccountID    *string `json:"meta_ad_account_id"`
	MetaPixelID        *string `json:"meta_pixel_id"`
	MetaPageID         *string `json:"meta_page_id"`
	InstagramAccountID *string `json:"instagram_account_id"`
}

// UpdateClientRequest é uma atualização parcial: campos nil não são alterados
type UpdateClientRequest struct {
	ID                 string  `json:"id"`
	Name               *string `json:"name" validate:"omitempty,max=200"`
	ContactName        *string `json:"contact_name"`
	ContactEmail       *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone       *string `json:"contact_phone"`
	MetaAdAccountID    *string `json:"meta_ad_account_id"`
	MetaPixelID        *string `json:"meta_pixel_id"`
	MetaPageID         *string `json:"meta_page_id"`
	InstagramAccountID *string `json:"instagram_account_id"`
	IsActive           *bool   `json:"is_active"`
}

package domain

import "time"

type CampaignPlatform string

const (
	CampaignPlatformMeta      CampaignPlatform = "meta"
	CampaignPlatformInstagram CampaignPlatform = "instagram"
	CampaignPlatformBoth      CampaignPlatform = "both"
)

func (p CampaignPlatform) Valid() bool {
	return p == CampaignPlatformMeta || p == CampaignPlatformInstagram || p == CampaignPlatformBoth
}

type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusActive, CampaignStatusPaused, CampaignStatusCompleted:
		return true
	}
	return false
}

type Campaign struct {
	ID       string           `json:"id"`
	ClientID string           `json:"client_id"`
	Name     string           `json:"name"`
	Platform CampaignPlatform `json:"platform"`
	Status   CampaignStatus   `json:"status"`
	Budget   *float64         `json:"budget"`
	// MonthlyCost vem do formulário como texto livre; valores não numéricos contam como zero
	MonthlyCost    any        `json:"monthly_cost"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	MetaCampaignID *string    `json:"meta_campaign_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type CampaignFilter struct {
	ClientID *string
	Status   *CampaignStatus
	Platform *CampaignPlatform
	Search   string
}

type CreateCampaignRequest struct {
	ClientID       string           `json:"client_id" validate:"required"`
	Name           string           `json:"name" validate:"required,max=200"`
	Platform       CampaignPlatform `json:"platform" validate:"required,oneof=meta instagram both"`
	Status         CampaignStatus   `json:"status" validate:"omitempty,oneof=draft active paused completed"`
	Budget         *float64         `json:"budget" validate:"omitempty,gte=0"`
	MonthlyCost    *string          `json:"monthly_cost"`
	StartDate      *time.Time       `json:"start_date"`
	EndDate        *time.Time       `json:"end_date"`
	MetaCampaignID *string          `json:"meta_campaign_id"`
}

type UpdateCampaignRequest struct {
	ID             string            `json:"id"`
	Name           *string           `json:"name" validate:"omitempty,max=200"`
	Platform       *CampaignPlatform `json:"platform" validate:"omitempty,oneof=meta instagram both"`
	Status         *CampaignStatus   `json:"status" validate:"omitempty,oneof=draft active paused completed"`
	Budget         *float64          `json:"budget" validate:"omitempty,gte=0"`
	MonthlyCost    *string           `json:"monthly_cost"`
	StartDate      *time.Time        `json:"start_date"`
	EndDate        *time.Time        `json:"end_date"`
	MetaCampaignID *string           `json:"meta_campaign_id"`
}

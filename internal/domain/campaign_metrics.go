package domain

import "time"

// MetricsPlatform é a plataforma de veiculação de uma linha de métricas
type MetricsPlatform string

const (
	MetricsPlatformMeta      MetricsPlatform = "meta"
	MetricsPlatformInstagram MetricsPlatform = "instagram"
)

type CampaignMetrics struct {
	ID          string          `json:"id"`
	CampaignID  string          `json:"campaign_id"`
	ClientID    string          `json:"client_id"`
	Platform    MetricsPlatform `json:"platform"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Spend       float64         `json:"spend"`
	Impressions int64           `json:"impressions"`
	Clicks      int64           `json:"clicks"`
	Bookings    int64           `json:"bookings"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ValidPeriod garante period_start <= period_end
func (m *CampaignMetrics) ValidPeriod() bool {
	return !m.PeriodStart.After(m.PeriodEnd)
}

type InsightFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
}

type MetricsFilter struct {
	ClientID   *string
	CampaignID *string
	Platform   *MetricsPlatform
	Period     InsightFilters
}

// PlatformInsight é uma linha de insight diário de campanha vinda da Graph API, já convertida
type PlatformInsight struct {
	ExternalCampaignID string
	CampaignName       string
	Platform           MetricsPlatform
	DateStart          time.Time
	DateStop           time.Time
	Spend              float64
	Impressions        int64
	Clicks             int64
	Bookings           int64
}

// ClientMetrics é o resumo exibido nos cards do dashboard
type ClientMetrics struct {
	TotalMonthlyCost float64                            `json:"total_monthly_cost"`
	TotalBudget      float64                            `json:"total_budget"`
	Spend            float64                            `json:"spend"`
	Impressions      int64                              `json:"impressions"`
	Clicks           int64                              `json:"clicks"`
	Bookings         int64                              `json:"bookings"`
	CTR              float64                            `json:"ctr"`
	CPC              float64                            `json:"cpc"`
	CostPerBooking   float64                            `json:"cost_per_booking"`
	TotalCampaigns   int                                `json:"total_campaigns"`
	ActiveCampaigns  int                                `json:"active_campaigns"`
	TotalLeads       int                                `json:"total_leads"`
	LeadsByStatus    map[LeadStatus]int                 `json:"leads_by_status"`
	ByPlatform       map[MetricsPlatform]PlatformTotals `json:"by_platform"`
}

type PlatformTotals struct {
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Bookings    int64   `json:"bookings"`
}

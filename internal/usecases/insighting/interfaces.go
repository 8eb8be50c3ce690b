package insighting

import (
	"context"

	"github.com/vfg2006/agency-dashboard/internal/domain"
)

// Insighter define as consultas de métricas usadas pelos dashboards
type Insighter interface {
	// ListMetrics lista as linhas de métricas visíveis ao escopo no período
	ListMetrics(ctx context.Context, scope domain.Scope, filter domain.MetricsFilter) ([]*domain.CampaignMetrics, error)

	// ClientMetrics monta o resumo dos cards para um tenant (nil = todos, apenas admin)
	ClientMetrics(ctx context.Context, scope domain.Scope, clientID *string, period domain.InsightFilters) (*domain.ClientMetrics, error)
}

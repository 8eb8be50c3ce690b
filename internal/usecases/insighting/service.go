package insighting

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/vfg2006/agency-dashboard/infrastructure/repository"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"github.com/vfg2006/agency-dashboard/pkg/utils"
	"golang.org/x/sync/errgroup"
)

var (
	ErrFetchMetrics  = errors.New("erro ao buscar métricas")
	ErrInvalidPeriod = errors.New("período inválido")
)

type Service struct {
	campaignRepo repository.CampaignRepository
	metricsRepo  repository.CampaignMetricsRepository
	leadRepo     repository.LeadRepository
}

// NewService cria uma nova instância do serviço de insights
func NewService(
	campaignRepo repository.CampaignRepository,
	metricsRepo repository.CampaignMetricsRepository,
	leadRepo repository.LeadRepository,
) *Service {
	return &Service{
		campaignRepo: campaignRepo,
		metricsRepo:  metricsRepo,
		leadRepo:     leadRepo,
	}
}

func (s *Service) ListMetrics(ctx context.Context, scope domain.Scope, filter domain.MetricsFilter) ([]*domain.CampaignMetrics, error) {
	tenant, err := scope.TenantFilter()
	if err != nil {
		return nil, err
	}
	if tenant != nil {
		filter.ClientID = tenant
	}

	if !validPeriod(filter.Period) {
		return nil, apiErrors.New(ErrInvalidPeriod, apiErrors.ErrInvalidFormat, "A data inicial deve ser anterior à data final")
	}

	metrics, err := s.metricsRepo.List(ctx, filter)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao listar métricas de campanhas")
		return nil, apiErrors.New(ErrFetchMetrics, apiErrors.ErrDatabaseOperation, "Falha ao listar métricas")
	}

	return metrics, nil
}

// ClientMetrics busca campanhas, métricas e leads em paralelo e agrega o resumo
func (s *Service) ClientMetrics(ctx context.Context, scope domain.Scope, clientID *string, period domain.InsightFilters) (*domain.ClientMetrics, error) {
	tenant, err := scope.TenantFilter()
	if err != nil {
		return nil, err
	}
	if tenant != nil {
		clientID = tenant
	}

	if !validPeriod(period) {
		return nil, apiErrors.New(ErrInvalidPeriod, apiErrors.ErrInvalidFormat, "A data inicial deve ser anterior à data final")
	}

	var (
		campaigns []*domain.Campaign
		metrics   []*domain.CampaignMetrics
		leads     []*domain.Lead
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		campaigns, err = s.campaignRepo.List(gctx, domain.CampaignFilter{ClientID: clientID})
		return err
	})

	g.Go(func() error {
		var err error
		metrics, err = s.metricsRepo.List(gctx, domain.MetricsFilter{ClientID: clientID, Period: period})
		return err
	})

	g.Go(func() error {
		var err error
		leads, err = s.leadRepo.List(gctx, domain.LeadFilter{ClientID: clientID})
		return err
	})

	if err := g.Wait(); err != nil {
		log.ForContext(ctx).WithFields(log.Fields{
			"client_id": utils.Deref(clientID),
			"error":     err.Error(),
		}).Error("Erro ao buscar dados para o resumo de métricas")
		return nil, apiErrors.New(ErrFetchMetrics, apiErrors.ErrDatabaseOperation, "Falha ao montar o resumo de métricas")
	}

	return AggregateClientMetrics(campaigns, metrics, leads), nil
}

// AggregateClientMetrics soma os valores dos cards. monthly_cost não numérico conta como zero.
func AggregateClientMetrics(campaigns []*domain.Campaign, metrics []*domain.CampaignMetrics, leads []*domain.Lead) *domain.ClientMetrics {
	summary := &domain.ClientMetrics{
		LeadsByStatus: make(map[domain.LeadStatus]int, len(domain.LeadStatuses)),
		ByPlatform:    make(map[domain.MetricsPlatform]domain.PlatformTotals),
	}

	for _, status := range domain.LeadStatuses {
		summary.LeadsByStatus[status] = 0
	}

	totalMonthlyCost := 0.0
	totalBudget := 0.0
	for _, campaign := range campaigns {
		totalMonthlyCost += utils.ToFloat(campaign.MonthlyCost)
		if campaign.Budget != nil {
			totalBudget += *campaign.Budget
		}
		if campaign.Status == domain.CampaignStatusActive {
			summary.ActiveCampaigns++
		}
	}
	summary.TotalCampaigns = len(campaigns)
	summary.TotalMonthlyCost = utils.RoundWithTwoDecimalPlace(totalMonthlyCost)
	summary.TotalBudget = utils.RoundWithTwoDecimalPlace(totalBudget)

	totalSpend := 0.0
	for _, row := range metrics {
		totalSpend += row.Spend
		summary.Impressions += row.Impressions
		summary.Clicks += row.Clicks
		summary.Bookings += row.Bookings

		totals := summary.ByPlatform[row.Platform]
		totals.Spend = utils.RoundWithTwoDecimalPlace(totals.Spend + row.Spend)
		totals.Impressions += row.Impressions
		totals.Clicks += row.Clicks
		totals.Bookings += row.Bookings
		summary.ByPlatform[row.Platform] = totals
	}

	calculateDerivedMetrics(summary, totalSpend)

	for _, lead := range leads {
		summary.TotalLeads++
		if lead.Status.Valid() {
			summary.LeadsByStatus[lead.Status]++
		}
	}

	return summary
}

// calculateDerivedMetrics calcula CTR, CPC e custo por agendamento
func calculateDerivedMetrics(summary *domain.ClientMetrics, totalSpend float64) {
	summary.Spend = utils.RoundWithTwoDecimalPlace(totalSpend)
	summary.CTR = utils.RoundWithTwoDecimalPlace(utils.SafeDivide(float64(summary.Clicks), float64(summary.Impressions)) * 100)
	summary.CPC = utils.RoundWithTwoDecimalPlace(utils.SafeDivide(totalSpend, float64(summary.Clicks)))
	summary.CostPerBooking = utils.RoundWithTwoDecimalPlace(utils.SafeDivide(totalSpend, float64(summary.Bookings)))
}

// DailyPoint é um ponto do gráfico de evolução diária
type DailyPoint struct {
	Date        time.Time `json:"date"`
	Spend       float64   `json:"spend"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	Bookings    int64     `json:"bookings"`
}

// DailySeries agrupa as linhas por period_start, em ordem crescente
func DailySeries(metrics []*domain.CampaignMetrics) []DailyPoint {
	byDate := make(map[string]*DailyPoint)

	for _, row := range metrics {
		key := row.PeriodStart.Format(time.DateOnly)
		point, exists := byDate[key]
		if !exists {
			point = &DailyPoint{Date: row.PeriodStart}
			byDate[key] = point
		}
		point.Spend = utils.RoundWithTwoDecimalPlace(point.Spend + row.Spend)
		point.Impressions += row.Impressions
		point.Clicks += row.Clicks
		point.Bookings += row.Bookings
	}

	series := make([]DailyPoint, 0, len(byDate))
	for _, point := range byDate {
		series = append(series, *point)
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	return series
}

func validPeriod(period domain.InsightFilters) bool {
	if period.StartDate == nil || period.EndDate == nil {
		return true
	}
	return !period.StartDate.After(*period.EndDate)
}

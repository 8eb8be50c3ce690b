package insighting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-dashboard/infrastructure/repository/mocks"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"go.uber.org/mock/gomock"
)

func stringPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

func TestAggregateClientMetrics_CustoMensal(t *testing.T) {
	tests := []struct {
		name  string
		costs []any
		want  float64
	}{
		{"Valor não numérico conta como zero", []any{"100", "200", "bad"}, 300},
		{"Números e nulos", []any{100.0, 200, nil}, 300},
		{"Texto com espaços e decimais", []any{" 99.90 ", "0.10"}, 100},
		{"Sem campanhas", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			campaigns := make([]*domain.Campaign, 0, len(tt.costs))
			for _, cost := range tt.costs {
				campaigns = append(campaigns, &domain.Campaign{MonthlyCost: cost})
			}

			summary := AggregateClientMetrics(campaigns, nil, nil)

			assert.Equal(t, tt.want, summary.TotalMonthlyCost)
		})
	}
}

func TestAggregateClientMetrics(t *testing.T) {
	campaigns := []*domain.Campaign{
		{ID: "k1", Status: domain.CampaignStatusActive, Budget: floatPtr(1000)},
		{ID: "k2", Status: domain.CampaignStatusPaused, Budget: floatPtr(500.5)},
		{ID: "k3", Status: domain.CampaignStatusActive},
	}
	metrics := []*domain.CampaignMetrics{
		{Platform: domain.MetricsPlatformMeta, Spend: 100, Impressions: 10000, Clicks: 200, Bookings: 4},
		{Platform: domain.MetricsPlatformInstagram, Spend: 50, Impressions: 5000, Clicks: 100, Bookings: 1},
		{Platform: domain.MetricsPlatformMeta, Spend: 25.56, Impressions: 0, Clicks: 0, Bookings: 0},
	}
	leads := []*domain.Lead{
		{Status: domain.LeadStatusNew},
		{Status: domain.LeadStatusNew},
		{Status: domain.LeadStatusConverted},
		{Status: "arquivado"},
	}

	summary := AggregateClientMetrics(campaigns, metrics, leads)

	assert.Equal(t, 3, summary.TotalCampaigns)
	assert.Equal(t, 2, summary.ActiveCampaigns)
	assert.Equal(t, 1500.5, summary.TotalBudget)
	assert.Equal(t, 175.56, summary.Spend)
	assert.Equal(t, int64(15000), summary.Impressions)
	assert.Equal(t, int64(300), summary.Clicks)
	assert.Equal(t, int64(5), summary.Bookings)
	assert.Equal(t, 2.0, summary.CTR)
	assert.Equal(t, 0.59, summary.CPC)
	assert.Equal(t, 35.11, summary.CostPerBooking)
	assert.Equal(t, 4, summary.TotalLeads)
	assert.Equal(t, 2, summary.LeadsByStatus[domain.LeadStatusNew])
	assert.Equal(t, 1, summary.LeadsByStatus[domain.LeadStatusConverted])
	assert.Equal(t, 0, summary.LeadsByStatus[domain.LeadStatusLost])
	assert.Equal(t, int64(1), summary.ByPlatform[domain.MetricsPlatformInstagram].Bookings)
	assert.Equal(t, int64(10000), summary.ByPlatform[domain.MetricsPlatformMeta].Impressions)
}

func TestAggregateClientMetrics_SemDivisaoPorZero(t *testing.T) {
	summary := AggregateClientMetrics(nil, []*domain.CampaignMetrics{{Spend: 10}}, nil)

	assert.Equal(t, 10.0, summary.Spend)
	assert.Zero(t, summary.CTR)
	assert.Zero(t, summary.CPC)
	assert.Zero(t, summary.CostPerBooking)
}

func TestDailySeries(t *testing.T) {
	day1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	series := DailySeries([]*domain.CampaignMetrics{
		{PeriodStart: day2, Spend: 5, Clicks: 1},
		{PeriodStart: day1, Spend: 10, Clicks: 2},
		{PeriodStart: day2, Spend: 2.5, Clicks: 3},
	})

	require.Len(t, series, 2)
	assert.Equal(t, day1, series[0].Date)
	assert.Equal(t, 7.5, series[1].Spend)
	assert.Equal(t, int64(4), series[1].Clicks)
}

func TestService_ClientMetrics(t *testing.T) {
	log.SetupTestLogger()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	campaignRepo := mocks.NewMockCampaignRepository(ctrl)
	metricsRepo := mocks.NewMockCampaignMetricsRepository(ctrl)
	leadRepo := mocks.NewMockLeadRepository(ctrl)

	scope := domain.Scope{UserID: "u1", Role: domain.RoleClient, ClientID: stringPtr("c1")}

	campaignRepo.EXPECT().List(gomock.Any(), domain.CampaignFilter{ClientID: stringPtr("c1")}).
		Return([]*domain.Campaign{{MonthlyCost: "100"}, {MonthlyCost: "200"}, {MonthlyCost: "bad"}}, nil)
	metricsRepo.EXPECT().List(gomock.Any(), domain.MetricsFilter{ClientID: stringPtr("c1")}).Return(nil, nil)
	leadRepo.EXPECT().List(gomock.Any(), domain.LeadFilter{ClientID: stringPtr("c1")}).Return(nil, nil)

	// o client_id pedido é ignorado para escopo de cliente
	summary, err := NewService(campaignRepo, metricsRepo, leadRepo).
		ClientMetrics(context.Background(), scope, stringPtr("c2"), domain.InsightFilters{})

	require.NoError(t, err)
	assert.Equal(t, 300.0, summary.TotalMonthlyCost)
}

func TestService_ClientMetrics_ErroEmUmaConsulta(t *testing.T) {
	log.SetupTestLogger()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	campaignRepo := mocks.NewMockCampaignRepository(ctrl)
	metricsRepo := mocks.NewMockCampaignMetricsRepository(ctrl)
	leadRepo := mocks.NewMockLeadRepository(ctrl)

	campaignRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	metricsRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout")).AnyTimes()
	leadRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := NewService(campaignRepo, metricsRepo, leadRepo).
		ClientMetrics(context.Background(), domain.Scope{Role: domain.RoleAdmin}, nil, domain.InsightFilters{})

	assert.ErrorIs(t, err, ErrFetchMetrics)
}

func TestService_ListMetrics_PeriodoInvertido(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -3)

	_, err := NewService(nil, mocks.NewMockCampaignMetricsRepository(ctrl), nil).ListMetrics(
		context.Background(),
		domain.Scope{Role: domain.RoleAdmin},
		domain.MetricsFilter{Period: domain.InsightFilters{StartDate: &start, EndDate: &end}},
	)

	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

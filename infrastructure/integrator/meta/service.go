package meta

import (
	"context"
	"strconv"
	"time"

	metadomain "github.com/vfg2006/agency-dashboard/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/agency-dashboard/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/agency-dashboard/internal/config"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"github.com/vfg2006/agency-dashboard/pkg/utils"
)

// DefaultBookingActionTypes são as ações da Meta contadas como agendamento quando META_BOOKING_ACTION_TYPES está vazio
var DefaultBookingActionTypes = []string{
	"onsite_conversion.messaging_conversation_started_7d",
	"offsite_conversion.fb_pixel_schedule",
	"schedule",
	"lead",
}

type Integrator interface {
	GetPlatformInsights(ctx context.Context, adAccountID string, period domain.InsightFilters) ([]domain.PlatformInsight, error)
}

type MetaIntegrator struct {
	client         metaclient.Client
	bookingActions map[string]struct{}
}

func New(cfg config.Meta, client metaclient.Client) *MetaIntegrator {
	actionTypes := cfg.BookingActionTypes
	if len(actionTypes) == 0 {
		actionTypes = DefaultBookingActionTypes
	}

	bookingActions := make(map[string]struct{}, len(actionTypes))
	for _, actionType := range actionTypes {
		bookingActions[actionType] = struct{}{}
	}

	return &MetaIntegrator{
		client:         client,
		bookingActions: bookingActions,
	}
}

// GetPlatformInsights busca os insights da conta e converte cada linha para o domínio
func (s *MetaIntegrator) GetPlatformInsights(ctx context.Context, adAccountID string, period domain.InsightFilters) ([]domain.PlatformInsight, error) {
	resp, err := s.client.GetCampaignInsights(ctx, adAccountID, period)
	if err != nil {
		log.L.WithFields(log.Fields{
			"ad_account_id": adAccountID,
			"error":         err.Error(),
		}).Error("insights: erro ao obter insights de campanhas da API")
		return nil, err
	}

	insights := make([]domain.PlatformInsight, 0, len(resp))
	for i := range resp {
		insight, ok := s.FactoryPlatformInsight(&resp[i])
		if !ok {
			continue
		}
		insights = append(insights, insight)
	}

	log.L.WithFields(log.Fields{
		"ad_account_id": adAccountID,
		"rows":          len(insights),
	}).Debug("insights: insights de campanhas obtidos com sucesso")

	return insights, nil
}

// FactoryPlatformInsight converte a linha da Graph API; plataformas fora de facebook/instagram são descartadas
func (s *MetaIntegrator) FactoryPlatformInsight(raw *metadomain.CampaignInsight) (domain.PlatformInsight, bool) {
	platform, ok := mapPlatform(raw.PublisherPlatform)
	if !ok {
		log.L.WithField("publisher_platform", raw.PublisherPlatform).Debug("insights: plataforma ignorada")
		return domain.PlatformInsight{}, false
	}

	dateStart, err := time.Parse(time.DateOnly, raw.DateStart)
	if err != nil {
		log.L.WithField("date_start", raw.DateStart).Warn("insights: erro ao converter date_start")
		return domain.PlatformInsight{}, false
	}

	dateStop, err := time.Parse(time.DateOnly, raw.DateStop)
	if err != nil {
		dateStop = dateStart
	}

	var bookings int64
	for _, value := range raw.ActionValues(s.bookingActions) {
		bookings += int64(utils.ToFloat(value))
	}

	return domain.PlatformInsight{
		ExternalCampaignID: raw.CampaignID,
		CampaignName:       raw.CampaignName,
		Platform:           platform,
		DateStart:          dateStart,
		DateStop:           dateStop,
		Spend:              utils.RoundWithTwoDecimalPlace(utils.ToFloat(raw.Spend)),
		Impressions:        parseCount("impressions", raw.Impressions),
		Clicks:             parseCount("clicks", raw.Clicks),
		Bookings:           bookings,
	}, true
}

func mapPlatform(publisherPlatform string) (domain.MetricsPlatform, bool) {
	switch publisherPlatform {
	case "facebook":
		return domain.MetricsPlatformMeta, true
	case "instagram":
		return domain.MetricsPlatformInstagram, true
	default:
		return "", false
	}
}

func parseCount(field, value string) int64 {
	if value == "" {
		return 0
	}

	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.L.WithFields(log.Fields{
			"field": field,
			"value": value,
			"error": err.Error(),
		}).Warn("insights: erro ao converter valor para inteiro")
		return 0
	}

	return count
}

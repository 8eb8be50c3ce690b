package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/agency-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/agency-dashboard/internal/domain"
)

const campaignMetricsTable = "campaign_metrics"

var campaignMetricsColumns = []string{
	"id", "campaign_id", "client_id", "platform", "period_start", "period_end",
	"spend", "impressions", "clicks", "bookings", "created_at", "updated_at",
}

type CampaignMetricsRepository interface {
	List(ctx context.Context, filter domain.MetricsFilter) ([]*domain.CampaignMetrics, error)
	// Upsert grava as linhas do período; a chave é (campaign_id, platform, period_start, period_end)
	Upsert(ctx context.Context, metrics []*domain.CampaignMetrics) (int, error)
}

type campaignMetricsRepository struct {
	conn *postgres.Connection
}

func NewCampaignMetricsRepository(conn *postgres.Connection) CampaignMetricsRepository {
	return &campaignMetricsRepository{
		conn: conn,
	}
}

func (r *campaignMetricsRepository) List(ctx context.Context, filter domain.MetricsFilter) ([]*domain.CampaignMetrics, error) {
	queryBuilder := squirrel.
		Select(campaignMetricsColumns...).
		From(campaignMetricsTable).
		OrderBy("period_start ASC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.ClientID != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}

	if filter.CampaignID != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"campaign_id": *filter.CampaignID})
	}

	if filter.Platform != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"platform": string(*filter.Platform)})
	}

	if filter.Period.StartDate != nil {
		queryBuilder = queryBuilder.Where(squirrel.GtOrEq{"period_start": *filter.Period.StartDate})
	}

	if filter.Period.EndDate != nil {
		queryBuilder = queryBuilder.Where(squirrel.LtOrEq{"period_end": *filter.Period.EndDate})
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar métricas")
	}
	defer rows.Close()

	metrics := make([]*domain.CampaignMetrics, 0)
	for rows.Next() {
		m := &domain.CampaignMetrics{}
		if err := rows.Scan(
			&m.ID,
			&m.CampaignID,
			&m.ClientID,
			&m.Platform,
			&m.PeriodStart,
			&m.PeriodEnd,
			&m.Spend,
			&m.Impressions,
			&m.Clicks,
			&m.Bookings,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "erro ao escanear métricas")
		}
		metrics = append(metrics, m)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante iteração")
	}

	return metrics, nil
}

func (r *campaignMetricsRepository) Upsert(ctx context.Context, metrics []*domain.CampaignMetrics) (int, error) {
	if len(metrics) == 0 {
		return 0, nil
	}

	queryBuilder := squirrel.
		Insert(campaignMetricsTable).
		Columns("campaign_id", "client_id", "platform", "period_start", "period_end", "spend", "impressions", "clicks", "bookings").
		Suffix(`ON CONFLICT (campaign_id, platform, period_start, period_end) DO UPDATE SET
			client_id = EXCLUDED.client_id,
			spend = EXCLUDED.spend,
			impressions = EXCLUDED.impressions,
			clicks = EXCLUDED.clicks,
			bookings = EXCLUDED.bookings,
			updated_at = NOW()`).
		PlaceholderFormat(squirrel.Dollar)

	for _, m := range metrics {
		if !m.ValidPeriod() {
			return 0, errors.Wrapf(domain.ErrInvalidInput, "período inválido para a campanha %s", m.CampaignID)
		}
		queryBuilder = queryBuilder.Values(
			m.CampaignID, m.ClientID, string(m.Platform),
			m.PeriodStart, m.PeriodEnd, m.Spend, m.Impressions, m.Clicks, m.Bookings,
		)
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "erro ao construir a query")
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "erro ao gravar métricas")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return len(metrics), nil
	}

	return int(affected), nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/agency-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/agency-dashboard/internal/domain"
)

const campaignsTable = "campaigns"

var campaignColumns = []string{
	"id", "client_id", "name", "platform", "status", "budget", "monthly_cost",
	"start_date", "end_date", "meta_campaign_id", "created_at", "updated_at",
}

type CampaignRepository interface {
	List(ctx context.Context, filter domain.CampaignFilter) ([]*domain.Campaign, error)
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	Create(ctx context.Context, campaign *domain.Campaign) (*domain.Campaign, error)
	Update(ctx context.Context, req *domain.UpdateCampaignRequest) (*domain.Campaign, error)
	// ListSyncable retorna as campanhas do cliente vinculadas a uma campanha da Meta
	ListSyncable(ctx context.Context, clientID string) ([]*domain.Campaign, error)
}

type campaignRepository struct {
	conn *postgres.Connection
}

func NewCampaignRepository(conn *postgres.Connection) CampaignRepository {
	return &campaignRepository{
		conn: conn,
	}
}

func (r *campaignRepository) List(ctx context.Context, filter domain.CampaignFilter) ([]*domain.Campaign, error) {
	queryBuilder := squirrel.
		Select(campaignColumns...).
		From(campaignsTable).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.ClientID != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}

	if filter.Status != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	if filter.Platform != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"platform": string(*filter.Platform)})
	}

	if filter.Search != "" {
		queryBuilder = queryBuilder.Where(squirrel.ILike{"name": likeTerm(filter.Search)})
	}

	return r.query(ctx, queryBuilder)
}

func (r *campaignRepository) ListSyncable(ctx context.Context, clientID string) ([]*domain.Campaign, error) {
	queryBuilder := squirrel.
		Select(campaignColumns...).
		From(campaignsTable).
		Where(squirrel.Eq{"client_id": clientID}).
		Where(squirrel.NotEq{"meta_campaign_id": nil}).
		Where(squirrel.NotEq{"meta_campaign_id": ""}).
		PlaceholderFormat(squirrel.Dollar)

	return r.query(ctx, queryBuilder)
}

func (r *campaignRepository) query(ctx context.Context, queryBuilder squirrel.SelectBuilder) ([]*domain.Campaign, error) {
	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar campanhas")
	}
	defer rows.Close()

	campaigns := make([]*domain.Campaign, 0)
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear campanha")
		}
		campaigns = append(campaigns, campaign)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante iteração")
	}

	return campaigns, nil
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	query, args, err := squirrel.
		Select(campaignColumns...).
		From(campaignsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	campaign, err := scanCampaign(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "erro ao buscar campanha")
	}

	return campaign, nil
}

func (r *campaignRepository) Create(ctx context.Context, campaign *domain.Campaign) (*domain.Campaign, error) {
	if campaign.Status == "" {
		campaign.Status = domain.CampaignStatusDraft
	}

	query, args, err := squirrel.
		Insert(campaignsTable).
		Columns(
			"client_id", "name", "platform", "status", "budget", "monthly_cost",
			"start_date", "end_date", "meta_campaign_id",
		).
		Values(
			campaign.ClientID, campaign.Name, string(campaign.Platform), string(campaign.Status), campaign.Budget,
			monthlyCostValue(campaign.MonthlyCost), campaign.StartDate, campaign.EndDate, campaign.MetaCampaignID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&campaign.ID, &campaign.CreatedAt, &campaign.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "erro ao criar campanha")
	}

	return campaign, nil
}

func (r *campaignRepository) Update(ctx context.Context, req *domain.UpdateCampaignRequest) (*domain.Campaign, error) {
	queryBuilder := squirrel.
		Update(campaignsTable).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": req.ID}).
		Suffix("RETURNING " + joinColumns(campaignColumns)).
		PlaceholderFormat(squirrel.Dollar)

	if req.Name != nil {
		queryBuilder = queryBuilder.Set("name", *req.Name)
	}
	if req.Platform != nil {
		queryBuilder = queryBuilder.Set("platform", string(*req.Platform))
	}
	if req.Status != nil {
		queryBuilder = queryBuilder.Set("status", string(*req.Status))
	}
	if req.Budget != nil {
		queryBuilder = queryBuilder.Set("budget", *req.Budget)
	}
	if req.MonthlyCost != nil {
		queryBuilder = queryBuilder.Set("monthly_cost", nullable(req.MonthlyCost))
	}
	if req.StartDate != nil {
		queryBuilder = queryBuilder.Set("start_date", *req.StartDate)
	}
	if req.EndDate != nil {
		queryBuilder = queryBuilder.Set("end_date", *req.EndDate)
	}
	if req.MetaCampaignID != nil {
		queryBuilder = queryBuilder.Set("meta_campaign_id", nullable(req.MetaCampaignID))
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	campaign, err := scanCampaign(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrap(err, "erro ao atualizar campanha")
	}

	return campaign, nil
}

func scanCampaign(row rowScanner) (*domain.Campaign, error) {
	campaign := &domain.Campaign{}
	var monthlyCost sql.NullString

	if err := row.Scan(
		&campaign.ID,
		&campaign.ClientID,
		&campaign.Name,
		&campaign.Platform,
		&campaign.Status,
		&campaign.Budget,
		&monthlyCost,
		&campaign.StartDate,
		&campaign.EndDate,
		&campaign.MetaCampaignID,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if monthlyCost.Valid {
		campaign.MonthlyCost = monthlyCost.String
	}

	return campaign, nil
}

// monthlyCostValue normaliza o custo mensal para a coluna TEXT
func monthlyCostValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case *string:
		return nullable(v)
	case string:
		return nullable(&v)
	default:
		return fmt.Sprint(v)
	}
}

package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/agency-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/agency-dashboard/internal/domain"
)

const leadsTable = "leads"

var leadColumns = []string{
	"id", "client_id", "name", "email", "phone", "status", "source", "notes", "created_at", "updated_at",
}

type LeadRepository interface {
	List(ctx context.Context, filter domain.LeadFilter) ([]*domain.Lead, error)
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error)
	Update(ctx context.Context, req *domain.UpdateLeadRequest) (*domain.Lead, error)
	UpdateStatus(ctx context.Context, id string, status domain.LeadStatus) (*domain.Lead, error)
}

type leadRepository struct {
	conn *postgres.Connection
}

func NewLeadRepository(conn *postgres.Connection) LeadRepository {
	return &leadRepository{
		conn: conn,
	}
}

func (r *leadRepository) List(ctx context.Context, filter domain.LeadFilter) ([]*domain.Lead, error) {
	queryBuilder := squirrel.
		Select(leadColumns...).
		From(leadsTable).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.ClientID != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}

	if filter.Status != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	if filter.Search != "" {
		term := likeTerm(filter.Search)
		queryBuilder = queryBuilder.Where(squirrel.Or{
			squirrel.ILike{"name": term},
			squirrel.ILike{"email": term},
			squirrel.ILike{"phone": term},
			squirrel.ILike{"source": term},
		})
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar leads")
	}
	defer rows.Close()

	leads := make([]*domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear lead")
		}
		leads = append(leads, lead)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante iteração")
	}

	return leads, nil
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	query, args, err := squirrel.
		Select(leadColumns...).
		From(leadsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	lead, err := scanLead(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "erro ao buscar lead")
	}

	return lead, nil
}

func (r *leadRepository) Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	if lead.Status == "" {
		lead.Status = domain.LeadStatusNew
	}

	query, args, err := squirrel.
		Insert(leadsTable).
		Columns("client_id", "name", "email", "phone", "status", "source", "notes").
		Values(lead.ClientID, lead.Name, lead.Email, lead.Phone, string(lead.Status), lead.Source, lead.Notes).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "erro ao criar lead")
	}

	return lead, nil
}

func (r *leadRepository) Update(ctx context.Context, req *domain.UpdateLeadRequest) (*domain.Lead, error) {
	queryBuilder := squirrel.
		Update(leadsTable).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": req.ID}).
		Suffix("RETURNING " + joinColumns(leadColumns)).
		PlaceholderFormat(squirrel.Dollar)

	if req.Name != nil {
		queryBuilder = queryBuilder.Set("name", *req.Name)
	}
	if req.Email != nil {
		queryBuilder = queryBuilder.Set("email", nullable(req.Email))
	}
	if req.Phone != nil {
		queryBuilder = queryBuilder.Set("phone", nullable(req.Phone))
	}
	if req.Status != nil {
		queryBuilder = queryBuilder.Set("status", string(*req.Status))
	}
	if req.Source != nil {
		queryBuilder = queryBuilder.Set("source", nullable(req.Source))
	}
	if req.Notes != nil {
		queryBuilder = queryBuilder.Set("notes", nullable(req.Notes))
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	lead, err := scanLead(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrap(err, "erro ao atualizar lead")
	}

	return lead, nil
}

func (r *leadRepository) UpdateStatus(ctx context.Context, id string, status domain.LeadStatus) (*domain.Lead, error) {
	return r.Update(ctx, &domain.UpdateLeadRequest{ID: id, Status: &status})
}

func scanLead(row rowScanner) (*domain.Lead, error) {
	lead := &domain.Lead{}

	if err := row.Scan(
		&lead.ID,
		&lead.ClientID,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.Status,
		&lead.Source,
		&lead.Notes,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return lead, nil
}

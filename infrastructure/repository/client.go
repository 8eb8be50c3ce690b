package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/agency-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/agency-dashboard/internal/domain"
)

const (
	clientsTable = "clients"

	uniqueViolation = "23505"
)

var ErrSlugTaken = errors.New("slug já utilizado por outro cliente")

var clientColumns = []string{
	"id", "name", "slug", "contact_name", "contact_email", "contact_phone",
	"meta_ad_account_id", "meta_pixel_id", "meta_page_id", "instagram_account_id",
	"is_active", "created_at", "updated_at",
}

type ClientRepository interface {
	List(ctx context.Context, filter domain.ClientFilter) ([]*domain.Client, error)
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Client, error)
	ListWithMetaAccount(ctx context.Context) ([]*domain.Client, error)
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	Update(ctx context.Context, req *domain.UpdateClientRequest) (*domain.Client, error)
}

type clientRepository struct {
	conn *postgres.Connection
}

func NewClientRepository(conn *postgres.Connection) ClientRepository {
	return &clientRepository{
		conn: conn,
	}
}

func (r *clientRepository) List(ctx context.Context, filter domain.ClientFilter) ([]*domain.Client, error) {
	queryBuilder := squirrel.
		Select(clientColumns...).
		From(clientsTable).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.ClientID != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"id": *filter.ClientID})
	}

	if filter.IsActive != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	if filter.Search != "" {
		term := likeTerm(filter.Search)
		queryBuilder = queryBuilder.Where(squirrel.Or{
			squirrel.ILike{"name": term},
			squirrel.ILike{"slug": term},
			squirrel.ILike{"contact_name": term},
			squirrel.ILike{"contact_email": term},
		})
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar clientes")
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear cliente")
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante iteração")
	}

	return clients, nil
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	query, args, err := squirrel.
		Select(clientColumns...).
		From(clientsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	client, err := scanClient(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "erro ao buscar cliente")
	}

	return client, nil
}

func (r *clientRepository) GetBySlug(ctx context.Context, slug string) (*domain.Client, error) {
	query, args, err := squirrel.
		Select(clientColumns...).
		From(clientsTable).
		Where(squirrel.Eq{"slug": slug}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	client, err := scanClient(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "erro ao buscar cliente por slug")
	}

	return client, nil
}

// ListWithMetaAccount retorna os clientes ativos com conta de anúncios da Meta configurada
func (r *clientRepository) ListWithMetaAccount(ctx context.Context) ([]*domain.Client, error) {
	query, args, err := squirrel.
		Select(clientColumns...).
		From(clientsTable).
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.NotEq{"meta_ad_account_id": nil}).
		Where(squirrel.NotEq{"meta_ad_account_id": ""}).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar clientes com conta Meta")
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear cliente")
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante iteração")
	}

	return clients, nil
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	query, args, err := squirrel.
		Insert(clientsTable).
		Columns(
			"name", "slug", "contact_name", "contact_email", "contact_phone",
			"meta_ad_account_id", "meta_pixel_id", "meta_page_id", "instagram_account_id", "is_active",
		).
		Values(
			client.Name, client.Slug, client.ContactName, client.ContactEmail, client.ContactPhone,
			client.MetaAdAccountID, client.MetaPixelID, client.MetaPageID, client.InstagramAccountID, client.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, errors.Wrap(err, "erro ao criar cliente")
	}

	return client, nil
}

func (r *clientRepository) Update(ctx context.Context, req *domain.UpdateClientRequest) (*domain.Client, error) {
	queryBuilder := squirrel.
		Update(clientsTable).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": req.ID}).
		Suffix("RETURNING " + joinColumns(clientColumns)).
		PlaceholderFormat(squirrel.Dollar)

	if req.Name != nil {
		queryBuilder = queryBuilder.Set("name", *req.Name)
	}
	if req.ContactName != nil {
		queryBuilder = queryBuilder.Set("contact_name", nullable(req.ContactName))
	}
	if req.ContactEmail != nil {
		queryBuilder = queryBuilder.Set("contact_email", nullable(req.ContactEmail))
	}
	if req.ContactPhone != nil {
		queryBuilder = queryBuilder.Set("contact_phone", nullable(req.ContactPhone))
	}
	if req.MetaAdAccountID != nil {
		queryBuilder = queryBuilder.Set("meta_ad_account_id", nullable(req.MetaAdAccountID))
	}
	if req.MetaPixelID != nil {
		queryBuilder = queryBuilder.Set("meta_pixel_id", nullable(req.MetaPixelID))
	}
	if req.MetaPageID != nil {
		queryBuilder = queryBuilder.Set("meta_page_id", nullable(req.MetaPageID))
	}
	if req.InstagramAccountID != nil {
		queryBuilder = queryBuilder.Set("instagram_account_id", nullable(req.InstagramAccountID))
	}
	if req.IsActive != nil {
		queryBuilder = queryBuilder.Set("is_active", *req.IsActive)
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	client, err := scanClient(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrap(err, "erro ao atualizar cliente")
	}

	return client, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	client := &domain.Client{}

	if err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Slug,
		&client.ContactName,
		&client.ContactEmail,
		&client.ContactPhone,
		&client.MetaAdAccountID,
		&client.MetaPixelID,
		&client.MetaPageID,
		&client.InstagramAccountID,
		&client.IsActive,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return client, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

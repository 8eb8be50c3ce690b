package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/agency-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/agency-dashboard/internal/domain"
)

const profilesTable = "profiles"

var profileColumns = []string{
	"id", "email", "full_name", "role", "client_id", "is_active", "created_at", "updated_at",
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	List(ctx context.Context, filter domain.ProfileFilter) ([]*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	Update(ctx context.Context, req *domain.UpdateProfileRequest) (*domain.Profile, error)
}

type profileRepository struct {
	conn *postgres.Connection
}

func NewProfileRepository(conn *postgres.Connection) ProfileRepository {
	return &profileRepository{
		conn: conn,
	}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query, args, err := squirrel.
		Select(profileColumns...).
		From(profilesTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	profile, err := scanProfile(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "erro ao buscar perfil")
	}

	return profile, nil
}

func (r *profileRepository) List(ctx context.Context, filter domain.ProfileFilter) ([]*domain.Profile, error) {
	queryBuilder := squirrel.
		Select(profileColumns...).
		From(profilesTable).
		OrderBy("email ASC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Role != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"role": string(*filter.Role)})
	}

	if filter.ClientID != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}

	if filter.Search != "" {
		term := likeTerm(filter.Search)
		queryBuilder = queryBuilder.Where(squirrel.Or{
			squirrel.ILike{"email": term},
			squirrel.ILike{"full_name": term},
		})
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar perfis")
	}
	defer rows.Close()

	profiles := make([]*domain.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear perfil")
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante iteração")
	}

	return profiles, nil
}

// Upsert grava o perfil do usuário convidado; se o id já existir os dados são sobrescritos
func (r *profileRepository) Upsert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	query, args, err := squirrel.
		Insert(profilesTable).
		Columns("id", "email", "full_name", "role", "client_id", "is_active").
		Values(profile.ID, profile.Email, profile.FullName, string(profile.Role), profile.ClientID, profile.IsActive).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			role = EXCLUDED.role,
			client_id = EXCLUDED.client_id,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING ` + joinColumns(profileColumns)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	saved, err := scanProfile(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gravar perfil")
	}

	return saved, nil
}

func (r *profileRepository) Update(ctx context.Context, req *domain.UpdateProfileRequest) (*domain.Profile, error) {
	queryBuilder := squirrel.
		Update(profilesTable).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": req.ID}).
		Suffix("RETURNING " + joinColumns(profileColumns)).
		PlaceholderFormat(squirrel.Dollar)

	if req.FullName != nil {
		queryBuilder = queryBuilder.Set("full_name", nullable(req.FullName))
	}
	if req.Role != nil {
		queryBuilder = queryBuilder.Set("role", string(*req.Role))
	}
	if req.ClientID != nil {
		queryBuilder = queryBuilder.Set("client_id", nullable(req.ClientID))
	}
	if req.IsActive != nil {
		queryBuilder = queryBuilder.Set("is_active", *req.IsActive)
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	profile, err := scanProfile(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrap(err, "erro ao atualizar perfil")
	}

	return profile, nil
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	profile := &domain.Profile{}

	if err := row.Scan(
		&profile.ID,
		&profile.Email,
		&profile.FullName,
		&profile.Role,
		&profile.ClientID,
		&profile.IsActive,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return profile, nil
}

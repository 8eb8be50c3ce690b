package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/agency-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/agency-dashboard/internal/domain"
)

const contactSubmissionsTable = "contact_submissions"

type ContactSubmissionRepository interface {
	Create(ctx context.Context, submission *domain.ContactSubmission) (*domain.ContactSubmission, error)
	List(ctx context.Context, limit uint64) ([]*domain.ContactSubmission, error)
}

type contactSubmissionRepository struct {
	conn *postgres.Connection
}

func NewContactSubmissionRepository(conn *postgres.Connection) ContactSubmissionRepository {
	return &contactSubmissionRepository{
		conn: conn,
	}
}

func (r *contactSubmissionRepository) Create(ctx context.Context, submission *domain.ContactSubmission) (*domain.ContactSubmission, error) {
	if submission.Source == "" {
		submission.Source = "guide"
	}

	query, args, err := squirrel.
		Insert(contactSubmissionsTable).
		Columns("name", "email", "phone", "business_name", "message", "source").
		Values(submission.Name, submission.Email, submission.Phone, submission.BusinessName, submission.Message, submission.Source).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&submission.ID, &submission.CreatedAt); err != nil {
		return nil, errors.Wrap(err, "erro ao gravar envio do formulário")
	}

	return submission, nil
}

func (r *contactSubmissionRepository) List(ctx context.Context, limit uint64) ([]*domain.ContactSubmission, error) {
	queryBuilder := squirrel.
		Select("id", "name", "email", "phone", "business_name", "message", "source", "created_at").
		From(contactSubmissionsTable).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if limit > 0 {
		queryBuilder = queryBuilder.Limit(limit)
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar envios")
	}
	defer rows.Close()

	submissions := make([]*domain.ContactSubmission, 0)
	for rows.Next() {
		s := &domain.ContactSubmission{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.BusinessName, &s.Message, &s.Source, &s.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "erro ao escanear envio")
		}
		submissions = append(submissions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante iteração")
	}

	return submissions, nil
}

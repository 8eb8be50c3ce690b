package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-dashboard/internal/domain"
)

func clientRows() *sqlmock.Rows {
	return sqlmock.NewRows(clientColumns)
}

func TestClientRepository_List(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewClientRepository(conn)
	now := time.Now()
	active := true

	mock.ExpectQuery(`SELECT (.+) FROM clients WHERE is_active = \$1 AND \(name ILIKE \$2 OR slug ILIKE \$3 OR contact_name ILIKE \$4 OR contact_email ILIKE \$5\) ORDER BY name ASC`).
		WithArgs(true, "%acme%", "%acme%", "%acme%", "%acme%").
		WillReturnRows(clientRows().
			AddRow("c1", "Acme", "acme", nil, "contato@acme.com", nil, "act_1", nil, nil, nil, true, now, now))

	clients, err := repo.List(context.Background(), domain.ClientFilter{Search: " acme ", IsActive: &active})

	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "acme", clients[0].Slug)
	assert.Nil(t, clients[0].ContactName)
	assert.Equal(t, "contato@acme.com", *clients[0].ContactEmail)
	assert.Equal(t, "act_1", *clients[0].MetaAdAccountID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_List_EscapaCuringas(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewClientRepository(conn)

	mock.ExpectQuery(`SELECT (.+) FROM clients WHERE`).
		WithArgs(`%50\%%`, `%50\%%`, `%50\%%`, `%50\%%`).
		WillReturnRows(clientRows())

	clients, err := repo.List(context.Background(), domain.ClientFilter{Search: "50%"})

	require.NoError(t, err)
	assert.Empty(t, clients)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_GetByID_NaoEncontrado(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewClientRepository(conn)

	mock.ExpectQuery(`SELECT (.+) FROM clients WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	client, err := repo.GetByID(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Nil(t, client)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_Create(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "Cria cliente e devolve id gerado",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO clients \(name,slug,(.+)\) VALUES (.+) RETURNING id, created_at, updated_at`).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("c1", now, now))
			},
		},
		{
			name: "Slug duplicado vira ErrSlugTaken",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO clients`).
					WillReturnError(&pq.Error{Code: uniqueViolation})
			},
			wantErr: ErrSlugTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock := newMockConnection(t)
			repo := NewClientRepository(conn)
			tt.setup(mock)

			client, err := repo.Create(context.Background(), &domain.Client{Name: "Acme", Slug: "acme", IsActive: true})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, client)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "c1", client.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestClientRepository_Update_NaoEncontrado(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewClientRepository(conn)
	name := "Novo nome"

	mock.ExpectQuery(`UPDATE clients SET updated_at = NOW\(\), name = \$1 WHERE id = \$2 RETURNING`).
		WithArgs(name, "c1").
		WillReturnError(sql.ErrNoRows)

	client, err := repo.Update(context.Background(), &domain.UpdateClientRequest{ID: "c1", Name: &name})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, client)
	assert.NoError(t, mock.ExpectationsWereMet())
}

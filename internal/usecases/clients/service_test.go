package clients

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-dashboard/infrastructure/repository"
	"github.com/vfg2006/agency-dashboard/infrastructure/repository/mocks"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"go.uber.org/mock/gomock"
)

var (
	adminScope  = domain.Scope{UserID: "adm", Role: domain.RoleAdmin}
	clientScope = domain.Scope{UserID: "u1", Role: domain.RoleClient, ClientID: stringPtr("c1")}
)

func stringPtr(s string) *string {
	return &s
}

func TestService_List(t *testing.T) {
	log.SetupTestLogger()

	tests := []struct {
		name    string
		scope   domain.Scope
		setup   func(repo *mocks.MockClientRepository)
		wantErr error
		wantLen int
	}{
		{
			name:  "Admin lista todos os clientes",
			scope: adminScope,
			setup: func(repo *mocks.MockClientRepository) {
				repo.EXPECT().List(gomock.Any(), domain.ClientFilter{Search: "ac"}).
					Return([]*domain.Client{{ID: "c1"}, {ID: "c2"}}, nil)
			},
			wantLen: 2,
		},
		{
			name:  "Cliente lista apenas o próprio tenant",
			scope: clientScope,
			setup: func(repo *mocks.MockClientRepository) {
				repo.EXPECT().List(gomock.Any(), domain.ClientFilter{Search: "ac", ClientID: stringPtr("c1")}).
					Return([]*domain.Client{{ID: "c1"}}, nil)
			},
			wantLen: 1,
		},
		{
			name:    "Cliente sem tenant é proibido",
			scope:   domain.Scope{UserID: "u1", Role: domain.RoleClient},
			setup:   func(repo *mocks.MockClientRepository) {},
			wantErr: domain.ErrForbidden,
		},
		{
			name:  "Erro no banco",
			scope: adminScope,
			setup: func(repo *mocks.MockClientRepository) {
				repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
			},
			wantErr: ErrFetchClients,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockClientRepository(ctrl)
			tt.setup(repo)

			clients, err := NewService(repo).List(context.Background(), tt.scope, domain.ClientFilter{Search: "ac"})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, clients, tt.wantLen)
		})
	}
}

func TestService_Get_OutroTenant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockClientRepository(ctrl)

	_, err := NewService(repo).Get(context.Background(), clientScope, "c2")

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestService_Create(t *testing.T) {
	log.SetupTestLogger()

	tests := []struct {
		name     string
		scope    domain.Scope
		req      *domain.CreateClientRequest
		setup    func(repo *mocks.MockClientRepository)
		wantSlug string
		wantErr  error
		wantCode string
	}{
		{
			name:     "Somente admin cria clientes",
			scope:    clientScope,
			req:      &domain.CreateClientRequest{Name: "Acme"},
			setup:    func(repo *mocks.MockClientRepository) {},
			wantErr:  domain.ErrForbidden,
			wantCode: apiErrors.ErrInsufficientPrivilege,
		},
		{
			name:     "Nome obrigatório",
			scope:    adminScope,
			req:      &domain.CreateClientRequest{Name: "  "},
			setup:    func(repo *mocks.MockClientRepository) {},
			wantErr:  domain.ErrInvalidInput,
			wantCode: apiErrors.ErrInvalidRequest,
		},
		{
			name:  "Slug gerado a partir do nome",
			scope: adminScope,
			req:   &domain.CreateClientRequest{Name: " Clínica São João "},
			setup: func(repo *mocks.MockClientRepository) {
				repo.EXPECT().GetBySlug(gomock.Any(), "clinica-sao-joao").Return(nil, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, client *domain.Client) (*domain.Client, error) {
						assert.Equal(t, "Clínica São João", client.Name)
						assert.True(t, client.IsActive)
						client.ID = "c9"
						return client, nil
					})
			},
			wantSlug: "clinica-sao-joao",
		},
		{
			name:  "Colisão de slug recebe sufixo",
			scope: adminScope,
			req:   &domain.CreateClientRequest{Name: "Acme"},
			setup: func(repo *mocks.MockClientRepository) {
				gomock.InOrder(
					repo.EXPECT().GetBySlug(gomock.Any(), "acme").Return(&domain.Client{ID: "c1", Slug: "acme"}, nil),
					repo.EXPECT().GetBySlug(gomock.Any(), "acme-x1y2z3").Return(nil, nil),
				)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, client *domain.Client) (*domain.Client, error) {
						return client, nil
					})
			},
			wantSlug: "acme-x1y2z3",
		},
		{
			name:  "Slug tomado entre a verificação e o insert",
			scope: adminScope,
			req:   &domain.CreateClientRequest{Name: "Acme"},
			setup: func(repo *mocks.MockClientRepository) {
				repo.EXPECT().GetBySlug(gomock.Any(), "acme").Return(nil, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, repository.ErrSlugTaken)
			},
			wantErr:  ErrSlugTaken,
			wantCode: apiErrors.ErrResourceConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockClientRepository(ctrl)
			tt.setup(repo)

			service := NewService(repo)
			service.newSuffix = func() (string, error) { return "x1y2z3", nil }

			client, err := service.Create(context.Background(), tt.scope, tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantCode, apiErrors.CodeFor(err))
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, client.Slug)
		})
	}
}

func TestService_Update(t *testing.T) {
	log.SetupTestLogger()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockClientRepository(ctrl)
	service := NewService(repo)

	_, err := service.Update(context.Background(), clientScope, &domain.UpdateClientRequest{ID: "c1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = service.Update(context.Background(), adminScope, &domain.UpdateClientRequest{ID: "c1", Name: stringPtr(" ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil, domain.ErrNotFound)
	_, err = service.Update(context.Background(), adminScope, &domain.UpdateClientRequest{ID: "c404", Name: stringPtr("Novo")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	active := false
	repo.EXPECT().Update(gomock.Any(), &domain.UpdateClientRequest{ID: "c1", IsActive: &active}).
		Return(&domain.Client{ID: "c1", IsActive: false}, nil)
	client, err := service.Update(context.Background(), adminScope, &domain.UpdateClientRequest{ID: "c1", IsActive: &active})
	require.NoError(t, err)
	assert.False(t, client.IsActive)
}

package authenticating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-dashboard/infrastructure/integrator/supabase/authclient"
	repomocks "github.com/vfg2006/agency-dashboard/infrastructure/repository/mocks"
	"github.com/vfg2006/agency-dashboard/internal/config"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/internal/usecases/authenticating/mocks"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"go.uber.org/mock/gomock"
)

func stringPtr(s string) *string {
	return &s
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.SiteURL = "http://site"
	cfg.Session.LoginPath = "/login"
	return cfg
}

func TestService_ResolveSession(t *testing.T) {
	log.SetupTestLogger()

	clientProfile := &domain.Profile{ID: "u1", Email: "a@b.com", Role: domain.RoleClient, ClientID: stringPtr("c1"), IsActive: true}

	tests := []struct {
		name          string
		tokens        domain.SessionTokens
		setup         func(auth *mocks.MockAuthProvider, profiles *repomocks.MockProfileRepository)
		wantErr       error
		wantIdentity  *domain.Identity
		wantRefreshed bool
	}{
		{
			name:   "Sem tokens é anônimo",
			tokens: domain.SessionTokens{},
			setup:  func(auth *mocks.MockAuthProvider, profiles *repomocks.MockProfileRepository) {},
		},
		{
			name:   "Autenticação não configurada devolve erro",
			tokens: domain.SessionTokens{AccessToken: "at"},
			setup: func(auth *mocks.MockAuthProvider, profiles *repomocks.MockProfileRepository) {
				auth.EXPECT().Configured().Return(false)
			},
			wantErr: authclient.ErrNotConfigured,
		},
		{
			name:   "Token válido carrega papel e tenant do perfil",
			tokens: domain.SessionTokens{AccessToken: "at", RefreshToken: "rt"},
			setup: func(auth *mocks.MockAuthProvider, profiles *repomocks.MockProfileRepository) {
				auth.EXPECT().Configured().Return(true)
				auth.EXPECT().GetUser(gomock.Any(), "at").Return(&authclient.User{ID: "u1", Email: "a@b.com"}, nil)
				profiles.EXPECT().GetByID(gomock.Any(), "u1").Return(clientProfile, nil)
			},
			wantIdentity: &domain.Identity{UserID: "u1", Email: "a@b.com", Role: domain.RoleClient, ClientID: stringPtr("c1")},
		},
		{
			name:   "Token recusado com refresh gera novos tokens",
			tokens: domain.SessionTokens{AccessToken: "old", RefreshToken: "rt"},
			setup: func(auth *mocks.MockAuthProvider, profiles *repomocks.MockProfileRepository) {
				auth.EXPECT().Configured().Return(true)
				auth.EXPECT().GetUser(gomock.Any(), "old").Return(nil, authclient.ErrUnauthorized)
				auth.EXPECT().RefreshSession(gomock.Any(), "rt").Return(&authclient.Session{
					AccessToken:  "new",
					RefreshToken: "rt2",
					ExpiresIn:    3600,
					User:         authclient.User{ID: "u1", Email: "a@b.com"},
				}, nil)
				profiles.EXPECT().GetByID(gomock.Any(), "u1").Return(clientProfile, nil)
			},
			wantIdentity:  &domain.Identity{UserID: "u1", Email: "a@b.com", Role: domain.RoleClient, ClientID: stringPtr("c1")},
			wantRefreshed: true,
		},
		{
			name:   "Token recusado sem refresh é anônimo",
			tokens: domain.SessionTokens{AccessToken: "old"},
			setup: func(auth *mocks.MockAuthProvider, profiles *repomocks.MockProfileRepository) {
				auth.EXPECT().Configured().Return(true)
				auth.EXPECT().GetUser(gomock.Any(), "old").Return(nil, authclient.ErrUnauthorized)
			},
		},
		{
			name:   "Refresh recusado é anônimo",
			tokens: domain.SessionTokens{AccessToken: "old", RefreshToken: "rt"},
			setup: func(auth *mocks.MockAuthProvider, profiles *repomocks.MockProfileRepository) {
				auth.EXPECT().Configured().Return(true)
				auth.EXPECT().GetUser(gomock.Any(), "old").Return(nil, authclient.ErrUnauthorized)
				auth.EXPECT().RefreshSession(gomock.Any(), "rt").Return(nil, &authclient.Error{StatusCode: 400, Err: authclient.ErrUnauthorized})
			},
		},
		{
			name:   "Refresh com limite de requisições devolve erro",
			tokens: domain.SessionTokens{AccessToken: "old", RefreshToken: "rt"},
			setup: func(auth *mocks.MockAuthProvider, profiles *repomocks.MockProfileRepository) {
				auth.EXPECT().Configured().Return(true)
				auth.EXPECT().GetUser(gomock.Any(), "old").Return(nil, authclient.ErrUnauthorized)
				auth.EXPECT().RefreshSession(gomock.Any(), "rt").Return(nil, &authclient.Error{
					StatusCode: 429,
					ErrorCode:  "over_request_rate_limit",
					Err:        authclient.ErrUnavailable,
				})
			},
			wantErr: authclient.ErrUnavailable,
		},
		{
			name:   "Perfil desativado é anônimo",
			tokens: domain.SessionTokens{AccessToken: "at", RefreshToken: "rt"},
			setup: func(auth *mocks.MockAuthProvider, profiles *repomocks.MockProfileRepository) {
				auth.EXPECT().Configured().Return(true)
				auth.EXPECT().GetUser(gomock.Any(), "at").Return(&authclient.User{ID: "u1", Email: "a@b.com"}, nil)
				profiles.EXPECT().GetByID(gomock.Any(), "u1").Return(&domain.Profile{ID: "u1", Role: domain.RoleAdmin, IsActive: false}, nil)
			},
		},
		{
			name:   "Servidor indisponível devolve erro",
			tokens: domain.SessionTokens{AccessToken: "at"},
			setup: func(auth *mocks.MockAuthProvider, profiles *repomocks.MockProfileRepository) {
				auth.EXPECT().Configured().Return(true)
				auth.EXPECT().GetUser(gomock.Any(), "at").Return(nil, authclient.ErrUnavailable)
			},
			wantErr: authclient.ErrUnavailable,
		},
		{
			name:   "Falha ao buscar perfil deixa papel vazio",
			tokens: domain.SessionTokens{AccessToken: "at"},
			setup: func(auth *mocks.MockAuthProvider, profiles *repomocks.MockProfileRepository) {
				auth.EXPECT().Configured().Return(true)
				auth.EXPECT().GetUser(gomock.Any(), "at").Return(&authclient.User{ID: "u1", Email: "a@b.com"}, nil)
				profiles.EXPECT().GetByID(gomock.Any(), "u1").Return(nil, errors.New("conexão recusada"))
			},
			wantIdentity: &domain.Identity{UserID: "u1", Email: "a@b.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			auth := mocks.NewMockAuthProvider(ctrl)
			profiles := repomocks.NewMockProfileRepository(ctrl)
			tt.setup(auth, profiles)

			service := NewService(auth, nil, profiles, testConfig())

			identity, refreshed, err := service.ResolveSession(context.Background(), tt.tokens)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, identity)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantIdentity, identity)
			if tt.wantRefreshed {
				require.NotNil(t, refreshed)
				assert.Equal(t, "new", refreshed.AccessToken)
				assert.Equal(t, "rt2", refreshed.RefreshToken)
				assert.False(t, refreshed.ExpiresAt.IsZero())
			} else {
				assert.Nil(t, refreshed)
			}
		})
	}
}

func TestService_ResolveSession_VerificacaoLocal(t *testing.T) {
	log.SetupTestLogger()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	auth := mocks.NewMockAuthProvider(ctrl)
	profiles := repomocks.NewMockProfileRepository(ctrl)

	cfg := testConfig()
	cfg.Supabase.JWTSecret = "segredo"

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, authclient.Claims{
		Email: "admin@agencia.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("segredo"))
	require.NoError(t, err)

	auth.EXPECT().Configured().Return(true)
	profiles.EXPECT().GetByID(gomock.Any(), "u-admin").Return(&domain.Profile{ID: "u-admin", Role: domain.RoleAdmin, IsActive: true}, nil)

	identity, refreshed, err := NewService(auth, nil, profiles, cfg).ResolveSession(context.Background(), domain.SessionTokens{AccessToken: token})

	require.NoError(t, err)
	assert.Nil(t, refreshed)
	assert.True(t, identity.IsAdmin())
	assert.Equal(t, "admin@agencia.com", identity.Email)
}

func TestService_SignIn(t *testing.T) {
	log.SetupTestLogger()

	tests := []struct {
		name     string
		email    string
		password string
		setup    func(auth *mocks.MockAuthProvider, profiles *repomocks.MockProfileRepository)
		wantCode string
	}{
		{
			name:     "Campos vazios",
			email:    " ",
			password: "",
			setup:    func(auth *mocks.MockAuthProvider, profiles *repomocks.MockProfileRepository) {},
			wantCode: apiErrors.ErrMissingRequiredData,
		},
		{
			name:     "Credenciais recusadas",
			email:    "a@b.com",
			password: "errada",
			setup: func(auth *mocks.MockAuthProvider, profiles *repomocks.MockProfileRepository) {
				auth.EXPECT().Configured().Return(true)
				auth.EXPECT().SignInWithPassword(gomock.Any(), "a@b.com", "errada").Return(nil, authclient.ErrUnauthorized)
			},
			wantCode: apiErrors.ErrInvalidCredentials,
		},
		{
			name:     "Login com sucesso",
			email:    "a@b.com",
			password: "certa",
			setup: func(auth *mocks.MockAuthProvider, profiles *repomocks.MockProfileRepository) {
				auth.EXPECT().Configured().Return(true)
				auth.EXPECT().SignInWithPassword(gomock.Any(), "a@b.com", "certa").Return(&authclient.Session{
					AccessToken:  "at",
					RefreshToken: "rt",
					User:         authclient.User{ID: "u1", Email: "a@b.com"},
				}, nil)
				profiles.EXPECT().GetByID(gomock.Any(), "u1").Return(&domain.Profile{ID: "u1", Role: domain.RoleAdmin, IsActive: true}, nil)
			},
		},
		{
			name:     "Perfil desativado encerra a sessão criada",
			email:    "a@b.com",
			password: "certa",
			setup: func(auth *mocks.MockAuthProvider, profiles *repomocks.MockProfileRepository) {
				auth.EXPECT().Configured().Return(true).Times(2)
				auth.EXPECT().SignInWithPassword(gomock.Any(), "a@b.com", "certa").Return(&authclient.Session{
					AccessToken:  "at",
					RefreshToken: "rt",
					User:         authclient.User{ID: "u1", Email: "a@b.com"},
				}, nil)
				profiles.EXPECT().GetByID(gomock.Any(), "u1").Return(&domain.Profile{ID: "u1", Role: domain.RoleAdmin, IsActive: false}, nil)
				auth.EXPECT().SignOut(gomock.Any(), "at").Return(nil)
			},
			wantCode: apiErrors.ErrUserDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			auth := mocks.NewMockAuthProvider(ctrl)
			profiles := repomocks.NewMockProfileRepository(ctrl)
			tt.setup(auth, profiles)

			identity, tokens, err := NewService(auth, nil, profiles, testConfig()).SignIn(context.Background(), tt.email, tt.password)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, apiErrors.CodeFor(err))
				assert.Nil(t, identity)
				assert.Nil(t, tokens)
				return
			}

			require.NoError(t, err)
			assert.True(t, identity.IsAdmin())
			assert.Equal(t, "at", tokens.AccessToken)
		})
	}
}

func TestService_InviteUser(t *testing.T) {
	log.SetupTestLogger()

	admin := domain.Scope{UserID: "adm", Role: domain.RoleAdmin}

	tests := []struct {
		name        string
		scope       domain.Scope
		req         *domain.InviteUserRequest
		setup       func(adminProvider *mocks.MockAdminProvider, profiles *repomocks.MockProfileRepository)
		wantErr     error
		wantCode    string
		wantFactory int
	}{
		{
			name:    "Cliente não pode convidar",
			scope:   domain.Scope{UserID: "u1", Role: domain.RoleClient, ClientID: stringPtr("c1")},
			req:     &domain.InviteUserRequest{Email: "novo@b.com", Role: domain.RoleClient, ClientID: stringPtr("c1")},
			setup:   func(adminProvider *mocks.MockAdminProvider, profiles *repomocks.MockProfileRepository) {},
			wantErr: domain.ErrForbidden,
		},
		{
			name:     "Usuário de cliente sem cliente vinculado",
			scope:    admin,
			req:      &domain.InviteUserRequest{Email: "novo@b.com", Role: domain.RoleClient},
			setup:    func(adminProvider *mocks.MockAdminProvider, profiles *repomocks.MockProfileRepository) {},
			wantCode: apiErrors.ErrMissingRequiredData,
		},
		{
			name:  "Falha no convite não grava perfil",
			scope: admin,
			req:   &domain.InviteUserRequest{Email: "novo@b.com", Role: domain.RoleAdmin},
			setup: func(adminProvider *mocks.MockAdminProvider, profiles *repomocks.MockProfileRepository) {
				adminProvider.EXPECT().InviteUserByEmail(gomock.Any(), "novo@b.com", gomock.Any()).
					Return(nil, &authclient.Error{StatusCode: 422, Err: authclient.ErrUserExists})
			},
			wantCode:    apiErrors.ErrUserAlreadyExists,
			wantFactory: 1,
		},
		{
			name:  "Convite enviado mas perfil falha é falha parcial",
			scope: admin,
			req:   &domain.InviteUserRequest{Email: "Novo@B.com ", Role: domain.RoleClient, ClientID: stringPtr("c1")},
			setup: func(adminProvider *mocks.MockAdminProvider, profiles *repomocks.MockProfileRepository) {
				adminProvider.EXPECT().InviteUserByEmail(gomock.Any(), "novo@b.com", authclient.InviteOptions{
					RedirectTo: "http://site/login",
					Data:       map[string]any{"role": "client"},
				}).Return(&authclient.User{ID: "u9"}, nil)
				profiles.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil, errors.New("violação de chave"))
			},
			wantErr:     ErrProfileNotSaved,
			wantCode:    apiErrors.ErrPartialFailure,
			wantFactory: 1,
		},
		{
			name:  "Convite e perfil gravados",
			scope: admin,
			req:   &domain.InviteUserRequest{Email: "novo@b.com", FullName: stringPtr("Novo"), Role: domain.RoleAdmin, ClientID: stringPtr("c1")},
			setup: func(adminProvider *mocks.MockAdminProvider, profiles *repomocks.MockProfileRepository) {
				adminProvider.EXPECT().InviteUserByEmail(gomock.Any(), "novo@b.com", gomock.Any()).Return(&authclient.User{ID: "u9"}, nil)
				profiles.EXPECT().Upsert(gomock.Any(), &domain.Profile{
					ID:       "u9",
					Email:    "novo@b.com",
					FullName: stringPtr("Novo"),
					Role:     domain.RoleAdmin,
					IsActive: true,
				}).Return(&domain.Profile{ID: "u9", Role: domain.RoleAdmin}, nil)
			},
			wantFactory: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			adminProvider := mocks.NewMockAdminProvider(ctrl)
			profiles := repomocks.NewMockProfileRepository(ctrl)
			tt.setup(adminProvider, profiles)

			factoryCalls := 0
			factory := func() AdminProvider {
				factoryCalls++
				return adminProvider
			}

			profile, err := NewService(nil, factory, profiles, testConfig()).InviteUser(context.Background(), tt.scope, tt.req)

			assert.Equal(t, tt.wantFactory, factoryCalls)
			if tt.wantErr != nil || tt.wantCode != "" {
				assert.Error(t, err)
				assert.Nil(t, profile)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				if tt.wantCode != "" {
					assert.Equal(t, tt.wantCode, apiErrors.CodeFor(err))
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "u9", profile.ID)
		})
	}
}

func TestService_GetProfile_Escopo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	profiles := repomocks.NewMockProfileRepository(ctrl)
	service := NewService(nil, nil, profiles, testConfig())
	client := domain.Scope{UserID: "u1", Role: domain.RoleClient, ClientID: stringPtr("c1")}

	_, err := service.GetProfile(context.Background(), client, "u2")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	profiles.EXPECT().GetByID(gomock.Any(), "u1").Return(&domain.Profile{ID: "u1"}, nil)
	profile, err := service.GetProfile(context.Background(), client, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.ID)
}

func TestService_UpdateProfile_ClienteExigeTenant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	profiles := repomocks.NewMockProfileRepository(ctrl)
	service := NewService(nil, nil, profiles, testConfig())
	admin := domain.Scope{UserID: "adm", Role: domain.RoleAdmin}
	role := domain.RoleClient

	profiles.EXPECT().GetByID(gomock.Any(), "u1").Return(&domain.Profile{ID: "u1", Role: domain.RoleAdmin}, nil)

	_, err := service.UpdateProfile(context.Background(), admin, &domain.UpdateProfileRequest{ID: "u1", Role: &role})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestService_UpdateProfile_Desativacao(t *testing.T) {
	admin := domain.Scope{UserID: "adm", Role: domain.RoleAdmin}
	inactive := false

	t.Run("admin desativa outro usuário", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		profiles := repomocks.NewMockProfileRepository(ctrl)
		service := NewService(nil, nil, profiles, testConfig())
		req := &domain.UpdateProfileRequest{ID: "u1", IsActive: &inactive}

		profiles.EXPECT().GetByID(gomock.Any(), "u1").
			Return(&domain.Profile{ID: "u1", Role: domain.RoleClient, ClientID: stringPtr("c1"), IsActive: true}, nil)
		profiles.EXPECT().Update(gomock.Any(), req).
			Return(&domain.Profile{ID: "u1", Role: domain.RoleClient, ClientID: stringPtr("c1"), IsActive: false}, nil)

		profile, err := service.UpdateProfile(context.Background(), admin, req)

		require.NoError(t, err)
		assert.False(t, profile.IsActive)
	})

	t.Run("admin não desativa a si mesmo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewService(nil, nil, repomocks.NewMockProfileRepository(ctrl), testConfig())

		_, err := service.UpdateProfile(context.Background(), admin, &domain.UpdateProfileRequest{ID: "adm", IsActive: &inactive})

		assert.Equal(t, apiErrors.ErrInvalidRequest, apiErrors.CodeFor(err))
	})

	t.Run("admin não rebaixa a si mesmo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewService(nil, nil, repomocks.NewMockProfileRepository(ctrl), testConfig())
		role := domain.RoleClient

		_, err := service.UpdateProfile(context.Background(), admin, &domain.UpdateProfileRequest{ID: "adm", Role: &role, ClientID: stringPtr("c1")})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("perfil inexistente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		profiles := repomocks.NewMockProfileRepository(ctrl)
		service := NewService(nil, nil, profiles, testConfig())
		profiles.EXPECT().GetByID(gomock.Any(), "u9").Return(nil, nil)

		_, err := service.UpdateProfile(context.Background(), admin, &domain.UpdateProfileRequest{ID: "u9", IsActive: &inactive})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

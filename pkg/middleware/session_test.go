package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-dashboard/infrastructure/integrator/supabase/authclient"
	repomocks "github.com/vfg2006/agency-dashboard/infrastructure/repository/mocks"
	"github.com/vfg2006/agency-dashboard/internal/config"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/internal/usecases/authenticating"
	"github.com/vfg2006/agency-dashboard/internal/usecases/authenticating/mocks"
	"github.com/vfg2006/agency-dashboard/internal/usecases/guarding"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"go.uber.org/mock/gomock"
)

var testCookies = NewSessionCookies(config.Session{CookieName: "sb", MaxAge: time.Hour})

func newRequest(path string, tokens domain.SessionTokens) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if tokens.AccessToken != "" {
		req.AddCookie(&http.Cookie{Name: testCookies.AccessName, Value: tokens.AccessToken})
	}
	if tokens.RefreshToken != "" {
		req.AddCookie(&http.Cookie{Name: testCookies.RefreshName, Value: tokens.RefreshToken})
	}
	return req
}

func responseCookies(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	cookies := make(map[string]*http.Cookie)
	for _, cookie := range rec.Result().Cookies() {
		cookies[cookie.Name] = cookie
	}
	return cookies
}

func TestSessionMiddleware_Redirecionamentos(t *testing.T) {
	log.SetupTestLogger()

	tokens := domain.SessionTokens{AccessToken: "at", RefreshToken: "rt"}
	client := &domain.Identity{UserID: "u1", Role: domain.RoleClient, ClientID: stringPtr("c1")}
	admin := &domain.Identity{UserID: "adm", Role: domain.RoleAdmin}

	tests := []struct {
		name         string
		path         string
		tokens       domain.SessionTokens
		identity     *domain.Identity
		wantStatus   int
		wantLocation string
	}{
		{"Anônimo em /admin/x", "/admin/x", domain.SessionTokens{}, nil, http.StatusTemporaryRedirect, "/login"},
		{"Não admin em /admin/x", "/admin/x", tokens, client, http.StatusTemporaryRedirect, "/dashboard"},
		{"Autenticado em /login", "/login", tokens, client, http.StatusTemporaryRedirect, "/dashboard"},
		{"Admin em /admin/x", "/admin/x", tokens, admin, http.StatusOK, ""},
		{"Cliente no dashboard", "/dashboard", tokens, client, http.StatusOK, ""},
		{"Anônimo em rota pública", "/api/guide", domain.SessionTokens{}, nil, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			resolver := mocks.NewMockSessionResolver(ctrl)
			resolver.EXPECT().ResolveSession(gomock.Any(), tt.tokens).Return(tt.identity, nil, nil)

			var seen *domain.Identity
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = IdentityFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			SessionMiddleware(resolver, guarding.NewGuard(config.Session{}), testCookies)(next).
				ServeHTTP(rec, newRequest(tt.path, tt.tokens))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.identity, seen)
			}
		})
	}
}

func TestSessionMiddleware_FalhaAbre(t *testing.T) {
	log.SetupTestLogger()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	resolver := mocks.NewMockSessionResolver(ctrl)
	resolver.EXPECT().ResolveSession(gomock.Any(), gomock.Any()).Return(nil, nil, authclient.ErrUnavailable)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, IdentityFromContext(r.Context()))
	})

	rec := httptest.NewRecorder()
	SessionMiddleware(resolver, guarding.NewGuard(config.Session{}), testCookies)(next).
		ServeHTTP(rec, newRequest("/admin/x", domain.SessionTokens{AccessToken: "at"}))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSessionMiddleware_LimiteDeRequisicoesMantemCookies(t *testing.T) {
	log.SetupTestLogger()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/user":
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":401,"error_code":"bad_jwt","msg":"token is expired"}`))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"code":429,"error_code":"over_request_rate_limit","msg":"Request rate limit reached"}`))
		}
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.Supabase.URL = server.URL + "/"
	cfg.Supabase.AnonKey = "anon-key"
	service := authenticating.NewService(authclient.NewClient(cfg.Supabase), nil, nil, cfg)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	SessionMiddleware(service, guarding.NewGuard(config.Session{}), testCookies)(next).
		ServeHTTP(rec, newRequest("/dashboard", domain.SessionTokens{AccessToken: "at", RefreshToken: "rt"}))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSessionMiddleware_PerfilDesativadoVaiParaLogin(t *testing.T) {
	log.SetupTestLogger()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"u1","email":"a@b.com"}`))
	}))
	defer server.Close()

	profiles := repomocks.NewMockProfileRepository(ctrl)
	profiles.EXPECT().GetByID(gomock.Any(), "u1").
		Return(&domain.Profile{ID: "u1", Role: domain.RoleAdmin, IsActive: false}, nil)

	cfg := &config.Config{}
	cfg.Supabase.URL = server.URL + "/"
	cfg.Supabase.AnonKey = "anon-key"
	service := authenticating.NewService(authclient.NewClient(cfg.Supabase), nil, profiles, cfg)

	rec := httptest.NewRecorder()
	SessionMiddleware(service, guarding.NewGuard(config.Session{}), testCookies)(http.NotFoundHandler()).
		ServeHTTP(rec, newRequest("/admin/users", domain.SessionTokens{AccessToken: "at", RefreshToken: "rt"}))

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	cookies := responseCookies(rec)
	require.Contains(t, cookies, testCookies.AccessName)
	assert.Equal(t, -1, cookies[testCookies.AccessName].MaxAge)
}

func TestSessionMiddleware_TokensNoContexto(t *testing.T) {
	log.SetupTestLogger()

	client := &domain.Identity{UserID: "u1", Role: domain.RoleClient, ClientID: stringPtr("c1")}

	t.Run("Tokens renovados substituem os do cookie", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		resolver := mocks.NewMockSessionResolver(ctrl)
		resolver.EXPECT().ResolveSession(gomock.Any(), gomock.Any()).
			Return(client, &domain.SessionTokens{AccessToken: "novo", RefreshToken: "rt2"}, nil)

		var seen domain.SessionTokens
		var found bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, found = SessionTokensFromContext(r.Context())
		})

		SessionMiddleware(resolver, guarding.NewGuard(config.Session{}), testCookies)(next).
			ServeHTTP(httptest.NewRecorder(), newRequest("/dashboard", domain.SessionTokens{AccessToken: "velho", RefreshToken: "rt"}))

		require.True(t, found)
		assert.Equal(t, "novo", seen.AccessToken)
		assert.Equal(t, "rt2", seen.RefreshToken)
	})

	t.Run("Sessão válida mantém os tokens do cookie", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		resolver := mocks.NewMockSessionResolver(ctrl)
		resolver.EXPECT().ResolveSession(gomock.Any(), gomock.Any()).Return(client, nil, nil)

		var seen domain.SessionTokens
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = SessionTokensFromContext(r.Context())
		})

		SessionMiddleware(resolver, guarding.NewGuard(config.Session{}), testCookies)(next).
			ServeHTTP(httptest.NewRecorder(), newRequest("/dashboard", domain.SessionTokens{AccessToken: "at", RefreshToken: "rt"}))

		assert.Equal(t, "at", seen.AccessToken)
	})

	t.Run("Anônimo não tem tokens no contexto", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		resolver := mocks.NewMockSessionResolver(ctrl)
		resolver.EXPECT().ResolveSession(gomock.Any(), gomock.Any()).Return(nil, nil, nil)

		found := true
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, found = SessionTokensFromContext(r.Context())
		})

		SessionMiddleware(resolver, guarding.NewGuard(config.Session{}), testCookies)(next).
			ServeHTTP(httptest.NewRecorder(), newRequest("/api/guide", domain.SessionTokens{}))

		assert.False(t, found)
	})
}

func TestSessionMiddleware_Cookies(t *testing.T) {
	log.SetupTestLogger()

	client := &domain.Identity{UserID: "u1", Role: domain.RoleClient, ClientID: stringPtr("c1")}

	t.Run("Tokens renovados regravam os cookies", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		resolver := mocks.NewMockSessionResolver(ctrl)
		resolver.EXPECT().ResolveSession(gomock.Any(), gomock.Any()).
			Return(client, &domain.SessionTokens{AccessToken: "novo", RefreshToken: "rt2"}, nil)

		rec := httptest.NewRecorder()
		SessionMiddleware(resolver, guarding.NewGuard(config.Session{}), testCookies)(http.NotFoundHandler()).
			ServeHTTP(rec, newRequest("/dashboard", domain.SessionTokens{AccessToken: "velho", RefreshToken: "rt"}))

		cookies := responseCookies(rec)
		require.Contains(t, cookies, testCookies.AccessName)
		assert.Equal(t, "novo", cookies[testCookies.AccessName].Value)
		assert.Equal(t, "rt2", cookies[testCookies.RefreshName].Value)
		assert.True(t, cookies[testCookies.AccessName].HttpOnly)
	})

	t.Run("Sessão válida regrava os mesmos tokens", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		resolver := mocks.NewMockSessionResolver(ctrl)
		resolver.EXPECT().ResolveSession(gomock.Any(), gomock.Any()).Return(client, nil, nil)

		rec := httptest.NewRecorder()
		SessionMiddleware(resolver, guarding.NewGuard(config.Session{}), testCookies)(http.NotFoundHandler()).
			ServeHTTP(rec, newRequest("/dashboard", domain.SessionTokens{AccessToken: "at", RefreshToken: "rt"}))

		cookies := responseCookies(rec)
		assert.Equal(t, "at", cookies[testCookies.AccessName].Value)
		assert.Equal(t, 3600, cookies[testCookies.AccessName].MaxAge)
	})

	t.Run("Tokens recusados limpam os cookies", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		resolver := mocks.NewMockSessionResolver(ctrl)
		resolver.EXPECT().ResolveSession(gomock.Any(), gomock.Any()).Return(nil, nil, nil)

		rec := httptest.NewRecorder()
		SessionMiddleware(resolver, guarding.NewGuard(config.Session{}), testCookies)(http.NotFoundHandler()).
			ServeHTTP(rec, newRequest("/login", domain.SessionTokens{AccessToken: "expirado"}))

		cookies := responseCookies(rec)
		require.Contains(t, cookies, testCookies.AccessName)
		assert.Equal(t, "", cookies[testCookies.AccessName].Value)
		assert.Equal(t, -1, cookies[testCookies.AccessName].MaxAge)
	})
}

func TestSessionMiddleware_ErroNaoBloqueiaRotaPublica(t *testing.T) {
	log.SetupTestLogger()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	resolver := mocks.NewMockSessionResolver(ctrl)
	resolver.EXPECT().ResolveSession(gomock.Any(), gomock.Any()).Return(nil, nil, errors.New("dns"))

	rec := httptest.NewRecorder()
	SessionMiddleware(resolver, guarding.NewGuard(config.Session{}), testCookies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})).ServeHTTP(rec, newRequest("/api/guide", domain.SessionTokens{}))

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func stringPtr(s string) *string {
	return &s
}

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/vfg2006/agency-dashboard/internal/config"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/internal/usecases/authenticating"
	"github.com/vfg2006/agency-dashboard/internal/usecases/guarding"
	"github.com/vfg2006/agency-dashboard/pkg/log"
)

type contextKey string

const (
	ContextKeyUser   contextKey = "user"
	ContextKeyTokens contextKey = "session_tokens"
)

// RouteGuard decide o redirecionamento de navegação para o caminho
type RouteGuard interface {
	Decide(path string, identity *domain.Identity) guarding.Decision
}

// SessionCookies lê e escreve os tokens de sessão em dois cookies HttpOnly
type SessionCookies struct {
	AccessName  string
	RefreshName string
	Secure      bool
	MaxAge      time.Duration
}

func NewSessionCookies(cfg config.Session) SessionCookies {
	name := cfg.CookieName
	if name == "" {
		name = "sb-session"
	}

	return SessionCookies{
		AccessName:  name + "-access-token",
		RefreshName: name + "-refresh-token",
		Secure:      cfg.Secure,
		MaxAge:      cfg.MaxAge,
	}
}

func (c SessionCookies) Read(r *http.Request) domain.SessionTokens {
	var tokens domain.SessionTokens

	if cookie, err := r.Cookie(c.AccessName); err == nil {
		tokens.AccessToken = cookie.Value
	}
	if cookie, err := r.Cookie(c.RefreshName); err == nil {
		tokens.RefreshToken = cookie.Value
	}

	return tokens
}

func (c SessionCookies) Write(w http.ResponseWriter, tokens domain.SessionTokens) {
	http.SetCookie(w, c.cookie(c.AccessName, tokens.AccessToken, int(c.MaxAge.Seconds())))
	if tokens.RefreshToken != "" {
		http.SetCookie(w, c.cookie(c.RefreshName, tokens.RefreshToken, int(c.MaxAge.Seconds())))
	}
}

func (c SessionCookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(c.AccessName, "", -1))
	http.SetCookie(w, c.cookie(c.RefreshName, "", -1))
}

func (c SessionCookies) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SessionMiddleware resolve a sessão dos cookies, regrava os cookies a cada requisição autenticada
// e aplica o guard de rotas. Se o servidor de autenticação falhar, a requisição segue sem alteração.
func SessionMiddleware(resolver authenticating.SessionResolver, guard RouteGuard, cookies SessionCookies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			tokens := cookies.Read(r)

			identity, refreshed, err := resolver.ResolveSession(ctx, tokens)
			if err != nil {
				log.ForContext(ctx).WithFields(log.Fields{
					"path":  r.URL.Path,
					"error": err.Error(),
				}).Warn("Falha ao resolver sessão, requisição segue sem verificação")
				next.ServeHTTP(w, r)
				return
			}

			switch {
			case identity != nil && refreshed != nil:
				tokens = *refreshed
				cookies.Write(w, tokens)
			case identity != nil:
				cookies.Write(w, tokens)
			case !tokens.Empty():
				cookies.Clear(w)
			}

			decision := guard.Decide(r.URL.Path, identity)
			if decision.Redirects() {
				http.Redirect(w, r, decision.Target, http.StatusTemporaryRedirect)
				return
			}

			if identity != nil {
				ctx = WithIdentity(ctx, identity)
				r = r.WithContext(WithSessionTokens(ctx, tokens))
			}

			next.ServeHTTP(w, r)
		})
	}
}

func WithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyUser, identity)
}

// IdentityFromContext devolve nil para requisições anônimas
func IdentityFromContext(ctx context.Context) *domain.Identity {
	identity, _ := ctx.Value(ContextKeyUser).(*domain.Identity)
	return identity
}

func WithSessionTokens(ctx context.Context, tokens domain.SessionTokens) context.Context {
	return context.WithValue(ctx, ContextKeyTokens, tokens)
}

// SessionTokensFromContext devolve os tokens em vigor na requisição, já renovados pelo SessionMiddleware
func SessionTokensFromContext(ctx context.Context) (domain.SessionTokens, bool) {
	tokens, ok := ctx.Value(ContextKeyTokens).(domain.SessionTokens)
	return tokens, ok
}

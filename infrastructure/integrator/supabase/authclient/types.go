package authclient

import (
	"time"

	"github.com/vfg2006/agency-dashboard/internal/domain"
)

type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	InvitedAt    *time.Time     `json:"invited_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Session é a resposta do endpoint /token do servidor de autenticação
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         User   `json:"user"`
}

// Tokens converte a sessão no par de tokens guardado no cookie
func (s *Session) Tokens() domain.SessionTokens {
	tokens := domain.SessionTokens{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}

	switch {
	case s.ExpiresAt > 0:
		tokens.ExpiresAt = time.Unix(s.ExpiresAt, 0)
	case s.ExpiresIn > 0:
		tokens.ExpiresAt = time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	}

	return tokens
}

type InviteOptions struct {
	RedirectTo string
	Data       map[string]any
}

type errorBody struct {
	Code             int    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (b errorBody) text() string {
	for _, s := range []string{b.Msg, b.Message, b.ErrorDescription, b.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

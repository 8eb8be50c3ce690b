package authclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/agency-dashboard/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultTimeout = 10 * time.Second

type httpClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func newHTTPClient(baseURL, apiKey string, timeout time.Duration) httpClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c httpClient) configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// do executa a requisição sem retentativas; bearer vazio usa a própria chave da API
func (c httpClient) do(ctx context.Context, method, path string, query url.Values, bearer string, body, out any) error {
	if !c.configured() {
		return ErrNotConfigured
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("erro ao serializar requisição: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("erro ao criar a requisição: %w", err)
	}

	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: erro ao ler resposta: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return classify(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("erro ao decodificar a resposta: %w", err)
	}

	return nil
}

func classify(status int, data []byte) error {
	var body errorBody
	_ = json.Unmarshal(data, &body)

	authErr := &Error{
		StatusCode: status,
		ErrorCode:  body.ErrorCode,
		Message:    body.text(),
	}

	// Só 400, 401 e 403 recusam o token; os demais status são falhas transitórias
	switch {
	case body.ErrorCode == "email_exists" || body.ErrorCode == "user_already_exists" ||
		strings.Contains(strings.ToLower(authErr.Message), "already been registered"):
		authErr.Err = ErrUserExists
	case status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusForbidden:
		authErr.Err = ErrUnauthorized
	default:
		authErr.Err = ErrUnavailable
	}

	return authErr
}

// Client executa os fluxos do usuário com a chave anônima
type Client struct {
	http httpClient
}

func NewClient(cfg config.Supabase) *Client {
	return &Client{
		http: newHTTPClient(cfg.URL, cfg.AnonKey, cfg.Timeout),
	}
}

func (c *Client) Configured() bool {
	return c.http.configured()
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	body := map[string]string{"email": email, "password": password}

	if err := c.http.do(ctx, http.MethodPost, "/auth/v1/token", url.Values{"grant_type": {"password"}}, "", body, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	var session Session
	body := map[string]string{"refresh_token": refreshToken}

	if err := c.http.do(ctx, http.MethodPost, "/auth/v1/token", url.Values{"grant_type": {"refresh_token"}}, "", body, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	if accessToken == "" {
		return nil, ErrUnauthorized
	}

	var user User
	if err := c.http.do(ctx, http.MethodGet, "/auth/v1/user", nil, accessToken, nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return c.http.do(ctx, http.MethodPost, "/auth/v1/logout", nil, accessToken, nil, nil)
}

// AdminClient executa operações administrativas com a service role key
type AdminClient struct {
	http httpClient
}

// NewAdminClient cria uma instância nova e independente a cada chamada
func NewAdminClient(cfg config.Supabase) *AdminClient {
	return &AdminClient{
		http: newHTTPClient(cfg.URL, cfg.ServiceRoleKey, cfg.Timeout),
	}
}

func (c *AdminClient) InviteUserByEmail(ctx context.Context, email string, opts InviteOptions) (*User, error) {
	query := url.Values{}
	if opts.RedirectTo != "" {
		query.Set("redirect_to", opts.RedirectTo)
	}

	body := map[string]any{"email": email}
	if len(opts.Data) > 0 {
		body["data"] = opts.Data
	}

	var user User
	if err := c.http.do(ctx, http.MethodPost, "/auth/v1/invite", query, "", body, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

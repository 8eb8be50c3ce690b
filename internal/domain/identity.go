package domain

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

// SessionTokens são os tokens emitidos pelo servidor de autenticação e guardados no cookie de sessão
type SessionTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (t SessionTokens) Empty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// Identity é o usuário autenticado da requisição, já com o papel buscado no perfil
type Identity struct {
	UserID   string
	Email    string
	Role     Role
	ClientID *string
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// Scope devolve o escopo de autorização usado pelas actions
func (i *Identity) Scope() Scope {
	if i == nil {
		return Scope{}
	}
	return Scope{UserID: i.UserID, Role: i.Role, ClientID: i.ClientID}
}

// Scope substitui as políticas de row-level security: toda action recebe o escopo do chamador
type Scope struct {
	UserID   string
	Role     Role
	ClientID *string
}

func (s Scope) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// TenantFilter retorna o client_id obrigatório para o escopo.
// Admin não tem filtro (nil). Cliente sem client_id não enxerga nada.
func (s Scope) TenantFilter() (*string, error) {
	switch s.Role {
	case RoleAdmin:
		return nil, nil
	case RoleClient:
		if s.ClientID == nil || *s.ClientID == "" {
			return nil, ErrForbidden
		}
		return s.ClientID, nil
	default:
		return nil, ErrForbidden
	}
}

// CanAccessTenant verifica se o escopo pode ler/escrever linhas do tenant informado
func (s Scope) CanAccessTenant(clientID *string) bool {
	if s.IsAdmin() {
		return true
	}
	tenant, err := s.TenantFilter()
	if err != nil || clientID == nil {
		return false
	}
	return *tenant == *clientID
}

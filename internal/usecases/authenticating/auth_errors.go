package authenticating

import (
	"errors"

	"github.com/vfg2006/agency-dashboard/infrastructure/integrator/supabase/authclient"
)

// Tipos de erros de autenticação personalizados
var (
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	ErrUserAlreadyExists  = errors.New("usuário já existe")
	ErrAuthUnavailable    = errors.New("servidor de autenticação indisponível")
	ErrInvalidRequest     = errors.New("requisição inválida")
	ErrProfileNotSaved    = errors.New("usuário convidado, mas o perfil não foi gravado")
	ErrUserInactive       = errors.New("usuário desativado")
)

// IsUnavailable indica que o servidor de autenticação não pôde ser consultado
func IsUnavailable(err error) bool {
	return errors.Is(err, authclient.ErrUnavailable) ||
		errors.Is(err, authclient.ErrNotConfigured) ||
		errors.Is(err, ErrAuthUnavailable)
}

// IsRejected indica que o token ou a credencial foi recusado pelo servidor
func IsRejected(err error) bool {
	return errors.Is(err, authclient.ErrUnauthorized)
}

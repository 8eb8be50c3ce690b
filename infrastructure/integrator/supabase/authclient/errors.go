package authclient

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured = errors.New("auth: servidor de autenticação não configurado")
	ErrUnauthorized  = errors.New("auth: credenciais ou token rejeitados")
	ErrUnavailable   = errors.New("auth: servidor de autenticação indisponível")
	ErrUserExists    = errors.New("auth: usuário já cadastrado")
)

// Error carrega o status e a mensagem devolvidos pelo servidor de autenticação
type Error struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Err.Error(), e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s (status %d)", e.Err.Error(), e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}

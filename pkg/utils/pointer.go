package utils

import "strings"

func StringPtr(s string) *string {
	return &s
}

// NonEmpty devolve nil para strings vazias (após trim), útil em campos opcionais de formulário
func NonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NonEmptyPtr aplica NonEmpty em um campo opcional
func NonEmptyPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return NonEmpty(*s)
}

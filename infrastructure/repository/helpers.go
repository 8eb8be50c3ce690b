package repository

import (
	"strings"
)

func likeTerm(search string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.TrimSpace(search)) + "%"
}

// nullable grava NULL quando o formulário envia o campo vazio
func nullable(value *string) any {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return strings.TrimSpace(*value)
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

package leads

import "github.com/vfg2006/agency-dashboard/internal/domain"

var columnTitles = map[domain.LeadStatus]string{
	domain.LeadStatusNew:       "Novo",
	domain.LeadStatusContacted: "Contatado",
	domain.LeadStatusQualified: "Qualificado",
	domain.LeadStatusConverted: "Convertido",
	domain.LeadStatusLost:      "Perdido",
}

type Column struct {
	Status domain.LeadStatus `json:"status"`
	Title  string            `json:"title"`
	Leads  []*domain.Lead    `json:"leads"`
}

// Board é o kanban de leads: cinco colunas fixas na ordem de domain.LeadStatuses
type Board struct {
	Columns []Column `json:"columns"`
}

func BuildBoard(leads []*domain.Lead) *Board {
	board := &Board{Columns: make([]Column, 0, len(domain.LeadStatuses))}
	index := make(map[domain.LeadStatus]int, len(domain.LeadStatuses))

	for i, status := range domain.LeadStatuses {
		index[status] = i
		board.Columns = append(board.Columns, Column{
			Status: status,
			Title:  columnTitles[status],
			Leads:  []*domain.Lead{},
		})
	}

	for _, lead := range leads {
		if lead == nil {
			continue
		}
		i, ok := index[lead.Status]
		if !ok {
			continue
		}
		board.Columns[i].Leads = append(board.Columns[i].Leads, lead)
	}

	return board
}

// Move devolve um novo board com o lead na coluna de destino (estado otimista da UI).
// Lead desconhecido ou status inválido devolvem o board sem alteração.
func (b *Board) Move(leadID string, status domain.LeadStatus) *Board {
	if !status.Valid() {
		return b
	}

	var moved *domain.Lead
	for _, column := range b.Columns {
		for _, lead := range column.Leads {
			if lead.ID == leadID {
				moved = lead
			}
		}
	}
	if moved == nil {
		return b
	}

	updated := *moved
	updated.Status = status

	leads := make([]*domain.Lead, 0, b.Count())
	for _, column := range b.Columns {
		for _, lead := range column.Leads {
			if lead.ID == leadID {
				continue
			}
			leads = append(leads, lead)
		}
	}
	leads = append(leads, &updated)

	return BuildBoard(leads)
}

func (b *Board) Count() int {
	total := 0
	for _, column := range b.Columns {
		total += len(column.Leads)
	}
	return total
}

// Column devolve a coluna do status; o segundo retorno é falso para status fora do kanban
func (b *Board) Column(status domain.LeadStatus) (Column, bool) {
	for _, column := range b.Columns {
		if column.Status == status {
			return column, true
		}
	}
	return Column{}, false
}

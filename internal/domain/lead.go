package domain

import "time"

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

// LeadStatuses segue a ordem das colunas do kanban
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusConverted,
	LeadStatusLost,
}

func (s LeadStatus) Valid() bool {
	for _, status := range LeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Lead struct {
	ID        string     `json:"id"`
	ClientID  *string    `json:"client_id"`
	Name      string     `json:"name"`
	Email     *string    `json:"email"`
	Phone     *string    `json:"phone"`
	Status    LeadStatus `json:"status"`
	Source    *string    `json:"source"`
	Notes     *string    `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type LeadFilter struct {
	ClientID *string
	Status   *LeadStatus
	Search   string
}

type CreateLeadRequest struct {
	ClientID *string    `json:"client_id"`
	Name     string     `json:"name" validate:"required,max=200"`
	Email    *string    `json:"email" validate:"omitempty,email"`
	Phone    *string    `json:"phone"`
	Status   LeadStatus `json:"status"`
	Source   *string    `json:"source"`
	Notes    *string    `json:"notes"`
}

type UpdateLeadRequest struct {
	ID     string      `json:"id"`
	Name   *string     `json:"name" validate:"omitempty,max=200"`
	Email  *string     `json:"email" validate:"omitempty,email"`
	Phone  *string     `json:"phone"`
	Status *LeadStatus `json:"status"`
	Source *string     `json:"source"`
	Notes  *string     `json:"notes"`
}

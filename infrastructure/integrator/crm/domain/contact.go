package crmdomain

// Contact é o corpo enviado para a criação de contato no CRM de marketing
type Contact struct {
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	CompanyName string   `json:"companyName,omitempty"`
	LocationID  string   `json:"locationId,omitempty"`
	Source      string   `json:"source,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type ContactResponse struct {
	Contact struct {
		ID string `json:"id"`
	} `json:"contact"`
}

type ErrorResponse struct {
	Message    any `json:"message"`
	StatusCode int `json:"statusCode"`
}

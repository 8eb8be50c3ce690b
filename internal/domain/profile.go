package domain

import "time"

type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	Role      Role      `json:"role"`
	ClientID  *string   `json:"client_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate garante que perfis de cliente sempre tenham client_id
func (p *Profile) Validate() error {
	if !p.Role.Valid() {
		return ErrInvalidInput
	}
	if p.Role == RoleClient && (p.ClientID == nil || *p.ClientID == "") {
		return ErrInvalidInput
	}
	return nil
}

type ProfileFilter struct {
	Role     *Role
	ClientID *string
	Search   string
}

type InviteUserRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	FullName *string `json:"full_name"`
	Role     Role    `json:"role" validate:"required,oneof=admin client"`
	ClientID *string `json:"client_id"`
}

type UpdateProfileRequest struct {
	ID       string  `json:"id"`
	FullName *string `json:"full_name"`
	Role     *Role   `json:"role" validate:"omitempty,oneof=admin client"`
	ClientID *string `json:"client_id"`
	IsActive *bool   `json:"is_active"`
}

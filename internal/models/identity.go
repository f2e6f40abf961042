package models

// Identity is the resolved subject of a verified bearer token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the identity carries the elevated role claim.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

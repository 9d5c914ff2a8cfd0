package model

// Roles resolved server-side for an authenticated user.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// User is the identity provider's view of the signed-in user.
type User struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Role     string         `json:"role"`
}

// IsAdmin reports whether the server-resolved role grants admin access.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

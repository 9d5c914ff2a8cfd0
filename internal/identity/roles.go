package identity

import (
	"fmt"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// RoleResolver assigns roles from the admin allow-list. The provider's
// metadata role is user-writable and never grants anything.
type RoleResolver struct {
	admins EmailSet
	logger zerolog.Logger
}

// NewRoleResolver creates a resolver backed by admins.
func NewRoleResolver(admins EmailSet, logger zerolog.Logger) *RoleResolver {
	if admins == nil {
		admins = NewEmailSet()
	}
	return &RoleResolver{
		admins: admins,
		logger: logger.With().Str("component", "role-resolver").Logger(),
	}
}

// Resolve sets user.Role.
func (r *RoleResolver) Resolve(user *model.User) {
	role := model.RoleClient
	if user.Email != "" && r.admins.Contains(user.Email) {
		role = model.RoleAdmin
	}

	if claimed, ok := user.Metadata["role"]; ok {
		if s := fmt.Sprint(claimed); s != role {
			r.logger.Warn().
				Str("user_id", user.ID).
				Str("claimed_role", s).
				Str("resolved_role", role).
				Msg("provider metadata role ignored")
		}
	}

	user.Role = role
}

package service

import (
	"context"

	"storefront/internal/identity"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// identityService implements IdentityService.
type identityService struct {
	gateway  identity.Gateway
	resolver *identity.RoleResolver
	logger   zerolog.Logger
}

// NewIdentityService creates a new identity service. A nil gateway rejects
// every token.
func NewIdentityService(gateway identity.Gateway, resolver *identity.RoleResolver, logger zerolog.Logger) IdentityService {
	return &identityService{
		gateway:  gateway,
		resolver: resolver,
		logger:   logger.With().Str("service", "identity").Logger(),
	}
}

func (s *identityService) Authenticate(ctx context.Context, bearerToken string) (*model.User, error) {
	if s.gateway == nil || bearerToken == "" {
		return nil, model.ErrUnauthenticated
	}

	user, err := s.gateway.CurrentUser(ctx, bearerToken)
	if err != nil {
		return nil, err
	}

	s.resolver.Resolve(user)

	s.logger.Debug().
		Str("user_id", user.ID).
		Str("role", user.Role).
		Msg("user authenticated")

	return user, nil
}

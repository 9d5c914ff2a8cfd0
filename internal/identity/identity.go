// Package identity resolves the signed-in user and their server-side role.
package identity

import (
	"context"

	"storefront/internal/model"
)

// ErrUnauthenticated is returned when the provider rejects the token.
var ErrUnauthenticated = model.ErrUnauthenticated

// Gateway fetches the current user from the identity provider.
type Gateway interface {
	// CurrentUser returns the user owning bearerToken. Role is left empty;
	// use a RoleResolver to assign it.
	CurrentUser(ctx context.Context, bearerToken string) (*model.User, error)
}

// EmailSet is a case-insensitive set of email addresses.
type EmailSet interface {
	// Contains reports whether email is in the set.
	Contains(email string) bool

	// Size returns the number of emails in the set.
	Size() int
}

// Loader reads an allow-list of emails, one per line, optionally gzipped.
type Loader interface {
	Load(ctx context.Context, location string) (EmailSet, error)
}

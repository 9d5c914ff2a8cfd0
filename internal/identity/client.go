package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// HTTPGateway calls the identity provider's /me endpoint.
type HTTPGateway struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewHTTPGateway creates a gateway for the provider at baseURL.
func NewHTTPGateway(baseURL string, timeout time.Duration, logger zerolog.Logger) *HTTPGateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "identity-gateway").Logger(),
	}
}

// CurrentUser implements Gateway.
func (g *HTTPGateway) CurrentUser(ctx context.Context, bearerToken string) (*model.User, error) {
	if bearerToken == "" {
		return nil, ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/me", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		g.logger.Error().Err(err).Msg("identity provider unreachable")
		return nil, fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		g.logger.Debug().
			Str("token_prefix", tokenPrefix(bearerToken)).
			Int("status", resp.StatusCode).
			Msg("identity provider rejected token")
		return nil, ErrUnauthenticated
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var user model.User
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}
	if user.ID == "" {
		return nil, ErrUnauthenticated
	}
	user.Role = ""

	return &user, nil
}

func tokenPrefix(token string) string {
	if len(token) > 8 {
		return token[:8] + "..."
	}
	return token
}

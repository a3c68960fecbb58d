package session

import (
	"context"
	"errors"

	"github.com/msoohome/storefront/internal/credentials"
	"github.com/msoohome/storefront/internal/domain"
)

// Identity is the resolved view of one request's session. A token that
// resolves to no user record means logged out, not an error.
type Identity struct {
	Token string
	User  *domain.User
}

// Authenticated reports whether the session belongs to a signed-in user.
func (i Identity) Authenticated() bool {
	return i.User != nil
}

// Admin reports whether the session belongs to an administrator.
func (i Identity) Admin() bool {
	return i.User != nil && i.User.Role == domain.RoleAdmin
}

// Gate resolves session tokens into identities.
type Gate struct {
	creds *credentials.Service
}

func NewGate(creds *credentials.Service) *Gate {
	return &Gate{creds: creds}
}

// Identify resolves a token. Missing or stale sessions yield an anonymous
// identity; only infrastructure failures surface as errors.
func (g *Gate) Identify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, nil
	}

	user, err := g.creds.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, credentials.ErrSessionNotFound) || errors.Is(err, domain.ErrUserNotFound) {
			return Identity{Token: token}, nil
		}
		return Identity{}, err
	}
	return Identity{Token: token, User: &user}, nil
}

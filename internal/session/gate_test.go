package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/msoohome/storefront/internal/credentials"
	"github.com/msoohome/storefront/internal/session"
	"github.com/msoohome/storefront/internal/storage/memory"
)

func TestGate_Identify(t *testing.T) {
	ctx := context.Background()
	creds := credentials.NewService(memory.NewUserRepository(), credentials.Config{
		AdminEmails:      []string{"admin@msoohome.com"},
		AdminSetupSecret: "Acces465#",
	}, nil)
	gate := session.NewGate(creds)

	// No token means anonymous.
	identity, err := gate.Identify(ctx, "")
	require.NoError(t, err)
	require.False(t, identity.Authenticated())
	require.False(t, identity.Admin())

	// A stale token is logged out, not an error.
	identity, err = gate.Identify(ctx, "stale-token")
	require.NoError(t, err)
	require.False(t, identity.Authenticated())

	// A customer session authenticates without admin rights.
	_, custSession, err := creds.SignUp(ctx, "Jane", "jane@example.com", "", "secret1", "")
	require.NoError(t, err)
	identity, err = gate.Identify(ctx, custSession.Token)
	require.NoError(t, err)
	require.True(t, identity.Authenticated())
	require.False(t, identity.Admin())
	require.Equal(t, "jane@example.com", identity.User.Email)

	// An admin session carries the role through.
	_, adminSession, err := creds.SignUp(ctx, "Store Admin", "admin@msoohome.com", "", "secret1", "Acces465#")
	require.NoError(t, err)
	identity, err = gate.Identify(ctx, adminSession.Token)
	require.NoError(t, err)
	require.True(t, identity.Admin())

	// Sign-out invalidates the token.
	creds.SignOut(ctx, custSession.Token)
	identity, err = gate.Identify(ctx, custSession.Token)
	require.NoError(t, err)
	require.False(t, identity.Authenticated())
}

package auth

import (
	"context"
	"errors"

	"github.com/sgiordano45/KidsWallet/src/models"
)

// ErrRedirectPending is returned by SignIn when the interactive flow was
// blocked and the provider fell back to a redirect; the resolved user
// arrives through CompleteSignIn on the next startup.
var ErrRedirectPending = errors.New("auth: redirect sign-in pending")

// Provider is the identity collaborator: a stable UID per user, an optional
// display name, an interactive sign-in with a redirect fallback, and a
// one-time startup check for a completed redirect flow.
type Provider interface {
	SignIn(ctx context.Context) (*models.User, error)
	// CompleteSignIn reports a user whose redirect sign-in finished since
	// the last session, or (nil, nil) when there is none.
	CompleteSignIn(ctx context.Context) (*models.User, error)
	SignOut(ctx context.Context) error
}

// StaticProvider resolves a fixed user, for single-user deployments and
// tests.
type StaticProvider struct {
	User models.User
}

func (p *StaticProvider) SignIn(ctx context.Context) (*models.User, error) {
	u := p.User
	return &u, nil
}

func (p *StaticProvider) CompleteSignIn(ctx context.Context) (*models.User, error) {
	return nil, nil
}

func (p *StaticProvider) SignOut(ctx context.Context) error {
	return nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/sgiordano45/KidsWallet/src/migrate"
	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/sgiordano45/KidsWallet/src/store"
	"github.com/sgiordano45/KidsWallet/src/store/local"
	"github.com/sgiordano45/KidsWallet/src/syncer"
)

// Resolver tracks the signed-in user and derives the active family scope
// from their UID. Every failure path here is logged and swallowed: the
// session always lands in one of three states (authenticated with remote,
// authenticated local-only, unauthenticated) and never blocks the caller.
type Resolver struct {
	provider Provider     // may be nil when identities arrive pre-verified
	remote   store.Remote // nil forces local-only operation
	local    *local.Store
	n        notifier

	mu      sync.Mutex
	current *models.User
	client  *syncer.Client
}

func NewResolver(provider Provider, remote store.Remote, localStore *local.Store) *Resolver {
	r := &Resolver{provider: provider, remote: remote, local: localStore}
	r.client = syncer.NewClient(remote, localStore, nil)
	if remote == nil {
		// No remote store means no authentication requirement; the app
		// degrades to local-only instead of blocking on sign-in.
		r.n.markKnown()
	}
	return r
}

// Start runs the one-time redirect-completion check. Call once at startup.
func (r *Resolver) Start(ctx context.Context) {
	if r.provider == nil {
		return
	}
	u, err := r.provider.CompleteSignIn(ctx)
	if err != nil {
		log.Printf("ERROR: redirect sign-in check: %v", err)
		return
	}
	if u != nil {
		log.Printf("INFO: redirect sign-in completed for %s", u.UID)
		r.SignInUser(ctx, u)
	}
}

// SignIn runs the provider's interactive flow. A redirect fallback is not an
// error: the user arrives via Start on the next launch. All other failures
// are logged; the resolver stays in its previous state.
func (r *Resolver) SignIn(ctx context.Context) *models.User {
	if r.provider == nil {
		return nil
	}
	u, err := r.provider.SignIn(ctx)
	if errors.Is(err, ErrRedirectPending) {
		log.Println("INFO: sign-in continuing via redirect")
		return nil
	}
	if err != nil {
		log.Printf("ERROR: sign-in: %v", err)
		return nil
	}
	r.SignInUser(ctx, u)
	return u
}

// SignInUser installs an already-verified identity: scope switches to the
// user's family, the family root and default wallet are ensured, and the
// legacy migrator runs once.
func (r *Resolver) SignInUser(ctx context.Context, u *models.User) {
	r.mu.Lock()
	r.current = u
	r.client = syncer.NewClient(r.remote, r.local, store.NewScope(u.UID))
	r.mu.Unlock()

	r.EnsureSession(ctx, u)
	log.Printf("INFO: signed in %s", u.UID)
	r.n.publish(u)
}

// EnsureSession runs the sign-in side effects for a verified identity
// without touching the resolver's own user state: the family root and
// default wallet are ensured and the legacy migrator runs once. The HTTP
// layer calls this per session, where identities arrive per request.
func (r *Resolver) EnsureSession(ctx context.Context, u *models.User) {
	if r.remote == nil {
		return
	}
	r.ensureFamily(ctx, u)
	if err := migrate.Run(ctx, r.remote, u.UID); err != nil {
		log.Printf("ERROR: legacy migration for %s: %v", u.UID, err)
	}
}

func (r *Resolver) SignOut(ctx context.Context) {
	if r.provider != nil {
		if err := r.provider.SignOut(ctx); err != nil {
			log.Printf("ERROR: sign-out: %v", err)
		}
	}
	r.mu.Lock()
	r.current = nil
	r.client = syncer.NewClient(r.remote, r.local, nil)
	r.mu.Unlock()

	log.Println("INFO: signed out")
	r.n.publish(nil)
}

// OnChange registers cb for auth-state changes. If the state is already
// known, cb fires immediately with it.
func (r *Resolver) OnChange(cb func(*models.User)) store.Cancel {
	return r.n.subscribe(cb)
}

// CurrentUser returns the signed-in user, or nil.
func (r *Resolver) CurrentUser() *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Client returns the repository client for the current scope.
func (r *Resolver) Client() *syncer.Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.client
}

// ensureFamily creates the family root and default wallet records if they
// are missing. Existing records are never overwritten; failures are logged
// and swallowed.
func (r *Resolver) ensureFamily(ctx context.Context, u *models.User) {
	_, err := r.remote.GetFamily(ctx, u.UID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("ERROR: family lookup for %s: %v", u.UID, err)
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		owner := u.DisplayName
		if owner == "" {
			owner = "Parent"
		}
		name := "My"
		if u.DisplayName != "" {
			name = u.DisplayName
		}
		fam := &models.Family{
			ID:        u.UID,
			OwnerUID:  u.UID,
			OwnerName: owner,
			Name:      fmt.Sprintf("%s's Family", name),
		}
		if err := r.remote.SetFamily(ctx, fam); err != nil {
			log.Printf("ERROR: create family %s: %v", u.UID, err)
			return
		}
		log.Printf("INFO: created family %s", u.UID)
	}

	_, err = r.remote.GetWallet(ctx, u.UID, models.DefaultWalletID)
	if err == nil {
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Printf("ERROR: wallet lookup for %s: %v", u.UID, err)
		return
	}
	w := models.DefaultWallet()
	if err := r.remote.SetWallet(ctx, u.UID, models.DefaultWalletID, &w); err != nil {
		log.Printf("ERROR: create default wallet for %s: %v", u.UID, err)
		return
	}
	log.Printf("INFO: created default wallet for family %s", u.UID)
}

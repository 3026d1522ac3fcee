package syncer

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sgiordano45/KidsWallet/src/store"
	"github.com/sgiordano45/KidsWallet/src/store/local"
)

// Local shadow-copy keys, one per entity kind.
const (
	keyWallet       = "wallet"
	keyTransactions = "transactions"
	keyGoals        = "goals"
)

// placeholderPrefix marks identifiers handed out before the remote store
// confirmed an add. Placeholder-keyed updates and deletes never go remote.
const placeholderPrefix = "local_"

func placeholderID(now time.Time) string {
	return fmt.Sprintf("%s%d", placeholderPrefix, now.UnixNano())
}

// IsPlaceholderID reports whether id was generated locally and has no
// remote counterpart yet.
func IsPlaceholderID(id string) bool {
	return strings.HasPrefix(id, placeholderPrefix)
}

// Client is the synchronized entity repository for one session scope.
// Reads prefer remote and always mirror to local; writes go local-first and
// then best-effort remote; no operation ever fails from the caller's point
// of view. Last write wins between devices: concurrent writers overwrite
// each other's remote state, and no conflict resolution is attempted.
type Client struct {
	remote store.Remote // nil when running local-only
	local  *local.Store
	scope  *store.Scope // nil when no family is signed in
	now    func() time.Time
}

func NewClient(remote store.Remote, localStore *local.Store, scope *store.Scope) *Client {
	return &Client{remote: remote, local: localStore, scope: scope, now: time.Now}
}

// remoteActive is the single decision point for the dual-backend policy.
func (c *Client) remoteActive() bool {
	return c.remote != nil && c.scope != nil
}

// familyID namespaces the local shadow copies; empty while signed out.
func (c *Client) familyID() string {
	if c.scope == nil {
		return ""
	}
	return c.scope.FamilyID
}

var noCancel store.Cancel = func() {}

// onceCancel makes any cancellation handle safe to call repeatedly.
func onceCancel(cancel store.Cancel) store.Cancel {
	var once sync.Once
	return func() {
		once.Do(cancel)
	}
}

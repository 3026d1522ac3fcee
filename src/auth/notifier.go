package auth

import (
	"sync"

	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/sgiordano45/KidsWallet/src/store"
)

// notifier is the auth-state observable. Once a state is known, new
// subscribers are called immediately with it (nil meaning signed out), so a
// late subscriber never waits for the next change.
type notifier struct {
	mu     sync.Mutex
	nextID int
	cbs    map[int]func(*models.User)
	last   *models.User
	known  bool
}

func (n *notifier) subscribe(cb func(*models.User)) store.Cancel {
	n.mu.Lock()
	if n.cbs == nil {
		n.cbs = make(map[int]func(*models.User))
	}
	n.nextID++
	id := n.nextID
	n.cbs[id] = cb
	replay := n.known
	last := n.last
	n.mu.Unlock()

	if replay {
		cb(last)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.cbs, id)
			n.mu.Unlock()
		})
	}
}

func (n *notifier) publish(u *models.User) {
	n.mu.Lock()
	n.last = u
	n.known = true
	cbs := make([]func(*models.User), 0, len(n.cbs))
	for _, cb := range n.cbs {
		cbs = append(cbs, cb)
	}
	n.mu.Unlock()

	for _, cb := range cbs {
		cb(u)
	}
}

// markKnown records the signed-out state as known without notifying,
// used when no identity provider is configured at all.
func (n *notifier) markKnown() {
	n.mu.Lock()
	n.known = true
	n.mu.Unlock()
}

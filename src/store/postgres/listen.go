package postgres

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/sgiordano45/KidsWallet/src/store"
)

const (
	kindWallet       = "wallet"
	kindTransactions = "transactions"
	kindGoals        = "goals"

	listenChannel    = "kidswallet_changes"
	listenRetryDelay = 5 * time.Second
)

// subscription is one live registration. notify has capacity 1 so bursts of
// changes coalesce into a single requery.
type subscription struct {
	kind   string
	family string
	wallet string
	notify chan struct{}
}

// runListener holds one pooled connection on LISTEN and fans notifications
// out to matching subscriptions, reconnecting on failure.
func (s *Store) runListener(ctx context.Context) {
	for {
		err := s.listenOnce(ctx)
		if ctx.Err() != nil {
			return
		}
		log.Printf("ERROR: change listener: %v, retrying in %s", err, listenRetryDelay)
		select {
		case <-time.After(listenRetryDelay):
		case <-ctx.Done():
			return
		}
	}
}

func (s *Store) listenOnce(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+listenChannel); err != nil {
		return err
	}
	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		var ev struct {
			Kind   string `json:"kind"`
			Family string `json:"family"`
			Wallet string `json:"wallet"`
		}
		if err := json.Unmarshal([]byte(n.Payload), &ev); err != nil {
			log.Printf("ERROR: bad change notification payload %q: %v", n.Payload, err)
			continue
		}
		s.mu.Lock()
		for _, sub := range s.subs {
			if sub.kind == ev.Kind && sub.family == ev.Family && sub.wallet == ev.Wallet {
				select {
				case sub.notify <- struct{}{}:
				default:
				}
			}
		}
		s.mu.Unlock()
	}
}

// subscribe delivers the current snapshot once via deliver, then again on
// every matching change notification. A deliver failure after registration
// surfaces through onError exactly once and ends the subscription.
func (s *Store) subscribe(ctx context.Context, kind, familyID, walletID string, deliver func(context.Context) error, onError func(error)) (store.Cancel, error) {
	sub := &subscription{kind: kind, family: familyID, wallet: walletID, notify: make(chan struct{}, 1)}
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = sub
	s.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(done)
		})
	}

	if err := deliver(ctx); err != nil {
		cancel()
		return nil, err
	}

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				cancel()
				return
			case <-sub.notify:
				if err := deliver(ctx); err != nil {
					cancel()
					onError(err)
					return
				}
			}
		}
	}()
	return cancel, nil
}

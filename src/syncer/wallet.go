package syncer

import (
	"context"
	"errors"
	"log"

	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/sgiordano45/KidsWallet/src/store"
)

// FetchWallet reads remote-first, mirrors any remote value to the local
// shadow copy, and falls back to the shadow copy (or the default wallet) on
// any remote failure or absent scope. It never fails.
func (c *Client) FetchWallet(ctx context.Context) *models.Wallet {
	if c.remoteActive() {
		w, err := c.remote.GetWallet(ctx, c.scope.FamilyID, c.scope.WalletID)
		if err == nil {
			c.local.Set(c.familyID(), keyWallet, w)
			return w
		}
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("INFO: remote wallet read failed, using local: %v", err)
		}
	}
	w := models.DefaultWallet()
	c.local.Get(c.familyID(), keyWallet, &w)
	return &w
}

// MutateWallet applies patch to the current wallet, writes the result to the
// local shadow copy with a client-side timestamp, then best-effort to the
// remote store with a server-side timestamp. A remote failure is logged and
// does not roll anything back; the local copy is the record of intent until
// the next successful sync.
func (c *Client) MutateWallet(ctx context.Context, patch models.WalletPatch) *models.Wallet {
	w := c.FetchWallet(ctx)
	patch.Apply(w)
	now := c.now()
	w.UpdatedAt = &now
	c.local.Set(c.familyID(), keyWallet, w)

	if c.remoteActive() {
		if err := c.remote.SetWallet(ctx, c.scope.FamilyID, c.scope.WalletID, w); err != nil {
			log.Printf("INFO: remote wallet write failed, local copy kept: %v", err)
		}
	}
	return w
}

// SubscribeWallet delivers the wallet on every remote change, mirroring each
// delivery to the local shadow copy. Without remote or scope it delivers the
// shadow copy exactly once. The returned handle is always non-nil and safe
// to call more than once.
func (c *Client) SubscribeWallet(ctx context.Context, cb func(*models.Wallet)) store.Cancel {
	deliverLocal := func() {
		w := models.DefaultWallet()
		c.local.Get(c.familyID(), keyWallet, &w)
		cb(&w)
	}
	if !c.remoteActive() {
		deliverLocal()
		return noCancel
	}
	cancel, err := c.remote.SubscribeWallet(ctx, c.scope.FamilyID, c.scope.WalletID,
		func(w *models.Wallet) {
			c.local.Set(c.familyID(), keyWallet, w)
			cb(w)
		},
		func(err error) {
			log.Printf("INFO: wallet subscription lost, delivering local copy: %v", err)
			deliverLocal()
		})
	if err != nil {
		log.Printf("INFO: wallet subscription failed, delivering local copy: %v", err)
		deliverLocal()
		return noCancel
	}
	return onceCancel(cancel)
}

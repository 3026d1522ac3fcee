package syncer

import (
	"context"
	"log"

	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/sgiordano45/KidsWallet/src/store"
)

// FetchTransactions reads remote-first and mirrors to local, falling back to
// the local shadow copy (possibly empty) on failure. Results are ordered by
// occurrence date, newest first.
func (c *Client) FetchTransactions(ctx context.Context) []models.Transaction {
	if c.remoteActive() {
		list, err := c.remote.ListTransactions(ctx, c.scope.FamilyID, c.scope.WalletID)
		if err == nil {
			if list == nil {
				list = []models.Transaction{}
			}
			c.local.Set(c.familyID(), keyTransactions, list)
			return list
		}
		log.Printf("INFO: remote transactions read failed, using local: %v", err)
	}
	return c.localTransactions()
}

func (c *Client) localTransactions() []models.Transaction {
	list := []models.Transaction{}
	c.local.Get(c.familyID(), keyTransactions, &list)
	models.SortTransactions(list)
	return list
}

// AddTransaction writes tx to the local shadow copy under a placeholder id,
// then tries the remote add. On remote success the placeholder entry is
// renumbered in place and the remote id returned; otherwise the placeholder
// id is returned and remains usable.
func (c *Client) AddTransaction(ctx context.Context, tx models.Transaction) string {
	now := c.now()
	if tx.Date.IsZero() {
		tx.Date = now
	}
	tx.CreatedAt = now
	tx.ID = placeholderID(now)

	list := append([]models.Transaction{tx}, c.localTransactions()...)
	models.SortTransactions(list)
	c.local.Set(c.familyID(), keyTransactions, list)

	if c.remoteActive() {
		remoteTx := tx
		id, err := c.remote.AddTransaction(ctx, c.scope.FamilyID, c.scope.WalletID, &remoteTx)
		if err == nil {
			for i := range list {
				if list[i].ID == tx.ID {
					list[i].ID = id
					list[i].CreatedAt = remoteTx.CreatedAt
					break
				}
			}
			c.local.Set(c.familyID(), keyTransactions, list)
			return id
		}
		log.Printf("INFO: remote transaction add failed, keeping %s: %v", tx.ID, err)
	}
	return tx.ID
}

// UpdateTransaction patches the local entry, then the remote one unless id
// is a placeholder (nothing exists remotely to target).
func (c *Client) UpdateTransaction(ctx context.Context, id string, patch models.TransactionPatch) {
	list := c.localTransactions()
	for i := range list {
		if list[i].ID == id {
			patch.Apply(&list[i])
			now := c.now()
			list[i].UpdatedAt = &now
			break
		}
	}
	models.SortTransactions(list)
	c.local.Set(c.familyID(), keyTransactions, list)

	if c.remoteActive() && !IsPlaceholderID(id) {
		if err := c.remote.UpdateTransaction(ctx, c.scope.FamilyID, c.scope.WalletID, id, patch); err != nil {
			log.Printf("INFO: remote transaction update failed for %s: %v", id, err)
		}
	}
}

// DeleteTransaction removes the local entry, then the remote one unless id
// is a placeholder.
func (c *Client) DeleteTransaction(ctx context.Context, id string) {
	list := c.localTransactions()
	filtered := list[:0]
	for _, tx := range list {
		if tx.ID != id {
			filtered = append(filtered, tx)
		}
	}
	c.local.Set(c.familyID(), keyTransactions, filtered)

	if c.remoteActive() && !IsPlaceholderID(id) {
		if err := c.remote.DeleteTransaction(ctx, c.scope.FamilyID, c.scope.WalletID, id); err != nil {
			log.Printf("INFO: remote transaction delete failed for %s: %v", id, err)
		}
	}
}

// SubscribeTransactions delivers the full ordered list on every remote
// change, mirroring each delivery to local; without remote or scope it
// delivers the local list exactly once.
func (c *Client) SubscribeTransactions(ctx context.Context, cb func([]models.Transaction)) store.Cancel {
	deliverLocal := func() {
		cb(c.localTransactions())
	}
	if !c.remoteActive() {
		deliverLocal()
		return noCancel
	}
	cancel, err := c.remote.SubscribeTransactions(ctx, c.scope.FamilyID, c.scope.WalletID,
		func(list []models.Transaction) {
			if list == nil {
				list = []models.Transaction{}
			}
			c.local.Set(c.familyID(), keyTransactions, list)
			cb(list)
		},
		func(err error) {
			log.Printf("INFO: transactions subscription lost, delivering local copy: %v", err)
			deliverLocal()
		})
	if err != nil {
		log.Printf("INFO: transactions subscription failed, delivering local copy: %v", err)
		deliverLocal()
		return noCancel
	}
	return onceCancel(cancel)
}

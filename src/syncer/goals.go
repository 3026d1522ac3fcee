package syncer

import (
	"context"
	"log"

	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/sgiordano45/KidsWallet/src/store"
)

// FetchGoals mirrors FetchTransactions for goals, ordered by creation time,
// newest first.
func (c *Client) FetchGoals(ctx context.Context) []models.Goal {
	if c.remoteActive() {
		list, err := c.remote.ListGoals(ctx, c.scope.FamilyID, c.scope.WalletID)
		if err == nil {
			if list == nil {
				list = []models.Goal{}
			}
			c.local.Set(c.familyID(), keyGoals, list)
			return list
		}
		log.Printf("INFO: remote goals read failed, using local: %v", err)
	}
	return c.localGoals()
}

func (c *Client) localGoals() []models.Goal {
	list := []models.Goal{}
	c.local.Get(c.familyID(), keyGoals, &list)
	models.SortGoals(list)
	return list
}

// AddGoal follows the same placeholder lifecycle as AddTransaction. New
// goals always start incomplete.
func (c *Client) AddGoal(ctx context.Context, g models.Goal) string {
	now := c.now()
	g.CreatedAt = now
	g.Completed = false
	g.ID = placeholderID(now)

	list := append([]models.Goal{g}, c.localGoals()...)
	models.SortGoals(list)
	c.local.Set(c.familyID(), keyGoals, list)

	if c.remoteActive() {
		remoteGoal := g
		id, err := c.remote.AddGoal(ctx, c.scope.FamilyID, c.scope.WalletID, &remoteGoal)
		if err == nil {
			for i := range list {
				if list[i].ID == g.ID {
					list[i].ID = id
					list[i].CreatedAt = remoteGoal.CreatedAt
					break
				}
			}
			c.local.Set(c.familyID(), keyGoals, list)
			return id
		}
		log.Printf("INFO: remote goal add failed, keeping %s: %v", g.ID, err)
	}
	return g.ID
}

func (c *Client) UpdateGoal(ctx context.Context, id string, patch models.GoalPatch) {
	list := c.localGoals()
	for i := range list {
		if list[i].ID == id {
			patch.Apply(&list[i])
			now := c.now()
			list[i].UpdatedAt = &now
			break
		}
	}
	models.SortGoals(list)
	c.local.Set(c.familyID(), keyGoals, list)

	if c.remoteActive() && !IsPlaceholderID(id) {
		if err := c.remote.UpdateGoal(ctx, c.scope.FamilyID, c.scope.WalletID, id, patch); err != nil {
			log.Printf("INFO: remote goal update failed for %s: %v", id, err)
		}
	}
}

func (c *Client) DeleteGoal(ctx context.Context, id string) {
	list := c.localGoals()
	filtered := list[:0]
	for _, g := range list {
		if g.ID != id {
			filtered = append(filtered, g)
		}
	}
	c.local.Set(c.familyID(), keyGoals, filtered)

	if c.remoteActive() && !IsPlaceholderID(id) {
		if err := c.remote.DeleteGoal(ctx, c.scope.FamilyID, c.scope.WalletID, id); err != nil {
			log.Printf("INFO: remote goal delete failed for %s: %v", id, err)
		}
	}
}

func (c *Client) SubscribeGoals(ctx context.Context, cb func([]models.Goal)) store.Cancel {
	deliverLocal := func() {
		cb(c.localGoals())
	}
	if !c.remoteActive() {
		deliverLocal()
		return noCancel
	}
	cancel, err := c.remote.SubscribeGoals(ctx, c.scope.FamilyID, c.scope.WalletID,
		func(list []models.Goal) {
			if list == nil {
				list = []models.Goal{}
			}
			c.local.Set(c.familyID(), keyGoals, list)
			cb(list)
		},
		func(err error) {
			log.Printf("INFO: goals subscription lost, delivering local copy: %v", err)
			deliverLocal()
		})
	if err != nil {
		log.Printf("INFO: goals subscription failed, delivering local copy: %v", err)
		deliverLocal()
		return noCancel
	}
	return onceCancel(cancel)
}

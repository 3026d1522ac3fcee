package handlers

import (
	"net/http"

	"github.com/sgiordano45/KidsWallet/src/store"
	"github.com/sgiordano45/KidsWallet/src/store/local"
	"github.com/sgiordano45/KidsWallet/src/syncer"
)

// clientFor builds the sync client for the request's family scope. The auth
// middleware guarantees a uid is present.
func clientFor(r *http.Request, remote store.Remote, localStore *local.Store) *syncer.Client {
	uid, _ := r.Context().Value("uid").(string)
	return syncer.NewClient(remote, localStore, store.NewScope(uid))
}

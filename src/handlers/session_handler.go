package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sgiordano45/KidsWallet/src/auth"
	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/sgiordano45/KidsWallet/src/store"
)

// CreateSession runs the first-sign-in side effects for the verified
// identity on the request: family root and default wallet are ensured and
// legacy data is migrated. Idempotent; the app calls it once after sign-in.
func CreateSession(resolver *auth.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := r.Context().Value("uid").(string)
		name, _ := r.Context().Value("display_name").(string)
		email, _ := r.Context().Value("email").(string)

		user := &models.User{UID: uid, DisplayName: name, Email: email}
		resolver.EnsureSession(r.Context(), user)

		scope := store.NewScope(uid)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"family_id": scope.FamilyID,
			"wallet_id": scope.WalletID,
		})
	}
}

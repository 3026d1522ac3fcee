package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/sgiordano45/KidsWallet/src/store"
	"github.com/sgiordano45/KidsWallet/src/store/local"
	"github.com/sgiordano45/KidsWallet/src/util"
)

func GetWallet(remote store.Remote, localStore *local.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet := clientFor(r, remote, localStore).FetchWallet(r.Context())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(wallet)
	}
}

func UpdateWallet(remote store.Remote, localStore *local.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := r.Context().Value("uid").(string)
		var patch models.WalletPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			log.Printf("ERROR: Failed to decode wallet patch for family %s: %v", uid, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		// PINs only change through /wallet/pin, where they get hashed.
		if patch.Settings != nil {
			patch.Settings.ParentPIN = nil
			patch.Settings.KidPIN = nil
		}
		updated := clientFor(r, remote, localStore).MutateWallet(r.Context(), patch)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func StreamWallet(remote store.Remote, localStore *local.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := clientFor(r, remote, localStore)
		streamEvents(w, r, func(send func(v any)) store.Cancel {
			return client.SubscribeWallet(r.Context(), func(wallet *models.Wallet) {
				send(wallet)
			})
		})
	}
}

type pinRequest struct {
	Role string `json:"role"` // "parent" or "kid"
	PIN  string `json:"pin"`
}

func SetPIN(remote store.Remote, localStore *local.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := r.Context().Value("uid").(string)
		var req pinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if !util.ValidatePIN(req.PIN) {
			http.Error(w, "pin must be 4-8 digits", http.StatusBadRequest)
			return
		}
		hash, err := util.HashPIN(req.PIN)
		if err != nil {
			log.Printf("ERROR: Failed to hash pin for family %s: %v", uid, err)
			http.Error(w, "failed to set pin", http.StatusInternalServerError)
			return
		}
		patch := models.WalletPatch{Settings: &models.SettingsPatch{}}
		switch req.Role {
		case "parent":
			patch.Settings.ParentPIN = &hash
		case "kid":
			patch.Settings.KidPIN = &hash
		default:
			http.Error(w, "invalid role", http.StatusBadRequest)
			return
		}
		clientFor(r, remote, localStore).MutateWallet(r.Context(), patch)
		w.WriteHeader(http.StatusNoContent)
	}
}

func VerifyPIN(remote store.Remote, localStore *local.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		wallet := clientFor(r, remote, localStore).FetchWallet(r.Context())
		var hash *string
		switch req.Role {
		case "parent":
			hash = wallet.Settings.ParentPIN
		case "kid":
			hash = wallet.Settings.KidPIN
		default:
			http.Error(w, "invalid role", http.StatusBadRequest)
			return
		}
		if hash == nil {
			http.Error(w, "pin not set", http.StatusNotFound)
			return
		}
		if !util.CheckPIN(*hash, req.PIN) {
			http.Error(w, "wrong pin", http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

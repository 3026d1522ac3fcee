package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/sgiordano45/KidsWallet/src/store"
)

func GetFamily(remote store.Remote) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := r.Context().Value("uid").(string)
		if remote == nil {
			http.Error(w, "family info unavailable in local-only mode", http.StatusNotFound)
			return
		}
		family, err := remote.GetFamily(r.Context(), uid)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "family not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to get family %s: %v", uid, err)
			http.Error(w, "failed to get family", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(family)
	}
}

func UpdateFamily(remote store.Remote) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := r.Context().Value("uid").(string)
		if remote == nil {
			http.Error(w, "family info unavailable in local-only mode", http.StatusNotFound)
			return
		}
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := remote.UpdateFamily(r.Context(), uid, req.Name); err != nil {
			log.Printf("ERROR: Failed to update family %s: %v", uid, err)
			http.Error(w, "failed to update family", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

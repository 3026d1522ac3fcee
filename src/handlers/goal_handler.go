package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/sgiordano45/KidsWallet/src/store"
	"github.com/sgiordano45/KidsWallet/src/store/local"
)

func GetGoals(remote store.Remote, localStore *local.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := clientFor(r, remote, localStore).FetchGoals(r.Context())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(list)
	}
}

func CreateGoal(remote store.Remote, localStore *local.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := r.Context().Value("uid").(string)
		var g models.Goal
		if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
			log.Printf("ERROR: Failed to decode goal for family %s: %v", uid, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		id := clientFor(r, remote, localStore).AddGoal(r.Context(), g)
		log.Printf("INFO: Added goal %s for family %s", id, uid)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": id})
	}
}

func UpdateGoal(remote store.Remote, localStore *local.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "goal_id")
		var patch models.GoalPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		clientFor(r, remote, localStore).UpdateGoal(r.Context(), id, patch)
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteGoal(remote store.Remote, localStore *local.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "goal_id")
		clientFor(r, remote, localStore).DeleteGoal(r.Context(), id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func StreamGoals(remote store.Remote, localStore *local.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := clientFor(r, remote, localStore)
		streamEvents(w, r, func(send func(v any)) store.Cancel {
			return client.SubscribeGoals(r.Context(), func(list []models.Goal) {
				send(list)
			})
		})
	}
}

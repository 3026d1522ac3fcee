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

func GetTransactions(remote store.Remote, localStore *local.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := clientFor(r, remote, localStore).FetchTransactions(r.Context())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(list)
	}
}

func CreateTransaction(remote store.Remote, localStore *local.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := r.Context().Value("uid").(string)
		var tx models.Transaction
		if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
			log.Printf("ERROR: Failed to decode transaction for family %s: %v", uid, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		id := clientFor(r, remote, localStore).AddTransaction(r.Context(), tx)
		log.Printf("INFO: Added transaction %s for family %s", id, uid)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": id})
	}
}

func UpdateTransaction(remote store.Remote, localStore *local.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "transaction_id")
		var patch models.TransactionPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		clientFor(r, remote, localStore).UpdateTransaction(r.Context(), id, patch)
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteTransaction(remote store.Remote, localStore *local.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "transaction_id")
		clientFor(r, remote, localStore).DeleteTransaction(r.Context(), id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func StreamTransactions(remote store.Remote, localStore *local.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := clientFor(r, remote, localStore)
		streamEvents(w, r, func(send func(v any)) store.Cancel {
			return client.SubscribeTransactions(r.Context(), func(list []models.Transaction) {
				send(list)
			})
		})
	}
}

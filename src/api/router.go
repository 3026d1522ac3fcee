package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sgiordano45/KidsWallet/src/auth"
	"github.com/sgiordano45/KidsWallet/src/handlers"
	"github.com/sgiordano45/KidsWallet/src/middleware"
	"github.com/sgiordano45/KidsWallet/src/store"
	"github.com/sgiordano45/KidsWallet/src/store/local"
)

func NewRouter(resolver *auth.Resolver, remote store.Remote, localStore *local.Store, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(allowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.JWTAuthMiddleware).Group(func(r chi.Router) {
			// Session
			r.Post("/session", handlers.CreateSession(resolver))

			// Family
			r.Get("/family", handlers.GetFamily(remote))
			r.Put("/family", handlers.UpdateFamily(remote))

			// Wallet
			r.Get("/wallet", handlers.GetWallet(remote, localStore))
			r.Patch("/wallet", handlers.UpdateWallet(remote, localStore))
			r.Get("/wallet/stream", handlers.StreamWallet(remote, localStore))
			r.Post("/wallet/pin", handlers.SetPIN(remote, localStore))
			r.Post("/wallet/pin/verify", handlers.VerifyPIN(remote, localStore))

			// Transactions
			r.Get("/transactions", handlers.GetTransactions(remote, localStore))
			r.Post("/transactions", handlers.CreateTransaction(remote, localStore))
			r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(remote, localStore))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(remote, localStore))
			r.Get("/transactions/stream", handlers.StreamTransactions(remote, localStore))

			// Goals
			r.Get("/goals", handlers.GetGoals(remote, localStore))
			r.Post("/goals", handlers.CreateGoal(remote, localStore))
			r.Put("/goals/{goal_id}", handlers.UpdateGoal(remote, localStore))
			r.Delete("/goals/{goal_id}", handlers.DeleteGoal(remote, localStore))
			r.Get("/goals/stream", handlers.StreamGoals(remote, localStore))
		})
	})

	return r
}

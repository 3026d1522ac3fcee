package main

import (
	"context"
	"log"
	"net/http"

	"github.com/sgiordano45/KidsWallet/src/api"
	"github.com/sgiordano45/KidsWallet/src/assets"
	"github.com/sgiordano45/KidsWallet/src/auth"
	"github.com/sgiordano45/KidsWallet/src/config"
	"github.com/sgiordano45/KidsWallet/src/scheduler"
	"github.com/sgiordano45/KidsWallet/src/store"
	"github.com/sgiordano45/KidsWallet/src/store/local"
	"github.com/sgiordano45/KidsWallet/src/store/postgres"
)

func main() {
	cfg := config.Load()

	localStore, err := local.Open(cfg.LocalDBPath)
	if err != nil {
		log.Fatalf("open local store: %v", err)
	}
	defer localStore.Close()

	// The remote store is optional: without it (or when it is down at
	// startup) the app runs local-only instead of refusing to start.
	var remote store.Remote
	if cfg.DatabaseURL != "" {
		pg, err := postgres.Open(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Printf("ERROR: remote store unavailable, running local-only: %v", err)
		} else {
			remote = pg
			defer pg.Close()
		}
	} else {
		log.Println("INFO: no DATABASE_URL, running local-only")
	}

	resolver := auth.NewResolver(nil, remote, localStore)
	resolver.Start(context.Background())

	sched, err := scheduler.New(remote, localStore, cfg.PolicyCron)
	if err != nil {
		log.Fatalf("schedule policy run: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	router := api.NewRouter(resolver, remote, localStore, cfg.AllowedOrigins)
	if cfg.AssetsDir != "" {
		router.Handle("/*", assets.Handler(cfg.AssetsDir, cfg.AssetsVersion))
	}

	log.Println("INFO: KidsWallet running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}

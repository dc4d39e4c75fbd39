package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/bluemoon1528/clusters/internal/auth"
	"github.com/bluemoon1528/clusters/internal/booking"
	"github.com/bluemoon1528/clusters/internal/catalog"
	"github.com/bluemoon1528/clusters/internal/config"
	"github.com/bluemoon1528/clusters/internal/database"
	"github.com/bluemoon1528/clusters/internal/handler"
	"github.com/bluemoon1528/clusters/internal/kvstore"
	"github.com/bluemoon1528/clusters/internal/ledger"
	"github.com/bluemoon1528/clusters/internal/remote"
	"github.com/bluemoon1528/clusters/internal/repository"
	"github.com/bluemoon1528/clusters/internal/router"
	snapshot_publisher "github.com/bluemoon1528/clusters/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	// Durable key-value storage backs the ledger mirror, the persisted
	// session and the legacy admin directory. Without Redis the storefront
	// still runs, but state does not survive a restart.
	rdb := config.NewRedisClient()
	var kv kvstore.Store
	if rdb != nil {
		kv = kvstore.NewRedisStore(rdb, "clusters")
	} else {
		log.Println("redis unreachable; falling back to in-memory storage (state lost on exit)")
		kv = kvstore.NewMemoryStore()
	}

	// The remote document store is optional: no DB_HOST means local-only
	// mode, where pushes and pulls report the store as unavailable.
	var (
		bookingsRemote *remote.Bookings
		accounts       *repository.AccountRepo
		movieSource    catalog.Source
	)
	if cfg.DBHost != "" {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("remote store connect failed: %v", err)
		}
		bookingsRemote = remote.NewBookings(db)
		accounts = repository.NewAccountRepo(db)
		movieSource = catalog.NewRemote(db)
	} else {
		log.Println("no DB_HOST configured; running in local-only mode")
		bookingsRemote = remote.NewBookings(nil)
		movieSource = catalog.NewLocal(kv)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Restore the ledger and any persisted admin session before serving.
	ldg := ledger.New(kv)
	ldg.Load(startCtx)
	log.Printf("ledger loaded: %d bookings", ldg.Len())

	gate := auth.NewGate(cfg, accounts, kv)
	gate.Restore(startCtx)
	gate.Bootstrap(startCtx, cfg.BootstrapUser, cfg.BootstrapPass)

	svc := booking.New(cfg, ldg, bookingsRemote, movieSource, gate, kv, snapshot_publisher.PublishSnapshot)
	syncer := booking.NewSyncer(svc)
	// The live feed starts enabled; operators can pause it from the back
	// office.
	syncer.Enable()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterStorefront(e, handler.NewBookingHandler(svc), handler.NewCatalogHandler(svc), handler.NewAdminHandler(svc), rdb)
	router.RegisterAuth(e, handler.NewAuthHandler(gate), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(svc), handler.NewSyncHandler(svc, syncer), handler.NewCatalogHandler(svc), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}

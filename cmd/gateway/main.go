package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/mind-engage/mindengage-qpaper/internal/api/http"
	"github.com/mind-engage/mindengage-qpaper/internal/bank"
	"github.com/mind-engage/mindengage-qpaper/internal/config"
	"github.com/mind-engage/mindengage-qpaper/internal/db"
	"github.com/mind-engage/mindengage-qpaper/internal/paper"
	storage "github.com/mind-engage/mindengage-qpaper/internal/storage"
	syncx "github.com/mind-engage/mindengage-qpaper/internal/sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg := config.FromEnv()

	// --- Audit log (optional) ---
	var events *syncx.EventRepo
	if cfg.AuditEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		dbh, err := db.Open(ctx, db.Driver(cfg.AuditDBDriver), cfg.AuditDBDSN)
		cancel()
		if err != nil {
			log.Fatalf("audit db open failed: %v", err)
		}
		events = syncx.NewEventRepo(dbh, cfg.SiteID)
	}

	uploads, err := storage.NewFSStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload dir: %v", err)
	}

	holder := bank.NewHolder()
	gen := paper.NewGenerator(holder, cfg.RandomSeed)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           300,
	}))

	r.Route("/api", func(ar chi.Router) {
		api.MountPapers(ar, api.Deps{
			Bank:           holder,
			Generator:      gen,
			Uploads:        uploads,
			Events:         events,
			MaxUploadBytes: cfg.MaxUploadBytes(),
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	s := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("listening on %s (uploads=%s, audit=%q)", cfg.HTTPAddr, uploads.Base(), cfg.AuditDBDriver)
	log.Fatal(s.ListenAndServe())
}

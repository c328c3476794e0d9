// Command server is the thin HTTP front over a preprocessed graph
// snapshot, implementing the directions query contract: chi router,
// rs/cors middleware, and a JSON-over-HTTP handler wrapping one domain
// call per route.
package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/antigravity/transitcore/internal/cache"
	"github.com/antigravity/transitcore/internal/config"
	"github.com/antigravity/transitcore/internal/service"
	"github.com/antigravity/transitcore/internal/store/snapshot"
)

func main() {
	cfg := config.Default()
	if path := os.Getenv("TRANSITCORE_CONFIG"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			log.Fatal("loading config:", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	log.Printf("Loading snapshot from %s...", cfg.Snapshot.Path)
	s, err := snapshot.Read(cfg.Snapshot.Path)
	if err != nil {
		log.Fatal("loading snapshot:", err)
	}
	log.Printf("✅ Snapshot loaded: %d nodes, %d stops, %d trips", s.NodeCount(), s.StopCount(), s.TripCount())

	engine := service.New(s, "balanced")

	directionsCache := cache.New(cfg.Redis)
	defer directionsCache.Close()

	h := newHandler(engine, directionsCache)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"transitcore"}`))
	})
	r.Get("/route", h.getRoute)

	log.Printf("🚀 Server starting on %s", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, r); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/AppleLamps/free-photo-or/modules/common/config"
	redisclient "github.com/AppleLamps/free-photo-or/modules/common/redis"
	"github.com/AppleLamps/free-photo-or/modules/enhance"
	"github.com/AppleLamps/free-photo-or/modules/events"
	"github.com/AppleLamps/free-photo-or/modules/generate"
	"github.com/AppleLamps/free-photo-or/modules/store"
)

// galleryKey is the single named slot the gallery persists into when the
// Redis backend is selected.
const galleryKey = "gallery:images"

var startTime = time.Now()

// enableCORS mirrors the browser client's needs: JSON POSTs from any origin.
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheck(hub *events.Hub, galleryStore *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "healthy",
			"service": "free-photo-or",
			"uptime":  time.Since(startTime).String(),
			"images":  len(galleryStore.Images()),
			"clients": hub.ClientCount(),
		})
	}
}

// buildPersister selects the gallery slot backend. Redis falls back to the
// file slot when unreachable so the gallery still works offline.
func buildPersister(cfg *config.Config) store.Persister {
	if cfg.StoreBackend == "redis" {
		if rdb := redisclient.Connect(cfg); rdb != nil {
			log.Println("✅ Gallery slot: Redis")
			return store.NewRedisSlot(rdb, galleryKey)
		}
		log.Println("⚠️  Redis unavailable, falling back to file slot")
	}
	log.Printf("✅ Gallery slot: file (%s)", cfg.StorePath)
	return store.NewFileSlot(cfg.StorePath)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	galleryStore := store.New(buildPersister(cfg), store.WithDebounce(cfg.StoreDebounce))

	hub := events.NewHub()
	unbind := hub.Bind(galleryStore)
	defer unbind()

	generateHandler := generate.NewHandler(generate.NewService(cfg))
	enhanceHandler := enhance.NewHandler(enhance.NewService(cfg))

	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck(hub, galleryStore)).Methods("GET")
	r.HandleFunc("/health", healthCheck(hub, galleryStore)).Methods("GET")
	r.HandleFunc("/ws", hub.HandleWebSocket)
	generateHandler.RegisterRoutes(r)
	enhanceHandler.RegisterRoutes(r)

	// Flush any pending debounced write before the process dies.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		log.Println("🛑 Shutting down, flushing gallery store...")
		galleryStore.Flush()
		os.Exit(0)
	}()

	log.Printf("🚀 free-photo-or server starting on port %s", cfg.Port)
	log.Printf("🎨 Generate endpoint: http://localhost:%s/api/generate", cfg.Port)
	log.Printf("✨ Enhance endpoint: http://localhost:%s/api/enhance", cfg.Port)
	log.Printf("📡 Gallery events: ws://localhost:%s/ws", cfg.Port)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// listing-engine — composition root.
//
// Builds the listing engine (key-value client, cache-aside layer, rate
// limiter, ranking service) from explicitly injected store connections.
// Request routing lives in the surrounding backend; this binary only wires
// the engine and answers /health.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"jobboard/listing-engine/internal/cache"
	"jobboard/listing-engine/internal/config"
	"jobboard/listing-engine/internal/db"
	"jobboard/listing-engine/internal/kvstore"
	"jobboard/listing-engine/internal/listing"
	"jobboard/listing-engine/internal/postgres"
	"jobboard/listing-engine/internal/ratelimit"
)

const version = "1.0.0"

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	})))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[listing-engine] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Println("[listing-engine] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[listing-engine] PostgreSQL: %v", err)
	}
	defer pool.Close()

	log.Println("[listing-engine] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[listing-engine] Redis: %v", err)
	}
	defer rdb.Close()

	kv := kvstore.New(rdb, slog.Default())
	cacheSvc := cache.New(kv,
		time.Duration(cfg.EntityTTLSeconds)*time.Second,
		time.Duration(cfg.CollectionTTLSeconds)*time.Second,
	)
	limiter := ratelimit.New(kv)
	svc := listing.NewService(postgres.New(pool), cacheSvc, kv, slog.Default())

	// Wiring probe: one real read through cache + repository so a broken
	// schema or connection shows up at startup, not on first traffic.
	if _, err := svc.List(ctx, listing.Filter{}, 1, 1); err != nil {
		log.Fatalf("[listing-engine] wiring probe failed: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", rateLimited(limiter, cfg, healthHandler))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[listing-engine] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[listing-engine] HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[listing-engine] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[listing-engine] Shutdown error: %v", err)
	}
	log.Println("[listing-engine] Stopped.")
}

// rateLimited applies the engine's fixed-window limiter keyed by remote
// address. The surrounding backend applies the same check to every inbound
// request; here it guards the only route this binary serves.
func rateLimited(limiter *ratelimit.Limiter, cfg *config.Config, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := limiter.Check(r.Context(), r.RemoteAddr, cfg.RateLimit,
			time.Duration(cfg.RateWindowSeconds)*time.Second)
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprint(res.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprint(res.ResetSeconds))
		if !res.Allowed {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "listing-engine",
		"version": version,
	})
}

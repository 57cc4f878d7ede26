// skillbridge — hiring registry / employer staking service
//
// Coordinates the employer staking pool, the graduate skill registry, and
// the quote/approve/reject/hire negotiation protocol:
//   - registerAndStake(employer, …)      — lock collateral, join the pool
//   - quoteHire(candidate, amount)       — staked employer opens negotiation
//   - approveQuote() / rejectQuote()     — candidate consent
//   - hire(candidate)                    — finalize; stake, eligibility and
//     consent are all re-checked at call time
//
// Every state transition is appended to the Postgres audit log and published
// to Redis for live consumers (websocket stream, Gateway dashboards).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AllenGeorge08/SkillBridge/internal/admin"
	"github.com/AllenGeorge08/SkillBridge/internal/auditor"
	"github.com/AllenGeorge08/SkillBridge/internal/config"
	"github.com/AllenGeorge08/SkillBridge/internal/db"
	"github.com/AllenGeorge08/SkillBridge/internal/events"
	"github.com/AllenGeorge08/SkillBridge/internal/hiring"
	"github.com/AllenGeorge08/SkillBridge/internal/registry"
	"github.com/AllenGeorge08/SkillBridge/internal/staking"
	"github.com/AllenGeorge08/SkillBridge/internal/stream"
	"github.com/AllenGeorge08/SkillBridge/internal/token"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[skillbridge] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[skillbridge] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[skillbridge] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[skillbridge] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[skillbridge] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[skillbridge] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[skillbridge] Redis connected ✓")

	// ── Services ─────────────────────────────────────────────────────────────
	recorder := events.NewRecorder(pool, rdb)
	custody := token.NewCustodyLedger(pool)
	stakes := staking.NewLedger(custody, recorder, cfg.MinStakeAmount, cfg.MinSalary)
	grads := registry.New(recorder)
	negotiations := hiring.NewService(stakes, grads, recorder)
	gate := admin.NewGate(cfg.AdminJWTSecret)

	// ── Auditor ──────────────────────────────────────────────────────────────
	aud := auditor.New(stakes, custody, negotiations, rdb, cfg.AuditInterval)
	if err := aud.Start(ctx); err != nil {
		log.Fatalf("[skillbridge] Auditor: %v", err)
	}
	defer aud.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/events/stream", stream.NewFeed(rdb))

	stakingHandler := staking.NewHandler(stakes)
	stakingHandler.RegisterRoutes(mux)
	stakingHandler.RegisterAdminRoutes(mux, gate)

	registryHandler := registry.NewHandler(grads)
	registryHandler.RegisterRoutes(mux)
	registryHandler.RegisterAdminRoutes(mux, gate)

	hiringHandler := hiring.NewHandler(negotiations, recorder)
	hiringHandler.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[skillbridge] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[skillbridge] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[skillbridge] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[skillbridge] Shutdown error: %v", err)
	}
	log.Println("[skillbridge] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "skillbridge",
		"version": version,
	})
}

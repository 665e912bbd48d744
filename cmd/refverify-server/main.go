package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/refverify/engine/internal/config"
	delivery "github.com/refverify/engine/internal/delivery/http"
	"github.com/refverify/engine/internal/domain"
	"github.com/refverify/engine/internal/middleware"
	"github.com/refverify/engine/internal/repository/postgres"
	"github.com/refverify/engine/internal/usecase"
	"github.com/refverify/engine/internal/verify"
	"github.com/refverify/engine/pkg/sources/arxiv"
	"github.com/refverify/engine/pkg/sources/crossref"
	"github.com/refverify/engine/pkg/sources/doiresolver"
	"github.com/refverify/engine/pkg/sources/europepmc"
	"github.com/refverify/engine/pkg/sources/openalex"
	"github.com/refverify/engine/pkg/sources/pubmed"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Reference Verification Engine Starting...")

	cfg := config.Load()
	log.Printf("Server configured on port %s", cfg.Server.Port)

	// Connect to PostgreSQL with retry — non-fatal: the engine itself
	// needs no database, only the optional multi-tenant API-key store.
	var pool *pgxpool.Pool
	if cfg.DB.URL != "" {
		for attempt := 1; attempt <= 5; attempt++ {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			var err error
			pool, err = pgxpool.New(ctx, cfg.DB.URL)
			if err == nil {
				if pingErr := pool.Ping(ctx); pingErr == nil {
					cancel()
					log.Println("Connected to PostgreSQL (API key store)")
					break
				}
				pool.Close()
				pool = nil
			}
			cancel()
			if attempt == 5 {
				log.Println("WARNING: Could not connect to database after 5 attempts — running with bootstrap-token auth only")
			} else {
				time.Sleep(time.Duration(attempt) * 2 * time.Second)
			}
		}
		if pool != nil {
			defer pool.Close()
		}
	} else {
		log.Println("DB.URL not set — API key issuance disabled, using bootstrap token only")
	}

	var apiKeyRepo domain.APIKeyRepository
	if pool != nil {
		apiKeyRepo = postgres.NewAPIKeyRepository(pool)
	}

	var cache verify.Cache
	if cfg.Cache.Path != "" {
		boltCache, err := verify.NewBoltCache(cfg.Cache.Path)
		if err != nil {
			log.Fatalf("failed to open persistent cache at %s: %v", cfg.Cache.Path, err)
		}
		defer boltCache.Close()
		cache = boltCache
		log.Printf("Using persistent cache at %s", cfg.Cache.Path)
	} else {
		cache = verify.NewMemoryCache()
		log.Println("Using in-memory cache (no persistence configured)")
	}

	engineLog := logrus.New()
	engineLog.SetFormatter(&logrus.JSONFormatter{})

	doiResolverClient := doiresolver.NewClient(cfg.Engine.DOITimeout)
	crossRefClient := crossref.NewClient(cfg.Engine.Email, cfg.Engine.HTTPTimeout)
	openAlexClient := openalex.NewClient(cfg.Engine.Email, cfg.Engine.HTTPTimeout)
	europePMCClient := europepmc.NewClient(cfg.Engine.HTTPTimeout)
	pubMedClient := pubmed.NewClient(cfg.Engine.Email, cfg.Engine.HTTPTimeout)
	arXivClient := arxiv.NewClient(cfg.Engine.HTTPTimeout)

	engine := &verify.Engine{
		Config: verify.Config{
			TitleMatchFloor:     cfg.Engine.TitleMatchFloor,
			VerifiedThreshold:   cfg.Engine.VerifiedThreshold,
			SuspiciousThreshold: cfg.Engine.SuspiciousThreshold,
			RecentWindowMonths:  cfg.Engine.RecentWindowMonths,
			MaxConcurrent:       cfg.Engine.MaxConcurrent,
		},
		Cache:       cache,
		DOIResolver: doiResolverClient,
		CrossRef:    crossRefClient,
		OpenAlex:    openAlexClient,
		EuropePMC:   europePMCClient,
		PubMed:      pubMedClient,
		ArXiv:       arXivClient,
		Log:         engineLog,
	}

	verifyUsecase := usecase.NewVerifyUsecase(engine)
	authUsecase := usecase.NewAuthUsecase(apiKeyRepo, &cfg.Auth)

	handler := delivery.NewHandler(verifyUsecase, authUsecase)
	authMiddleware := middleware.NewAuthMiddleware(authUsecase, cfg.Auth.BootstrapToken)

	router := delivery.NewRouter(handler, authMiddleware, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println()
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}

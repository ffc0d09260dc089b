package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/aadeshp/coursehub/internal/accounts"
	"github.com/aadeshp/coursehub/internal/auth"
	"github.com/aadeshp/coursehub/internal/config"
	"github.com/aadeshp/coursehub/internal/db"
	httpx "github.com/aadeshp/coursehub/internal/http"
	"github.com/aadeshp/coursehub/internal/identity"
	"github.com/aadeshp/coursehub/internal/observability"
	repo "github.com/aadeshp/coursehub/internal/repo/mongo"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()

	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env)

	// tracing
	shutdownTracer, err := observability.InitTracer(context.Background(), "coursehub", cfg.OTLPEndpoint)

	if err != nil {
		log.Warn("tracer init failed, continuing without traces", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	// document store: a dead store at startup is fatal

	client, err := db.Connect(cfg.MongoURI)

	if err != nil {
		log.Error("mongo connection failed", "err", err)
		os.Exit(1)
	}

	database := client.Database(cfg.MongoDB)

	idxCtx, cancelIdx := config.WithTimeout(10 * time.Second)

	err = db.EnsureIndexes(idxCtx, database)

	cancelIdx()

	if err != nil {
		log.Error("index setup failed", "err", err)
		os.Exit(1)
	}

	// metrics + repositories

	prom := observability.NewProm(prometheus.DefaultRegisterer)
	usersRepo := repo.NewUsersRepo(database, prom)
	coursesRepo := repo.NewCoursesRepo(database, prom)

	seedCtx, cancelSeed := config.WithTimeout(5 * time.Second)

	err = db.EnsureInstructor(seedCtx, usersRepo, cfg)

	cancelSeed()

	if err != nil {
		log.Warn("instructor seeding failed", "err", err)
	}

	// identity provider: setup failure only breaks the federated
	// login routes, never the process

	var verifier identity.Verifier = identity.Disabled{}

	if cfg.Firebase.Configured() {
		fb, err := identity.NewFirebase(context.Background(), cfg.Firebase)

		if err != nil {
			log.Error("identity provider init failed", "err", err)
		} else {
			verifier = fb
		}
	} else {
		log.Warn("identity provider credentials not set, federated login disabled")
	}

	resolver := accounts.NewResolver(usersRepo, log)
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	ping := func() error {
		ctx, cancel := config.WithTimeout(1 * time.Second)
		defer cancel()

		return client.Ping(ctx, readpref.Primary())
	}

	router := httpx.NewRouter(log, cfg, httpx.Deps{
		Resolver: resolver,
		Courses:  coursesRepo,
		Verifier: verifier,
		JWT:      jwtManager,
		Ping:     ping,
		Prom:     prom,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		_ = shutdownTracer(ctx)
		_ = client.Disconnect(ctx)
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

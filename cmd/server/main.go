package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	adoptionservice "shelterhub/internal/adoption/service"
	"shelterhub/internal/adoption/store/request"
	identityservice "shelterhub/internal/identity/service"
	"shelterhub/internal/identity/store/user"
	"shelterhub/internal/notify"
	"shelterhub/internal/platform/config"
	"shelterhub/internal/platform/httpserver"
	"shelterhub/internal/platform/logger"
	"shelterhub/internal/platform/metrics"
	"shelterhub/internal/platform/postgres"
	"shelterhub/internal/platform/redis"
	shelterservice "shelterhub/internal/shelter/service"
	shelterstore "shelterhub/internal/shelter/store"
	"shelterhub/internal/stats"
	jwttoken "shelterhub/internal/token"
	httptransport "shelterhub/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal services.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens, err := jwttoken.New(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	if err != nil {
		log.Error("token service", slog.Any("error", err))
		os.Exit(1)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres", slog.Any("error", err))
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	var (
		users          identityservice.UserStore
		requests       adoptionservice.RequestStore
		userDirectory  adoptionservice.UserDirectory
		staffDirectory shelterservice.StaffDirectory
		shelters       shelterservice.ShelterStore
		categories     shelterservice.CategoryStore
		animals        shelterservice.AnimalStore
		userCounts     stats.UserCounter
		shelterCounts  stats.ShelterCounter
		animalCounts   stats.AnimalCounter
		requestCounts  stats.RequestCounter
	)
	if db != nil {
		pgUsers := user.NewPostgres(db)
		pgRequests := request.NewPostgres(db)
		pgShelters := shelterstore.NewPostgresShelterStore(db)
		pgAnimals := shelterstore.NewPostgresAnimalStore(db)
		users, userDirectory, staffDirectory, userCounts = pgUsers, pgUsers, pgUsers, pgUsers
		requests, requestCounts = pgRequests, pgRequests
		shelters, shelterCounts = pgShelters, pgShelters
		categories = shelterstore.NewPostgresCategoryStore(db)
		animals, animalCounts = pgAnimals, pgAnimals
	} else {
		log.Warn("DATABASE_URL not set, running on in-memory stores")
		memUsers := user.New()
		memRequests := request.New()
		memShelters := shelterstore.NewInMemoryShelterStore()
		memAnimals := shelterstore.NewInMemoryAnimalStore()
		users, userDirectory, staffDirectory, userCounts = memUsers, memUsers, memUsers, memUsers
		requests, requestCounts = memRequests, memRequests
		shelters, shelterCounts = memShelters, memShelters
		categories = shelterstore.NewInMemoryCategoryStore()
		animals, animalCounts = memAnimals, memAnimals
	}

	gateway, cleanup, err := buildGateway(ctx, cfg, log)
	if err != nil {
		log.Error("notification gateway", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	hub := notify.NewHub(gateway, log, m)

	identity := identityservice.New(users, tokens, hub, m, log)
	shelterSvc := shelterservice.New(shelters, categories, animals, staffDirectory, requests, log)
	adoptions := adoptionservice.New(requests, userDirectory, animals, shelters, hub, m, log)
	collector := stats.New(userCounts, shelterCounts, animalCounts, requestCounts, hub, log)

	router := httptransport.NewRouter(httptransport.Deps{
		Identity:  identity,
		Shelters:  shelterSvc,
		Adoptions: adoptions,
		Tokens:    tokens,
		Metrics:   m,
		Logger:    log,
	})
	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting shelterhub", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		return hub.Run(groupCtx)
	})
	group.Go(func() error {
		return collector.Run(groupCtx, cfg.StatsInterval)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("shutdown", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("stopped")
}

// buildGateway picks the notification transport: Kafka when brokers are set,
// Redis pub/sub when a URL is set, otherwise the log gateway.
func buildGateway(ctx context.Context, cfg config.Server, log *slog.Logger) (notify.Gateway, func(), error) {
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := notify.NewKafkaGateway(ctx, cfg.KafkaBrokers, cfg.NotifyTopic)
		if err != nil {
			return nil, nil, err
		}
		return kafka, kafka.Close, nil
	}

	client, err := redis.New(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client != nil {
		return notify.NewRedisGateway(client.Client), func() { _ = client.Close() }, nil
	}

	return notify.NewLogGateway(log), func() {}, nil
}

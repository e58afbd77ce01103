package api

import (
	"fmt"
	"time"

	"cred-air/journeys/internal/common"
	"cred-air/journeys/internal/config"
	"cred-air/journeys/internal/db/repositories"
	"cred-air/journeys/internal/journeys"
	"cred-air/journeys/internal/logging"
	"cred-air/journeys/internal/metrics"
	"cred-air/journeys/internal/services"
	"cred-air/journeys/internal/workers"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

type Repositories struct {
	Flights       *repositories.FlightRepository
	JourneyIndex  *repositories.JourneyIndexRepo
	JourneySearch *repositories.JourneySearchRepo
}

type Services struct {
	Cache         common.CacheInterface
	Flights       *services.FlightService
	JourneySearch *services.JourneySearchService
	JourneyAdmin  *services.JourneyAdminService
}

// Pipeline is the asynchronous journey index maintenance chain
type Pipeline struct {
	Manager    *journeys.Manager
	Dispatcher *workers.JourneyDispatcher
	Monitor    *workers.JourneyQueueMonitor
	Changes    *journeys.Pipeline
}

type Dependencies struct {
	Config   *config.Config
	DB       *sqlx.DB
	Cache    common.CacheInterface
	Metrics  *metrics.MetricsRegistry
	Repo     *Repositories
	Services *Services
	Pipeline *Pipeline
}

// InitDependencies wires repositories, services and the index pipeline.
// The dispatcher and monitor are created but not started.
func InitDependencies(cfg *config.Config, gormDB *gorm.DB, sqlDB *sqlx.DB, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	repos := &Repositories{
		Flights:       repositories.NewFlightRepository(gormDB),
		JourneyIndex:  repositories.NewJourneyIndexRepo(gormDB).WithRefreshConcurrency(cfg.RefreshConcurrency),
		JourneySearch: repositories.NewJourneySearchRepo(sqlDB),
	}

	cache, err := newCache(cfg)
	if err != nil {
		return nil, err
	}

	ids, err := common.NewIDGenerator(cfg.NodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create event id generator: %w", err)
	}

	searchSvc := services.NewJourneySearchService(repos.JourneySearch, cache, cfg.SearchCacheTTL, logging.Named("journey_search"), metricsReg)
	manager := journeys.NewManager(repos.JourneyIndex, logging.Named("journey_index"), metricsReg, searchSvc)

	dispatcher := workers.NewJourneyDispatcher(
		workers.DispatcherConfig{
			Capacity: cfg.JourneyQueueCapacity,
			Workers:  cfg.JourneyWorkers,
		},
		manager,
		ids,
		logging.Named("journey_dispatcher"),
		metricsReg,
	)
	changes := journeys.NewPipeline(dispatcher, logging.Named("flight_changes"))

	svcs := &Services{
		Cache:         cache,
		Flights:       services.NewFlightService(repos.Flights, changes, logging.Named("flights")),
		JourneySearch: searchSvc,
		JourneyAdmin:  services.NewJourneyAdminService(repos.JourneyIndex, searchSvc, logging.Named("journey_admin"), metricsReg),
	}

	return &Dependencies{
		Config:   cfg,
		DB:       sqlDB,
		Cache:    cache,
		Metrics:  metricsReg,
		Repo:     repos,
		Services: svcs,
		Pipeline: &Pipeline{
			Manager:    manager,
			Dispatcher: dispatcher,
			Monitor:    workers.NewJourneyQueueMonitor(dispatcher, logging.Named("journey_queue_monitor"), metricsReg),
			Changes:    changes,
		},
	}, nil
}

func newCache(cfg *config.Config) (common.CacheInterface, error) {
	switch cfg.CacheBackend {
	case "redis":
		client := common.NewRedisClient(common.RedisOptions{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
		}, logging.Named("redis"))
		return common.NewRedisCacheService(client, logging.Named("redis_cache")), nil
	case "memory":
		return common.NewCacheService(cfg.SearchCacheTTL, 10*time.Minute), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.CacheBackend)
	}
}

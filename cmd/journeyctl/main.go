// journeyctl runs out-of-band maintenance against the journey index:
// schema migration, a full rebuild, and inspection of the journeys
// that pass through one flight.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"cred-air/journeys/internal/common"
	"cred-air/journeys/internal/config"
	"cred-air/journeys/internal/db"
	"cred-air/journeys/internal/db/repositories"
	"cred-air/journeys/internal/logging"
	"cred-air/journeys/internal/metrics"
	"cred-air/journeys/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		migrate     bool
		refresh     bool
		flightID    int64
		concurrency int
	)

	flagSet := pflag.NewFlagSet("journeyctl", pflag.ContinueOnError)
	flagSet.BoolVar(&migrate, "migrate", false, "create or update the airlines, flights and journeys tables")
	flagSet.BoolVar(&refresh, "refresh", false, "clear and rebuild the whole journey index")
	flagSet.Int64Var(&flightID, "journeys-for", 0, "list indexed journeys that pass through this flight id")
	flagSet.IntVar(&concurrency, "concurrency", 0, "flights recomputed in parallel during --refresh (default: REFRESH_CONCURRENCY)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}

	if help, _ := flagSet.GetBool("help"); help || (!migrate && !refresh && flightID == 0) {
		printHelp(flagSet)
		return nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := logging.Init(cfg.AppEnv); err != nil {
		return err
	}
	defer logging.Close()

	gormDB, err := db.InitPostgresORM(cfg.PostgresDSN())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if migrate {
		if err := db.Migrate(gormDB); err != nil {
			return err
		}
		fmt.Println("schema migrated")
	}

	if concurrency == 0 {
		concurrency = cfg.RefreshConcurrency
	}
	indexRepo := repositories.NewJourneyIndexRepo(gormDB).WithRefreshConcurrency(concurrency)

	if refresh {
		var invalidator services.CacheInvalidator
		if cfg.CacheBackend == "redis" {
			// A shared cache can be invalidated from here; an in-memory one expires on its TTL.
			client := common.NewRedisClient(common.RedisOptions{
				Addr:     cfg.RedisAddr(),
				Password: cfg.RedisPassword,
			}, logging.Named("redis"))
			cache := common.NewRedisCacheService(client, logging.Named("redis_cache"))
			defer cache.Close()
			invalidator = services.NewJourneySearchService(nil, cache, cfg.SearchCacheTTL, logging.Named("journey_search"), nil)
		}

		admin := services.NewJourneyAdminService(indexRepo, invalidator, logging.Named("journeyctl"),
			metrics.NewMetricsRegistry(prometheus.NewRegistry()))

		inserted, elapsed, err := admin.RefreshIndex(ctx)
		if err != nil {
			return fmt.Errorf("refresh failed after %d journeys: %w", inserted, err)
		}
		fmt.Printf("rebuilt journey index: %d journeys in %s\n", inserted, elapsed.Round(time.Millisecond))
	}

	if flightID != 0 {
		return printJourneys(ctx, indexRepo, flightID)
	}
	return nil
}

func printJourneys(ctx context.Context, repo *repositories.JourneyIndexRepo, flightID int64) error {
	journeys, err := repo.FindJourneysContaining(ctx, flightID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tROUTE\tDEPARTS\tARRIVES\tSTOPS\tSEATS\tPRICE")
	for _, j := range journeys {
		fmt.Fprintf(w, "%s\t%s-%s\t%s\t%s\t%d\t%d\t%.2f %s\n",
			j.Path,
			j.Origin, j.Destination,
			j.DepartureTime.Format("2006-01-02 15:04"),
			j.ArrivalTime.Format("2006-01-02 15:04"),
			j.Stops,
			j.MinAvailableSeats,
			j.TotalPrice, j.Currency,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d journeys through flight %d\n", len(journeys), flightID)
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: journeyctl [--migrate] [--refresh] [--journeys-for FLIGHT_ID]\n\n")
	flagSet.PrintDefaults()
}

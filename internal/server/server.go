package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"opsdash/internal/db"
	"opsdash/internal/handlers"
	"opsdash/internal/metrics"
	"opsdash/internal/repositories"
	"opsdash/internal/routes"
	"opsdash/internal/services"
	"opsdash/internal/workers"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"
)

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewServer wires repositories, services and handlers into an
// http.Server. When Redis is unreachable the dashboard degrades to
// in-memory persistence with a visible warning instead of refusing to
// start: the cached snapshot is a best-effort convenience, not a
// dependency.
func NewServer() *http.Server {
	logger := log.New(os.Stdout, "[SERVER] ", log.LstdFlags)

	snapshotRepo, eventRepo := initializeRepositories(logger)

	feedPath := os.Getenv("FEED_PATH")
	if feedPath == "" {
		feedPath = "config/example_feed.csv"
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	dashboardService := services.NewDashboardService(snapshotRepo, eventRepo, feedPath, logger)

	// Populate from the cached snapshot so a restart does not show an
	// empty dashboard before the first refresh.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if summary, err := dashboardService.RestoreFromCache(ctx); err == nil {
		logger.Printf("restored %d issues from cached snapshot (synced %s)", summary.Issues, summary.SyncedAt.Format(time.RFC3339))
	} else {
		logger.Printf("no cached snapshot restored: %v", err)
	}
	cancel()

	if interval := refreshInterval(); interval > 0 {
		cfg := workers.DefaultRefreshWorkerConfig()
		cfg.Interval = interval
		worker := workers.NewRefreshWorker(cfg, dashboardService, logger)
		if err := worker.Start(context.Background()); err != nil {
			logger.Printf("failed to start refresh worker: %v", err)
		} else {
			logger.Printf("refresh worker started (interval %v)", interval)
		}
	}

	h := &routes.Handlers{
		Health:          handlers.HealthCheckHandler,
		Home:            handlers.HomeHandler,
		Dashboard:       handlers.NewDashboardHandler(dashboardService, m, logger),
		Analysis:        handlers.NewAnalysisHandler(dashboardService, logger),
		Events:          handlers.NewEventHandler(dashboardService, logger),
		Planner:         handlers.NewPlannerHandler(dashboardService, logger),
		MetricsGatherer: registry,
	}

	router := mux.NewRouter()
	routes.RegisterRoutes(router, h)

	// Add Swagger endpoints
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("http://localhost:"+port()+"/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	return &http.Server{
		Addr:    ":" + port(),
		Handler: corsMiddleware(router),
	}
}

// initializeRepositories connects to Redis, falling back to the
// in-memory repositories when it is unavailable.
func initializeRepositories(logger *log.Logger) (repositories.SnapshotRepository, repositories.EventRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisConfig := getRedisConfig()
	logger.Printf("Connecting to Redis: %s:%d (DB: %d)", redisConfig.Host, redisConfig.Port, redisConfig.DB)

	redisClient, err := db.NewRedisClient(redisConfig)
	if err == nil {
		err = redisClient.Ping(ctx)
	}
	if err != nil {
		logger.Printf("Redis unavailable (%v) - snapshots will not survive a restart", err)
		logger.Println("Hint: ensure Redis is running (docker run -d -p 6379:6379 redis:7-alpine)")
		return repositories.NewMemorySnapshotRepository(), repositories.NewMemoryEventRepository()
	}

	logger.Println("Redis connected successfully")
	return repositories.NewRedisSnapshotRepository(redisClient.GetClient()),
		repositories.NewRedisEventRepository(redisClient.GetClient())
}

// getRedisConfig reads Redis configuration from environment variables
func getRedisConfig() db.RedisConfig {
	config := db.DefaultRedisConfig()

	if host := os.Getenv("REDIS_HOST"); host != "" {
		config.Host = host
	}

	if portStr := os.Getenv("REDIS_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			config.Port = port
		}
	}

	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		config.Password = password
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if dbNum, err := strconv.Atoi(dbStr); err == nil {
			config.DB = dbNum
		}
	}

	return config
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}

// refreshInterval reads REFRESH_INTERVAL (a Go duration); zero or
// unset disables the background worker and leaves refresh manual.
func refreshInterval() time.Duration {
	raw := os.Getenv("REFRESH_INTERVAL")
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}

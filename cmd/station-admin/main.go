package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/nordmet/station-admin/pkg/auth"
	"github.com/nordmet/station-admin/pkg/config"
	"github.com/nordmet/station-admin/pkg/database"
	"github.com/nordmet/station-admin/pkg/requestlogger"
	"github.com/nordmet/station-admin/pkg/service/core"
	"github.com/nordmet/station-admin/pkg/service/core/handlers"
	"github.com/nordmet/station-admin/pkg/service/core/routes"
	"github.com/nordmet/station-admin/pkg/service/core/storage/mssql"
)

var configFilePath = flag.String("config", "config.yaml", "path to config file")

func main() {
	flag.Parse()

	// Populate the environment from a local .env during development, the
	// managed runtime injects these directly.
	_ = godotenv.Load()

	zlog := zerolog.New(os.Stdout).With().Timestamp().Logger()

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})

	fileParts, err := config.ProcessConfigPath(*configFilePath)
	if err != nil {
		log.WithError(err).Fatal("processing config path")
	}

	cfg, err := config.NewFileSystemLoader().Load(fileParts.FileName, fileParts.Path, "STATIONADMIN", config.NewDefaultEnvBinder())
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}

	err = cfg.Validate()
	if err != nil {
		log.WithError(err).Fatal("validating config")
	}

	l, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(l)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	tokens := auth.NewTokenProvider(
		cfg.Oauth.ClientID,
		cfg.Oauth.ClientSecret,
		cfg.Oauth.TenantID,
		auth.DatabaseScope,
	)

	pool := database.NewPool(
		cfg.SQLServer.ConnectionString(),
		tokens.Token,
		log.WithField("subsystem", "pool"),
	)
	defer pool.Close()

	schema := database.NewSchema(pool, cfg.SQLServer.Table)
	storage := mssql.NewStationStorage(pool, cfg.SQLServer.Table)

	services := core.NewServices(storage, schema)
	h := handlers.NewHandlers(services)

	authMiddleware := auth.Middleware(cfg.Oauth.TenantID, cfg.IsManaged(), zlog.With().Str("subsystem", "auth").Logger())

	requests := requestlogger.NewRequestCounter()

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector())
	promReg.MustRegister(requests)

	router := chi.NewRouter()
	router.Use(database.WorkerKeyMiddleware(cfg.Pool.Workers))
	router.Use(requestlogger.Middleware(zlog.With().Str("subsystem", "http").Logger(), requests, "/internal/metrics", "/internal/healthz"))

	routes.Add(router,
		routes.NewStationRoutes(routes.NewStationEndpoints(zlog, h.StationHandler), authMiddleware),
		routes.NewSchemaRoutes(routes.NewSchemaEndpoints(zlog, h.SchemaHandler), authMiddleware),
		routes.NewUIRoutes(routes.NewUIEndpoints(zlog)),
		routes.NewMetricsRoutes(routes.NewMetricsEndpoints(promReg)),
	)

	log.Infof("Listening on %s:%s", cfg.Server.Address, cfg.Server.Port)

	server := http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Address, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Shutdown error")
	}
}

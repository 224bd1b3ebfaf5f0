package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/drivesim/pkg/api"
	"github.com/cbodonnell/drivesim/pkg/config"
	"github.com/cbodonnell/drivesim/pkg/log"
	"github.com/cbodonnell/drivesim/pkg/metrics"
	"github.com/cbodonnell/drivesim/pkg/repositories"
	"github.com/cbodonnell/drivesim/pkg/session"
	"github.com/cbodonnell/drivesim/pkg/state"
	"github.com/cbodonnell/drivesim/pkg/vehicle"
	"github.com/cbodonnell/drivesim/pkg/version"
	"github.com/cbodonnell/drivesim/pkg/workers"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	port := flag.Int("port", 8080, "port to listen on")
	logLevel := flag.String("log-level", "info", "Log level")
	tuningFile := flag.String("tuning-file", os.Getenv("DRIVESIM_TUNING_FILE"), "JSON file overriding the default vehicle tuning")
	migrationsDir := flag.String("migrations", "./migrations", "directory containing the sqlite and postgres migrations")
	saveInterval := flag.Duration("save-interval", 10*time.Second, "interval between checkpoints of running sessions")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting server version %s", version.Get())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tuning := vehicle.DefaultTuning()
	tickInterval := session.DefaultTickInterval
	if *tuningFile != "" {
		tuningConfig, err := config.LoadTuningConfig(*tuningFile)
		if err != nil {
			panic(fmt.Sprintf("Failed to load tuning file: %v", err))
		}
		tuning = tuningConfig.Apply(tuning)
		tickInterval = tuningConfig.GetTickInterval(tickInterval)
		log.Info("Loaded tuning from %s", *tuningFile)
	}

	connStr := os.Getenv("DRIVESIM_DATABASE_URL")
	if connStr == "" {
		connStr = "sqlite://drivesim.db"
	}
	repository, err := newRepository(ctx, connStr, *migrationsDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to create repository: %v", err))
	}
	defer repository.Close(context.Background())

	collector, err := metrics.NewCollector(prometheus.DefaultRegisterer)
	if err != nil {
		panic(fmt.Sprintf("Failed to create metrics collector: %v", err))
	}

	stateManager := state.NewInMemoryStateManager()
	saveDriveChannelSize := 100
	saveDriveChan := make(chan workers.SaveDriveRequest, saveDriveChannelSize)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	saveDriveWorker := workers.NewSaveDriveWorker(workers.NewSaveDriveWorkerOptions{
		Repository:    repository,
		SaveDriveChan: saveDriveChan,
		StateManager:  stateManager,
		Interval:      *saveInterval,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		saveDriveWorker.Start(workerCtx)
	}()

	manager := session.NewManager(ctx, session.NewManagerOptions{
		StateManager:  stateManager,
		Collector:     collector,
		SaveDriveChan: saveDriveChan,
		Tuning:        &tuning,
		TickInterval:  tickInterval,
	})

	apiServerOpts := api.NewAPIServerOptions{
		Port:       *port,
		Manager:    manager,
		Repository: repository,
		Collector:  collector,
	}
	tlsCertFile := os.Getenv("DRIVESIM_API_TLS_CERT_FILE")
	tlsKeyFile := os.Getenv("DRIVESIM_API_TLS_KEY_FILE")
	if tlsCertFile != "" && tlsKeyFile != "" {
		apiServerOpts.TLS = &api.TLSConfig{
			CertFile: tlsCertFile,
			KeyFile:  tlsKeyFile,
		}
	}
	server := api.NewAPIServer(apiServerOpts)
	go server.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	sig := <-interrupt
	log.Info("Received %s, shutting down", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop server: %v", err)
	}
	manager.EndAll(shutdownCtx)
	cancelWorker()
	<-workerDone
}

// newRepository picks the repository implementation from the scheme of the
// connection string.
func newRepository(ctx context.Context, connStr string, migrationsDir string) (repositories.Repository, error) {
	u, err := url.Parse(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %v", err)
	}

	switch u.Scheme {
	case "sqlite":
		return repositories.NewSQLiteRepository(ctx, u.Host+u.Path, migrationsDir+"/sqlite")
	case "postgres", "postgresql":
		return repositories.NewPostgresRepository(ctx, u.String(), migrationsDir+"/postgres")
	default:
		return nil, fmt.Errorf("unknown database type %s", u.Scheme)
	}
}

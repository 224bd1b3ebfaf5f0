package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/cbodonnell/drivesim/client/game"
	"github.com/cbodonnell/drivesim/client/network"
	"github.com/cbodonnell/drivesim/pkg/config"
	"github.com/cbodonnell/drivesim/pkg/log"
	"github.com/cbodonnell/drivesim/pkg/session"
	"github.com/cbodonnell/drivesim/pkg/vehicle"
	"github.com/cbodonnell/drivesim/pkg/version"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	logLevel := flag.String("log-level", "info", "Log level")
	debug := flag.Bool("debug", false, "show the debug overlay")
	local := flag.Bool("local", false, "simulate in process instead of connecting to a server")
	serverURL := flag.String("server", network.DefaultServerURL, "URL of the drivesim server")
	sessionID := flag.String("session", "", "ID of an existing session to drive, a new one is created when empty")
	tickIntervalMs := flag.Float64("tick-interval-ms", 0, "tick interval of a new session in milliseconds, the server or local default when zero")
	tuningFile := flag.String("tuning-file", os.Getenv("DRIVESIM_TUNING_FILE"), "JSON file overriding the default vehicle tuning in local mode")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting client version %s", version.Get())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var driver game.Driver
	if *local {
		driver, err = newLocalDriver(ctx, *tuningFile, *tickIntervalMs)
	} else {
		driver, err = newRemoteDriver(ctx, *serverURL, *sessionID, *tickIntervalMs)
	}
	if err != nil {
		panic(fmt.Sprintf("Failed to start session: %v", err))
	}

	g, err := game.NewGame(game.NewGameOptions{
		Debug:  *debug,
		Driver: driver,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create game: %v", err))
	}
	defer g.Close()

	ebiten.SetWindowSize(game.DefaultScreenWidth, game.DefaultScreenHeight)
	ebiten.SetWindowTitle("Drivesim")
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		panic(fmt.Sprintf("Failed to run game: %v", err))
	}
}

func newLocalDriver(ctx context.Context, tuningFile string, tickIntervalMs float64) (game.Driver, error) {
	tuning := vehicle.DefaultTuning()
	tickInterval := session.DefaultTickInterval
	if tuningFile != "" {
		tuningConfig, err := config.LoadTuningConfig(tuningFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load tuning file: %v", err)
		}
		tuning = tuningConfig.Apply(tuning)
		tickInterval = tuningConfig.GetTickInterval(tickInterval)
	}
	if tickIntervalMs != 0 {
		d, err := session.TickIntervalFromMs(tickIntervalMs)
		if err != nil {
			return nil, err
		}
		tickInterval = d
	}

	s, err := session.NewSession(session.NewSessionOptions{
		TickInterval: tickInterval,
		Tuning:       &tuning,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %v", err)
	}
	log.Info("Running local session %s", s.ID())
	return game.NewLocalDriver(ctx, s), nil
}

func newRemoteDriver(ctx context.Context, serverURL string, sessionID string, tickIntervalMs float64) (game.Driver, error) {
	client := network.NewWSClient(network.NewWSClientOptions{ServerURL: serverURL})
	if sessionID == "" {
		id, err := client.CreateSession(ctx, tickIntervalMs)
		if err != nil {
			return nil, err
		}
		sessionID = id
		log.Info("Created session %s", sessionID)
	}
	if err := client.Connect(ctx, sessionID); err != nil {
		return nil, err
	}
	return client, nil
}

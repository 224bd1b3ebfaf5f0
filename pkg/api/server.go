package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/drivesim/pkg/api/handlers"
	"github.com/cbodonnell/drivesim/pkg/api/middleware"
	"github.com/cbodonnell/drivesim/pkg/log"
	"github.com/cbodonnell/drivesim/pkg/metrics"
	"github.com/cbodonnell/drivesim/pkg/repositories"
	"github.com/cbodonnell/drivesim/pkg/session"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port       int
	TLS        *TLSConfig
	Manager    *session.Manager
	Repository repositories.Repository
	Collector  *metrics.Collector
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewHandler(opts),
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// NewHandler builds the API routes. Drive routes are only registered when a
// repository is configured.
func NewHandler(opts NewAPIServerOptions) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/sessions", handlers.HandleCreateSession(opts.Manager)).Methods(http.MethodPost)
	r.HandleFunc("/sessions", handlers.HandleListSessions(opts.Manager)).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{sessionID}", handlers.HandleGetSession(opts.Manager)).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{sessionID}", handlers.HandleEndSession(opts.Manager)).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{sessionID}/input", handlers.HandleSessionInput(opts.Manager)).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{sessionID}/ws", handlers.HandleSessionStream(opts.Manager)).Methods(http.MethodGet)

	if opts.Repository != nil {
		r.HandleFunc("/drives", handlers.HandleListDrives(opts.Repository)).Methods(http.MethodGet)
		r.HandleFunc("/drives/{driveID}", handlers.HandleGetDrive(opts.Repository)).Methods(http.MethodGet)
	}

	r.Handle("/metrics", opts.Collector.Handler()).Methods(http.MethodGet)

	cors := middleware.NewCORSMiddleware()
	logging := middleware.NewLoggingMiddleware()
	return logging(cors(r))
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

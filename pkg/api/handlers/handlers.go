package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/cbodonnell/drivesim/pkg/kinematic"
	"github.com/cbodonnell/drivesim/pkg/log"
	"github.com/cbodonnell/drivesim/pkg/network"
	"github.com/cbodonnell/drivesim/pkg/queue"
	"github.com/cbodonnell/drivesim/pkg/repositories"
	"github.com/cbodonnell/drivesim/pkg/session"
	"github.com/cbodonnell/drivesim/pkg/state"
	"github.com/cbodonnell/drivesim/pkg/vehicle"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	// DefaultDriveListLimit is the number of drives listed when no limit is given.
	DefaultDriveListLimit = 50
	// MaxDriveListLimit caps the limit query parameter.
	MaxDriveListLimit = 1000
	// maxRequestBodySize bounds JSON request bodies.
	maxRequestBodySize = 1 << 16
)

// CreateSessionRequest is the body of a create session request. Both fields
// are optional.
type CreateSessionRequest struct {
	TickIntervalMs *float64        `json:"tickIntervalMs,omitempty"`
	InitialPose    *kinematic.Pose `json:"initialPose,omitempty"`
}

func HandleCreateSession(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &CreateSessionRequest{}
		if err := decodeBody(r, req); err != nil {
			http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}

		opts := session.CreateOptions{InitialPose: req.InitialPose}
		if req.TickIntervalMs != nil {
			tickInterval, err := session.TickIntervalFromMs(*req.TickIntervalMs)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			opts.TickInterval = tickInterval
		}

		s, err := manager.Create(opts)
		if err != nil {
			if vehicle.IsConfigurationError(err) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("failed to create session: %v", err)
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, s.Snapshot())
	}
}

func HandleListSessions(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions := manager.List()
		snapshots := make([]state.Snapshot, 0, len(sessions))
		for _, s := range sessions {
			snapshots = append(snapshots, s.Snapshot())
		}
		writeJSON(w, http.StatusOK, snapshots)
	}
}

func HandleGetSession(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, s.Snapshot())
	}
}

// SessionInputRequest is the body of an input request.
type SessionInputRequest struct {
	Direction *vehicle.Direction `json:"direction"`
	Pressed   *bool              `json:"pressed"`
}

func HandleSessionInput(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager)
		if !ok {
			return
		}

		req := &SessionInputRequest{}
		if err := decodeBody(r, req); err != nil {
			http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
			return
		}
		if req.Direction == nil || req.Pressed == nil {
			http.Error(w, "Input requires direction and pressed", http.StatusBadRequest)
			return
		}

		if err := s.Input(*req.Direction, *req.Pressed); err != nil {
			switch {
			case errors.Is(err, queue.ErrQueueFull):
				http.Error(w, "Input queue is full", http.StatusServiceUnavailable)
			case errors.Is(err, session.ErrSessionStopped):
				http.Error(w, "Session has ended", http.StatusConflict)
			default:
				http.Error(w, err.Error(), http.StatusBadRequest)
			}
			return
		}

		w.WriteHeader(http.StatusAccepted)
	}
}

func HandleEndSession(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseSessionID(w, r)
		if !ok {
			return
		}
		if _, err := manager.End(r.Context(), id); err != nil {
			if session.IsSessionNotFound(err) {
				http.Error(w, "Session not found", http.StatusNotFound)
				return
			}
			log.Error("failed to end session %s: %v", id, err)
			http.Error(w, "Failed to end session", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func HandleSessionStream(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager)
		if !ok {
			return
		}
		network.HandleSessionStream(w, r, s)
	}
}

func HandleListDrives(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := DefaultDriveListLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 1 || parsed > MaxDriveListLimit {
				http.Error(w, fmt.Sprintf("limit must be between 1 and %d", MaxDriveListLimit), http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		drives, err := repository.ListDrives(r.Context(), limit)
		if err != nil {
			log.Error("failed to list drives: %v", err)
			http.Error(w, "Failed to list drives", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, drives)
	}
}

func HandleGetDrive(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driveID := mux.Vars(r)["driveID"]
		drive, err := repository.LoadDrive(r.Context(), driveID)
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Drive not found", http.StatusNotFound)
				return
			}
			log.Error("failed to load drive %s: %v", driveID, err)
			http.Error(w, "Failed to load drive", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, drive)
	}
}

func parseSessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["sessionID"])
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func lookupSession(w http.ResponseWriter, r *http.Request, manager *session.Manager) (*session.Session, bool) {
	id, ok := parseSessionID(w, r)
	if !ok {
		return nil, false
	}
	s, err := manager.Get(id)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return s, true
}

// decodeBody decodes a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}

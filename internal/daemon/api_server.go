package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"stockpile/internal/api"
	"stockpile/internal/config"
	"stockpile/internal/inventory"
	"stockpile/internal/logging"
	"stockpile/internal/shorten"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	items   *api.ItemService
	moves   *api.MoveService
	shorten *api.ShortenService

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, engine *shorten.Engine, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, errors.New("api server requires config and daemon")
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("api bind address is empty")
	}

	mux := http.NewServeMux()
	srv := &apiServer{
		bind:    bind,
		logger:  logger,
		daemon:  d,
		items:   api.NewItemService(d.store),
		moves:   api.NewMoveService(d.store, logger),
		shorten: api.NewShortenService(engine),
	}

	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/items", srv.handleItems)
	mux.HandleFunc("/api/items/", srv.handleItem)
	mux.HandleFunc("/api/moves", srv.handleMoves)
	mux.HandleFunc("/api/moves/validate", srv.handleMovesValidate)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", slog.String("error", err.Error()))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", slog.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status(r.Context())
	payload := api.DaemonStatus{
		Running:        status.Running,
		PID:            status.PID,
		DatabasePath:   status.DatabasePath,
		LockFilePath:   status.LockFilePath,
		NextIdentifier: status.NextIdentifier,
		Inventory: api.InventoryStats{
			Total:    status.Inventory.Total,
			Active:   status.Inventory.Active,
			Inactive: status.Inventory.Inactive,
			Moves:    status.Inventory.Moves,
		},
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query()
		opts := inventory.ListOptions{
			Location:       strings.TrimSpace(query.Get("location")),
			Material:       strings.TrimSpace(query.Get("material")),
			IncludeRetired: query.Get("all") == "1" || strings.EqualFold(query.Get("all"), "true"),
		}
		items, err := s.items.List(r.Context(), opts)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.ItemListResponse{Items: items})
	case http.MethodPost:
		var req api.ItemCreateRequest
		if !s.decode(w, r, &req) {
			return
		}
		item, err := s.items.Create(r.Context(), req)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, api.ItemResponse{Item: *item})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleItem dispatches /api/items/{ja} and its sub-resources.
func (s *apiServer) handleItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/items/")
	jaID, sub, _ := strings.Cut(rest, "/")
	if jaID == "" || strings.Contains(sub, "/") {
		s.writeError(w, http.StatusNotFound, "item not found")
		return
	}

	switch sub {
	case "":
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		item, err := s.items.Describe(r.Context(), jaID)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.ItemResponse{Item: *item})
	case "history":
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		records, err := s.items.History(r.Context(), jaID)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.HistoryResponse{Records: records})
	case "moves":
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		moves, err := s.items.Moves(r.Context(), jaID)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.MoveListResponse{Moves: moves})
	case "move":
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req api.MoveRequest
		if !s.decode(w, r, &req) {
			return
		}
		req.JAID = jaID
		item, err := s.moves.MoveSingle(r.Context(), req)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.ItemResponse{Item: *item})
	case "shorten":
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req api.ShortenRequest
		if !s.decode(w, r, &req) {
			return
		}
		resp, err := s.shorten.Shorten(r.Context(), jaID, req)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, resp)
	default:
		s.writeError(w, http.StatusNotFound, "item not found")
	}
}

func (s *apiServer) handleMoves(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.BatchMoveRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Entries) == 0 {
		s.writeError(w, http.StatusBadRequest, "empty batch")
		return
	}
	result, validation, err := s.moves.Execute(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if !validation.Ready {
		s.writeJSON(w, http.StatusUnprocessableEntity, validation)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) handleMovesValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.BatchMoveRequest
	if !s.decode(w, r, &req) {
		return
	}
	validation, err := s.moves.Validate(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, validation)
}

func (s *apiServer) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps service failures onto HTTP statuses.
func (s *apiServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, api.ErrInvalidRequest):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, inventory.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, inventory.ErrNoActiveRecord),
		errors.Is(err, inventory.ErrDuplicateIdentifier),
		errors.Is(err, inventory.ErrConcurrentModification):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, shorten.ErrNotShorter),
		errors.Is(err, shorten.ErrNoRecordedLength):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(slog.String("component", "api-server"))
	}
	return logging.Nop()
}

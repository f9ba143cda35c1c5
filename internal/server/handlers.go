package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/desertthunder/gamelists/internal/models"
	"github.com/desertthunder/gamelists/internal/shared"
)

// GameFinder is the catalog read side used by [GameHandler].
type GameFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Game, error)
	FindAll(ctx context.Context) ([]models.GameSummary, error)
}

// ListService is the list side used by [ListHandler].
type ListService interface {
	FindAll(ctx context.Context) ([]models.GameList, error)
	FindByID(ctx context.Context, id int64) (*models.GameList, error)
	FindByList(ctx context.Context, listID int64) ([]models.GameSummary, error)
	Move(ctx context.Context, listID int64, source, destination int) error
}

// ReplacementRequest is the body of POST /lists/{id}/replacement.
type ReplacementRequest struct {
	SourceIndex      *int `json:"sourceIndex" validate:"required,gte=0"`
	DestinationIndex *int `json:"destinationIndex" validate:"required,gte=0"`
}

// GameHandler serves the game catalog.
type GameHandler struct {
	games  GameFinder
	logger *log.Logger
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(games GameFinder, logger *log.Logger) *GameHandler {
	return &GameHandler{games: games, logger: logger}
}

func (h *GameHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/games", Handler: h.findAll},
		{Method: http.MethodGet, Path: "/games/{id}", Handler: h.findByID},
	}
}

func (h *GameHandler) findAll(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.FindAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (h *GameHandler) findByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	game, err := h.games.FindByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (h *GameHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status, _ := classify(err); status == http.StatusInternalServerError {
		h.logger.Error("game request failed", "path", r.URL.Path, "request_id", GetRequestID(r.Context()), "error", err)
	}
	writeServiceError(w, err)
}

// ListHandler serves game lists and the reorder endpoint.
type ListHandler struct {
	lists     ListService
	validator *Validator
	logger    *log.Logger
}

// NewListHandler creates a ListHandler.
func NewListHandler(lists ListService, validator *Validator, logger *log.Logger) *ListHandler {
	return &ListHandler{lists: lists, validator: validator, logger: logger}
}

func (h *ListHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/lists", Handler: h.findAll},
		{Method: http.MethodGet, Path: "/lists/{id}", Handler: h.findByID},
		{Method: http.MethodGet, Path: "/lists/{id}/games", Handler: h.findGames},
		{Method: http.MethodPost, Path: "/lists/{id}/replacement", Handler: h.move},
	}
}

func (h *ListHandler) findAll(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.FindAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *ListHandler) findByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	list, err := h.lists.FindByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ListHandler) findGames(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	games, err := h.lists.FindByList(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (h *ListHandler) move(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req ReplacementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeServiceError(w, fmt.Errorf("%w: malformed request body: %v", shared.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.lists.Move(r.Context(), id, *req.SourceIndex, *req.DestinationIndex); err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Debug("moved game", "list_id", id, "from", *req.SourceIndex, "to", *req.DestinationIndex)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status, _ := classify(err); status == http.StatusInternalServerError {
		h.logger.Error("list request failed", "path", r.URL.Path, "request_id", GetRequestID(r.Context()), "error", err)
	}
	writeServiceError(w, err)
}

// pathID parses the positive integer path parameter name.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", shared.ErrInvalidInput, name, raw)
	}
	return id, nil
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

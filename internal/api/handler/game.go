package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/battleship-go/internal/api/middleware"
	"github.com/mcoot/battleship-go/internal/api/request"
	"github.com/mcoot/battleship-go/internal/api/response"
	"github.com/mcoot/battleship-go/internal/model"
	"github.com/mcoot/battleship-go/internal/services/game"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller) *GameHandler {
	return &GameHandler{
		gameController: gameController,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	g, err := h.gameController.Create(r.Context(), req.Name, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreateGameResponse{GameID: string(g.ID)})
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	includeCompleted := r.URL.Query().Get("include_completed") == "true"

	listings, err := h.gameController.List(r.Context(), player.ID, includeCompleted)
	if err != nil {
		WriteError(w, err)
		return
	}

	games := make([]response.GameListing, len(listings))
	for i, l := range listings {
		games[i] = response.GameListingFromModel(l)
	}
	response.JSON(w, http.StatusOK, response.GameListResponse{Games: games})
}

// Join handles POST /api/v1/games/{id}/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	if _, err := h.gameController.Join(r.Context(), gameID, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.gameController.Query(r.Context(), gameID, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameViewFromModel(view))
}

// Fire handles POST /api/v1/games/{id}/fire
func (h *GameHandler) Fire(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.FireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.gameController.Fire(r.Context(), gameID, player.ID, model.Coordinate{X: req.X, Y: req.Y})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FireResponse{
		Result:        string(result.Outcome),
		ShipDestroyed: result.ShipDestroyed,
		GameOver:      result.GameOver,
	})
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	view, err := h.gameController.Query(r.Context(), gameID, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameViewFromModel(view))
}

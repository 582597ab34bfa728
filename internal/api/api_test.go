package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/battleship-go/internal/api"
	"github.com/mcoot/battleship-go/internal/api/response"
	"github.com/mcoot/battleship-go/internal/factory"
	"github.com/mcoot/battleship-go/internal/model"
)

// testServer wires the full application behind an in-process handler
type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		GameController: app.GameController,
	})

	return &testServer{handler: router}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	// Register
	registerBody := map[string]string{
		"username":     "alice",
		"password":     "secret123",
		"display_name": "Alice",
	}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", registerBody, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var registerResp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &registerResp)
	require.NoError(t, err)
	assert.Equal(t, "Alice", registerResp.Player.DisplayName)
	assert.NotEmpty(t, registerResp.SessionToken)

	// Login
	loginBody := map[string]string{
		"username": "alice",
		"password": "secret123",
	}
	rr = ts.request(http.MethodPost, "/api/v1/players/login", loginBody, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var loginResp response.AuthResponse
	err = json.Unmarshal(rr.Body.Bytes(), &loginResp)
	require.NoError(t, err)
	assert.Equal(t, registerResp.Player.ID, loginResp.Player.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"username": "alice", "password": "secret123"}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/players/register", body, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "USERNAME_EXISTS")
}

func TestRegisterShortPassword(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"username": "alice", "password": "nope"}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", body, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "PASSWORD_TOO_SHORT")
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)

	registerPlayer(t, ts, "alice", "Alice")

	body := map[string]string{"username": "alice", "password": "wrongpass"}
	rr := ts.request(http.MethodPost, "/api/v1/players/login", body, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)

	token := registerPlayer(t, ts, "bob", "Bob")

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var meResp response.Player
	err := json.Unmarshal(rr.Body.Bytes(), &meResp)
	require.NoError(t, err)
	assert.Equal(t, "Bob", meResp.DisplayName)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/games", map[string]string{"name": "Alpha"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateAndListGames(t *testing.T) {
	ts := newTestServer(t)

	token1 := registerPlayer(t, ts, "alice", "Alice")
	token2 := registerPlayer(t, ts, "bob", "Bob")

	gameID := createGame(t, ts, token1, "Alpha")

	// The open game is listed for a prospective joiner
	rr := ts.request(http.MethodGet, "/api/v1/games", nil, token2)
	assert.Equal(t, http.StatusOK, rr.Code)

	var listResp response.GameListResponse
	err := json.Unmarshal(rr.Body.Bytes(), &listResp)
	require.NoError(t, err)
	require.Len(t, listResp.Games, 1)
	assert.Equal(t, gameID, listResp.Games[0].ID)
	assert.Equal(t, "waiting", listResp.Games[0].Status)
	assert.Equal(t, "Alice", listResp.Games[0].Creator)
	assert.Nil(t, listResp.Games[0].Opponent)
}

func TestJoinGame(t *testing.T) {
	ts := newTestServer(t)

	token1 := registerPlayer(t, ts, "alice", "Alice")
	token2 := registerPlayer(t, ts, "bob", "Bob")

	gameID := createGame(t, ts, token1, "Alpha")

	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/join", nil, token2)
	assert.Equal(t, http.StatusOK, rr.Code)

	var view response.GameView
	err := json.Unmarshal(rr.Body.Bytes(), &view)
	require.NoError(t, err)
	assert.Equal(t, "active", view.Status)
	assert.Equal(t, "opponent", view.Role)
	assert.True(t, view.YourTurn)
	assert.Len(t, view.Fleet, len(model.FleetCatalog))
}

func TestJoinOwnGameRejected(t *testing.T) {
	ts := newTestServer(t)

	token := registerPlayer(t, ts, "alice", "Alice")
	gameID := createGame(t, ts, token, "Alpha")

	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/join", nil, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "SELF_JOIN")
}

func TestJoinFullGameRejected(t *testing.T) {
	ts := newTestServer(t)

	token1 := registerPlayer(t, ts, "alice", "Alice")
	token2 := registerPlayer(t, ts, "bob", "Bob")
	token3 := registerPlayer(t, ts, "carol", "Carol")

	gameID := createGame(t, ts, token1, "Alpha")

	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/join", nil, token2)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/join", nil, token3)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "GAME_NOT_JOINABLE")
}

func TestGameViewHidesOpponentFleet(t *testing.T) {
	ts := newTestServer(t)

	token1 := registerPlayer(t, ts, "alice", "Alice")
	token2 := registerPlayer(t, ts, "bob", "Bob")

	gameID := createGame(t, ts, token1, "Alpha")
	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/join", nil, token2)
	require.Equal(t, http.StatusOK, rr.Code)

	view1 := getGame(t, ts, token1, gameID)
	view2 := getGame(t, ts, token2, gameID)

	// Each side only ever receives their own ships
	assert.Equal(t, "creator", view1.Role)
	assert.Equal(t, "opponent", view2.Role)
	assert.Len(t, view1.Fleet, len(model.FleetCatalog))
	assert.Len(t, view2.Fleet, len(model.FleetCatalog))
}

func TestFireValidation(t *testing.T) {
	ts := newTestServer(t)

	token1 := registerPlayer(t, ts, "alice", "Alice")
	token2 := registerPlayer(t, ts, "bob", "Bob")

	gameID := createGame(t, ts, token1, "Alpha")

	// Firing before the game is active
	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/fire", map[string]int{"x": 0, "y": 0}, token1)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "GAME_NOT_ACTIVE")

	rr = ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/join", nil, token2)
	require.Equal(t, http.StatusOK, rr.Code)

	// Out of bounds
	rr = ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/fire", map[string]int{"x": 10, "y": 0}, token2)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "OUT_OF_BOUNDS")

	// The joiner moves first; the creator firing now is out of turn
	rr = ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/fire", map[string]int{"x": 0, "y": 0}, token1)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_YOUR_TURN")
}

func TestRefireRejected(t *testing.T) {
	ts := newTestServer(t)

	token1 := registerPlayer(t, ts, "alice", "Alice")
	token2 := registerPlayer(t, ts, "bob", "Bob")

	gameID := createGame(t, ts, token1, "Alpha")
	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/join", nil, token2)
	require.Equal(t, http.StatusOK, rr.Code)

	fire(t, ts, token2, gameID, 3, 3)
	fire(t, ts, token1, gameID, 4, 4)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/fire", map[string]int{"x": 3, "y": 3}, token2)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "CELL_ALREADY_FIRED")
}

func TestOutsiderCannotViewGame(t *testing.T) {
	ts := newTestServer(t)

	token1 := registerPlayer(t, ts, "alice", "Alice")
	token3 := registerPlayer(t, ts, "carol", "Carol")

	gameID := createGame(t, ts, token1, "Alpha")

	rr := ts.request(http.MethodGet, "/api/v1/games/"+gameID, nil, token3)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_PARTICIPANT")
}

func TestFullGameFlow(t *testing.T) {
	ts := newTestServer(t)

	token1 := registerPlayer(t, ts, "alice", "Alice")
	token2 := registerPlayer(t, ts, "bob", "Bob")

	gameID := createGame(t, ts, token1, "Alpha")
	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/join", nil, token2)
	require.Equal(t, http.StatusOK, rr.Code)

	// Each player's own view reveals their fleet, so the test can aim
	// the joiner's shots at every creator cell while the creator fires
	// guaranteed misses
	creatorCells := fleetCells(getGame(t, ts, token1, gameID))
	joinerCells := fleetCells(getGame(t, ts, token2, gameID))
	misses := missesAvoiding(joinerCells, len(creatorCells))

	var last response.FireResponse
	for i, target := range creatorCells {
		last = fire(t, ts, token2, gameID, target.X, target.Y)
		assert.NotEqual(t, "miss", last.Result)

		if last.GameOver {
			require.Equal(t, len(creatorCells)-1, i, "game should end when the last cell is hit")
			break
		}
		fire(t, ts, token1, gameID, misses[i].X, misses[i].Y)
	}

	assert.Equal(t, "sunk", last.Result)
	assert.True(t, last.ShipDestroyed)
	assert.True(t, last.GameOver)

	// Completed state is visible to both sides
	view := getGame(t, ts, token2, gameID)
	assert.Equal(t, "completed", view.Status)
	require.NotNil(t, view.Winner)
	assert.False(t, view.YourTurn)

	// No further moves are accepted
	rr = ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/fire", map[string]int{"x": 9, "y": 9}, token1)
	assert.Equal(t, http.StatusConflict, rr.Code)

	// The finished game only shows up when completed games are requested
	rr = ts.request(http.MethodGet, "/api/v1/games", nil, token1)
	require.Equal(t, http.StatusOK, rr.Code)
	var listResp response.GameListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listResp))
	assert.Empty(t, listResp.Games)

	rr = ts.request(http.MethodGet, "/api/v1/games?include_completed=true", nil, token1)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listResp))
	require.Len(t, listResp.Games, 1)
	assert.Equal(t, "completed", listResp.Games[0].Status)
}

// Helper functions

func registerPlayer(t *testing.T, ts *testServer, username, displayName string) string {
	t.Helper()

	body := map[string]string{
		"username":     username,
		"password":     "secret123",
		"display_name": displayName,
	}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	return resp.SessionToken
}

func createGame(t *testing.T, ts *testServer, token, name string) string {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]string{"name": name}, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.CreateGameResponse
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.NotEmpty(t, resp.GameID)

	return resp.GameID
}

func getGame(t *testing.T, ts *testServer, token, gameID string) response.GameView {
	t.Helper()

	rr := ts.request(http.MethodGet, "/api/v1/games/"+gameID, nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var view response.GameView
	err := json.Unmarshal(rr.Body.Bytes(), &view)
	require.NoError(t, err)
	return view
}

func fire(t *testing.T, ts *testServer, token, gameID string, x, y int) response.FireResponse {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/fire", map[string]int{"x": x, "y": y}, token)
	require.Equal(t, http.StatusOK, rr.Code, "fire (%d,%d): %s", x, y, rr.Body.String())

	var resp response.FireResponse
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

// fleetCells flattens a view's fleet into its occupied cells
func fleetCells(view response.GameView) []response.Coordinate {
	var cells []response.Coordinate
	for _, ship := range view.Fleet {
		cells = append(cells, ship.Cells...)
	}
	return cells
}

// missesAvoiding yields n coordinates that are not occupied by the
// given fleet cells
func missesAvoiding(occupied []response.Coordinate, n int) []response.Coordinate {
	taken := make(map[string]bool, len(occupied))
	for _, c := range occupied {
		taken[fmt.Sprintf("%d,%d", c.X, c.Y)] = true
	}

	var misses []response.Coordinate
	for y := 0; y < model.BoardSize && len(misses) < n; y++ {
		for x := 0; x < model.BoardSize && len(misses) < n; x++ {
			if !taken[fmt.Sprintf("%d,%d", x, y)] {
				misses = append(misses, response.Coordinate{X: x, Y: y})
			}
		}
	}
	return misses
}

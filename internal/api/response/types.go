package response

import (
	"time"

	"github.com/mcoot/battleship-go/internal/model"
	"github.com/mcoot/battleship-go/internal/services/auth"
	"github.com/mcoot/battleship-go/internal/services/game"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// Coordinate is a board cell in API responses
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CoordinateFromModel converts a model.Coordinate
func CoordinateFromModel(c model.Coordinate) Coordinate {
	return Coordinate{X: c.X, Y: c.Y}
}

// Ship represents one of the viewer's own ships
type Ship struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	Cells     []Coordinate `json:"cells"`
	Health    int          `json:"health"`
	Destroyed bool         `json:"destroyed"`
}

// ShipFromModel converts a model.Ship
func ShipFromModel(s *model.Ship) Ship {
	modelCells := s.Cells()
	cells := make([]Coordinate, len(modelCells))
	for i, c := range modelCells {
		cells[i] = CoordinateFromModel(c)
	}
	return Ship{
		ID:        string(s.ID),
		Type:      string(s.Type),
		Cells:     cells,
		Health:    s.Health,
		Destroyed: s.IsDestroyed(),
	}
}

// Move is a fired shot in API responses. The id of the ship that was
// hit is deliberately omitted: hits, misses and sinks are all an
// opponent learns about a fleet.
type Move struct {
	PlayerID string     `json:"player_id"`
	Target   Coordinate `json:"target"`
	Hit      bool       `json:"hit"`
	Sunk     bool       `json:"sunk"`
	Seq      int        `json:"seq"`
	PlayedAt time.Time  `json:"played_at"`
}

// MoveFromModel converts a model.Move
func MoveFromModel(m *model.Move) Move {
	return Move{
		PlayerID: string(m.PlayerID),
		Target:   CoordinateFromModel(m.Target),
		Hit:      m.Hit,
		Sunk:     m.Sunk,
		Seq:      m.Seq,
		PlayedAt: m.PlayedAt,
	}
}

// GameView is a participant's view of a game
type GameView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Role        string    `json:"role"`
	YourTurn    bool      `json:"your_turn"`
	CurrentTurn *string   `json:"current_turn"`
	Winner      *string   `json:"winner"`
	Fleet       []Ship    `json:"fleet"`
	Moves       []Move    `json:"moves"`
	CreatedAt   time.Time `json:"created_at"`
}

// GameViewFromModel converts a game.View
func GameViewFromModel(v *game.View) GameView {
	fleet := make([]Ship, len(v.Fleet))
	for i, s := range v.Fleet {
		fleet[i] = ShipFromModel(s)
	}
	moves := make([]Move, len(v.Moves))
	for i, m := range v.Moves {
		moves[i] = MoveFromModel(m)
	}

	var currentTurn *string
	if v.Game.Status == model.GameStatusActive {
		t := string(v.Game.CurrentTurn)
		currentTurn = &t
	}
	var winner *string
	if v.Game.WinnerID != "" {
		w := string(v.Game.WinnerID)
		winner = &w
	}

	return GameView{
		ID:          string(v.Game.ID),
		Name:        v.Game.Name,
		Status:      string(v.Game.Status),
		Role:        string(v.Role),
		YourTurn:    v.YourTurn,
		CurrentTurn: currentTurn,
		Winner:      winner,
		Fleet:       fleet,
		Moves:       moves,
		CreatedAt:   v.Game.CreatedAt,
	}
}

// CreateGameResponse is the response for game creation
type CreateGameResponse struct {
	GameID string `json:"game_id"`
}

// FireResponse is the response for a fire request
type FireResponse struct {
	Result        string `json:"result"`
	ShipDestroyed bool   `json:"ship_destroyed"`
	GameOver      bool   `json:"game_over"`
}

// GameListing is a directory entry in the games list
type GameListing struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Creator     string    `json:"creator"`
	Opponent    *string   `json:"opponent"`
	CurrentTurn *string   `json:"current_turn"`
	CreatedAt   time.Time `json:"created_at"`
}

// GameListingFromModel converts a game.Listing
func GameListingFromModel(l *game.Listing) GameListing {
	var opponent *string
	if l.OpponentName != "" {
		o := l.OpponentName
		opponent = &o
	}
	var currentTurn *string
	if l.Game.Status == model.GameStatusActive {
		t := string(l.Game.CurrentTurn)
		currentTurn = &t
	}
	return GameListing{
		ID:          string(l.Game.ID),
		Name:        l.Game.Name,
		Status:      string(l.Game.Status),
		Creator:     l.CreatorName,
		Opponent:    opponent,
		CurrentTurn: currentTurn,
		CreatedAt:   l.Game.CreatedAt,
	}
}

// GameListResponse wraps the games directory listing
type GameListResponse struct {
	Games []GameListing `json:"games"`
}

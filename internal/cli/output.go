package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// boardSize mirrors the server's fixed grid dimension
const boardSize = 10

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case GameView:
		o.printGameView(v)
	case FireResult:
		o.printFireResult(v)
	case GameList:
		o.printGameList(v)
	case CreateGameResult:
		o.printCreateGameResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// Coordinate response type
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Ship response type
type Ship struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	Cells     []Coordinate `json:"cells"`
	Health    int          `json:"health"`
	Destroyed bool         `json:"destroyed"`
}

// Move response type
type Move struct {
	PlayerID string     `json:"player_id"`
	Target   Coordinate `json:"target"`
	Hit      bool       `json:"hit"`
	Sunk     bool       `json:"sunk"`
	Seq      int        `json:"seq"`
	PlayedAt time.Time  `json:"played_at"`
}

// GameView response type
type GameView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Role        string  `json:"role"`
	YourTurn    bool    `json:"your_turn"`
	CurrentTurn *string `json:"current_turn"`
	Winner      *string `json:"winner"`
	Fleet       []Ship  `json:"fleet"`
	Moves       []Move  `json:"moves"`
}

// CreateGameResult response type
type CreateGameResult struct {
	GameID string `json:"game_id"`
}

// FireResult response type
type FireResult struct {
	Result        string `json:"result"`
	ShipDestroyed bool   `json:"ship_destroyed"`
	GameOver      bool   `json:"game_over"`
}

// GameListing response type
type GameListing struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Creator     string  `json:"creator"`
	Opponent    *string `json:"opponent"`
	CurrentTurn *string `json:"current_turn"`
}

// GameList response type
type GameList struct {
	Games []GameListing `json:"games"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printCreateGameResult(r CreateGameResult) {
	fmt.Printf("Game created: %s\n", r.GameID)
}

func (o *Output) printGameView(g GameView) {
	fmt.Printf("Game: %s (%s)\n", g.Name, g.ID)
	fmt.Printf("Status: %s\n", g.Status)
	fmt.Printf("Role: %s\n", g.Role)
	if g.Status == "active" {
		if g.YourTurn {
			fmt.Println("Turn: yours")
		} else {
			fmt.Println("Turn: opponent's")
		}
	}
	if g.Winner != nil {
		fmt.Printf("Winner: %s\n", *g.Winner)
	}

	fmt.Println("\nYour fleet:")
	for _, ship := range g.Fleet {
		state := fmt.Sprintf("%d hp", ship.Health)
		if ship.Destroyed {
			state = "destroyed"
		}
		fmt.Printf("  - %-10s %s\n", ship.Type, state)
	}

	fmt.Println("\nYour board:")
	o.printOwnBoard(g)

	fmt.Println("\nYour shots:")
	o.printShotBoard(g)
}

// printOwnBoard renders the viewer's ships with incoming hits
func (o *Output) printOwnBoard(g GameView) {
	cells := emptyGrid()

	for _, ship := range g.Fleet {
		marker := strings.ToUpper(ship.Type[:1])
		for _, c := range ship.Cells {
			cells[c.Y][c.X] = marker
		}
	}

	// Mark opponent hits against us
	me := viewerID(g)
	for _, m := range g.Moves {
		if m.PlayerID != me && m.Hit {
			cells[m.Target.Y][m.Target.X] = "*"
		}
	}

	printGrid(cells)
}

// printShotBoard renders where the viewer has fired
func (o *Output) printShotBoard(g GameView) {
	cells := emptyGrid()

	me := viewerID(g)
	for _, m := range g.Moves {
		if m.PlayerID != me {
			continue
		}
		if m.Hit {
			cells[m.Target.Y][m.Target.X] = "X"
		} else {
			cells[m.Target.Y][m.Target.X] = "o"
		}
	}

	printGrid(cells)
}

// viewerID infers the viewer's player id from the move history: the
// view never carries it directly, but your_turn plus current_turn does
// when the game is active. Falls back to empty (all moves rendered as
// the opponent's).
func viewerID(g GameView) string {
	if g.CurrentTurn == nil {
		return ""
	}
	if g.YourTurn {
		return *g.CurrentTurn
	}
	// Not our turn: any move not by current_turn is ours
	for _, m := range g.Moves {
		if m.PlayerID != *g.CurrentTurn {
			return m.PlayerID
		}
	}
	return ""
}

func emptyGrid() [][]string {
	cells := make([][]string, boardSize)
	for i := range cells {
		cells[i] = make([]string, boardSize)
	}
	return cells
}

func printGrid(cells [][]string) {
	// Column headers
	fmt.Print("    ")
	for col := 0; col < boardSize; col++ {
		fmt.Printf(" %d ", col)
	}
	fmt.Println()

	fmt.Print("   +")
	for col := 0; col < boardSize; col++ {
		fmt.Print("---")
	}
	fmt.Println("+")

	for row := 0; row < boardSize; row++ {
		fmt.Printf(" %d |", row)
		for col := 0; col < boardSize; col++ {
			cell := cells[row][col]
			if cell == "" {
				fmt.Print(" . ")
			} else {
				fmt.Printf(" %s ", cell)
			}
		}
		fmt.Println("|")
	}

	fmt.Print("   +")
	for col := 0; col < boardSize; col++ {
		fmt.Print("---")
	}
	fmt.Println("+")
}

func (o *Output) printFireResult(r FireResult) {
	switch r.Result {
	case "miss":
		fmt.Println("Miss!")
	case "hit":
		fmt.Println("Hit!")
	case "sunk":
		fmt.Println("Hit - ship sunk!")
	default:
		fmt.Printf("Result: %s\n", r.Result)
	}
	if r.GameOver {
		fmt.Println("Game over - you win!")
	}
}

func (o *Output) printGameList(l GameList) {
	if len(l.Games) == 0 {
		fmt.Println("No games found")
		return
	}

	fmt.Printf("Games (%d):\n", len(l.Games))
	for _, g := range l.Games {
		opponent := "<open>"
		if g.Opponent != nil {
			opponent = *g.Opponent
		}
		fmt.Printf("  %s  %-20s %-10s %s vs %s\n", g.ID, g.Name, g.Status, g.Creator, opponent)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

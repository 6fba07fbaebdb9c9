package presenter

import (
	"strings"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

const (
	SoundClick    = "click"
	SoundGameOver = "game_over"

	strikeClass = "strike"
	drawText    = "Draw!"
)

// Tile is how a single cell should be drawn.
type Tile struct {
	Index      int    `json:"index"`
	Text       string `json:"text"`
	HoverClass string `json:"hover_class,omitempty"`
}

type GameOverPanel struct {
	Visible bool   `json:"visible"`
	Text    string `json:"text,omitempty"`
}

// View is everything the page needs to redraw itself after one operation.
type View struct {
	Tiles    []Tile        `json:"tiles"`
	Turn     entity.Mark   `json:"player_turn"`
	Status   entity.Status `json:"status"`
	Winner   entity.Mark   `json:"winner,omitempty"`
	Strike   string        `json:"strike"`
	GameOver GameOverPanel `json:"game_over"`
	Sounds   []string      `json:"sounds"`

	// Outcome is set when the view answers a move.
	Outcome entity.MoveOutcome `json:"outcome,omitempty"`
}

// gameState is the read side of the engine the view is drawn from.
type gameState interface {
	Board() entity.Board
	Status() entity.Status
	HoverMarker() entity.Mark
	Winner() entity.Mark
	WinningLine() *entity.WinningLine
}

// Render draws the current state. move is the result of the operation that led here, or nil.
func Render(game gameState, move *entity.MoveResult) *View {
	status := game.Status()

	view := &View{
		Tiles:  renderTiles(game.Board(), status, game.HoverMarker()),
		Turn:   game.HoverMarker(),
		Status: status,
		Winner: game.Winner(),
		Strike: strikeClassFor(game.WinningLine()),
		GameOver: GameOverPanel{
			Visible: status.IsOver(),
			Text:    gameOverText(status, game.Winner()),
		},
		Sounds: []string{},
	}

	if move != nil {
		view.Outcome = move.Outcome
		view.Sounds = soundsFor(move)
	}

	return view
}

func renderTiles(board entity.Board, status entity.Status, hover entity.Mark) []Tile {
	tiles := make([]Tile, 0, len(board))

	for i, mark := range board {
		tile := Tile{Index: i + 1, Text: string(mark)}
		if mark == entity.EmptyCell && !status.IsOver() {
			tile.HoverClass = HoverClass(hover)
		}

		tiles = append(tiles, tile)
	}

	return tiles
}

// HoverClass returns the css class for hover hints of the given marker, e.g. "x-hover".
func HoverClass(mark entity.Mark) string {
	return strings.ToLower(string(mark)) + "-hover"
}

func strikeClassFor(line *entity.WinningLine) string {
	if line == nil {
		return strikeClass
	}

	return strikeClass + " " + strikeClass + "-" + line.ID
}

func gameOverText(status entity.Status, winner entity.Mark) string {
	switch status {
	case entity.StatusWon:
		return "Winner is " + string(winner) + "!"
	case entity.StatusDrawn:
		return drawText
	default:
		return ""
	}
}

func soundsFor(move *entity.MoveResult) []string {
	if !move.Accepted() {
		return []string{}
	}

	if move.Finished {
		return []string{SoundClick, SoundGameOver}
	}

	return []string{SoundClick}
}

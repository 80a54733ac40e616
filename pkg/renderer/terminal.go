package renderer

import (
	"fmt"
	"strings"

	"github.com/trytobebee/websnake/pkg/config"
	"github.com/trytobebee/websnake/pkg/game"
)

// TerminalRenderer handles terminal-based rendering
type TerminalRenderer struct {
	board  [][]int
	buffer strings.Builder
}

// Cell types for the board
const (
	cellEmpty = iota
	cellWall
	cellHead
	cellBody
	cellFood
	cellGold
	cellCrash
)

// NewTerminalRenderer creates a new terminal renderer
func NewTerminalRenderer(width, height int) *TerminalRenderer {
	// Pre-allocate board to reduce GC pressure
	board := make([][]int, height+2)
	for i := range board {
		board[i] = make([]int, width+2)
	}

	return &TerminalRenderer{
		board: board,
	}
}

// clearScreen clears the terminal using ANSI escape codes
func (r *TerminalRenderer) clearScreen() {
	fmt.Print("\033[H\033[2J\033[3J")
}

// ShowCursor shows the cursor (call on exit)
func (r *TerminalRenderer) ShowCursor() {
	fmt.Print("\033[?25h")
}

// HideCursor hides the cursor (call on start)
func (r *TerminalRenderer) HideCursor() {
	fmt.Print("\033[?25l")
}

// Render draws the game state to the terminal. The board is framed by
// walls in walls mode; wrap mode draws an open edge since the snake
// passes through it.
func (r *TerminalRenderer) Render(g *game.Game) {
	r.clearScreen()
	fmt.Print(r.Frame(g))
}

// Frame builds the full terminal frame for a game state
func (r *TerminalRenderer) Frame(g *game.Game) string {
	r.buffer.Reset()

	// Board cells are offset by one to leave room for the frame row
	for y := range r.board {
		for x := range r.board[y] {
			r.board[y][x] = cellEmpty
		}
	}

	if g.Boundary == game.BoundaryWalls {
		for x := 0; x < g.Width+2; x++ {
			r.board[0][x] = cellWall
			r.board[g.Height+1][x] = cellWall
		}
		for y := 0; y < g.Height+2; y++ {
			r.board[y][0] = cellWall
			r.board[y][g.Width+1] = cellWall
		}
	}

	r.board[g.Food.Y+1][g.Food.X+1] = cellFood

	timerEmojis := make(map[game.Point]string)
	if g.Gold != nil {
		r.board[g.Gold.Pos.Y+1][g.Gold.Pos.X+1] = cellGold
		if !g.GameOver {
			if timer := g.Gold.GetTimerEmoji(g.GetTotalPausedTime()); timer != "" {
				timerEmojis[game.Point{X: g.Gold.Pos.X + 2, Y: g.Gold.Pos.Y + 1}] = timer
			}
		}
	}

	for i, p := range g.Snake {
		if i == 0 {
			r.board[p.Y+1][p.X+1] = cellHead
		} else {
			r.board[p.Y+1][p.X+1] = cellBody
		}
	}

	if g.GameOver {
		cx, cy := g.CrashPoint.X+1, g.CrashPoint.Y+1
		if cx >= 0 && cx < g.Width+2 && cy >= 0 && cy < g.Height+2 {
			r.board[cy][cx] = cellCrash
		}
	}

	r.buffer.WriteString("\n  🐍 SNAKE 🐍\n")
	r.buffer.WriteString(fmt.Sprintf("  Score: %d  |  Eaten: %d  |  Board: %s\n\n",
		g.Score, g.FoodEaten, g.Boundary))

	for y, row := range r.board {
		r.buffer.WriteString("  ")
		for x, cell := range row {
			pos := game.Point{X: x, Y: y}
			if timer, hasTimer := timerEmojis[pos]; hasTimer && cell == cellEmpty {
				r.buffer.WriteString(timer)
				r.buffer.WriteString(" ")
				continue
			}
			switch cell {
			case cellEmpty:
				r.buffer.WriteString(config.CharEmpty)
			case cellWall:
				r.buffer.WriteString(config.CharWall)
			case cellHead:
				r.buffer.WriteString(config.CharHead)
			case cellBody:
				r.buffer.WriteString(config.CharBody)
			case cellFood:
				r.buffer.WriteString(config.CharFood)
			case cellGold:
				r.buffer.WriteString(config.CharGold)
			case cellCrash:
				r.buffer.WriteString(config.CharCrash)
			}
		}
		r.buffer.WriteString("\n")
	}

	r.buffer.WriteString("\n  Use WASD or Arrow keys to move\n")
	r.buffer.WriteString("  P to pause, Q to quit\n")

	if g.Paused {
		r.buffer.WriteString("\n  ⏸️  PAUSED - Press P to continue\n")
	}

	if g.GameOver {
		r.buffer.WriteString("\n  💀 GAME OVER! Press R to restart or Q to quit\n")
	}

	return r.buffer.String()
}

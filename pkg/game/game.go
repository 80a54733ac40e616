package game

import (
	"math/rand"
	"time"

	"github.com/trytobebee/websnake/pkg/config"
)

// advanceFunc moves a head one cell under a boundary policy.
// ok is false when the move leaves the board and ends the game.
type advanceFunc func(head, dir Point, width, height int) (next Point, ok bool)

func advanceWalls(head, dir Point, width, height int) (Point, bool) {
	next := Point{X: head.X + dir.X, Y: head.Y + dir.Y}
	if next.X < 0 || next.X >= width || next.Y < 0 || next.Y >= height {
		return next, false
	}
	return next, true
}

func advanceWrap(head, dir Point, width, height int) (Point, bool) {
	next := Point{X: head.X + dir.X, Y: head.Y + dir.Y}
	if next.X < 0 {
		next.X += width
	} else if next.X >= width {
		next.X -= width
	}
	if next.Y < 0 {
		next.Y += height
	} else if next.Y >= height {
		next.Y -= height
	}
	return next, true
}

// NewGame creates a new game instance: a single-segment snake at the
// board center, one food, score zero.
func NewGame(opts Options) *Game {
	if opts.Width <= 0 {
		opts.Width = config.BoardSize
	}
	if opts.Height <= 0 {
		opts.Height = config.BoardSize
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g := &Game{
		Width:       opts.Width,
		Height:      opts.Height,
		Boundary:    opts.Boundary,
		Snake:       []Point{{X: opts.Width / 2, Y: opts.Height / 2}},
		Direction:   DirRight,
		LastMoveDir: DirRight,
		StartTime:   time.Now(),
		rng:         opts.Rand,
		advance:     advanceWalls,
	}
	if opts.Boundary == BoundaryWrap {
		g.advance = advanceWrap
	}

	g.Food = g.mustFreeCell(func(p Point) bool { return g.occupiedBySnake(p) })
	return g
}

// SetDirection sets the snake direction for the next tick. Returns
// false when the candidate is the exact opposite of the last performed
// move, which would fold the snake onto its own neck.
func (g *Game) SetDirection(newDir Point) bool {
	compareDir := g.LastMoveDir
	if compareDir.X == 0 && compareDir.Y == 0 {
		compareDir = g.Direction
	}

	if newDir.X != 0 && compareDir.X == -newDir.X {
		return false
	}
	if newDir.Y != 0 && compareDir.Y == -newDir.Y {
		return false
	}

	if g.Direction != newDir {
		g.Direction = newDir
		return true
	}
	return false
}

// Update advances the game by one tick
func (g *Game) Update() {
	if g.GameOver || g.Paused {
		return
	}

	// Expired gold despawns before movement so it cannot be eaten late
	if g.Gold != nil && g.Gold.IsExpired(g.GetTotalPausedTime()) {
		g.Gold = nil
	}

	g.LastMoveDir = g.Direction

	head := g.Snake[0]
	newHead, ok := g.advance(head, g.Direction, g.Width, g.Height)
	if !ok || g.occupiedBySnake(newHead) {
		// Terminal state: the snake stays as it was
		g.GameOver = true
		g.EndTime = time.Now()
		g.CrashPoint = newHead
		return
	}

	g.Snake = append([]Point{newHead}, g.Snake...)

	switch {
	case newHead == g.Food:
		g.Score++
		g.FoodEaten++
		g.Food = g.mustFreeCell(func(p Point) bool { return g.occupiedBySnake(p) })
		g.maybeSpawnGold()
	case g.Gold != nil && newHead == g.Gold.Pos:
		g.shrinkTail(config.GoldFoodShrink)
		g.Gold = nil
	default:
		g.Snake = g.Snake[:len(g.Snake)-1]
	}
}

// shrinkTail removes up to n trailing segments, never leaving the
// snake shorter than one cell.
func (g *Game) shrinkTail(n int) {
	if n > len(g.Snake)-1 {
		n = len(g.Snake) - 1
	}
	if n > 0 {
		g.Snake = g.Snake[:len(g.Snake)-n]
	}
}

// maybeSpawnGold rolls for a gold food after a regular food was eaten.
// At most one gold food is active at a time.
func (g *Game) maybeSpawnGold() {
	if g.Gold != nil || g.Score <= config.GoldFoodMinScore {
		return
	}
	if g.rng.Float64() >= config.GoldFoodChance {
		return
	}

	pos, found := g.freeCell(func(p Point) bool {
		return g.occupiedBySnake(p) || p == g.Food
	})
	if !found {
		return
	}
	g.Gold = &GoldFood{
		Pos:               pos,
		SpawnTime:         time.Now(),
		PausedTimeAtSpawn: g.GetTotalPausedTime(),
	}
}

func (g *Game) occupiedBySnake(p Point) bool {
	for _, s := range g.Snake {
		if s == p {
			return true
		}
	}
	return false
}

// freeCell samples a cell not matched by excluded. Rejection sampling
// first; if the board is crowded enough that sampling keeps missing,
// scan the free-cell set so placement always terminates.
func (g *Game) freeCell(excluded func(Point) bool) (Point, bool) {
	attempts := g.Width * g.Height * config.SpawnAttemptsPerCell
	for i := 0; i < attempts; i++ {
		p := Point{X: g.rng.Intn(g.Width), Y: g.rng.Intn(g.Height)}
		if !excluded(p) {
			return p, true
		}
	}

	free := make([]Point, 0)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := Point{X: x, Y: y}
			if !excluded(p) {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		return Point{}, false
	}
	return free[g.rng.Intn(len(free))], true
}

// mustFreeCell is freeCell for callers that cannot proceed without a
// placement. A board with no free cell means the snake fills it
// entirely; the head cell is returned as a harmless placeholder.
func (g *Game) mustFreeCell(excluded func(Point) bool) Point {
	if p, found := g.freeCell(excluded); found {
		return p
	}
	return g.Snake[0]
}

// TogglePause toggles the pause state
func (g *Game) TogglePause() {
	if g.GameOver {
		return
	}
	if !g.Paused {
		g.PauseStart = time.Now()
	} else {
		g.PausedTime += time.Since(g.PauseStart)
	}
	g.Paused = !g.Paused
}

// GetTotalPausedTime returns total paused time including an active pause
func (g *Game) GetTotalPausedTime() time.Duration {
	totalPaused := g.PausedTime
	if g.Paused {
		endTime := time.Now()
		if g.GameOver {
			endTime = g.EndTime
		}
		totalPaused += endTime.Sub(g.PauseStart)
	}
	return totalPaused
}

// Snapshot returns a copy of the current game state for serialization
func (g *Game) Snapshot() GameState {
	state := GameState{
		Snake:     append([]Point(nil), g.Snake...),
		Food:      g.Food,
		Score:     g.Score,
		FoodEaten: g.FoodEaten,
		GameOver:  g.GameOver,
		Paused:    g.Paused,
		Boundary:  g.Boundary.String(),
	}
	if g.Gold != nil {
		state.Gold = &GoldFoodInfo{
			Pos:             g.Gold.Pos,
			RemainingMillis: g.Gold.RemainingMillis(g.GetTotalPausedTime()),
		}
	}
	if g.GameOver {
		crash := g.CrashPoint
		state.CrashPoint = &crash
	}
	return state
}

// Config returns the game configuration sent to clients on connect
func (g *Game) Config() GameConfig {
	return GameConfig{
		Width:      g.Width,
		Height:     g.Height,
		TickMillis: int(config.TickInterval.Milliseconds()),
		Boundary:   g.Boundary.String(),
	}
}

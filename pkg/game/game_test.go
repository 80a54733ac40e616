package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/trytobebee/websnake/pkg/config"
)

func newTestGame(mode BoundaryMode) *Game {
	return NewGame(Options{
		Boundary: mode,
		Rand:     rand.New(rand.NewSource(1)),
	})
}

// goldRand forces the gold-food roll while keeping placement sampling real
type goldRand struct {
	*rand.Rand
	roll float64
}

func (r goldRand) Float64() float64 { return r.roll }

// TestFoodEaten checks the worked example: snake [(8,8)], direction
// right, food at (9,8) -> snake [(9,8),(8,8)], score 1, food respawned
// elsewhere.
func TestFoodEaten(t *testing.T) {
	g := newTestGame(BoundaryWalls)
	g.Snake = []Point{{X: 8, Y: 8}}
	g.Direction = DirRight
	g.LastMoveDir = DirRight
	g.Food = Point{X: 9, Y: 8}

	g.Update()

	if g.GameOver {
		t.Fatal("Game should not be over")
	}
	if len(g.Snake) != 2 {
		t.Errorf("Expected snake length 2, got %d", len(g.Snake))
	}
	if g.Snake[0] != (Point{X: 9, Y: 8}) || g.Snake[1] != (Point{X: 8, Y: 8}) {
		t.Errorf("Expected snake [(9,8),(8,8)], got %v", g.Snake)
	}
	if g.Score != 1 {
		t.Errorf("Expected score 1, got %d", g.Score)
	}
	for _, s := range g.Snake {
		if g.Food == s {
			t.Errorf("New food %v overlaps the snake", g.Food)
		}
	}
	t.Logf("After eating: snake=%v score=%d new food=%v", g.Snake, g.Score, g.Food)
}

// TestConstantLengthMove checks that a tick without food keeps the
// snake the same length.
func TestConstantLengthMove(t *testing.T) {
	g := newTestGame(BoundaryWalls)
	g.Snake = []Point{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}}
	g.Direction = DirRight
	g.LastMoveDir = DirRight
	g.Food = Point{X: 0, Y: 0}

	g.Update()

	if len(g.Snake) != 3 {
		t.Errorf("Expected length 3, got %d", len(g.Snake))
	}
	if g.Snake[0] != (Point{X: 6, Y: 5}) {
		t.Errorf("Expected head (6,5), got %v", g.Snake[0])
	}
	if g.Score != 0 {
		t.Errorf("Score should stay 0, got %d", g.Score)
	}
}

// TestWallsOutOfBoundsEndsGame checks the walls boundary policy
func TestWallsOutOfBoundsEndsGame(t *testing.T) {
	g := newTestGame(BoundaryWalls)
	g.Snake = []Point{{X: g.Width - 1, Y: 8}}
	g.Direction = DirRight
	g.LastMoveDir = DirRight
	g.Food = Point{X: 0, Y: 0}

	g.Update()

	if !g.GameOver {
		t.Fatal("Expected game over when leaving the board")
	}
	if len(g.Snake) != 1 || g.Snake[0] != (Point{X: g.Width - 1, Y: 8}) {
		t.Errorf("Snake should be frozen at the wall, got %v", g.Snake)
	}

	// Further ticks have no effect on the terminal state
	before := append([]Point(nil), g.Snake...)
	g.Update()
	if len(g.Snake) != len(before) || g.Snake[0] != before[0] {
		t.Error("Terminal state must not change on further ticks")
	}
}

// TestWrapCollisionExample checks the worked example: snake
// [(0,8),(19,8)], direction left, wraparound -> newHead (19,8)
// collides with the tail segment.
func TestWrapCollisionExample(t *testing.T) {
	g := newTestGame(BoundaryWrap)
	g.Snake = []Point{{X: 0, Y: 8}, {X: 19, Y: 8}}
	g.Direction = DirLeft
	g.LastMoveDir = DirLeft
	g.Food = Point{X: 5, Y: 5}

	g.Update()

	if !g.GameOver {
		t.Fatal("Expected game over from wraparound self-collision")
	}
	if g.CrashPoint != (Point{X: 19, Y: 8}) {
		t.Errorf("Expected crash at (19,8), got %v", g.CrashPoint)
	}
	if len(g.Snake) != 2 {
		t.Errorf("Snake must stay unchanged, got %v", g.Snake)
	}
}

// TestWrapKeepsCoordinatesInRange drives the snake across every edge
// and checks head coordinates never leave [0, BoardSize).
func TestWrapKeepsCoordinatesInRange(t *testing.T) {
	g := newTestGame(BoundaryWrap)
	dirs := []Point{DirUp, DirLeft, DirDown, DirRight}

	for i := 0; i < 200; i++ {
		if g.GameOver {
			t.Fatalf("Unexpected game over at tick %d", i)
		}
		if i%25 == 0 {
			g.SetDirection(dirs[(i/25)%len(dirs)])
		}
		g.Update()

		head := g.Snake[0]
		if head.X < 0 || head.X >= g.Width || head.Y < 0 || head.Y >= g.Height {
			t.Fatalf("Head %v out of range at tick %d", head, i)
		}
	}
	t.Logf("200 wrap ticks, head stayed in range, length=%d", len(g.Snake))
}

// TestSelfCollisionFreezes checks that running into the body sets
// GameOver and leaves the snake untouched.
func TestSelfCollisionFreezes(t *testing.T) {
	g := newTestGame(BoundaryWalls)
	g.Snake = []Point{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 4, Y: 6}, {X: 4, Y: 5}, {X: 3, Y: 5}}
	g.Direction = DirDown // Into (5,6), the neck
	g.LastMoveDir = DirRight
	g.Food = Point{X: 0, Y: 0}

	before := append([]Point(nil), g.Snake...)
	g.Update()

	if !g.GameOver {
		t.Fatal("Expected game over from self-collision")
	}
	for i, p := range g.Snake {
		if p != before[i] {
			t.Fatalf("Snake changed on terminal tick: %v vs %v", g.Snake, before)
		}
	}
}

// TestDirectionReversalRejected checks 180° rejection against the
// last performed move, not the pending direction.
func TestDirectionReversalRejected(t *testing.T) {
	g := newTestGame(BoundaryWalls)
	g.Snake = []Point{{X: 10, Y: 10}, {X: 9, Y: 10}}
	g.Direction = DirRight
	g.LastMoveDir = DirRight
	g.Food = Point{X: 0, Y: 0}

	if g.SetDirection(DirLeft) {
		t.Error("Exact reversal must be rejected")
	}
	if g.Direction != DirRight {
		t.Errorf("Direction changed by rejected input: %v", g.Direction)
	}

	// Two quick perpendicular presses between ticks: both compared
	// against the last move (right), so up then down both pass, but
	// the snake can never fold onto its neck.
	if !g.SetDirection(DirUp) {
		t.Error("Perpendicular press should be accepted")
	}
	if !g.SetDirection(DirDown) {
		t.Error("Second press before the tick compares against the last move")
	}

	g.Update() // Moves down

	if g.SetDirection(DirUp) {
		t.Error("Reversal of the performed move must be rejected after the tick")
	}
}

// TestGoldShrink checks the bounded shrink: up to 4 tail segments
// removed, never below length 1.
func TestGoldShrink(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantLen int
	}{
		{"long snake loses four", 6, 3},  // 6 +1 head -4 tail
		{"short snake floors at 1", 2, 1}, // 2 +1 head, only 2 removable
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(BoundaryWalls)
			snake := make([]Point, tc.length)
			for i := range snake {
				snake[i] = Point{X: 10 - i, Y: 10}
			}
			g.Snake = snake
			g.Direction = DirRight
			g.LastMoveDir = DirRight
			g.Food = Point{X: 0, Y: 0}
			g.Gold = &GoldFood{Pos: Point{X: 11, Y: 10}, SpawnTime: time.Now()}

			g.Update()

			if len(g.Snake) != tc.wantLen {
				t.Errorf("Expected length %d after gold, got %d", tc.wantLen, len(g.Snake))
			}
			if len(g.Snake) < 1 {
				t.Fatal("Snake shrank below one segment")
			}
			if g.Gold != nil {
				t.Error("Gold food must be cleared after being eaten")
			}
			if g.Score != 0 {
				t.Errorf("Gold food must not score, got %d", g.Score)
			}
		})
	}
}

// TestGoldSpawnConditions checks the spawn gate: regular food event,
// score above threshold, no gold active, 5% roll.
func TestGoldSpawnConditions(t *testing.T) {
	setupEat := func(roll float64, score int) *Game {
		g := NewGame(Options{
			Boundary: BoundaryWalls,
			Rand:     goldRand{Rand: rand.New(rand.NewSource(1)), roll: roll},
		})
		g.Snake = []Point{{X: 8, Y: 8}}
		g.Direction = DirRight
		g.LastMoveDir = DirRight
		g.Food = Point{X: 9, Y: 8}
		g.Score = score
		return g
	}

	// Below the score threshold: never spawns even on a winning roll
	g := setupEat(0.0, config.GoldFoodMinScore-1)
	g.Update()
	if g.Gold != nil {
		t.Error("Gold must not spawn at or below the score threshold")
	}

	// At the threshold: eating brings score to threshold+1, spawns
	g = setupEat(0.0, config.GoldFoodMinScore)
	g.Update()
	if g.Gold == nil {
		t.Fatal("Gold should spawn above the score threshold on a winning roll")
	}
	if g.occupiedBySnake(g.Gold.Pos) {
		t.Errorf("Gold %v overlaps the snake", g.Gold.Pos)
	}
	if g.Gold.Pos == g.Food {
		t.Errorf("Gold %v overlaps the food", g.Gold.Pos)
	}
	t.Logf("Gold spawned at %v, food at %v", g.Gold.Pos, g.Food)

	// Losing roll: no spawn
	g = setupEat(0.5, config.GoldFoodMinScore)
	g.Update()
	if g.Gold != nil {
		t.Error("Gold must not spawn on a losing roll")
	}

	// An active gold food blocks a second spawn
	g = setupEat(0.0, config.GoldFoodMinScore)
	existing := &GoldFood{Pos: Point{X: 1, Y: 1}, SpawnTime: time.Now()}
	g.Gold = existing
	g.Update()
	if g.Gold != existing {
		t.Error("Active gold food must not be superseded by a new spawn")
	}
}

// TestGoldExpiresAtTick checks that an expired gold food despawns
// before movement, so it can no longer be eaten.
func TestGoldExpiresAtTick(t *testing.T) {
	g := newTestGame(BoundaryWalls)
	g.Snake = []Point{{X: 10, Y: 10}, {X: 9, Y: 10}, {X: 8, Y: 10}}
	g.Direction = DirRight
	g.LastMoveDir = DirRight
	g.Food = Point{X: 0, Y: 0}
	g.Gold = &GoldFood{
		Pos:       Point{X: 11, Y: 10},
		SpawnTime: time.Now().Add(-config.GoldFoodLifetime - time.Second),
	}

	g.Update()

	if g.Gold != nil {
		t.Error("Expired gold food should despawn at tick time")
	}
	if len(g.Snake) != 3 {
		t.Errorf("Eating an expired gold must not shrink the snake, length %d", len(g.Snake))
	}
}

// TestLengthDeltaBounds runs a long random game and checks the length
// transition property: delta per tick is never above +1 and never
// below -4.
func TestLengthDeltaBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := NewGame(Options{Boundary: BoundaryWrap, Rand: rng})
	dirs := []Point{DirUp, DirDown, DirLeft, DirRight}

	for i := 0; i < 1000 && !g.GameOver; i++ {
		g.SetDirection(dirs[rng.Intn(len(dirs))])
		prev := len(g.Snake)
		g.Update()
		delta := len(g.Snake) - prev

		if delta > 1 {
			t.Fatalf("Tick %d grew the snake by %d", i, delta)
		}
		if delta < -4 {
			t.Fatalf("Tick %d shrank the snake by %d", i, -delta)
		}
		if len(g.Snake) < 1 {
			t.Fatalf("Tick %d left the snake empty", i)
		}
	}
	t.Logf("Final length %d, score %d, gameOver=%v", len(g.Snake), g.Score, g.GameOver)
}

// TestRestart checks that a fresh game fully replaces all state
func TestRestart(t *testing.T) {
	g := newTestGame(BoundaryWrap)
	g.Score = 30
	g.GameOver = true
	g.Gold = &GoldFood{Pos: Point{X: 3, Y: 3}, SpawnTime: time.Now()}

	g = newTestGame(BoundaryWrap)

	if g.Score != 0 || g.GameOver || g.Gold != nil {
		t.Errorf("Restart must zero score, clear game over and gold: %+v", g)
	}
	if len(g.Snake) != 1 {
		t.Errorf("Restart must produce a single-segment snake, got %d", len(g.Snake))
	}
	if g.Food == g.Snake[0] {
		t.Error("Initial food overlaps the snake")
	}
}

// TestSnapshotIsDetached checks that mutating the snapshot does not
// leak into live game state.
func TestSnapshotIsDetached(t *testing.T) {
	g := newTestGame(BoundaryWalls)
	state := g.Snapshot()
	state.Snake[0] = Point{X: -99, Y: -99}

	if g.Snake[0] == (Point{X: -99, Y: -99}) {
		t.Error("Snapshot shares backing array with the live snake")
	}
	if state.Boundary != "walls" {
		t.Errorf("Expected boundary walls, got %s", state.Boundary)
	}
}

package game

import (
	"time"
)

// Point represents a coordinate on the game board
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction vectors
var (
	DirUp    = Point{X: 0, Y: -1}
	DirDown  = Point{X: 0, Y: 1}
	DirLeft  = Point{X: -1, Y: 0}
	DirRight = Point{X: 1, Y: 0}
)

// BoundaryMode selects the board topology
type BoundaryMode int

const (
	// BoundaryWalls ends the game when the head leaves the board
	BoundaryWalls BoundaryMode = iota
	// BoundaryWrap re-enters the head from the opposite edge
	BoundaryWrap
)

func (m BoundaryMode) String() string {
	if m == BoundaryWrap {
		return "wrap"
	}
	return "walls"
}

// ParseBoundaryMode maps a settings string to a mode, defaulting to walls.
func ParseBoundaryMode(s string) BoundaryMode {
	if s == "wrap" {
		return BoundaryWrap
	}
	return BoundaryWalls
}

// GoldFood is a rare, time-limited food item that shrinks the snake
// on consumption instead of growing it.
type GoldFood struct {
	Pos               Point
	SpawnTime         time.Time
	PausedTimeAtSpawn time.Duration // Total game pause time when spawned
}

// Game represents the main game state
type Game struct {
	Width    int
	Height   int
	Boundary BoundaryMode

	Snake       []Point // Head first
	Direction   Point
	LastMoveDir Point // Direction of the last performed move
	Food        Point
	Gold        *GoldFood
	Score       int
	FoodEaten   int
	GameOver    bool
	Paused      bool
	CrashPoint  Point // Collision position when the game ended

	StartTime  time.Time
	EndTime    time.Time
	PausedTime time.Duration // Accumulated pause time
	PauseStart time.Time

	rng     Rand
	advance advanceFunc
}

// Rand is the randomness the game consumes. Satisfied by *math/rand.Rand;
// tests substitute deterministic sources.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Options configures a new game. Zero values fall back to the
// package defaults, so Options{} gives the standard board.
type Options struct {
	Width    int
	Height   int
	Boundary BoundaryMode
	Rand     Rand
}

// GoldFoodInfo is a DTO for the active gold food sent to clients
type GoldFoodInfo struct {
	Pos             Point `json:"pos"`
	RemainingMillis int64 `json:"remainingMillis"`
}

// GameState is a snapshot of the current game for client synchronization
type GameState struct {
	Snake      []Point       `json:"snake"`
	Food       Point         `json:"food"`
	Gold       *GoldFoodInfo `json:"gold,omitempty"`
	Score      int           `json:"score"`
	FoodEaten  int           `json:"foodEaten"`
	GameOver   bool          `json:"gameOver"`
	Paused     bool          `json:"paused"`
	Boundary   string        `json:"boundary"`
	CrashPoint *Point        `json:"crashPoint,omitempty"`
}

// GameConfig is a DTO for game settings sent to client on connect
type GameConfig struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	TickMillis int    `json:"tickMillis"`
	Boundary   string `json:"boundary"`
}

// StepRecord is one recorded tick for the replay tool
type StepRecord struct {
	StepID    int       `json:"step"`
	Timestamp time.Time `json:"ts"`
	State     GameState `json:"state"`
}

package main

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/trytobebee/websnake/pkg/config"
	"github.com/trytobebee/websnake/pkg/game"
	"github.com/trytobebee/websnake/pkg/renderer"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Same-host frontend only; no cross-origin state
	},
}

// sessions maps session id to its live GameSession for the snapshot endpoint
var sessions sync.Map

// GameSession owns one browser connection's game
type GameSession struct {
	mu        sync.Mutex
	id        string
	game      *game.Game
	boundary  game.BoundaryMode
	started   bool
	tickCount int
	recorder  *game.Recorder
}

func newGameSession(id string, boundary game.BoundaryMode, rec *game.Recorder) *GameSession {
	return &GameSession{
		id:       id,
		game:     game.NewGame(game.Options{Boundary: boundary}),
		boundary: boundary,
		recorder: rec,
	}
}

// ServerMessage is pushed to the browser client
type ServerMessage struct {
	Type   string           `json:"type"`
	Config *game.GameConfig `json:"config,omitempty"`
	State  *game.GameState  `json:"state,omitempty"`
}

// ClientMessage carries one action from the browser client
type ClientMessage struct {
	Action string `json:"action"`
}

func (s *GameSession) handleAction(action string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var inputDir game.Point
	var isDirection bool

	switch action {
	case "up":
		inputDir = game.DirUp
		isDirection = true
	case "down":
		inputDir = game.DirDown
		isDirection = true
	case "left":
		inputDir = game.DirLeft
		isDirection = true
	case "right":
		inputDir = game.DirRight
		isDirection = true
	case "pause":
		if s.started && !s.game.GameOver {
			s.game.TogglePause()
		}
	case "restart":
		if s.game.GameOver {
			s.game = game.NewGame(game.Options{Boundary: s.boundary})
			s.started = false
			s.tickCount = 0
		}
	case "mode_walls":
		s.setBoundary(game.BoundaryWalls)
	case "mode_wrap":
		s.setBoundary(game.BoundaryWrap)
	}

	if isDirection {
		s.started = true
		s.game.SetDirection(inputDir)
	}
}

// setBoundary switches the board topology. Only allowed before the
// first move or on a finished game; it rebuilds the game since the
// two topologies are separate transition functions.
func (s *GameSession) setBoundary(mode game.BoundaryMode) {
	if s.started && !s.game.GameOver {
		return
	}
	s.boundary = mode
	s.game = game.NewGame(game.Options{Boundary: mode})
	s.started = false
	s.tickCount = 0
}

// tick advances the game once and returns the resulting state
func (s *GameSession) tick() game.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started && !s.game.GameOver && !s.game.Paused {
		s.game.Update()
		s.tickCount++
		if s.recorder != nil {
			s.recorder.RecordStep(game.StepRecord{
				StepID:    s.tickCount,
				Timestamp: time.Now(),
				State:     s.game.Snapshot(),
			})
		}
	}
	return s.game.Snapshot()
}

func (s *GameSession) snapshot() game.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

func (s *GameSession) gameConfig() game.GameConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Config()
}

func (s *GameSession) sessionRecord(started, ended time.Time) game.SessionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordFile := ""
	if s.recorder != nil {
		recordFile = s.recorder.FileName
	}
	return game.SessionRecord{
		SessionID:  s.id,
		Boundary:   s.boundary.String(),
		Ticks:      s.tickCount,
		FinalLen:   len(s.game.Snake),
		RecordFile: recordFile,
		StartedAt:  started,
		EndedAt:    ended,
	}
}

func handleWebSocket(store *game.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("Upgrade error:", err)
			return
		}
		defer conn.Close()

		settings := config.GetSettings()
		sessionID := fmt.Sprintf("%d", time.Now().UnixNano())

		rec, err := game.NewRecorder(settings.RecordDir, sessionID)
		if err != nil {
			log.Println("Recorder error:", err)
			// Play on without a recording
		}

		gs := newGameSession(sessionID, game.ParseBoundaryMode(settings.Boundary), rec)
		sessions.Store(sessionID, gs)
		startedAt := time.Now()

		defer func() {
			sessions.Delete(sessionID)
			if rec != nil {
				rec.Close()
			}
			if store != nil {
				if err := store.SaveSession(gs.sessionRecord(startedAt, time.Now())); err != nil {
					log.Println("Session save error:", err)
				}
			}
		}()

		log.Printf("Session %s connected from %s", sessionID, c.Request.RemoteAddr)

		// Mutex to protect concurrent writes to the WebSocket connection
		var writeMu sync.Mutex
		safeWriteJSON := func(v interface{}) error {
			writeMu.Lock()
			defer writeMu.Unlock()
			return conn.WriteJSON(v)
		}

		gameConfig := gs.gameConfig()
		safeWriteJSON(ServerMessage{Type: "config", Config: &gameConfig})

		initialState := gs.snapshot()
		safeWriteJSON(ServerMessage{Type: "state", State: &initialState})

		done := make(chan struct{})

		// Input handling goroutine
		go func() {
			defer close(done)
			for {
				var msg ClientMessage
				if err := conn.ReadJSON(&msg); err != nil {
					return
				}
				gs.handleAction(msg.Action)
				// Push immediately so key presses feel responsive
				if actionChangesConfig(msg.Action) {
					cfg := gs.gameConfig()
					safeWriteJSON(ServerMessage{Type: "config", Config: &cfg})
				}
				state := gs.snapshot()
				safeWriteJSON(ServerMessage{Type: "state", State: &state})
			}
		}()

		ticker := time.NewTicker(config.TickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				state := gs.tick()
				if err := safeWriteJSON(ServerMessage{Type: "state", State: &state}); err != nil {
					return
				}
			}
		}
	}
}

// actionChangesConfig reports whether an action altered the game
// configuration the client caches (board topology).
func actionChangesConfig(action string) bool {
	return action == "mode_walls" || action == "mode_wrap" || action == "restart"
}

func handleSnapshot() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		v, ok := sessions.Load(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such session"})
			return
		}
		gs := v.(*GameSession)

		// Block size comes from live settings so it hot-reloads
		imgRenderer := renderer.NewImageRenderer(config.GetSettings().BlockSize)
		maxDim, _ := strconv.Atoi(c.DefaultQuery("max", "0"))
		cfg := gs.gameConfig()
		data, err := imgRenderer.PNG(cfg.Width, cfg.Height, gs.snapshot(), maxDim)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
			return
		}
		c.Data(http.StatusOK, "image/png", data)
	}
}

func handleSessions(store *game.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := store.ListSessions(50)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessions": records})
	}
}

func main() {
	settings, err := config.LoadSettings("./config.json")
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	go config.WatchSettings("./config.json")

	store, err := game.OpenSessionStore(settings.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}
	defer store.Close()

	router := gin.Default()
	router.Static("/static", settings.StaticDir)
	router.StaticFile("/", settings.StaticDir+"/index.html")
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/sessions", handleSessions(store))
	router.GET("/snapshot/:id", handleSnapshot())
	router.GET("/ws", handleWebSocket(store))

	log.Printf("Snake web server listening on :%s", settings.Port)
	if err := router.Run(":" + settings.Port); err != nil {
		log.Fatal(err)
	}
}

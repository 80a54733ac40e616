package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"

	"github.com/trytobebee/websnake/pkg/config"
	"github.com/trytobebee/websnake/pkg/game"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ReplayServer serves the replay library and streams recorded frames
type ReplayServer struct {
	addr      string
	recordDir string
	store     *game.SessionStore
}

func main() {
	settings, err := config.LoadSettings("./config.json")
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	store, err := game.OpenSessionStore(settings.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}
	defer store.Close()

	server := &ReplayServer{
		addr:      ":8081",
		recordDir: settings.RecordDir,
		store:     store,
	}

	fs := http.FileServer(http.Dir(settings.StaticDir))
	http.Handle("/static/", http.StripPrefix("/static/", fs))

	http.HandleFunc("/", server.handleIndex)
	http.HandleFunc("/ws/replay", server.handleReplayWS)

	fmt.Printf("📼 Snake Replay Tool starting on http://localhost%s\n", server.addr)
	log.Fatal(http.ListenAndServe(server.addr, nil))
}

const indexTemplate = `
<!DOCTYPE html>
<html>
<head>
    <title>Snake Replays</title>
    <style>
        body { font-family: monospace; background: #1a202c; color: #fff; padding: 2rem; }
        h1 { color: #48bb78; }
        .file-list { display: grid; gap: 1rem; }
        .file-item {
            background: #2d3748; padding: 1rem; border-radius: 8px;
            display: flex; justify-content: space-between; align-items: center;
        }
        .file-item:hover { background: #4a5568; }
        a { color: #63b3ed; text-decoration: none; font-weight: bold; }
        .meta { color: #a0aec0; font-size: 0.9em; }
    </style>
</head>
<body>
    <h1>📼 Replay Library</h1>
    <div class="file-list">
        {{range .}}
        <div class="file-item">
            <div>
                <div class="name">Session {{.SessionID}}</div>
                <div class="meta">{{.Boundary}} board | {{.Ticks}} ticks | final length {{.FinalLen}} | {{.EndedAt.Format "2006-01-02 15:04:05"}}</div>
            </div>
            <a href="/static/replay.html?file={{.RecordFile}}">WATCH REPLAY ▶</a>
        </div>
        {{else}}
        <p>No recorded sessions yet.</p>
        {{end}}
    </div>
</body>
</html>`

func (s *ReplayServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListSessions(100)
	if err != nil {
		log.Println("Session list error:", err)
		http.Error(w, "failed to list sessions", http.StatusInternalServerError)
		return
	}

	t, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	t.Execute(w, records)
}

func (s *ReplayServer) handleReplayWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	filename := filepath.Base(r.URL.Query().Get("file")) // No path traversal
	path := filepath.Join(s.recordDir, filename)
	file, err := os.Open(path)
	if err != nil {
		log.Println("Failed to open record:", err)
		return
	}
	defer file.Close()

	// Board geometry is fixed, so the client can be initialized before
	// the first recorded frame arrives
	replayConfig := game.GameConfig{
		Width:      config.BoardSize,
		Height:     config.BoardSize,
		TickMillis: int(config.TickInterval.Milliseconds()),
	}
	if err := conn.WriteJSON(struct {
		Type   string           `json:"type"`
		Config *game.GameConfig `json:"config"`
	}{
		Type:   "config",
		Config: &replayConfig,
	}); err != nil {
		return
	}

	paused := false

	// Read loop for playback controls
	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var cmd struct {
				Command string `json:"command"`
			}
			json.Unmarshal(msg, &cmd)
			if cmd.Command == "pause" {
				paused = true
			}
			if cmd.Command == "resume" {
				paused = false
			}
		}
	}()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec game.StepRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			log.Println("JSON parse error:", err)
			continue
		}

		for paused {
			time.Sleep(100 * time.Millisecond)
		}
		time.Sleep(config.TickInterval) // Playback at game speed

		msg := struct {
			Type  string         `json:"type"`
			State game.GameState `json:"state"`
			Meta  map[string]any `json:"meta"`
		}{
			Type:  "state",
			State: rec.State,
			Meta:  map[string]any{"step": rec.StepID},
		}

		if err := conn.WriteJSON(msg); err != nil {
			break
		}
	}
}

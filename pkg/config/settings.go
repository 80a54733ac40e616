package config

import (
	"encoding/json"
	"log"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Settings holds the tunable server configuration. Board geometry and
// game timing stay compile-time constants; Settings covers what an
// operator may want to change between (or during) runs.
type Settings struct {
	Port         string `json:"port"`
	StaticDir    string `json:"static_dir"`
	RecordDir    string `json:"record_dir"`
	DatabasePath string `json:"database_path"`
	BlockSize    int    `json:"block_size"` // Pixel size of one board cell in PNG snapshots
	Boundary     string `json:"boundary"`   // "walls" or "wrap"
}

var (
	settings   Settings
	settingsMu sync.RWMutex
)

func defaultSettings() Settings {
	return Settings{
		Port:         "8080",
		StaticDir:    "web/static",
		RecordDir:    "records",
		DatabasePath: "data/sessions.db",
		BlockSize:    24,
		Boundary:     "walls",
	}
}

// LoadSettings reads the settings file, creating it with defaults on
// first run.
func LoadSettings(path string) (Settings, error) {
	settingsMu.Lock()
	defer settingsMu.Unlock()

	settings = defaultSettings()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return settings, saveLocked(path)
	}
	if err != nil {
		return settings, err
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return settings, err
	}
	return settings, nil
}

func saveLocked(path string) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetSettings returns the current settings snapshot.
func GetSettings() Settings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings
}

// WatchSettings reloads the settings file when it is rewritten, so
// snapshot block size and the default boundary mode can be changed
// without a restart. Runs until the watcher fails; call in a goroutine.
func WatchSettings(path string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("settings watcher unavailable: %v", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		log.Printf("cannot watch %s: %v", path, err)
		return
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				data, err := os.ReadFile(path)
				if err != nil {
					continue
				}
				var next Settings
				if err := json.Unmarshal(data, &next); err != nil {
					log.Printf("ignoring bad settings file: %v", err)
					continue
				}
				settingsMu.Lock()
				settings = next
				settingsMu.Unlock()
				log.Printf("settings reloaded from %s", path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("settings watcher error: %v", err)
		}
	}
}

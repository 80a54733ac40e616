package game

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Recorder handles asynchronous logging of game ticks to a jsonl file
// consumed by the replay tool.
type Recorder struct {
	file       *os.File
	writer     *bufio.Writer
	recordChan chan StepRecord
	wg         sync.WaitGroup
	mu         sync.Mutex
	closed     bool

	FileName string
}

// NewRecorder creates a recorder writing to recordDir.
// Filename format: game_{sessionID}_{timestamp}.jsonl
func NewRecorder(recordDir, sessionID string) (*Recorder, error) {
	if err := os.MkdirAll(recordDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create records dir: %w", err)
	}

	filename := fmt.Sprintf("game_%s_%d.jsonl", sessionID, time.Now().Unix())
	path := filepath.Join(recordDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create record file: %w", err)
	}

	r := &Recorder{
		file:       f,
		writer:     bufio.NewWriter(f),
		recordChan: make(chan StepRecord, 1000), // Buffer up to 1000 frames
		FileName:   filename,
	}

	r.wg.Add(1)
	go r.writeLoop()

	return r, nil
}

// RecordStep queues a record to be written. Non-blocking; drops the
// frame when the buffer is full to protect the game loop.
func (r *Recorder) RecordStep(rec StepRecord) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	select {
	case r.recordChan <- rec:
	default:
	}
}

// Close flushes the buffer and closes the file
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	close(r.recordChan)
	r.wg.Wait()
	r.file.Close()
}

func (r *Recorder) writeLoop() {
	defer r.wg.Done()

	encoder := json.NewEncoder(r.writer)
	for rec := range r.recordChan {
		if err := encoder.Encode(rec); err != nil {
			fmt.Fprintf(os.Stderr, "Error recording frame: %v\n", err)
			continue
		}
	}
	r.writer.Flush()
}

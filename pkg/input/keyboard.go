package input

import (
	"github.com/eiannone/keyboard"

	"github.com/trytobebee/websnake/pkg/game"
)

// KeyboardHandler handles keyboard input
type KeyboardHandler struct {
	inputChan chan KeyInput
}

// KeyInput represents a keyboard input event
type KeyInput struct {
	Char rune
	Key  keyboard.Key
}

// NewKeyboardHandler creates a new keyboard input handler
func NewKeyboardHandler() *KeyboardHandler {
	return &KeyboardHandler{
		inputChan: make(chan KeyInput),
	}
}

// Start begins listening for keyboard input
func (h *KeyboardHandler) Start() error {
	if err := keyboard.Open(); err != nil {
		return err
	}

	go func() {
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			h.inputChan <- KeyInput{Char: char, Key: key}
		}
	}()

	return nil
}

// Stop stops the keyboard handler
func (h *KeyboardHandler) Stop() {
	keyboard.Close()
}

// GetInputChan returns the input channel
func (h *KeyboardHandler) GetInputChan() <-chan KeyInput {
	return h.inputChan
}

// ParseDirection parses a key input into a direction
func ParseDirection(in KeyInput) (dir game.Point, isValid bool) {
	// Handle arrow keys
	switch in.Key {
	case keyboard.KeyArrowUp:
		return game.DirUp, true
	case keyboard.KeyArrowDown:
		return game.DirDown, true
	case keyboard.KeyArrowLeft:
		return game.DirLeft, true
	case keyboard.KeyArrowRight:
		return game.DirRight, true
	}

	// Handle WASD keys
	switch in.Char {
	case 'w', 'W':
		return game.DirUp, true
	case 's', 'S':
		return game.DirDown, true
	case 'a', 'A':
		return game.DirLeft, true
	case 'd', 'D':
		return game.DirRight, true
	}

	return game.Point{}, false
}

// IsQuit checks if the input is a quit command
func IsQuit(in KeyInput) bool {
	return in.Char == 'q' || in.Char == 'Q'
}

// IsRestart checks if the input is a restart command
func IsRestart(in KeyInput) bool {
	return in.Char == 'r' || in.Char == 'R'
}

// IsPause checks if the input is a pause command
func IsPause(in KeyInput) bool {
	return in.Char == 'p' || in.Char == 'P' || in.Char == ' '
}

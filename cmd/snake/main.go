package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/trytobebee/websnake/pkg/config"
	"github.com/trytobebee/websnake/pkg/game"
	"github.com/trytobebee/websnake/pkg/input"
	"github.com/trytobebee/websnake/pkg/renderer"
)

func main() {
	boundaryFlag := flag.String("boundary", "walls", "board topology: walls or wrap")
	flag.Parse()
	boundary := game.ParseBoundaryMode(*boundaryFlag)

	inputHandler := input.NewKeyboardHandler()
	if err := inputHandler.Start(); err != nil {
		fmt.Println("Error opening keyboard:", err)
		return
	}
	defer inputHandler.Stop()

	render := renderer.NewTerminalRenderer(config.BoardSize, config.BoardSize)
	render.HideCursor()
	defer render.ShowCursor()

	g := game.NewGame(game.Options{Boundary: boundary})

	inputChan := inputHandler.GetInputChan()

	ticker := time.NewTicker(config.TickInterval)
	defer ticker.Stop()

	render.Render(g)

	for {
		select {
		case inputEvent := <-inputChan:
			if input.IsQuit(inputEvent) {
				fmt.Println("\n  Thanks for playing! 👋")
				return
			}

			if input.IsRestart(inputEvent) {
				if g.GameOver {
					g = game.NewGame(game.Options{Boundary: boundary})
					render.Render(g)
				}
			}

			if input.IsPause(inputEvent) {
				if !g.GameOver {
					g.TogglePause()
					render.Render(g)
				}
			}

			if inputDir, isValid := input.ParseDirection(inputEvent); isValid {
				g.SetDirection(inputDir)
			}

		case <-ticker.C:
			if !g.GameOver && !g.Paused {
				g.Update()
				render.Render(g)
			}
		}
	}
}

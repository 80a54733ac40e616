package config

import "time"

// Game board dimensions
const (
	BoardSize = 20
)

// Tick settings
const (
	TickInterval = 200 * time.Millisecond
)

// Gold food settings
const (
	GoldFoodLifetime = 6000 * time.Millisecond
	GoldFoodChance   = 0.05 // Spawn probability after a regular food is eaten
	GoldFoodMinScore = 20   // Score must exceed this before gold food can appear
	GoldFoodShrink   = 4    // Max tail segments removed when eaten
)

// Food placement settings
const (
	// Rejection sampling gives up after this many attempts per board cell
	// and falls back to scanning the free-cell set.
	SpawnAttemptsPerCell = 10
)

// Emoji characters for terminal rendering
const (
	CharEmpty = "  " // Two spaces to match emoji width
	CharWall  = "⬜"
	CharHead  = "🟢"
	CharBody  = "🟩"
	CharFood  = "🔴"
	CharGold  = "🟡"
	CharCrash = "💥"
)

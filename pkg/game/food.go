package game

import (
	"time"

	"github.com/trytobebee/websnake/pkg/config"
)

// IsExpired checks if the gold food has outlived its countdown,
// accounting for pause time that occurred after it spawned.
func (f *GoldFood) IsExpired(currentTotalPaused time.Duration) bool {
	pausedSinceSpawn := currentTotalPaused - f.PausedTimeAtSpawn
	elapsed := time.Since(f.SpawnTime) - pausedSinceSpawn
	return elapsed > config.GoldFoodLifetime
}

// RemainingMillis returns milliseconds before despawn, accounting for
// pause time after spawn. Never negative.
func (f *GoldFood) RemainingMillis(currentTotalPaused time.Duration) int64 {
	pausedSinceSpawn := currentTotalPaused - f.PausedTimeAtSpawn
	elapsed := time.Since(f.SpawnTime) - pausedSinceSpawn
	remaining := config.GoldFoodLifetime - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining.Milliseconds()
}

// RemainingSeconds is RemainingMillis rounded down to whole seconds,
// used by the terminal renderer's countdown digits.
func (f *GoldFood) RemainingSeconds(currentTotalPaused time.Duration) int {
	return int(f.RemainingMillis(currentTotalPaused) / 1000)
}

// GetTimerEmoji returns a countdown digit during the final three
// seconds of the gold food's lifetime, or "" outside the countdown.
func (f *GoldFood) GetTimerEmoji(currentTotalPaused time.Duration) string {
	remaining := f.RemainingSeconds(currentTotalPaused)

	if remaining >= 1 && remaining <= 3 {
		circledNums := map[int]string{
			1: "①",
			2: "②",
			3: "③",
		}
		return circledNums[remaining]
	}

	return ""
}

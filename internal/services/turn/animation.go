package turn

import (
	"time"

	"github.com/mcoot/yahtzee-go/internal/dependencies/clock"
)

// AnimationConfig controls the timed roll: the dice tumble every Interval
// until Duration has elapsed, then settle on the final roll
type AnimationConfig struct {
	Duration time.Duration
	Interval time.Duration
}

// DefaultAnimationConfig returns the standard roll timing
func DefaultAnimationConfig() AnimationConfig {
	return AnimationConfig{
		Duration: 500 * time.Millisecond,
		Interval: 60 * time.Millisecond,
	}
}

// Animate blocks until cfg.Duration has elapsed on clk, calling onTick at
// every interval in between. It is the single suspension point of a roll
// and cannot be cancelled once started.
func Animate(clk clock.Clock, cfg AnimationConfig, onTick func()) {
	done := clk.After(cfg.Duration)
	if cfg.Interval <= 0 || onTick == nil {
		<-done
		return
	}

	ticker := clk.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C():
			onTick()
		}
	}
}

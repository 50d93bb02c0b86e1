package turn

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/yahtzee-go/internal/dependencies/mocks"
	"github.com/mcoot/yahtzee-go/internal/model"
	"github.com/mcoot/yahtzee-go/internal/services/scoring"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func waitForAnimation(t *testing.T, clk *mocks.MockClock) {
	t.Helper()
	require.Eventually(t, func() bool {
		return clk.PendingTimers() == 1 && clk.ActiveTickers() == 1
	}, time.Second, time.Millisecond)
}

func TestAnimateTicksUntilDeadline(t *testing.T) {
	clk := mocks.NewManualClock(epoch)
	var ticks atomic.Int32

	done := make(chan struct{})
	go func() {
		Animate(clk, DefaultAnimationConfig(), func() { ticks.Add(1) })
		close(done)
	}()
	waitForAnimation(t, clk)

	clk.Tick()
	clk.Tick()
	clk.Tick()
	require.Eventually(t, func() bool { return ticks.Load() == 3 }, time.Second, time.Millisecond)

	select {
	case <-done:
		t.Fatal("animation ended before its deadline")
	default:
	}

	clk.Advance(DefaultAnimationConfig().Duration)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("animation did not stop at its deadline")
	}

	assert.Equal(t, 0, clk.ActiveTickers())
	clk.Tick()
	assert.Equal(t, int32(3), ticks.Load())
}

func TestAnimateWithoutIntervalOnlyWaits(t *testing.T) {
	clk := mocks.NewMockClock(epoch)
	called := false

	Animate(clk, AnimationConfig{Duration: 500 * time.Millisecond}, func() { called = true })

	assert.False(t, called)
	assert.Equal(t, 0, clk.ActiveTickers())
	assert.Equal(t, epoch.Add(500*time.Millisecond), clk.Now())
}

func TestRollTumblesThenSettlesOnFinalFaces(t *testing.T) {
	clk := mocks.NewManualClock(epoch)
	rnd := mocks.NewMockRandom()
	state := model.NewPlayerState(model.Player{ID: "p1", DisplayName: "Alice"})

	var mu sync.Mutex
	var frames [][]int
	engine := New(state, scoring.New(), rnd, clk, WithObserver(func(snap Snapshot) {
		if snap.IsRolling {
			mu.Lock()
			frames = append(frames, snap.Dice.Values())
			mu.Unlock()
		}
	}))

	rnd.QueueFaces(2, 2, 2, 2, 2)
	rnd.QueueFaces(3, 3, 3, 3, 3)
	rnd.QueueFaces(6, 6, 6, 6, 5)

	type outcome struct {
		ev Evaluation
		ok bool
	}
	result := make(chan outcome, 1)
	go func() {
		ev, ok := engine.Roll()
		result <- outcome{ev, ok}
	}()
	waitForAnimation(t, clk)

	clk.Tick()
	clk.Tick()
	clk.Advance(DefaultAnimationConfig().Duration)

	var got outcome
	select {
	case got = <-result:
	case <-time.After(time.Second):
		t.Fatal("roll did not settle")
	}

	require.True(t, got.ok)
	assert.Equal(t, []int{6, 6, 6, 6, 5}, state.Dice.Values())
	assert.False(t, state.IsRolling)
	assert.True(t, state.RollStartedAt.IsZero())
	assert.Equal(t, 2, state.RollsLeft)
	assert.Equal(t, 0, rnd.Remaining())
	assert.Contains(t, offeredRows(got.ev.Offers), model.CategoryFourOfAKind.Row())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, [][]int{
		{1, 1, 1, 1, 1}, // roll started
		{2, 2, 2, 2, 2},
		{3, 3, 3, 3, 3},
	}, frames)
}

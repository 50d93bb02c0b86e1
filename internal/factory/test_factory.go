package factory

import (
	"time"

	"github.com/mcoot/yahtzee-go/internal/dependencies/mocks"
	"github.com/mcoot/yahtzee-go/internal/services/auth"
	"github.com/mcoot/yahtzee-go/internal/services/turn"
	"github.com/mcoot/yahtzee-go/internal/storage/memory"
	"github.com/mcoot/yahtzee-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked
// dependencies. Rolls settle immediately and bots play inline, so API
// responses are deterministic. Unqueued dice land on one.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, auth.DefaultConfig(), turn.DefaultAnimationConfig(), testutil.NopLogger())
	app.asyncBots = false

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

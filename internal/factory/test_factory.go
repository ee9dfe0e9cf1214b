package factory

import (
	"time"

	"github.com/mcoot/gemtrader/internal/dependencies/mocks"
	"github.com/mcoot/gemtrader/internal/services/game"
	"github.com/mcoot/gemtrader/internal/storage/memory"
	"github.com/mcoot/gemtrader/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App on memory storage with mocked clock and random.
// With nothing queued the mock random makes every procedural card a 1 VP
// "2R" card with a red bonus.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, game.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

package sweeper

import (
	"context"
)

// Sweeper is a long-running background loop owned by the process
//
//go:generate mockgen -source=sweeper.go -destination=../mocks/sweeper.go -package=mocks -mock_names=Sweeper=MockSweeper
type Sweeper interface {
	// Start runs the loop until the context is canceled or Stop is called
	Start(ctx context.Context) error

	// Stop ends the loop and waits for in-flight work, bounded by ctx
	Stop(ctx context.Context) error

	// Name returns the loop name for logging
	Name() string
}

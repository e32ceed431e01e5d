package pipeline

import (
	"time"

	"go.uber.org/zap"
)

// State is the stage a sync run is in
type State string

const (
	StateFetching              State = "FETCHING"
	StateMapping               State = "MAPPING"
	StateResolvingAndMigrating State = "RESOLVING_AND_MIGRATING"
	StateWriting               State = "WRITING"
	StateDone                  State = "DONE"
	StateFailed                State = "FAILED"
)

// Terminal reports whether no further transition follows s
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Summary describes one sync run. It is created when the run starts and
// finalized when it ends; it is never persisted.
type Summary struct {
	RunID string `json:"run_id"`
	State State  `json:"state"`

	RecordsSeen            int `json:"records_seen"`
	DuplicateRecords       int `json:"duplicate_records"`
	RecordsUpserted        int `json:"records_upserted"`
	UnresolvedReferences   int `json:"unresolved_references"`
	AssetMigrationFailures int `json:"asset_migration_failures"`

	FirstUnresolvedError string `json:"first_unresolved_error,omitempty"`
	FirstAssetError      string `json:"first_asset_error,omitempty"`

	// Error is the fatal error of a FAILED run
	Error string `json:"error,omitempty"`

	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"duration_ms"`
}

// Fields returns the summary as log fields
func (s *Summary) Fields() []zap.Field {
	fields := []zap.Field{
		zap.String("state", string(s.State)),
		zap.Int("records_seen", s.RecordsSeen),
		zap.Int("duplicate_records", s.DuplicateRecords),
		zap.Int("records_upserted", s.RecordsUpserted),
		zap.Int("unresolved_references", s.UnresolvedReferences),
		zap.Int("asset_migration_failures", s.AssetMigrationFailures),
		zap.Duration("duration", s.Duration),
	}
	if s.FirstUnresolvedError != "" {
		fields = append(fields, zap.String("first_unresolved_error", s.FirstUnresolvedError))
	}
	if s.FirstAssetError != "" {
		fields = append(fields, zap.String("first_asset_error", s.FirstAssetError))
	}
	return fields
}

// Clone returns a copy safe to hand to other goroutines
func (s *Summary) Clone() *Summary {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func (s *Summary) finish(at time.Time) {
	s.FinishedAt = at
	s.Duration = at.Sub(s.StartedAt)
	s.DurationMs = s.Duration.Milliseconds()
}

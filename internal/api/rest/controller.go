package rest

import (
	"context"

	"github.com/olla-del-barrio/dish-sync/internal/pipeline"
)

// SyncController is the part of the scheduler the operator surface drives
//
//go:generate mockgen -source=controller.go -destination=../../mocks/sync_controller.go -package=mocks -mock_names=SyncController=MockSyncController
type SyncController interface {
	// TriggerNow runs a sync and returns its summary
	TriggerNow(ctx context.Context) (*pipeline.Summary, error)

	// LastSummary returns the last finished run, nil before the first one
	LastSummary() *pipeline.Summary

	// Syncing reports whether a run is in flight
	Syncing() bool

	// ConfigComplete reports whether the sync is enabled
	ConfigComplete() bool
}

package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/olla-del-barrio/dish-sync/internal/adapter"
	"github.com/olla-del-barrio/dish-sync/internal/asset"
	"github.com/olla-del-barrio/dish-sync/internal/domain"
	"github.com/olla-del-barrio/dish-sync/internal/logger"
	"github.com/olla-del-barrio/dish-sync/internal/mapper"
	"github.com/olla-del-barrio/dish-sync/internal/notion"
	"github.com/olla-del-barrio/dish-sync/internal/resolver"
	"github.com/olla-del-barrio/dish-sync/internal/store"
)

const defaultWorkerPoolSize = 8

// Config holds the orchestrator configuration
type Config struct {
	DatabaseID        string        // Source collection to sync
	DefaultProducerID string        // Fallback producer for unresolved names, empty for none
	WorkerPoolSize    int           // Concurrent record tasks
	UpsertChunkSize   int           // Rows per upsert statement, 0 lets the store choose
	RunTimeout        time.Duration // Upper bound of one run, 0 for none
}

// Runner runs one sync
//
//go:generate mockgen -source=orchestrator.go -destination=../mocks/runner.go -package=mocks -mock_names=Runner=MockRunner
type Runner interface {
	// Run executes a full sync and returns its summary.
	// The summary is never nil. A non-nil error means the run ended FAILED.
	Run(ctx context.Context) (*Summary, error)
}

type orchestrator struct {
	config   Config
	source   notion.Client
	mapper   mapper.Mapper
	store    store.Store
	migrator asset.Migrator
	clock    adapter.Clock
}

// NewOrchestrator creates a new sync orchestrator
func NewOrchestrator(
	config Config,
	source notion.Client,
	m mapper.Mapper,
	st store.Store,
	migrator asset.Migrator,
	clock adapter.Clock,
) Runner {
	return &orchestrator{
		config:   config,
		source:   source,
		mapper:   m,
		store:    st,
		migrator: migrator,
		clock:    clock,
	}
}

// record is the per-record slot filled by the record stage.
// The resolve and migrate tasks write disjoint fields.
type record struct {
	result mapper.Result

	resolution resolver.Resolution

	imageURL *string
	assetErr error
}

func (o *orchestrator) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		RunID:     ulid.Make().String(),
		StartedAt: o.clock.Now(),
	}

	ctx = logger.WithFields(ctx, zap.String("run_id", summary.RunID))
	if o.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.RunTimeout)
		defer cancel()
	}

	logger.InfoCtx(ctx, "Sync run started", zap.String("database_id", o.config.DatabaseID))

	err := o.run(ctx, summary)
	summary.finish(o.clock.Now())

	if err != nil {
		summary.State = StateFailed
		summary.Error = err.Error()
		logger.ErrorCtx(ctx, fmt.Errorf("sync run failed: %w", err), summary.Fields()...)
		return summary, err
	}

	summary.State = StateDone
	logger.InfoCtx(ctx, "Sync run finished", summary.Fields()...)
	return summary, nil
}

func (o *orchestrator) run(ctx context.Context, summary *Summary) error {
	// Nothing is fetched or uploaded while the destination is unreachable
	if err := o.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: destination store unavailable: %w", domain.ErrWrite, err)
	}

	o.transition(ctx, summary, StateFetching)
	pages, err := o.source.FetchAll(ctx, o.config.DatabaseID, "")
	if err != nil {
		return err
	}
	summary.RecordsSeen = len(pages)

	pages, dropped := dedupePages(pages)
	if dropped > 0 {
		summary.DuplicateRecords = dropped
		logger.WarnCtx(ctx, "Source returned duplicate pages, keeping the latest edit", zap.Int("dropped", dropped))
	}

	if len(pages) == 0 {
		logger.InfoCtx(ctx, "Source collection is empty, nothing to write")
		return nil
	}

	o.transition(ctx, summary, StateMapping)
	records := make([]record, len(pages))
	names := make([]string, 0, len(pages))
	for i, page := range pages {
		records[i].result = o.mapper.Map(page)
		names = append(names, records[i].result.ProducerName)
	}

	o.transition(ctx, summary, StateResolvingAndMigrating)
	res := resolver.New(o.store, o.config.DefaultProducerID)
	res.Prefetch(ctx, names)

	if err := o.processRecords(ctx, res, records); err != nil {
		return err
	}

	dishes := make([]domain.Dish, 0, len(records))
	for i := range records {
		rec := &records[i]
		dish := rec.result.Dish
		dish.ProducerID = rec.resolution.ProducerID
		dish.ImageURL = rec.imageURL

		if rec.resolution.Unresolved {
			summary.UnresolvedReferences++
			if summary.FirstUnresolvedError == "" && rec.resolution.Err != nil {
				summary.FirstUnresolvedError = rec.resolution.Err.Error()
			}
		}
		if rec.assetErr != nil {
			summary.AssetMigrationFailures++
			if summary.FirstAssetError == "" {
				summary.FirstAssetError = rec.assetErr.Error()
			}
		}

		dishes = append(dishes, dish)
	}

	o.transition(ctx, summary, StateWriting)
	if err := o.store.UpsertDishes(ctx, dishes, o.config.UpsertChunkSize); err != nil {
		return err
	}
	summary.RecordsUpserted = len(dishes)

	return nil
}

// processRecords resolves producers and migrates images for every record on a bounded pool.
// Per-record failures stay in the record slots. A configuration error cancels the remaining
// tasks and is returned.
func (o *orchestrator) processRecords(ctx context.Context, res *resolver.Resolver, records []record) error {
	recordsCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var (
		mu    sync.Mutex
		fatal error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if fatal == nil {
			fatal = err
			cancel(err)
		}
	}

	poolSize := o.config.WorkerPoolSize
	if poolSize <= 0 {
		poolSize = defaultWorkerPoolSize
	}
	pool := pond.NewPool(poolSize, pond.WithContext(recordsCtx))

	for i := range records {
		rec := &records[i]
		dishID := rec.result.Dish.ID

		pool.Submit(func() {
			resolution, err := res.Resolve(recordsCtx, rec.result.ProducerName)
			if err != nil {
				fail(fmt.Errorf("record %s: %w", dishID, err))
				return
			}
			if resolution.Unresolved {
				logger.WarnCtx(recordsCtx, "Producer reference unresolved",
					zap.String("dish_id", dishID),
					zap.Error(resolution.Err),
				)
			}
			rec.resolution = resolution
		})

		if rec.result.Image == nil {
			continue
		}
		image := *rec.result.Image
		pool.Submit(func() {
			url, err := o.migrator.Migrate(recordsCtx, image.URL, dishID, image.Name)
			if err != nil {
				logger.WarnCtx(recordsCtx, "Asset migration failed",
					zap.String("dish_id", dishID),
					zap.Error(err),
				)
				rec.assetErr = err
				return
			}
			rec.imageURL = url
		})
	}

	pool.StopAndWait()

	mu.Lock()
	defer mu.Unlock()
	if fatal != nil {
		return fatal
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("record stage interrupted: %w", err)
	}
	return nil
}

// dedupePages keeps one page per id, in order of first appearance. The most recently
// edited copy wins; on equal or missing edit times the later copy wins.
func dedupePages(pages []notion.Page) ([]notion.Page, int) {
	index := make(map[string]int, len(pages))
	unique := make([]notion.Page, 0, len(pages))
	for _, page := range pages {
		i, ok := index[page.ID]
		if !ok {
			index[page.ID] = len(unique)
			unique = append(unique, page)
			continue
		}
		if !editedBefore(page, unique[i]) {
			unique[i] = page
		}
	}
	return unique, len(pages) - len(unique)
}

// editedBefore reports whether a was last edited strictly before b
func editedBefore(a, b notion.Page) bool {
	if a.LastEditedTime == nil || b.LastEditedTime == nil {
		return a.LastEditedTime == nil && b.LastEditedTime != nil
	}
	return a.LastEditedTime.Before(*b.LastEditedTime)
}

func (o *orchestrator) transition(ctx context.Context, summary *Summary, state State) {
	summary.State = state
	logger.DebugCtx(ctx, "Sync run state", zap.String("state", string(state)))
}

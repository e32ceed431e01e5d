package sweeper_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olla-del-barrio/dish-sync/internal/config"
	"github.com/olla-del-barrio/dish-sync/internal/domain"
	"github.com/olla-del-barrio/dish-sync/internal/logger"
	"github.com/olla-del-barrio/dish-sync/internal/mocks"
	"github.com/olla-del-barrio/dish-sync/internal/pipeline"
	"github.com/olla-del-barrio/dish-sync/internal/sweeper"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const (
	testInterval          = 5 * time.Minute
	testHeartbeatInterval = 30 * time.Second
	waitFor               = 2 * time.Second
	pollEvery             = 5 * time.Millisecond
)

var (
	completeGroups = []config.KeyGroup{
		{Name: "notion", Required: true},
		{Name: "database", Required: true},
		{Name: "storage.supabase", Required: true},
		{Name: "fallback_producer", Required: false, Missing: []string{"sync.default_producer_id"}},
	}
	partialGroups = []config.KeyGroup{
		{Name: "notion", Required: true, Missing: []string{"notion.token"}},
		{Name: "database", Required: true},
		{Name: "storage.supabase", Required: true},
	}
)

// testSchedulerMocks contains all the mocks needed for testing the scheduler
type testSchedulerMocks struct {
	ctrl      *gomock.Controller
	runner    *mocks.MockRunner
	clock     *mocks.MockClock
	heartbeat *mocks.MockTicker
	syncTick  *mocks.MockTicker
	hbCh      chan time.Time
	syncCh    chan time.Time
	config    *sweeper.SchedulerConfig
	scheduler sweeper.Scheduler
}

// setupTestScheduler creates all the mocks and the scheduler for testing
func setupTestScheduler(t *testing.T, groups []config.KeyGroup) *testSchedulerMocks {
	ctrl := gomock.NewController(t)

	tm := &testSchedulerMocks{
		ctrl:      ctrl,
		runner:    mocks.NewMockRunner(ctrl),
		clock:     mocks.NewMockClock(ctrl),
		heartbeat: mocks.NewMockTicker(ctrl),
		syncTick:  mocks.NewMockTicker(ctrl),
		hbCh:      make(chan time.Time),
		syncCh:    make(chan time.Time),
		config: &sweeper.SchedulerConfig{
			Interval:          testInterval,
			HeartbeatInterval: testHeartbeatInterval,
			KeyGroups:         groups,
		},
	}

	tm.clock.EXPECT().Now().Return(time.Now()).AnyTimes()
	tm.clock.EXPECT().Since(gomock.Any()).Return(time.Second).AnyTimes()

	tm.scheduler = sweeper.NewScheduler(tm.config, tm.runner, tm.clock)
	return tm
}

// expectTickers expects the tickers the loop creates. The sync ticker only exists when
// the configuration is complete.
func expectTickers(tm *testSchedulerMocks) {
	tm.clock.EXPECT().NewTicker(testHeartbeatInterval).Return(tm.heartbeat)
	tm.heartbeat.EXPECT().C().Return((<-chan time.Time)(tm.hbCh)).AnyTimes()
	tm.heartbeat.EXPECT().Stop()
	if tm.config.Complete() {
		tm.clock.EXPECT().NewTicker(testInterval).Return(tm.syncTick)
		tm.syncTick.EXPECT().C().Return((<-chan time.Time)(tm.syncCh)).AnyTimes()
		tm.syncTick.EXPECT().Stop()
	}
}

// start runs the scheduler loop in the background and stops it when the test ends
func start(t *testing.T, tm *testSchedulerMocks) {
	expectTickers(tm)

	errCh := make(chan error, 1)
	go func() {
		errCh <- tm.scheduler.Start(context.Background())
	}()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), waitFor)
		defer cancel()
		assert.NoError(t, tm.scheduler.Stop(ctx))
		assert.NoError(t, <-errCh)
	})
}

func doneSummary(id string) *pipeline.Summary {
	return &pipeline.Summary{RunID: id, State: pipeline.StateDone, RecordsSeen: 3, RecordsUpserted: 3}
}

func TestScheduler_Name(t *testing.T) {
	tm := setupTestScheduler(t, partialGroups)
	assert.Equal(t, sweeper.SCHEDULER_NAME, tm.scheduler.Name())
}

func TestScheduler_FirstRunStartsImmediately(t *testing.T) {
	tm := setupTestScheduler(t, completeGroups)

	tm.runner.EXPECT().Run(gomock.Any()).Return(doneSummary("run-1"), nil)

	start(t, tm)

	require.Eventually(t, func() bool {
		return tm.scheduler.LastSummary() != nil
	}, waitFor, pollEvery)
	assert.Equal(t, "run-1", tm.scheduler.LastSummary().RunID)
	assert.True(t, tm.scheduler.ConfigComplete())
}

func TestScheduler_TicksRunAgain(t *testing.T) {
	tm := setupTestScheduler(t, completeGroups)

	var calls atomic.Int32
	tm.runner.EXPECT().Run(gomock.Any()).DoAndReturn(func(context.Context) (*pipeline.Summary, error) {
		n := calls.Add(1)
		return doneSummary(fmt.Sprintf("run-%d", n)), nil
	}).Times(2)

	start(t, tm)

	require.Eventually(t, func() bool {
		return tm.scheduler.LastSummary() != nil && !tm.scheduler.Syncing()
	}, waitFor, pollEvery)

	tm.syncCh <- time.Now()

	require.Eventually(t, func() bool {
		s := tm.scheduler.LastSummary()
		return s != nil && s.RunID == "run-2"
	}, waitFor, pollEvery)
}

func TestScheduler_OverlappingTickIsSkipped(t *testing.T) {
	tm := setupTestScheduler(t, completeGroups)

	release := make(chan struct{})
	tm.runner.EXPECT().Run(gomock.Any()).DoAndReturn(func(context.Context) (*pipeline.Summary, error) {
		<-release
		return doneSummary("run-1"), nil
	}).Times(1)

	start(t, tm)

	require.Eventually(t, tm.scheduler.Syncing, waitFor, pollEvery)

	// The loop receives the tick while the first run is blocked
	tm.syncCh <- time.Now()
	tm.hbCh <- time.Now()

	_, err := tm.scheduler.TriggerNow(context.Background())
	assert.ErrorIs(t, err, sweeper.ErrSyncInProgress)

	close(release)
	require.Eventually(t, func() bool {
		return !tm.scheduler.Syncing()
	}, waitFor, pollEvery)
	assert.Equal(t, "run-1", tm.scheduler.LastSummary().RunID)
}

func TestScheduler_FailedRunKeepsLooping(t *testing.T) {
	tm := setupTestScheduler(t, completeGroups)

	gomock.InOrder(
		tm.runner.EXPECT().Run(gomock.Any()).Return(
			&pipeline.Summary{RunID: "run-1", State: pipeline.StateFailed, Error: "source unavailable"},
			fmt.Errorf("%w: timeout", domain.ErrSourceUnavailable),
		),
		tm.runner.EXPECT().Run(gomock.Any()).Return(doneSummary("run-2"), nil),
	)

	start(t, tm)

	require.Eventually(t, func() bool {
		s := tm.scheduler.LastSummary()
		return s != nil && s.State == pipeline.StateFailed && !tm.scheduler.Syncing()
	}, waitFor, pollEvery)

	tm.syncCh <- time.Now()

	require.Eventually(t, func() bool {
		s := tm.scheduler.LastSummary()
		return s != nil && s.State == pipeline.StateDone
	}, waitFor, pollEvery)
}

func TestScheduler_IncompleteConfigDoesNotSync(t *testing.T) {
	tm := setupTestScheduler(t, partialGroups)

	start(t, tm)

	// Heartbeats keep flowing without any run
	tm.hbCh <- time.Now()
	tm.hbCh <- time.Now()

	assert.False(t, tm.scheduler.ConfigComplete())
	assert.Nil(t, tm.scheduler.LastSummary())

	_, err := tm.scheduler.TriggerNow(context.Background())
	assert.ErrorIs(t, err, sweeper.ErrSyncDisabled)
}

func TestScheduler_TriggerNow(t *testing.T) {
	tm := setupTestScheduler(t, completeGroups)

	tm.runner.EXPECT().Run(gomock.Any()).Return(doneSummary("manual"), nil)

	summary, err := tm.scheduler.TriggerNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "manual", summary.RunID)
	assert.Equal(t, "manual", tm.scheduler.LastSummary().RunID)
	assert.False(t, tm.scheduler.Syncing())
}

func TestScheduler_TriggerNowNilSummary(t *testing.T) {
	tm := setupTestScheduler(t, completeGroups)

	tm.runner.EXPECT().Run(gomock.Any()).Return(nil, errors.New("boom"))

	summary, err := tm.scheduler.TriggerNow(context.Background())
	require.Error(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, pipeline.StateFailed, summary.State)
	assert.Equal(t, "boom", summary.Error)
}

func TestScheduler_LastSummaryIsACopy(t *testing.T) {
	tm := setupTestScheduler(t, completeGroups)

	tm.runner.EXPECT().Run(gomock.Any()).Return(doneSummary("manual"), nil)

	_, err := tm.scheduler.TriggerNow(context.Background())
	require.NoError(t, err)

	s := tm.scheduler.LastSummary()
	s.RecordsSeen = 99
	assert.Equal(t, 3, tm.scheduler.LastSummary().RecordsSeen)
}

func TestScheduler_NilRunnerDisablesSync(t *testing.T) {
	tm := setupTestScheduler(t, completeGroups)
	scheduler := sweeper.NewScheduler(tm.config, nil, tm.clock)

	_, err := scheduler.TriggerNow(context.Background())
	assert.ErrorIs(t, err, sweeper.ErrSyncDisabled)
}

func TestScheduler_StartTwice(t *testing.T) {
	tm := setupTestScheduler(t, partialGroups)
	start(t, tm)

	// Wait for the loop to be up by pushing a heartbeat through it
	tm.hbCh <- time.Now()

	err := tm.scheduler.Start(context.Background())
	assert.Error(t, err)
}

func TestScheduler_StopWaitsForInFlightRun(t *testing.T) {
	tm := setupTestScheduler(t, completeGroups)
	expectTickers(tm)

	release := make(chan struct{})
	var finished atomic.Bool
	tm.runner.EXPECT().Run(gomock.Any()).DoAndReturn(func(context.Context) (*pipeline.Summary, error) {
		<-release
		finished.Store(true)
		return doneSummary("run-1"), nil
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- tm.scheduler.Start(context.Background())
	}()
	require.Eventually(t, tm.scheduler.Syncing, waitFor, pollEvery)

	// A short deadline expires while the run is blocked
	shortCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := tm.scheduler.Stop(shortCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.NoError(t, <-errCh)

	close(release)
	require.Eventually(t, finished.Load, waitFor, pollEvery)
	require.Eventually(t, func() bool {
		return !tm.scheduler.Syncing()
	}, waitFor, pollEvery)
	assert.Equal(t, "run-1", tm.scheduler.LastSummary().RunID)
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	tm := setupTestScheduler(t, partialGroups)
	assert.NoError(t, tm.scheduler.Stop(context.Background()))
}

func TestScheduler_ContextCancelEndsLoop(t *testing.T) {
	tm := setupTestScheduler(t, partialGroups)
	expectTickers(tm)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- tm.scheduler.Start(ctx)
	}()
	tm.hbCh <- time.Now()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("scheduler did not stop after context cancellation")
	}
}

func TestSchedulerConfig_Complete(t *testing.T) {
	assert.True(t, (&sweeper.SchedulerConfig{KeyGroups: completeGroups}).Complete())
	assert.False(t, (&sweeper.SchedulerConfig{KeyGroups: partialGroups}).Complete())
	assert.True(t, (&sweeper.SchedulerConfig{}).Complete())
}

func TestScheduler_NonPositiveIntervalsUseDefaults(t *testing.T) {
	tm := setupTestScheduler(t, completeGroups)
	scheduler := sweeper.NewScheduler(&sweeper.SchedulerConfig{
		Interval:          0,
		HeartbeatInterval: -time.Second,
		KeyGroups:         completeGroups,
	}, tm.runner, tm.clock)

	tm.clock.EXPECT().NewTicker(sweeper.DEFAULT_HEARTBEAT_INTERVAL).Return(tm.heartbeat)
	tm.heartbeat.EXPECT().C().Return((<-chan time.Time)(tm.hbCh)).AnyTimes()
	tm.heartbeat.EXPECT().Stop()
	tm.clock.EXPECT().NewTicker(sweeper.DEFAULT_INTERVAL).Return(tm.syncTick)
	tm.syncTick.EXPECT().C().Return((<-chan time.Time)(tm.syncCh)).AnyTimes()
	tm.syncTick.EXPECT().Stop()

	ran := make(chan struct{})
	tm.runner.EXPECT().Run(gomock.Any()).DoAndReturn(func(context.Context) (*pipeline.Summary, error) {
		close(ran)
		return doneSummary("run-1"), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- scheduler.Start(ctx)
	}()

	select {
	case <-ran:
	case <-time.After(waitFor):
		t.Fatal("first run did not start")
	}
	tm.hbCh <- time.Now()

	cancel()
	require.NoError(t, <-errCh)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), waitFor)
	defer stopCancel()
	assert.NoError(t, scheduler.Stop(stopCtx))
}

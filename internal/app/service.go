// Package service wires the scoring pipeline to its sources, sinks and
// refresh scheduling, and implements the dependencies of the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/scoutcalc/internal/adapters/mq/queue"
	"github.com/okian/scoutcalc/internal/adapters/mq/worker"
	"github.com/okian/scoutcalc/internal/adapters/repository"
	"github.com/okian/scoutcalc/internal/adapters/source"
	"github.com/okian/scoutcalc/internal/adapters/sqlstore"
	"github.com/okian/scoutcalc/internal/domain/dedupe"
	"github.com/okian/scoutcalc/internal/domain/model"
	"github.com/okian/scoutcalc/internal/domain/pipeline"
	"github.com/okian/scoutcalc/internal/domain/rubric"
	"github.com/okian/scoutcalc/internal/domain/types"
	"github.com/okian/scoutcalc/pkg/logger"
	"github.com/okian/scoutcalc/pkg/metrics"
)

const (
	defaultQueueSize  = 1
	defaultDedupeSize = 50_000
	defaultMaxLimit   = 100
	shutdownTimeout   = 5 * time.Second
)

// RecordStore persists submissions and published tables. *sqlstore.Store
// implements it.
type RecordStore interface {
	source.Source
	InsertRaw(ctx context.Context, rec model.RawRecord) (model.RawRecord, error)
	SubmissionIDs(ctx context.Context) ([]string, error)
	Publish(ctx context.Context, res pipeline.Result, meta model.RunMeta) error
	Published(ctx context.Context) (pipeline.Result, model.RunMeta, bool, error)
}

// Service implements the API dependencies for the scouting calculator.
type Service struct {
	mu    sync.RWMutex
	runMu sync.Mutex

	// Core components
	rubric    *rubric.Rubric
	source    source.Source
	store     RecordStore
	snapshots repository.Store
	deduper   dedupe.Deduper
	queue     *queue.InMemoryQueue
	refresher *worker.Refresher
	watcher   *source.Watcher

	// Configuration
	queueSize        int
	dedupeSize       int
	maxLimit         int
	populationStdDev bool
	refreshOnStart   bool
	watchPath        string
	watchDebounce    time.Duration

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a Service. Components are created by Start.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:  defaultQueueSize,
		dedupeSize: defaultDedupeSize,
		maxLimit:   defaultMaxLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	switch {
	case s.store == nil:
	case s.source == nil:
		s.source = s.store
	case !sameStore(s.source, s.store):
		// submissions stored through Ingest are scored with the file rows
		s.source = source.Merge(s.source, s.store)
	}
	s.snapshots = repository.NewSnapshotStore(repository.WithMaxLimit(s.maxLimit))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

func sameStore(src source.Source, store RecordStore) bool {
	rs, ok := src.(RecordStore)
	return ok && rs == store
}

// Start warms state from storage, starts the refresh worker and, when
// configured, runs the pipeline once and starts watching the source file.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.rubric == nil {
		return ErrNoRubric
	}
	if s.source == nil {
		return ErrNoSource
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting scouting service...", logger.String("season", s.rubric.Season))

	if err := s.warm(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.refresher = worker.NewRefresher(s.queue, s)
	go s.refresher.Run(runCtx)

	if s.refreshOnStart {
		if _, err := s.Refresh(ctx); err != nil {
			s.logger.Warn(ctx, "initial refresh failed", logger.Error(err))
		}
	}

	if s.watchPath != "" {
		s.watcher = source.NewWatcher(s.watchPath, func(ctx context.Context, reason string) {
			s.RequestRefresh(ctx, reason)
		}, source.WithDebounce(s.watchDebounce))
		if err := s.watcher.Start(runCtx); err != nil {
			s.stopLocked(ctx)
			return fmt.Errorf("start watcher: %w", err)
		}
	}

	s.started = true
	s.logger.Info(ctx, "scouting service started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Bool("watching", s.watcher != nil),
	)
	return nil
}

// warm seeds the dedupe cache and the snapshot from the last published run.
func (s *Service) warm(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	ids, err := s.store.SubmissionIDs(ctx)
	if err != nil {
		return fmt.Errorf("load submission ids: %w", err)
	}
	s.deduper.Seed(ctx, ids)

	res, meta, ok, err := s.store.Published(ctx)
	if err != nil {
		return fmt.Errorf("load published tables: %w", err)
	}
	if ok {
		if err := s.snapshots.Publish(ctx, res, meta); err != nil {
			return err
		}
		s.logger.Info(ctx, "restored published tables",
			logger.String("run", meta.ID),
			logger.Int("teams", meta.Teams))
	}
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping scouting service...")
	s.stopLocked(ctx)
	s.started = false
	s.logger.Info(ctx, "scouting service stopped")
}

func (s *Service) stopLocked(ctx context.Context) {
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			s.logger.Warn(ctx, "stop watcher", logger.Error(err))
		}
		s.watcher = nil
	}
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.refresher != nil {
		sctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		if err := s.refresher.Shutdown(sctx); err != nil {
			s.logger.Warn(ctx, "stop refresher", logger.Error(err))
		}
		cancel()
	}
	if s.cancel != nil {
		s.cancel()
	}
}

// Refresh runs the pipeline over the full record set and publishes the
// result, first to the record store and then to the in-memory snapshot.
// Runs are serialized; a failed run leaves the previous tables in place.
func (s *Service) Refresh(ctx context.Context) (model.RunMeta, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	meta := model.RunMeta{ID: uuid.NewString(), StartedAt: time.Now().UTC()}
	if s.rubric == nil {
		return meta, ErrNoRubric
	}
	if s.source == nil {
		return meta, ErrNoSource
	}
	meta.Season = s.rubric.Season

	records, err := s.source.Records(ctx)
	if err != nil {
		return meta, s.failRun(ctx, "fetch", err)
	}

	res := pipeline.Run(records, s.rubric, s.pipelineOptions()...)
	meta.FinishedAt = time.Now().UTC()
	meta.Records = len(res.Records)
	meta.Teams = len(res.Aggregates)
	meta.Issues = len(res.Issues)

	if s.store != nil {
		if err := s.store.Publish(ctx, res, meta); err != nil {
			return meta, s.failRun(ctx, "publish", err)
		}
	}
	if err := s.snapshots.Publish(ctx, res, meta); err != nil {
		return meta, s.failRun(ctx, "snapshot", err)
	}

	metrics.RecordPipelineRun("ok")
	metrics.RecordPipelineDuration(float64(meta.FinishedAt.Sub(meta.StartedAt).Microseconds()) / 1000)
	metrics.RecordRecordsScored(meta.Records)
	for _, issue := range res.Issues {
		metrics.RecordDataQualityIssue(string(issue.Kind))
		s.log().Debug(ctx, "data quality issue", logger.String("issue", issue.String()))
	}
	s.log().Info(ctx, "pipeline run published",
		logger.String("run", meta.ID),
		logger.String("season", meta.Season),
		logger.Int("records", meta.Records),
		logger.Int("teams", meta.Teams),
		logger.Int("issues", meta.Issues),
	)
	return meta, nil
}

func (s *Service) failRun(ctx context.Context, stage string, err error) error {
	metrics.RecordPipelineRun("error")
	metrics.RecordErrorByComponent("service", stage+"_failed")
	s.log().Error(ctx, "pipeline run failed", logger.String("stage", stage), logger.Error(err))
	return fmt.Errorf("%w: %s: %w", ErrRefresh, stage, err)
}

func (s *Service) pipelineOptions() []pipeline.Option {
	if s.populationStdDev {
		return []pipeline.Option{pipeline.WithPopulationStdDev()}
	}
	return nil
}

// RequestRefresh schedules an asynchronous refresh. It returns false when a
// refresh is already pending, in which case the request is coalesced into it.
func (s *Service) RequestRefresh(ctx context.Context, reason string) bool {
	s.mu.RLock()
	q := s.queue
	s.mu.RUnlock()
	if q == nil {
		metrics.RecordRefreshRequest("coalesced")
		return false
	}

	queued := q.Enqueue(ctx, queue.Request{
		ID:          uuid.NewString(),
		Reason:      reason,
		RequestedAt: time.Now(),
	})
	if queued {
		metrics.RecordRefreshRequest("queued")
	} else {
		metrics.RecordRefreshRequest("coalesced")
	}
	s.log().Debug(ctx, "refresh requested", logger.String("reason", reason), logger.Bool("queued", queued))
	return queued
}

// Ingest stores one submission. duplicate is true when its submission ID was
// already seen; the returned record carries the assigned ID.
func (s *Service) Ingest(ctx context.Context, rec model.RawRecord) (duplicate bool, stored model.RawRecord, err error) {
	if s.store == nil {
		return false, rec, ErrIngestDisabled
	}
	if rec.Team <= 0 || rec.Match <= 0 {
		return false, rec, fmt.Errorf("%w: team and match must be positive", ErrInvalidRecord)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	if s.deduper.SeenAndRecord(ctx, rec.ID) {
		metrics.RecordSubmissionDuplicate()
		return true, rec, nil
	}
	stored, err = s.store.InsertRaw(ctx, rec)
	switch {
	case errors.Is(err, sqlstore.ErrDuplicate):
		metrics.RecordSubmissionDuplicate()
		return true, stored, nil
	case err != nil:
		s.deduper.Unrecord(ctx, rec.ID)
		metrics.RecordErrorByComponent("service", "ingest_failed")
		return false, rec, err
	}
	metrics.RecordSubmissionAccepted()
	s.log().Debug(ctx, "submission stored",
		logger.String("id", stored.ID),
		logger.Int("team", stored.Team),
		logger.Int("match", stored.Match))
	return false, stored, nil
}

// LastRun returns the run behind the current tables.
func (s *Service) LastRun() (model.RunMeta, bool) {
	snap := s.snapshots.Current()
	if snap == nil {
		return model.RunMeta{}, false
	}
	return snap.Meta, true
}

// Records returns the published scored and sequenced records.
func (s *Service) Records(_ context.Context) []model.SequencedRecord {
	if snap := s.snapshots.Current(); snap != nil && snap.Result.Records != nil {
		return snap.Result.Records
	}
	return []model.SequencedRecord{}
}

// Aggregates returns the published team aggregate table.
func (s *Service) Aggregates(_ context.Context) []model.TeamAggregate {
	if snap := s.snapshots.Current(); snap != nil && snap.Result.Aggregates != nil {
		return snap.Result.Aggregates
	}
	return []model.TeamAggregate{}
}

// Normalized returns the published normalized aggregate table.
func (s *Service) Normalized(_ context.Context) []model.NormalizedAggregate {
	if snap := s.snapshots.Current(); snap != nil && snap.Result.Normalized != nil {
		return snap.Result.Normalized
	}
	return []model.NormalizedAggregate{}
}

// Leaderboard returns the best n teams for metric.
func (s *Service) Leaderboard(ctx context.Context, metric repository.Metric, n int) ([]types.Entry, error) {
	return s.snapshots.TopN(ctx, metric, n)
}

// Team returns one team's published view.
func (s *Service) Team(ctx context.Context, team int) (types.TeamView, error) {
	return s.snapshots.Team(ctx, team)
}

// Match returns every team scouted in match.
func (s *Service) Match(ctx context.Context, match int) (types.MatchView, error) {
	return s.snapshots.Match(ctx, match)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":    s.started,
		"queueSize":  s.queueSize,
		"dedupeSize": s.dedupeSize,
		"dedupeSeen": s.deduper.Size(),
		"ingest":     s.store != nil,
	}
	if s.rubric != nil {
		stats["season"] = s.rubric.Season
	}
	if s.queue != nil {
		n := s.queue.Len(context.Background())
		stats["queueLength"] = n
		metrics.UpdateRefreshQueueSize(n)
	}
	if snap := s.snapshots.Current(); snap != nil {
		stats["lastRun"] = snap.Meta.ID
		stats["lastRunAt"] = snap.Meta.FinishedAt
		stats["records"] = snap.Meta.Records
		stats["teams"] = snap.Meta.Teams
		stats["issues"] = snap.Meta.Issues
	}
	return stats
}

// Size returns the number of remembered submission IDs.
func (s *Service) Size() int64 {
	return s.deduper.Size()
}

func (s *Service) log() logger.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logger.Get()
}

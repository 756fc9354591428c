package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/scoutcalc/internal/domain/model"
	"github.com/okian/scoutcalc/internal/domain/pipeline"
	"github.com/okian/scoutcalc/internal/domain/types"
	"github.com/okian/scoutcalc/pkg/metrics"
)

// Snapshot is an immutable view of one pipeline run.
type Snapshot struct {
	Meta   model.RunMeta
	Result pipeline.Result

	teamIndex  map[int]int   // team -> position in Result.Aggregates
	teamRecs   map[int][]int // team -> positions in Result.Records
	matchRecs  map[int][]int // match -> positions in Result.Records
	rankings   map[Metric][]types.Entry
	totalRanks map[int]int
}

func newSnapshot(res pipeline.Result, meta model.RunMeta) *Snapshot {
	s := &Snapshot{
		Meta:      meta,
		Result:    res,
		teamIndex: make(map[int]int, len(res.Aggregates)),
		teamRecs:  make(map[int][]int, len(res.Aggregates)),
		matchRecs: make(map[int][]int),
		rankings:  make(map[Metric][]types.Entry, len(Metrics)),
	}
	for i, a := range res.Aggregates {
		s.teamIndex[a.Team] = i
	}
	for i, r := range res.Records {
		s.teamRecs[r.Team] = append(s.teamRecs[r.Team], i)
		s.matchRecs[r.Match] = append(s.matchRecs[r.Match], i)
	}
	for _, m := range Metrics {
		s.rankings[m] = rank(m, res.Aggregates, res.Normalized)
	}
	s.totalRanks = make(map[int]int, len(res.Aggregates))
	for _, e := range s.rankings[MetricTotal] {
		s.totalRanks[e.Team] = e.Rank
	}
	return s
}

var _ Store = (*SnapshotStore)(nil)

// SnapshotStore implements Store by swapping whole snapshots atomically.
type SnapshotStore struct {
	snapshot atomic.Pointer[Snapshot]
	maxLimit int
}

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithMaxLimit caps the number of entries TopN returns.
func WithMaxLimit(n int) Option {
	return func(s *SnapshotStore) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish implements Store.
func (s *SnapshotStore) Publish(_ context.Context, res pipeline.Result, meta model.RunMeta) error {
	if meta.FinishedAt.IsZero() {
		meta.FinishedAt = time.Now()
	}
	s.snapshot.Store(newSnapshot(res, meta))
	metrics.UpdateSnapshot(meta.FinishedAt, len(res.Records))
	metrics.UpdateTeamsAggregated(len(res.Aggregates))
	return nil
}

// Current implements Store.
func (s *SnapshotStore) Current() *Snapshot {
	return s.snapshot.Load()
}

// TopN implements Store.
func (s *SnapshotStore) TopN(_ context.Context, metric Metric, n int) ([]types.Entry, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	if _, err := ParseMetric(string(metric)); err != nil {
		metrics.RecordErrorByComponent("repository", "unknown_metric")
		return nil, err
	}
	if s.maxLimit > 0 && n > s.maxLimit {
		n = s.maxLimit
	}
	snap := s.Current()
	if snap == nil {
		return []types.Entry{}, nil
	}
	all := snap.rankings[metric]
	if n > len(all) {
		n = len(all)
	}
	out := make([]types.Entry, n)
	copy(out, all[:n])
	return out, nil
}

// Team implements Store.
func (s *SnapshotStore) Team(_ context.Context, team int) (types.TeamView, error) {
	snap := s.Current()
	if snap == nil {
		return types.TeamView{}, fmt.Errorf("team %d: %w", team, ErrNotFound)
	}
	i, ok := snap.teamIndex[team]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.TeamView{}, fmt.Errorf("team %d: %w", team, ErrNotFound)
	}
	view := types.TeamView{
		Team:      team,
		Rank:      snap.totalRanks[team],
		Aggregate: snap.Result.Aggregates[i],
		Matches:   make([]model.SequencedRecord, 0, len(snap.teamRecs[team])),
	}
	if i < len(snap.Result.Normalized) {
		view.Normalized = snap.Result.Normalized[i]
	}
	for _, idx := range snap.teamRecs[team] {
		view.Matches = append(view.Matches, snap.Result.Records[idx])
	}
	return view, nil
}

// Match implements Store.
func (s *SnapshotStore) Match(_ context.Context, match int) (types.MatchView, error) {
	snap := s.Current()
	if snap == nil || len(snap.matchRecs[match]) == 0 {
		return types.MatchView{}, fmt.Errorf("match %d: %w", match, ErrNotFound)
	}
	view := types.MatchView{Match: match, Teams: make([]types.MatchTeam, 0, len(snap.matchRecs[match]))}
	for _, idx := range snap.matchRecs[match] {
		rec := snap.Result.Records[idx]
		view.Teams = append(view.Teams, types.MatchTeam{
			Record:    rec,
			Aggregate: snap.Result.Aggregates[snap.teamIndex[rec.Team]],
		})
	}
	return view, nil
}

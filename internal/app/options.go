package service

import (
	"time"

	"github.com/okian/scoutcalc/internal/adapters/source"
	"github.com/okian/scoutcalc/internal/domain/rubric"
	"github.com/okian/scoutcalc/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRubric sets the scoring rubric.
func WithRubric(rb *rubric.Rubric) Option {
	return func(s *Service) {
		if rb != nil {
			s.rubric = rb
		}
	}
}

// WithSource sets where raw records are read from on every refresh.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithRecordStore enables ingest and SQL publication. The store is always
// read on refresh: alone when no source is set, otherwise after the source.
func WithRecordStore(store RecordStore) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithQueueSize sets how many refresh requests may wait. Extra requests coalesce.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the submission-id cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxLeaderboardLimit caps leaderboard queries.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithPopulationStdDev switches the total-score deviation to the population estimator.
func WithPopulationStdDev(enabled bool) Option {
	return func(s *Service) {
		s.populationStdDev = enabled
	}
}

// WithRefreshOnStart runs the pipeline once while starting.
func WithRefreshOnStart(enabled bool) Option {
	return func(s *Service) {
		s.refreshOnStart = enabled
	}
}

// WithWatch requests a refresh whenever path changes on disk.
func WithWatch(path string, debounce time.Duration) Option {
	return func(s *Service) {
		s.watchPath = path
		s.watchDebounce = debounce
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

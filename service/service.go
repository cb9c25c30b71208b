package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/foomo/recorddescription-mcp/description"
	"github.com/foomo/recorddescription-mcp/marc"
	"github.com/foomo/recorddescription-mcp/record"
	"github.com/foomo/recorddescription-mcp/service/metrics"
	"github.com/foomo/recorddescription-mcp/service/vo"
	"github.com/foomo/recorddescription-mcp/solr"
)

var ErrUnknownLevel = description.ErrUnknownLevel

type Service interface {
	Describe(ctx context.Context, id string, level description.Level) (*vo.RecordDescription, error)
	DescribeRecord(ctx context.Context, rec *record.Driver, level description.Level) (*vo.RecordDescription, error)
	DescribeBatch(ctx context.Context, ids []string, level description.Level) (*vo.BatchDescription, error)
}

// RecordSource loads catalog records by id.
type RecordSource interface {
	Record(ctx context.Context, id string) (*record.Driver, error)
}

type Settings struct {
	BatchConcurrency int
}

func DefaultSettings() Settings {
	return Settings{BatchConcurrency: 4}
}

type service struct {
	logger   *zap.Logger
	source   RecordSource
	metrics  *metrics.Metrics
	settings Settings
}

func NewService(
	logger *zap.Logger,
	source RecordSource,
	m *metrics.Metrics,
	settings Settings,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}
	if settings.BatchConcurrency < 1 {
		settings.BatchConcurrency = 1
	}
	return &service{
		logger:   logger,
		source:   source,
		metrics:  m,
		settings: settings,
	}
}

func (s *service) Describe(ctx context.Context, id string, level description.Level) (*vo.RecordDescription, error) {
	if s.source == nil {
		return nil, errors.New("no record source configured")
	}
	start := time.Now()
	provider, err := description.ProviderFor(level)
	if err != nil {
		s.fail(level, id, err)
		return nil, err
	}
	rec, err := s.source.Record(ctx, id)
	if err != nil {
		s.fail(level, id, err)
		return nil, fmt.Errorf("failed to load record %s: %w", id, err)
	}
	return s.describe(provider, rec, level, start)
}

func (s *service) DescribeRecord(ctx context.Context, rec *record.Driver, level description.Level) (*vo.RecordDescription, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: no record given", marc.ErrInvalidRecord)
	}
	provider, err := description.ProviderFor(level)
	if err != nil {
		s.fail(level, rec.UniqueID(), err)
		return nil, err
	}
	return s.describe(provider, rec, level, start)
}

// DescribeBatch describes the records in parallel. The result keeps the order
// of ids and the first failure cancels the remaining lookups.
func (s *service) DescribeBatch(ctx context.Context, ids []string, level description.Level) (*vo.BatchDescription, error) {
	if _, err := description.ProviderFor(level); err != nil {
		return nil, err
	}
	logger := s.logger.With(zap.String("batchID", uuid.NewString()), zap.Int("size", len(ids)))
	logger.Debug("describing batch", zap.String("level", string(level)))

	results := make([]vo.RecordDescription, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.BatchConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			d, err := s.Describe(gctx, id, level)
			if err != nil {
				return err
			}
			results[i] = *d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn("batch failed", zap.Error(err))
		return nil, err
	}
	return &vo.BatchDescription{Level: level, Descriptions: results}, nil
}

func (s *service) describe(provider description.Provider, rec *record.Driver, level description.Level, start time.Time) (*vo.RecordDescription, error) {
	desc, err := provider.CreateDescription(rec)
	if err != nil {
		s.fail(level, rec.UniqueID(), err)
		return nil, fmt.Errorf("failed to describe record %s: %w", rec.UniqueID(), err)
	}
	took := time.Since(start)
	s.metrics.ObserveCreated(string(level), took)
	s.logger.Debug("described record",
		zap.String("id", rec.UniqueID()),
		zap.String("level", string(level)),
		zap.Int("categories", desc.Len()),
		zap.Duration("took", took),
	)
	return &vo.RecordDescription{
		ID:          rec.UniqueID(),
		Level:       level,
		OpenAccess:  rec.IsOpenAccess(),
		Description: desc,
	}, nil
}

func (s *service) fail(level description.Level, id string, err error) {
	reason := failureReason(err)
	s.metrics.IncrementFailures(string(level), reason)
	s.logger.Warn("failed to describe record",
		zap.String("id", id),
		zap.String("level", string(level)),
		zap.String("reason", reason),
		zap.Error(err),
	)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownLevel):
		return "unknown_level"
	case errors.Is(err, solr.ErrNotFound):
		return "not_found"
	case errors.Is(err, marc.ErrInvalidRecord):
		return "invalid_record"
	case errors.Is(err, marc.ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "source"
	}
}

package extractor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/user/recipe-parser/internal/domain"
	"github.com/user/recipe-parser/internal/monitoring"
)

// Service is implemented by Extractor and Tracked.
type Service interface {
	Extract(ctx context.Context, rawURL string) (*domain.ExtractionResult, error)
}

// StatusRecorder stores the last outcome per URL.
type StatusRecorder interface {
	RecordStatus(ctx context.Context, status *domain.ExtractionStatus) error
}

// Tracked wraps a Service with metrics and status recording. Both are optional.
type Tracked struct {
	next     Service
	metrics  *monitoring.Metrics
	recorder StatusRecorder
	logger   *zap.Logger
	now      func() time.Time
}

func NewTracked(next Service, metrics *monitoring.Metrics, recorder StatusRecorder, logger *zap.Logger) *Tracked {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracked{next: next, metrics: metrics, recorder: recorder, logger: logger, now: time.Now}
}

func (t *Tracked) Extract(ctx context.Context, rawURL string) (*domain.ExtractionResult, error) {
	start := t.now()
	result, err := t.next.Extract(ctx, rawURL)

	status := &domain.ExtractionStatus{URL: rawURL, CheckedAt: t.now().UTC()}
	switch {
	case err != nil:
		status.Outcome = domain.OutcomeOf(err)
		status.Error = err.Error()
	case len(result.Ingredients) == 0:
		status.Outcome = domain.OutcomeEmpty
		status.Strategy = result.Strategy
	default:
		status.Outcome = domain.OutcomeFound
		status.Strategy = result.Strategy
		status.IngredientCount = len(result.Ingredients)
	}

	if t.metrics != nil {
		t.metrics.ObserveExtraction(string(status.Outcome), string(status.Strategy), t.now().Sub(start).Seconds())
	}
	if t.recorder != nil && status.Outcome != domain.OutcomeInvalid {
		// The caller may have gone away; the outcome is still worth keeping.
		if rerr := t.recorder.RecordStatus(context.WithoutCancel(ctx), status); rerr != nil {
			t.logger.Warn("failed to record extraction status", zap.String("url", rawURL), zap.Error(rerr))
		}
	}
	return result, err
}

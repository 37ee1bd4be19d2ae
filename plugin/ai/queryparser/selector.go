package queryparser

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/tutorcal/tutorcal/internal/errors"
	"github.com/tutorcal/tutorcal/internal/observability"
	"github.com/tutorcal/tutorcal/server/queryengine"
)

// Selector tries a primary parser and falls back to a secondary one when
// the primary is missing or fails. The typical wiring is LLM first, pattern
// parser second, so the system keeps answering when the model endpoint is
// down or unconfigured.
type Selector struct {
	primary  Parser
	fallback Parser
	logger   *slog.Logger
}

// NewSelector creates a selector. primary may be nil; fallback must not be.
func NewSelector(primary, fallback Parser, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{primary: primary, fallback: fallback, logger: logger}
}

// Name implements Parser.
func (s *Selector) Name() string {
	if s.primary != nil {
		return s.primary.Name() + "+" + s.fallback.Name()
	}
	return s.fallback.Name()
}

// Parse implements Parser.
func (s *Selector) Parse(ctx context.Context, text string, today time.Time) (*queryengine.Query, error) {
	if s.primary != nil {
		q, err := s.primary.Parse(ctx, text, today)
		if err == nil {
			return q, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		observability.GlobalMetrics().RecordParserFallback()
		s.logger.Warn("primary parser failed, falling back",
			slog.String("primary", s.primary.Name()),
			slog.String("fallback", s.fallback.Name()),
			slog.String("error_code", string(apperrors.GetCodeFromError(err, apperrors.ErrCodeParserUnavailable))),
		)
	}
	return s.fallback.Parse(ctx, text, today)
}

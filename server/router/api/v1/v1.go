// Package v1 exposes the availability query engine over a thin HTTP
// surface. The handlers own no query semantics; they translate between
// HTTP and the engine's library contract.
package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/tutorcal/tutorcal/internal/errors"
	"github.com/tutorcal/tutorcal/internal/observability"
	"github.com/tutorcal/tutorcal/plugin/ai/queryparser"
	"github.com/tutorcal/tutorcal/server/queryengine"
	"github.com/tutorcal/tutorcal/store"
)

// APIV1Service wires the query engine, parser, and store into HTTP handlers.
type APIV1Service struct {
	engine  *queryengine.Engine
	store   *store.Store
	parser  queryparser.Parser
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAPIV1Service creates the v1 API service.
func NewAPIV1Service(engine *queryengine.Engine, st *store.Store, parser queryparser.Parser, logger *slog.Logger) *APIV1Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIV1Service{
		engine:  engine,
		store:   st,
		parser:  parser,
		logger:  logger,
		metrics: observability.GlobalMetrics(),
	}
}

// RegisterRoutes registers all v1 routes on the echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", s.Healthz)

	g := e.Group("/api/v1")
	g.POST("/query", s.ExecuteQuery)
	g.POST("/query/natural", s.ExecuteNaturalQuery)
	g.GET("/availability/:date", s.GetDayAvailability)
}

// Healthz reports backend connectivity.
// GET /healthz
func (s *APIV1Service) Healthz(c echo.Context) error {
	if err := s.store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// statusForError maps the error taxonomy onto HTTP statuses: validation
// problems are the caller's fault, migration problems mean the stored data
// is defective on the server side.
func statusForError(err error) int {
	switch apperrors.GetCodeFromError(err, "") {
	case apperrors.ErrCodeValidationFailed, apperrors.ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeStoreUnavailable, apperrors.ErrCodeParserUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
		"code":  string(apperrors.GetCodeFromError(err, "INTERNAL")),
	}
}

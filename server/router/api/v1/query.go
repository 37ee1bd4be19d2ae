package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "github.com/tutorcal/tutorcal/internal/errors"
	"github.com/tutorcal/tutorcal/internal/observability"
	"github.com/tutorcal/tutorcal/server/availability"
	"github.com/tutorcal/tutorcal/server/queryengine"
)

// QueryRequest is the body of POST /api/v1/query.
type QueryRequest struct {
	OwnerID string             `json:"ownerId"`
	Query   *queryengine.Query `json:"query"`
}

// NaturalQueryRequest is the body of POST /api/v1/query/natural.
type NaturalQueryRequest struct {
	OwnerID string `json:"ownerId"`
	Text    string `json:"text"`
}

// NaturalQueryResponse wraps the result together with the parsed query so
// callers can see how their text was interpreted.
type NaturalQueryResponse struct {
	Parser string              `json:"parser"`
	Result *queryengine.Result `json:"result"`
}

// ExecuteQuery executes a structured availability query.
// POST /api/v1/query
func (s *APIV1Service) ExecuteQuery(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if req.OwnerID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ownerId is required"})
	}

	intent := ""
	if req.Query != nil {
		intent = string(req.Query.Intent)
	}
	reqCtx := observability.NewRequestContext(s.logger, req.OwnerID, intent)

	result, err := s.runQuery(c, reqCtx, req.OwnerID, req.Query)
	if err != nil {
		return c.JSON(statusForError(err), errorBody(err))
	}
	return c.JSON(http.StatusOK, result)
}

// ExecuteNaturalQuery parses free text into a query, then executes it.
// POST /api/v1/query/natural
func (s *APIV1Service) ExecuteNaturalQuery(c echo.Context) error {
	var req NaturalQueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if req.OwnerID == "" || req.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ownerId and text are required"})
	}

	query, err := s.parser.Parse(c.Request().Context(), req.Text, time.Now().UTC())
	if err != nil {
		return c.JSON(statusForError(err), errorBody(err))
	}

	reqCtx := observability.NewRequestContext(s.logger, req.OwnerID, string(query.Intent))
	reqCtx.Debug("parsed natural-language query",
		slog.String(observability.LogFieldParser, s.parser.Name()))

	result, err := s.runQuery(c, reqCtx, req.OwnerID, query)
	if err != nil {
		return c.JSON(statusForError(err), errorBody(err))
	}
	return c.JSON(http.StatusOK, &NaturalQueryResponse{Parser: s.parser.Name(), Result: result})
}

// GetDayAvailability returns the normalized view of one date.
// GET /api/v1/availability/:date?ownerId=...
func (s *APIV1Service) GetDayAvailability(c echo.Context) error {
	ownerID := c.QueryParam("ownerId")
	if ownerID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ownerId is required"})
	}
	date := c.Param("date")
	if _, err := availability.ParseDate(date); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed date"})
	}

	calendar, err := s.store.LoadAvailability(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(statusForError(err), errorBody(err))
	}
	day, err := availability.Normalize(calendar.Entry(date))
	if err != nil {
		return c.JSON(statusForError(err), errorBody(err))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"date":       date,
		"day":        day,
		"legacyView": availability.DeriveLegacyView(day),
	})
}

func (s *APIV1Service) runQuery(c echo.Context, reqCtx *observability.RequestContext, ownerID string, query *queryengine.Query) (*queryengine.Result, error) {
	calendar, err := s.store.LoadAvailability(c.Request().Context(), ownerID)
	if err != nil {
		return nil, err
	}

	intent := ""
	if query != nil {
		intent = string(query.Intent)
	}
	s.metrics.RecordQuery(intent)

	result, err := s.engine.Execute(c.Request().Context(), query, calendar)
	s.metrics.RecordDuration(intent, reqCtx.Elapsed())
	if err != nil {
		s.metrics.RecordFailure(intent)
		reqCtx.Warn("query failed",
			slog.String(observability.LogFieldErrorCode, string(apperrors.GetCodeFromError(err, "INTERNAL"))),
			slog.Int64(observability.LogFieldDuration, reqCtx.Elapsed().Milliseconds()),
		)
		return nil, err
	}

	reqCtx.Info("query executed",
		slog.Int(observability.LogFieldResultCount, resultCount(result)),
		slog.Int64(observability.LogFieldDuration, reqCtx.Elapsed().Milliseconds()),
	)
	return result, nil
}

func resultCount(r *queryengine.Result) int {
	return len(r.Days) + len(r.Slots) + len(r.Suggestions)
}

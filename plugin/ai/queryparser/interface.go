// Package queryparser turns natural-language scheduling questions into
// structured availability queries. Two interchangeable implementations are
// provided: an LLM-backed parser and a deterministic pattern parser used as
// a fallback. Parser output is never trusted; the query engine re-validates
// every query regardless of which parser produced it.
package queryparser

import (
	"context"
	"time"

	"github.com/tutorcal/tutorcal/server/queryengine"
)

// Parser translates free-form text into a structured query.
type Parser interface {
	// Parse translates text into a query. today anchors relative
	// expressions such as "next week".
	Parse(ctx context.Context, text string, today time.Time) (*queryengine.Query, error)

	// Name identifies the parser implementation, for logging.
	Name() string
}

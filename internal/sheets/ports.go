package sheets

import (
	"context"

	"fintrack/internal/core"
)

// HistoryAppender is the outbound port for audit export targets.
type HistoryAppender interface {
	Append(ctx context.Context, e core.HistoryEntry) (rowRef string, err error)
}

package port

import (
	"context"

	"dotfolio/internal/domain/entity"
)

// Advisor turns a portfolio snapshot into prose commentary.
type Advisor interface {
	// Insights analyzes the snapshot without a question.
	Insights(ctx context.Context, snapshot entity.Snapshot) (string, error)

	// Ask answers a free-text question in the context of the snapshot.
	Ask(ctx context.Context, snapshot entity.Snapshot, question string) (string, error)
}

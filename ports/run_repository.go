package ports

import (
	"context"

	"churnscope/domain/churn"
)

// RunRepository persists run summaries for later comparison across runs.
// Only report numbers are stored, never fitted models.
type RunRepository interface {
	Save(ctx context.Context, report *churn.RunReport) error
}

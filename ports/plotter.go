package ports

import (
	"churnscope/domain/churn"
)

// Plotter turns a run report into visual artifacts (charts, workbooks).
// Nothing downstream consumes its output; it is a sink.
type Plotter interface {
	Plot(report *churn.RunReport) error
}

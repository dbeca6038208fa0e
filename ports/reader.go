package ports

import (
	"churnscope/domain/churn"
)

// TableReader loads a raw customer table from some tabular source
type TableReader interface {
	// Read loads the full table into memory with inferred column types
	Read() (*churn.Table, error)
}

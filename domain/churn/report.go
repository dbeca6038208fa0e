package churn

import (
	"churnscope/domain/core"
)

// CleaningOperation records one value-level change made by the cleaner,
// so imputation is auditable after the fact.
type CleaningOperation struct {
	Column   string `json:"column"`
	Row      int    `json:"row"`
	Op       string `json:"op"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
	Reason   string `json:"reason"`
}

// CleaningSummary aggregates what the cleaner did to the raw table
type CleaningSummary struct {
	RowsIn        int                 `json:"rows_in"`
	RowsOut       int                 `json:"rows_out"`
	DroppedColumn string              `json:"dropped_column"`
	ImputedMedian float64             `json:"imputed_median"`
	ImputedCount  int                 `json:"imputed_count"`
	Operations    []CleaningOperation `json:"operations"`
}

// ModelSummary is the reportable description of one fitted model
type ModelSummary struct {
	Family       string              `json:"family"`
	Features     []string            `json:"features"`
	Coefficients []Coefficient       `json:"coefficients,omitempty"` // logistic only
	Importances  []FeatureImportance `json:"importances,omitempty"`  // forest only
	NumTrees     int                 `json:"num_trees,omitempty"`
	OOBError     float64             `json:"oob_error,omitempty"`
}

// RunReport is the complete, structured output of one pipeline run. Every
// number the run prints or plots is reachable from here.
type RunReport struct {
	RunID     core.RunID     `json:"run_id"`
	StartedAt core.Timestamp `json:"started_at"`
	EndedAt   core.Timestamp `json:"ended_at"`
	InputFile string         `json:"input_file"`
	Seed      int64          `json:"seed"`

	DatasetRows    int     `json:"dataset_rows"`
	DatasetColumns int     `json:"dataset_columns"`
	ChurnRate      float64 `json:"churn_rate"`

	Cleaning CleaningSummary `json:"cleaning"`

	Segments  []SegmentTable     `json:"segments"`
	ByTenure  []NumericBySegment `json:"by_tenure,omitempty"`
	TrainRows int                `json:"train_rows"`
	TestRows  int                `json:"test_rows"`

	Models      []ModelSummary           `json:"models"`
	Evaluations []ClassMetrics           `json:"evaluations"`
	ROCCurves   []ROCCurve               `json:"roc_curves"`
	CrossVal    []CrossValidationSummary `json:"cross_validation,omitempty"`
	CostSweeps  []CostSweep              `json:"cost_sweeps"`
}

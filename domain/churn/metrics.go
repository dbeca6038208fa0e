package churn

// Binarize converts a churn probability to a predicted label at a threshold.
// The comparison is p >= t everywhere in the pipeline (evaluation, ROC and
// cost sweep all share this single operator).
func Binarize(p, threshold float64) bool {
	return p >= threshold
}

// ConfusionMatrix is the 2x2 counts table of predicted vs true labels at a
// fixed threshold. Invariant: TN+FP+FN+TP equals the scored table size.
type ConfusionMatrix struct {
	TN int `json:"tn"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TP int `json:"tp"`
}

// Total returns the number of scored rows
func (m ConfusionMatrix) Total() int {
	return m.TN + m.FP + m.FN + m.TP
}

// Accuracy returns (TP+TN)/N
func (m ConfusionMatrix) Accuracy() float64 {
	n := m.Total()
	if n == 0 {
		return 0
	}
	return float64(m.TP+m.TN) / float64(n)
}

// Sensitivity returns the true positive rate TP/(TP+FN)
func (m ConfusionMatrix) Sensitivity() float64 {
	if m.TP+m.FN == 0 {
		return 0
	}
	return float64(m.TP) / float64(m.TP+m.FN)
}

// Specificity returns the true negative rate TN/(TN+FP)
func (m ConfusionMatrix) Specificity() float64 {
	if m.TN+m.FP == 0 {
		return 0
	}
	return float64(m.TN) / float64(m.TN+m.FP)
}

// ClassMetrics bundles the threshold-dependent quality measures of one model
// on one table.
type ClassMetrics struct {
	Model       string          `json:"model"`
	Threshold   float64         `json:"threshold"`
	Confusion   ConfusionMatrix `json:"confusion"`
	Accuracy    float64         `json:"accuracy"`
	Sensitivity float64         `json:"sensitivity"`
	Specificity float64         `json:"specificity"`
}

// ROCPoint is one (FPR, TPR) pair with the threshold that produced it
type ROCPoint struct {
	Threshold float64 `json:"threshold"`
	FPR       float64 `json:"fpr"`
	TPR       float64 `json:"tpr"`
}

// ROCCurve is an ordered ROC curve (ascending FPR) with its AUC
type ROCCurve struct {
	Model  string     `json:"model"`
	Points []ROCPoint `json:"points"`
	AUC    float64    `json:"auc"`
}

// FoldMetrics is the outcome of one cross-validation evaluation
type FoldMetrics struct {
	Repeat      int     `json:"repeat"`
	Fold        int     `json:"fold"`
	AUC         float64 `json:"auc"`
	Sensitivity float64 `json:"sensitivity"`
	Specificity float64 `json:"specificity"`
}

// CrossValidationSummary aggregates folds x repeats evaluations
type CrossValidationSummary struct {
	Model           string        `json:"model"`
	Folds           int           `json:"folds"`
	Repeats         int           `json:"repeats"`
	PerFold         []FoldMetrics `json:"per_fold"`
	MeanAUC         float64       `json:"mean_auc"`
	MeanSensitivity float64       `json:"mean_sensitivity"`
	MeanSpecificity float64       `json:"mean_specificity"`
}

// Coefficient is one fitted logistic-regression term with its Wald test
type Coefficient struct {
	Feature  string  `json:"feature"`
	Estimate float64 `json:"estimate"`
	StdError float64 `json:"std_error"`
	ZValue   float64 `json:"z_value"`
	PValue   float64 `json:"p_value"`
}

// FeatureImportance carries the two random-forest importance measures
type FeatureImportance struct {
	Feature          string  `json:"feature"`
	MeanDecreaseAcc  float64 `json:"mean_decrease_accuracy"`
	MeanDecreaseGini float64 `json:"mean_decrease_gini"`
}

// GroupSummary describes one level of a categorical segment
type GroupSummary struct {
	Level      string  `json:"level"`
	Count      int     `json:"count"`
	Proportion float64 `json:"proportion"`
	ChurnRate  float64 `json:"churn_rate"`
}

// SegmentTable is the full summary of one categorical column
type SegmentTable struct {
	Column string         `json:"column"`
	Groups []GroupSummary `json:"groups"`
}

// NumericSummary describes a numeric column within one segment level
type NumericSummary struct {
	Level  string  `json:"level"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// NumericBySegment is a numeric column summarized per level of a categorical one
type NumericBySegment struct {
	Column  string           `json:"column"`
	By      string           `json:"by"`
	Summary []NumericSummary `json:"summary"`
}

package ports

// Classifier is the single capability every fitted model family exposes:
// an encoded feature vector in, a churn probability out. Implementations
// are immutable once fitted.
type Classifier interface {
	// Name identifies the model family (e.g. "logistic", "random_forest")
	Name() string

	// ProbYes returns P(churn) in [0,1] for one encoded feature vector
	ProbYes(features []float64) float64
}

package model

import (
	"churnscope/domain/churn"
	"churnscope/domain/core"
	"churnscope/ports"
)

// Family selects the classifier family to fit
type Family string

const (
	FamilyLogistic     Family = "logistic"
	FamilyRandomForest Family = "random_forest"
)

// TrainConfig specifies one training request. Features nil means the full
// feature set; a reduced set is a configuration choice, never a runtime
// decision.
type TrainConfig struct {
	Family   Family
	Features []string
	Logistic LogisticConfig
	Forest   ForestConfig
}

// FittedModel pairs a classifier with the encoder it was fitted under and
// its reportable summary. Training always returns a fresh value; fitted
// models are never mutated.
type FittedModel struct {
	classifier ports.Classifier
	encoder    *Encoder
	summary    churn.ModelSummary
}

// Train fits the requested family on the training table.
func Train(train *churn.Table, target string, cfg TrainConfig) (*FittedModel, error) {
	encoder, err := FitEncoder(train, target, cfg.Features)
	if err != nil {
		return nil, err
	}
	X, err := encoder.Transform(train)
	if err != nil {
		return nil, err
	}
	y, err := train.Labels(target)
	if err != nil {
		return nil, err
	}
	names := encoder.FeatureNames()

	switch cfg.Family {
	case FamilyLogistic:
		lcfg := cfg.Logistic
		if lcfg.MaxIter == 0 {
			lcfg = DefaultLogisticConfig()
		}
		m, err := FitLogistic(X, y, names, lcfg)
		if err != nil {
			return nil, err
		}
		return &FittedModel{
			classifier: m,
			encoder:    encoder,
			summary: churn.ModelSummary{
				Family:       string(FamilyLogistic),
				Features:     names,
				Coefficients: m.Coefficients(),
			},
		}, nil

	case FamilyRandomForest:
		fcfg := cfg.Forest
		if fcfg.NumTrees == 0 {
			fcfg = DefaultForestConfig()
		}
		m, err := FitForest(X, y, names, fcfg)
		if err != nil {
			return nil, err
		}
		return &FittedModel{
			classifier: m,
			encoder:    encoder,
			summary: churn.ModelSummary{
				Family:      string(FamilyRandomForest),
				Features:    names,
				Importances: m.Importances(),
				NumTrees:    fcfg.NumTrees,
				OOBError:    m.OOBError(),
			},
		}, nil

	default:
		return nil, core.NewConfigurationError("family", "unknown model family "+string(cfg.Family))
	}
}

// Classifier returns the fitted scoring function
func (m *FittedModel) Classifier() ports.Classifier { return m.classifier }

// Summary returns the reportable description of the fit
func (m *FittedModel) Summary() churn.ModelSummary { return m.summary }

// Score encodes a table with the training-time encoder and scores every
// row, implementing the predict_proba contract over tables.
func (m *FittedModel) Score(t *churn.Table) ([]float64, error) {
	X, err := m.encoder.Transform(t)
	if err != nil {
		return nil, err
	}
	scores := make([]float64, len(X))
	for i, row := range X {
		scores[i] = m.classifier.ProbYes(row)
	}
	return scores, nil
}

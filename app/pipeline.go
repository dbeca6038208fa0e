// Package app wires the pipeline stages into one sequential batch run:
// load -> clean -> summarize -> split -> train -> evaluate -> cost sweep.
package app

import (
	"context"
	"fmt"

	"churnscope/domain/churn"
	"churnscope/domain/core"
	"churnscope/internal"
	"churnscope/internal/clean"
	"churnscope/internal/config"
	"churnscope/internal/cost"
	"churnscope/internal/eval"
	"churnscope/internal/model"
	"churnscope/internal/segment"
	"churnscope/internal/split"
	"churnscope/ports"
)

// defaultSegmentColumns are the categorical attributes summarized for the
// report. All exist in the cleaned telco table.
var defaultSegmentColumns = []string{
	"gender", "SeniorCitizen", "Partner", "Dependents",
	"PhoneService", "InternetService", "Contract",
	"PaperlessBilling", "PaymentMethod",
}

// defaultNumericColumns are summarized per churn outcome as quartile
// tables.
var defaultNumericColumns = []string{"tenure", "MonthlyCharges", "TotalCharges"}

// Pipeline runs the whole churn analysis. Dependencies are injected;
// plotter and repository may be nil to skip those sinks.
type Pipeline struct {
	cfg     *config.Config
	log     *internal.Logger
	reader  ports.TableReader
	plotter ports.Plotter
	repo    ports.RunRepository
}

// NewPipeline creates a pipeline with its collaborators
func NewPipeline(cfg *config.Config, reader ports.TableReader, plotter ports.Plotter, repo ports.RunRepository, log *internal.Logger) *Pipeline {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Pipeline{cfg: cfg, log: log, reader: reader, plotter: plotter, repo: repo}
}

// Run executes one full analysis and returns the structured report.
// Any stage failure aborts the run with the stage named in the error.
func (p *Pipeline) Run(ctx context.Context) (*churn.RunReport, error) {
	report := &churn.RunReport{
		RunID:     core.NewRunID(),
		StartedAt: core.Now(),
		InputFile: p.cfg.Paths.InputFile,
		Seed:      p.cfg.Run.Seed,
	}
	cleanCfg := clean.DefaultConfig()
	target := cleanCfg.Target

	p.log.Info("run %s: loading %s", report.RunID, p.cfg.Paths.InputFile)
	raw, err := p.reader.Read()
	if err != nil {
		return nil, err
	}

	cleaned, err := clean.Clean(raw, cleanCfg)
	if err != nil {
		return nil, err
	}
	table := cleaned.Table
	report.Cleaning = cleaned.Summary
	report.DatasetRows = table.Rows()
	report.DatasetColumns = len(table.Columns)
	if report.ChurnRate, err = table.ChurnRate(target); err != nil {
		return nil, err
	}
	p.log.Info("run %s: %d rows cleaned, %d imputed, churn rate %.1f%%",
		report.RunID, table.Rows(), cleaned.Summary.ImputedCount, 100*report.ChurnRate)

	if err := p.summarize(table, target, report); err != nil {
		return nil, err
	}

	labels, err := table.Labels(target)
	if err != nil {
		return nil, err
	}
	trainIdx, testIdx, err := split.Stratified(labels, p.cfg.Run.TrainFraction, p.cfg.Run.Seed)
	if err != nil {
		return nil, err
	}
	trainTbl := table.Subset(trainIdx)
	testTbl := table.Subset(testIdx)
	report.TrainRows = trainTbl.Rows()
	report.TestRows = testTbl.Rows()
	truth, err := testTbl.Labels(target)
	if err != nil {
		return nil, err
	}

	for _, family := range []model.Family{model.FamilyLogistic, model.FamilyRandomForest} {
		trainCfg := p.trainConfig(family)

		p.log.Info("run %s: fitting %s", report.RunID, family)
		fitted, err := model.Train(trainTbl, target, trainCfg)
		if err != nil {
			return nil, fmt.Errorf("trainer (%s): %w", family, err)
		}
		report.Models = append(report.Models, fitted.Summary())

		scores, err := fitted.Score(testTbl)
		if err != nil {
			return nil, fmt.Errorf("evaluator (%s): %w", family, err)
		}
		report.Evaluations = append(report.Evaluations,
			eval.EvaluateAt(string(family), scores, truth, p.cfg.Run.Threshold))
		curve, err := eval.Curve(string(family), scores, truth)
		if err != nil {
			return nil, err
		}
		report.ROCCurves = append(report.ROCCurves, curve)
		p.log.Info("run %s: %s AUC %.4f", report.RunID, family, curve.AUC)

		if p.cfg.CrossVal.Enabled {
			cv, err := p.crossValidate(table, target, family)
			if err != nil {
				return nil, err
			}
			report.CrossVal = append(report.CrossVal, cv)
		}

		sweep, err := cost.Sweep(string(family), scores, truth, cost.DefaultThresholds(),
			p.cfg.Cost.Unit, p.cfg.Cost.CustomerBase)
		if err != nil {
			return nil, err
		}
		report.CostSweeps = append(report.CostSweeps, sweep)
		p.log.Info("run %s: %s optimal threshold %.2f saves %.2f per customer",
			report.RunID, family, sweep.Best.Threshold, sweep.SavingsPerCustomer)
	}

	report.EndedAt = core.Now()

	if p.plotter != nil {
		if err := p.plotter.Plot(report); err != nil {
			return nil, err
		}
	}
	if p.repo != nil {
		if err := p.repo.Save(ctx, report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// summarize fills the segment and numeric-by-outcome tables
func (p *Pipeline) summarize(table *churn.Table, target string, report *churn.RunReport) error {
	for _, col := range defaultSegmentColumns {
		seg, err := segment.Summarize(table, col, target)
		if err != nil {
			return err
		}
		report.Segments = append(report.Segments, seg)
	}
	for _, col := range defaultNumericColumns {
		byChurn, err := segment.SummarizeNumericBy(table, col, target)
		if err != nil {
			return err
		}
		report.ByTenure = append(report.ByTenure, byChurn)
	}
	return nil
}

// trainConfig maps run configuration onto one family's training request
func (p *Pipeline) trainConfig(family model.Family) model.TrainConfig {
	cfg := model.TrainConfig{Family: family}
	if family == model.FamilyRandomForest {
		cfg.Forest = model.ForestConfig{
			NumTrees:         p.cfg.Forest.NumTrees,
			FeaturesPerSplit: p.cfg.Forest.FeaturesPerSplit,
			MinLeaf:          1,
			Seed:             p.cfg.Run.Seed,
		}
	}
	return cfg
}

// crossValidate runs repeated stratified k-fold CV for one family
func (p *Pipeline) crossValidate(table *churn.Table, target string, family model.Family) (churn.CrossValidationSummary, error) {
	trainCfg := p.trainConfig(family)
	fit := func(train, test *churn.Table) ([]float64, error) {
		fitted, err := model.Train(train, target, trainCfg)
		if err != nil {
			return nil, err
		}
		return fitted.Score(test)
	}
	resampling := eval.ResamplingConfig{Folds: p.cfg.CrossVal.Folds, Repeats: p.cfg.CrossVal.Repeats}
	return eval.CrossValidate(table, target, resampling, p.cfg.Run.Seed, p.cfg.Run.Threshold, string(family), fit)
}

// Package excel writes the run's charts and tables into one xlsx workbook.
// It is the plotting collaborator of the pipeline: a pure sink, nothing
// downstream reads the workbook back.
package excel

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"churnscope/domain/churn"
	"churnscope/domain/core"
)

const (
	segmentsSheet = "Segments"
	rocSheet      = "ROC"
	costsSheet    = "Costs"
)

// Writer renders a run report into a workbook at a fixed path
type Writer struct {
	path string
}

// NewWriter creates a writer targeting dir/churn_report.xlsx
func NewWriter(dir string) *Writer {
	return &Writer{path: filepath.Join(dir, "churn_report.xlsx")}
}

// Path returns the workbook location
func (w *Writer) Path() string { return w.path }

// Plot implements ports.Plotter
func (w *Writer) Plot(report *churn.RunReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", segmentsSheet); err != nil {
		return core.NewIOError("plotter", err)
	}
	if err := writeSegments(f, report.Segments); err != nil {
		return err
	}
	if err := writeROC(f, report.ROCCurves); err != nil {
		return err
	}
	if err := writeCosts(f, report.CostSweeps); err != nil {
		return err
	}

	if err := f.SaveAs(w.path); err != nil {
		return core.NewIOError("plotter", err)
	}
	return nil
}

// writeSegments lays one block per segment table with a column chart of
// per-level churn rates beside it.
func writeSegments(f *excelize.File, segments []churn.SegmentTable) error {
	row := 1
	for _, seg := range segments {
		setRow(f, segmentsSheet, row, seg.Column)
		setRow(f, segmentsSheet, row+1, "Level", "Count", "Share", "Churn rate")
		first := row + 2
		for i, g := range seg.Groups {
			setRow(f, segmentsSheet, first+i, g.Level, g.Count, g.Proportion, g.ChurnRate)
		}
		last := first + len(seg.Groups) - 1

		chart := &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("%s!$A$%d", segmentsSheet, row),
				Categories: fmt.Sprintf("%s!$A$%d:$A$%d", segmentsSheet, first, last),
				Values:     fmt.Sprintf("%s!$D$%d:$D$%d", segmentsSheet, first, last),
			}},
			Title: []excelize.RichTextRun{{Text: "Churn rate by " + seg.Column}},
		}
		anchor, _ := excelize.CoordinatesToCellName(6, row)
		if err := f.AddChart(segmentsSheet, anchor, chart); err != nil {
			return core.NewIOError("plotter", err)
		}
		row = last + 18 // leave room for the chart
	}
	return nil
}

// writeROC writes each curve's points and a scatter chart over all models
func writeROC(f *excelize.File, curves []churn.ROCCurve) error {
	if _, err := f.NewSheet(rocSheet); err != nil {
		return core.NewIOError("plotter", err)
	}
	col := 1
	var series []excelize.ChartSeries
	for _, curve := range curves {
		fprCol, _ := excelize.ColumnNumberToName(col)
		tprCol, _ := excelize.ColumnNumberToName(col + 1)
		f.SetCellValue(rocSheet, fprCol+"1", curve.Model+" FPR")
		f.SetCellValue(rocSheet, tprCol+"1", curve.Model+" TPR")
		for i, pt := range curve.Points {
			f.SetCellValue(rocSheet, fmt.Sprintf("%s%d", fprCol, i+2), pt.FPR)
			f.SetCellValue(rocSheet, fmt.Sprintf("%s%d", tprCol, i+2), pt.TPR)
		}
		last := len(curve.Points) + 1
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s (AUC %.3f)", curve.Model, curve.AUC),
			Categories: fmt.Sprintf("%s!$%s$2:$%s$%d", rocSheet, fprCol, fprCol, last),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", rocSheet, tprCol, tprCol, last),
		})
		col += 3
	}
	if len(series) == 0 {
		return nil
	}
	chart := &excelize.Chart{
		Type:   excelize.Scatter,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: "ROC"}},
	}
	anchor, _ := excelize.ColumnNumberToName(col + 1)
	if err := f.AddChart(rocSheet, anchor+"1", chart); err != nil {
		return core.NewIOError("plotter", err)
	}
	return nil
}

// writeCosts writes one cost-vs-threshold block per model with a line chart
func writeCosts(f *excelize.File, sweeps []churn.CostSweep) error {
	if _, err := f.NewSheet(costsSheet); err != nil {
		return core.NewIOError("plotter", err)
	}
	row := 1
	for _, sweep := range sweeps {
		setRow(f, costsSheet, row, sweep.Model)
		setRow(f, costsSheet, row+1, "Threshold", "Expected cost")
		first := row + 2
		for i, pt := range sweep.Points {
			setRow(f, costsSheet, first+i, pt.Threshold, pt.ExpectedCost)
		}
		last := first + len(sweep.Points) - 1
		setRow(f, costsSheet, last+1, "Optimal", sweep.Best.Threshold, sweep.Best.ExpectedCost)
		setRow(f, costsSheet, last+2, "Savings/customer", sweep.SavingsPerCustomer)

		chart := &excelize.Chart{
			Type: excelize.Line,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("%s!$A$%d", costsSheet, row),
				Categories: fmt.Sprintf("%s!$A$%d:$A$%d", costsSheet, first, last),
				Values:     fmt.Sprintf("%s!$B$%d:$B$%d", costsSheet, first, last),
			}},
			Title: []excelize.RichTextRun{{Text: "Expected cost per customer: " + sweep.Model}},
		}
		anchor, _ := excelize.CoordinatesToCellName(5, row)
		if err := f.AddChart(costsSheet, anchor, chart); err != nil {
			return core.NewIOError("plotter", err)
		}
		row = last + 20
	}
	return nil
}

// setRow writes values left to right starting at column A of the given row
func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			continue
		}
		f.SetCellValue(sheet, cell, v)
	}
}

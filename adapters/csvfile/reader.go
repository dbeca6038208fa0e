// Package csvfile loads the customer table from a delimited UTF-8 file.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"churnscope/domain/churn"
	"churnscope/domain/core"
)

const stage = "loader"

// ColumnSpec declares the expected type of a named source column
type ColumnSpec struct {
	Name string
	Type churn.ColumnType
}

// TelcoSchema lists the columns of the reference telco dataset. Column order
// in the file is irrelevant; presence of every name is required.
var TelcoSchema = []ColumnSpec{
	{"customerID", churn.ColumnText},
	{"gender", churn.ColumnText},
	{"SeniorCitizen", churn.ColumnNumeric},
	{"Partner", churn.ColumnText},
	{"Dependents", churn.ColumnText},
	{"tenure", churn.ColumnNumeric},
	{"PhoneService", churn.ColumnText},
	{"MultipleLines", churn.ColumnText},
	{"InternetService", churn.ColumnText},
	{"OnlineSecurity", churn.ColumnText},
	{"OnlineBackup", churn.ColumnText},
	{"DeviceProtection", churn.ColumnText},
	{"TechSupport", churn.ColumnText},
	{"StreamingTV", churn.ColumnText},
	{"StreamingMovies", churn.ColumnText},
	{"Contract", churn.ColumnText},
	{"PaperlessBilling", churn.ColumnText},
	{"PaymentMethod", churn.ColumnText},
	{"MonthlyCharges", churn.ColumnNumeric},
	{"TotalCharges", churn.ColumnNumeric},
	{"Churn", churn.ColumnText},
}

// Reader reads a CSV file into a typed table
type Reader struct {
	path   string
	schema []ColumnSpec
}

// NewReader creates a reader for the telco schema
func NewReader(path string) *Reader {
	return &Reader{path: path, schema: TelcoSchema}
}

// NewReaderWithSchema creates a reader with an explicit column schema
func NewReaderWithSchema(path string, schema []ColumnSpec) *Reader {
	return &Reader{path: path, schema: schema}
}

// Read loads the whole file into a table. Declared numeric columns are
// parsed as floats with empty cells becoming NaN; everything else loads as
// text with empty cells becoming "".
func (r *Reader) Read() (*churn.Table, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, core.NewIOError(stage, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err != nil {
		return nil, core.NewIOError(stage, fmt.Errorf("reading header: %w", err))
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}
	declared := make(map[string]churn.ColumnType, len(r.schema))
	for _, spec := range r.schema {
		if _, ok := colIdx[spec.Name]; !ok {
			return nil, core.NewValidationError(stage, spec.Name, "required column missing from header")
		}
		declared[spec.Name] = spec.Type
	}

	var records [][]string
	row := 1 // header was row 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, core.NewRowValidationError(stage, "-", row, row,
				fmt.Sprintf("malformed record: %v", err))
		}
		records = append(records, rec)
	}

	columns := make([]churn.Column, 0, len(header))
	for i, name := range header {
		colType, ok := declared[name]
		if !ok {
			colType = churn.ColumnText // undeclared columns load as text
		}
		col := churn.Column{Name: name, Type: colType}
		if colType == churn.ColumnNumeric {
			col.Numeric = make([]float64, len(records))
			for j, rec := range records {
				v, err := parseFloatCell(rec[i])
				if err != nil {
					return nil, core.NewRowValidationError(stage, name, j+2, j+2,
						fmt.Sprintf("unparsable numeric value %q", rec[i]))
				}
				col.Numeric[j] = v
			}
		} else {
			col.Values = make([]string, len(records))
			for j, rec := range records {
				col.Values[j] = strings.TrimSpace(rec[i])
			}
		}
		columns = append(columns, col)
	}

	return churn.NewTable(columns)
}

// parseFloatCell parses one numeric cell; blank and NA cells are missing.
func parseFloatCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "NA" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// naValues are cells treated as missing without raising a coercion issue.
var naValues = []string{"", "NA", "N/A", "n/a", "NaN", "nan", "null", "NULL", "None", "<NA>", "<nil>", "#N/A"}

type loadConfig struct {
	delimiter rune
}

// LoadOption customizes Load.
type LoadOption func(*loadConfig)

// WithDelimiter sets the field delimiter. Zero keeps the default comma.
func WithDelimiter(d rune) LoadOption {
	return func(c *loadConfig) {
		if d != 0 {
			c.delimiter = d
		}
	}
}

// Load parses delimited text with a header row into a Table. Column names are
// trimmed, the eight required columns must be present, and the numeric columns are
// coerced cell by cell: an unparsable cell becomes Missing and is recorded as a
// CoercionIssue instead of failing the load.
func Load(r io.Reader, opts ...LoadOption) (*Table, error) {
	cfg := loadConfig{delimiter: ','}
	for _, opt := range opts {
		opt(&cfg)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &IngestionError{Code: ErrCodeUnparseableInput, Message: "read input", Err: err}
	}
	raw = bytes.TrimPrefix(raw, []byte("\ufeff"))
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &IngestionError{Code: ErrCodeEmptyInput, Message: "input has no header row"}
	}

	records, err := readRecords(raw, cfg.delimiter)
	if err != nil {
		return nil, &IngestionError{Code: ErrCodeUnparseableInput, Message: "parse delimited text", Err: err}
	}
	if len(records) == 1 {
		// gota refuses a header without data rows; that is still a valid, empty table.
		byTrimmed, columns := trimNames(records[0])
		if err := checkRequired(byTrimmed); err != nil {
			return nil, err
		}
		return &Table{Records: []FunctionRecord{}, Columns: columns}, nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		return nil, &IngestionError{Code: ErrCodeUnparseableInput, Message: "parse delimited text", Err: df.Err}
	}

	byTrimmed, columns := trimNames(df.Names())
	if err := checkRequired(byTrimmed); err != nil {
		return nil, err
	}

	n := df.Nrow()
	tbl := &Table{
		Records: make([]FunctionRecord, n),
		Columns: columns,
	}

	names := df.Col(byTrimmed[ColFunctionName]).Records()
	for i := range tbl.Records {
		tbl.Records[i].Row = i
		if names[i] != "NaN" {
			tbl.Records[i].FunctionName = names[i]
		}
	}

	for _, col := range NumericColumns {
		cells := df.Col(byTrimmed[col]).Records()
		for i, cell := range cells {
			v, issue := coerce(cell)
			if issue {
				tbl.Issues = append(tbl.Issues, CoercionIssue{Row: i, Column: col, Value: cell})
				slog.Debug("Coerced non-numeric cell to missing", "row", i, "column", col, "value", cell)
			}
			setNumeric(&tbl.Records[i], col, v)
		}
	}

	slog.Debug("Loaded dataset", "rows", n, "columns", len(columns), "coercion_issues", len(tbl.Issues))
	return tbl, nil
}

// trimNames maps trimmed header names to the names as they appear in the frame.
// The first column wins when two headers trim to the same name.
func trimNames(names []string) (map[string]string, []string) {
	byTrimmed := make(map[string]string, len(names))
	columns := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if _, dup := byTrimmed[trimmed]; dup {
			continue
		}
		byTrimmed[trimmed] = name
		columns = append(columns, trimmed)
	}
	return byTrimmed, columns
}

func checkRequired(byTrimmed map[string]string) error {
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := byTrimmed[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &IngestionError{
			Code:    ErrCodeMissingColumns,
			Message: "required columns not found in header",
			Missing: missing,
		}
	}
	return nil
}

// readRecords splits raw into records. Rows shorter than the header are padded
// with empty cells, which load as missing; longer rows are an error.
func readRecords(raw []byte, delimiter rune) ([][]string, error) {
	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no records")
	}
	width := len(records[0])
	for i, rec := range records[1:] {
		switch {
		case len(rec) > width:
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", i+2, width, len(rec))
		case len(rec) < width:
			records[i+1] = append(rec, make([]string, width-len(rec))...)
		}
	}
	return records, nil
}

// coerce parses a cell. issue is true when the cell held something that is
// neither a finite number nor a recognized missing marker.
func coerce(cell string) (v Float, issue bool) {
	s := strings.TrimSpace(cell)
	if isNA(s) {
		return Missing, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return Missing, true
	}
	return Float(f), false
}

func isNA(s string) bool {
	for _, na := range naValues {
		if s == na {
			return true
		}
	}
	return false
}

func setNumeric(rec *FunctionRecord, col string, v Float) {
	switch col {
	case ColCostUSD:
		rec.CostUSD = v
	case ColInvocationsPerMonth:
		rec.InvocationsPerMonth = v
	case ColAvgDurationMs:
		rec.AvgDurationMs = v
	case ColMemoryMB:
		rec.MemoryMB = v
	case ColColdStartRate:
		rec.ColdStartRate = v
	case ColProvisionedConcurrency:
		rec.ProvisionedConcurrency = v
	case ColDataTransferGB:
		rec.DataTransferGB = v
	default:
		panic(fmt.Sprintf("dataset: unknown numeric column %q", col))
	}
}

package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// Format is a supported input file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Every column is read as text; the normalizer owns numeric parsing.
var loadOptions = []dataframe.LoadOption{
	dataframe.DetectTypes(false),
	dataframe.DefaultType(series.String),
}

// ReadCSV reads a CSV table with a header row.
func ReadCSV(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r, loadOptions...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read csv: %w", df.Err)
	}
	return df, nil
}

// ReadXLSX reads sheet (the first sheet when empty) of a workbook. Short rows
// are padded to the header width.
func ReadXLSX(r io.Reader, sheet string) (dataframe.DataFrame, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = wb.Close() }()

	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return dataframe.DataFrame{}, fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
		}
		sheet = sheets[0]
	} else if idx, err := wb.GetSheetIndex(sheet); err != nil || idx < 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return dataframe.DataFrame{}, ErrEmpty
	}
	width := len(rows[0])
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > width {
			row = row[:width]
		}
		padded := make([]string, width)
		copy(padded, row)
		records = append(records, padded)
	}
	df := dataframe.LoadRecords(records, loadOptions...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("load sheet %q: %w", sheet, df.Err)
	}
	return df, nil
}

// ReadFile reads path according to its extension.
func ReadFile(path, sheet string) (dataframe.DataFrame, error) {
	format, err := FormatOf(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	if format == FormatXLSX {
		return ReadXLSX(f, sheet)
	}
	return ReadCSV(f)
}

package ingestion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/extrame/xls"
)

// unitMarker anchors the data block inside a bulletin. The marker row is
// followed by one header row; data starts two rows below the marker.
const unitMarker = "Единица измерения: Метрическая тонна"

const (
	// maxSheetRows caps how many rows are materialized from a workbook.
	maxSheetRows = 20000
	// trailerRows at the end of every bulletin are footer, never data.
	trailerRows = 2
	// dataOffset is how far below the marker row the data block starts.
	dataOffset = 2
)

// ErrNoMarker is returned when a bulletin carries no unit-of-measure marker
// row. The layout is unpredictable enough that guessing an offset instead
// would silently produce garbage, so the whole document is rejected.
var ErrNoMarker = errors.New("unit marker row not found")

// RawRow is one extracted bulletin line: product id, product name, delivery
// basis name, volume, total, contract count, in that order. The count comes
// from the table's final column, located by the widest row of the sheet.
type RawRow [6]string

// readWorkbookGrid loads the first sheet of a legacy BIFF .xls workbook as
// rows of strings. Indirection var so tests can feed hand-built grids.
var readWorkbookGrid = func(path string) ([][]string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return wb.ReadAllCells(maxSheetRows), nil
}

// ExtractBulletin reads the bulletin at path and returns its valid trade
// rows in original document order.
func ExtractBulletin(path string) ([]RawRow, error) {
	grid, err := readWorkbookGrid(path)
	if err != nil {
		return nil, err
	}
	return extractRows(grid)
}

// extractRows locates the data block and projects the six trade columns.
//
// Layout contract:
//   - the marker row holds unitMarker in its second cell; rows too short to
//     have one are skipped, not failed;
//   - data starts dataOffset rows below the marker;
//   - the final trailerRows of the document are footer;
//   - columns 1-5 hold id, name, basis name, volume, total; the table's
//     last column holds the contract count.
//
// The workbook reader produces ragged rows that stop at each row's last
// populated cell, so the count column index is fixed from the widest row of
// the sheet. Rows that end before it have a missing count, which coerces to
// zero and filters the row out.
//
// Only rows whose count coerces to a value greater than zero are kept. A
// count cell that does not coerce at all aborts the whole extraction;
// callers treat that as "no records for this date".
func extractRows(grid [][]string) ([]RawRow, error) {
	marker := -1
	for i, row := range grid {
		if len(row) > 1 && strings.Contains(row[1], unitMarker) {
			marker = i
			break
		}
	}
	if marker < 0 {
		return nil, ErrNoMarker
	}

	start := marker + dataOffset
	if start >= len(grid) {
		return nil, nil
	}
	block := grid[start:]
	if len(block) <= trailerRows {
		return nil, nil
	}
	block = block[:len(block)-trailerRows]

	width := tableWidth(grid)
	var out []RawRow
	for i, row := range block {
		raw := projectRow(row, width)
		count, err := coerceCount(raw[5])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", start+i, err)
		}
		if count <= 0 {
			continue
		}
		out = append(out, raw)
	}
	return out, nil
}

// tableWidth is the sheet's column count: the length of its widest row.
func tableWidth(grid [][]string) int {
	w := 0
	for _, row := range grid {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// projectRow picks the six fixed columns out of a possibly ragged sheet row.
// Missing cells project to the empty string, which coerces to zero.
func projectRow(row []string, width int) RawRow {
	var r RawRow
	for i := 0; i < 5; i++ {
		r[i] = cellAt(row, i+1)
	}
	r[5] = cellAt(row, width-1)
	return r
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// Numeric coercion for the three count-like columns. The bulletin writes "-"
// where no trades happened; missing cells mean the same. Decimal renderings
// of whole numbers ("120.0") truncate toward zero.
func coerceCount(s string) (int64, error)  { return coerceNumeric(s, "count") }
func coerceVolume(s string) (int64, error) { return coerceNumeric(s, "volume") }
func coerceTotal(s string) (int64, error)  { return coerceNumeric(s, "total") }

func coerceNumeric(s, field string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s cell %q is not numeric", field, s)
	}
	return int64(f), nil
}

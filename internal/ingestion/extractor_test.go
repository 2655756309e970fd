package ingestion

import (
	"errors"
	"strings"
	"testing"
)

// dataRow builds a sheet row in bulletin layout: empty leading cell, then
// id, name, basis name, volume, total, and count in the trailing cell.
func dataRow(id, name, basis, volume, total, count string) []string {
	return []string{"", id, name, basis, volume, total, count}
}

func markerRow() []string {
	return []string{"", "Единица измерения: Метрическая тонна"}
}

func filler(n int) [][]string {
	out := make([][]string, n)
	for i := range out {
		out[i] = []string{"", "preamble"}
	}
	return out
}

func TestExtractRows_MarkerRelativeBlock(t *testing.T) {
	// Marker at index 5, data block at 7..18, trailer rows at 19..20.
	grid := filler(5)
	grid = append(grid, markerRow())
	grid = append(grid, []string{"", "Код", "Наименование", "Базис", "Объем", "Сумма", "Договоров"})
	for i := 0; i < 12; i++ {
		grid = append(grid, dataRow("A100ANK060F", "Бензин", "ст. Аникеевка", "120", "9213360", "2"))
	}
	grid = append(grid, []string{"", "Итого:", "", "", "9999", "9999", "99"})
	grid = append(grid, []string{"", "Итого по секции:"})

	rows, err := extractRows(grid)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rows) != 12 {
		t.Fatalf("want 12 rows got %d", len(rows))
	}
	if rows[0][0] != "A100ANK060F" || rows[0][5] != "2" {
		t.Fatalf("unexpected projection: %+v", rows[0])
	}
}

func TestExtractRows_TableDriven(t *testing.T) {
	base := func(rows ...[]string) [][]string {
		grid := append(filler(2), markerRow(),
			[]string{"", "Код", "Наименование", "Базис", "Объем", "Сумма", "Договоров"})
		grid = append(grid, rows...)
		grid = append(grid, []string{"", "Итого:"}, []string{"", "Итого по секции:"})
		return grid
	}

	cases := []struct {
		name     string
		grid     [][]string
		wantRows int
		wantErr  bool
		noMarker bool
	}{
		{
			name:     "zero count filtered",
			grid:     base(dataRow("A100ANK060F", "x", "y", "10", "20", "0")),
			wantRows: 0,
		},
		{
			name:     "dash count filtered",
			grid:     base(dataRow("A100ANK060F", "x", "y", "-", "-", "-")),
			wantRows: 0,
		},
		{
			// reader rows stop at the last populated cell, so a row without
			// a count ends on its total
			name:     "ragged row missing count cell filtered",
			grid:     base([]string{"", "A100ANK060F", "x", "y", "10", "500"}),
			wantRows: 0,
		},
		{
			name:     "row truncated before the total filtered",
			grid:     base([]string{"", "A100ANK060F", "x", "y", "10"}),
			wantRows: 0,
		},
		{
			name:     "negative count filtered",
			grid:     base(dataRow("A100ANK060F", "x", "y", "10", "20", "-3")),
			wantRows: 0,
		},
		{
			name: "mixed keep and drop",
			grid: base(
				dataRow("A100ANK060F", "x", "y", "120", "9213360", "2"),
				dataRow("A106AUS060F", "x", "y", "-", "-", "-"),
				dataRow("DT50NVY005A", "x", "y", "305", "17070975", "7"),
			),
			wantRows: 2,
		},
		{
			name:    "non-numeric count aborts document",
			grid:    base(dataRow("A100ANK060F", "x", "y", "10", "20", "abc")),
			wantErr: true,
		},
		{
			name:     "no marker",
			grid:     append(filler(4), dataRow("A100ANK060F", "x", "y", "10", "20", "2")),
			wantErr:  true,
			noMarker: true,
		},
		{
			name:     "marker but block shorter than trailer",
			grid:     append(filler(1), markerRow(), []string{"", "header"}, []string{"", "Итого:"}),
			wantRows: 0,
		},
		{
			name:     "non-string-like short rows before marker are skipped",
			grid:     append([][]string{{}, {"only-one-cell"}}, base(dataRow("A100ANK060F", "x", "y", "1", "2", "3"))...),
			wantRows: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := extractRows(tc.grid)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				if tc.noMarker && !errors.Is(err, ErrNoMarker) {
					t.Fatalf("expected ErrNoMarker, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if len(rows) != tc.wantRows {
				t.Fatalf("want %d rows got %d", tc.wantRows, len(rows))
			}
		})
	}
}

func TestExtractRows_CountReadAtTableColumn(t *testing.T) {
	grid := append(filler(1), markerRow(),
		[]string{"", "Код", "Наименование", "Базис", "Объем", "Сумма", "Договоров"},
		dataRow("A100ANK060F", "x", "y", "120", "9213360", "2"),
		[]string{"", "A106AUS060F", "x", "y", "10", "500"}, // no count cell
		[]string{"", "Итого:"}, []string{"", "Итого по секции:"})

	rows, err := extractRows(grid)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("want 1 row got %d", len(rows))
	}
	if rows[0][0] != "A100ANK060F" || rows[0][5] != "2" {
		t.Fatalf("unexpected projection: %+v", rows[0])
	}
}

func TestExtractRows_PreservesOrder(t *testing.T) {
	grid := append(filler(0), markerRow(), []string{"", "header"})
	ids := []string{"A100ANK060F", "A106AUS060F", "DT50NVY005A"}
	for _, id := range ids {
		grid = append(grid, dataRow(id, "x", "y", "1", "2", "3"))
	}
	grid = append(grid, []string{"", "Итого:"}, []string{"", "Итого по секции:"})

	rows, err := extractRows(grid)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for i, id := range ids {
		if rows[i][0] != id {
			t.Fatalf("row %d: want %q got %q", i, id, rows[i][0])
		}
	}
}

func TestCoerceNumeric(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "120", want: 120},
		{in: " 120 ", want: 120},
		{in: "-", want: 0},
		{in: "", want: 0},
		{in: "120.0", want: 120},
		{in: "120.9", want: 120},
		{in: "-5", want: -5},
		{in: "abc", wantErr: true},
		{in: "12x", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := coerceCount(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.in)
				}
				if !strings.Contains(err.Error(), "count") {
					t.Fatalf("error should name the column: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got != tc.want {
				t.Fatalf("coerce(%q)=%d want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestExtractBulletin_UnreadableFile(t *testing.T) {
	if _, err := ExtractBulletin("does-not-exist.xls"); err == nil {
		t.Fatalf("expected error for missing workbook")
	}
}

package importer

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qdevlab/cpwroute/internal/model"
	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("X,Y,Component\n0,0,\n1000,0,airbridge\n")
	got := DetectCSVDelimiter(data)
	if got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("X;Y;Component\n0;0;\n1000;0;airbridge\n")
	got := DetectCSVDelimiter(data)
	if got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("X\tY\tComponent\n0\t0\t\n1000\t0\tairbridge\n")
	got := DetectCSVDelimiter(data)
	if got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("X|Y|Component\n0|0|\n1000|0|airbridge\n")
	got := DetectCSVDelimiter(data)
	if got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"X", "Y", "Component", "Heading", "Length", "Increment"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.X != 0 {
		t.Errorf("expected X at 0, got %d", mapping.X)
	}
	if mapping.Y != 1 {
		t.Errorf("expected Y at 1, got %d", mapping.Y)
	}
	if mapping.Component != 2 {
		t.Errorf("expected Component at 2, got %d", mapping.Component)
	}
	if mapping.Heading != 3 {
		t.Errorf("expected Heading at 3, got %d", mapping.Heading)
	}
	if mapping.Length != 4 {
		t.Errorf("expected Length at 4, got %d", mapping.Length)
	}
	if mapping.Increment != 5 {
		t.Errorf("expected Increment at 5, got %d", mapping.Increment)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	row := []string{"x (um)", "y (um)", "kind", "angle", "length_before", "extra"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.X != 0 || mapping.Y != 1 {
		t.Errorf("expected X/Y at 0/1, got %d/%d", mapping.X, mapping.Y)
	}
	if mapping.Component != 2 {
		t.Errorf("expected Component at 2, got %d", mapping.Component)
	}
	if mapping.Heading != 3 {
		t.Errorf("expected Heading at 3, got %d", mapping.Heading)
	}
	if mapping.Length != 4 {
		t.Errorf("expected Length at 4, got %d", mapping.Length)
	}
	if mapping.Increment != 5 {
		t.Errorf("expected Increment at 5, got %d", mapping.Increment)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	row := []string{"0", "0", "", "", ""}
	mapping, isHeader := DetectColumns(row)

	if isHeader {
		t.Error("expected no header to be detected")
	}
	// Positional fallback
	if mapping.X != 0 || mapping.Y != 1 || mapping.Component != 2 {
		t.Errorf("unexpected positional mapping: %+v", mapping)
	}
}

// ─── ImportCSVFromReader Tests ─────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "X,Y,Component,Heading,Length\n0,0,,0,\n1000,0,airbridge,,\n1000,2000,,,3500\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(result.Nodes))
	}

	first := result.Nodes[0]
	if first.Position.X != 0 || first.Position.Y != 0 {
		t.Errorf("expected first node at origin, got %+v", first.Position)
	}
	if first.Heading == nil || *first.Heading != 0 {
		t.Errorf("expected heading 0 on first node, got %v", first.Heading)
	}

	second := result.Nodes[1]
	if second.Component != model.KindAirbridge {
		t.Errorf("expected airbridge component, got %v", second.Component)
	}

	third := result.Nodes[2]
	if third.LengthBefore == nil || *third.LengthBefore != 3500 {
		t.Errorf("expected length 3500 on third node, got %v", third.LengthBefore)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "0,0\n1000,0\n1000,2000\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d (errors: %v)", len(result.Nodes), result.Errors)
	}
	if result.Nodes[1].Position.X != 1000 {
		t.Errorf("expected x 1000, got %f", result.Nodes[1].Position.X)
	}
}

func TestImportCSVFromReader_HeadingInDegrees(t *testing.T) {
	data := "X,Y,Heading\n0,0,90\n500,500,\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d (errors: %v)", len(result.Nodes), result.Errors)
	}
	h := result.Nodes[0].Heading
	if h == nil {
		t.Fatal("expected heading on first node")
	}
	if math.Abs(*h-math.Pi/2) > 1e-12 {
		t.Errorf("expected heading pi/2, got %f", *h)
	}
	if result.Nodes[1].Heading != nil {
		t.Errorf("expected no heading on second node, got %v", *result.Nodes[1].Heading)
	}
}

func TestImportCSVFromReader_LengthAndIncrementExclusive(t *testing.T) {
	data := "X,Y,Length,Increment\n0,0,,\n1000,0,2000,500\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "mutually exclusive") {
		t.Errorf("unexpected error message: %s", result.Errors[0])
	}
}

func TestImportCSVFromReader_UnknownComponent(t *testing.T) {
	data := "X,Y,Component\n0,0,\n1000,0,resonator\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d (errors: %v)", len(result.Nodes), result.Errors)
	}
	if result.Nodes[1].Component != model.KindNone {
		t.Errorf("expected unknown component to fall back to waypoint, got %v", result.Nodes[1].Component)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "resonator") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected warning about unknown component, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_InvalidCoordinate(t *testing.T) {
	data := "X,Y\n0,0\nabc,500\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if len(result.Nodes) != 1 {
		t.Errorf("expected valid rows to survive, got %d nodes", len(result.Nodes))
	}
}

func TestImportCSVFromReader_NegativeLength(t *testing.T) {
	data := "X,Y,Length\n0,0,\n1000,0,-50\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "positive") {
		t.Errorf("unexpected error message: %s", result.Errors[0])
	}
}

func TestImportCSVFromReader_EmptyRows(t *testing.T) {
	data := "X,Y\n0,0\n,,\n\n1000,0\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Nodes) != 2 {
		t.Errorf("expected 2 nodes, got %d", len(result.Nodes))
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	data := "X,Component\n0,airbridge\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) == 0 {
		t.Fatal("expected error for missing Y column")
	}
	if !strings.Contains(result.Errors[0], "Y") {
		t.Errorf("unexpected error message: %s", result.Errors[0])
	}
}

// ─── File-based Tests ──────────────────────────────────────

func TestImportCSV_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "waypoints.csv")
	data := "X,Y,Component\n0,0,\n1500,0,airbridge\n1500,3000,\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path)
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(result.Nodes))
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "waypoints.csv")
	data := "X;Y;Component\n0;0;\n1500;0;taper\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path)
	if len(result.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d (errors: %v)", len(result.Nodes), result.Errors)
	}
	if result.Nodes[1].Component != model.KindTaper {
		t.Errorf("expected taper component, got %v", result.Nodes[1].Component)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected delimiter warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/waypoints.csv")
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(path, []byte("   \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path)
	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// writeTestExcel creates an xlsx file with the given rows in the first sheet.
func writeTestExcel(t *testing.T, path string, rows [][]string) {
	t.Helper()

	f := excelize.NewFile()
	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue("Sheet1", cellRef, cell); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestImportExcel_WithHeaders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "waypoints.xlsx")
	writeTestExcel(t, path, [][]string{
		{"X", "Y", "Component", "Length"},
		{"0", "0", "", ""},
		{"2000", "0", "capacitor", ""},
		{"2000", "1000", "", "4500"},
	})

	result := ImportExcel(path)
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(result.Nodes))
	}
	if result.Nodes[1].Component != model.KindCapacitor {
		t.Errorf("expected capacitor component, got %v", result.Nodes[1].Component)
	}
	if result.Nodes[2].LengthBefore == nil || *result.Nodes[2].LengthBefore != 4500 {
		t.Errorf("expected length 4500, got %v", result.Nodes[2].LengthBefore)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/waypoints.xlsx")
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

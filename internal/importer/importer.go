// Package importer provides CSV, Excel and DXF import functionality for
// route definitions. Waypoint tables are read with automatic delimiter
// detection, flexible column mapping, and case-insensitive header
// recognition; DXF files supply bounding outlines for spiral packing.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/qdevlab/cpwroute/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of a waypoint table import.
type ImportResult struct {
	Nodes    []model.Node
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	X         int
	Y         int
	Component int
	Heading   int
	Length    int
	Increment int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"x":         {"x", "x (um)", "x_um", "px"},
	"y":         {"y", "y (um)", "y_um", "py"},
	"component": {"component", "comp", "kind", "element", "type"},
	"heading":   {"heading", "angle", "direction", "dir", "theta"},
	"length":    {"length", "len", "length before", "length_before", "target length"},
	"increment": {"increment", "inc", "length increment", "length_increment", "extra"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1 // Allow variable field counts

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Score: count how many rows have the same column count as the first row
		// Only consider delimiters that produce more than 1 column
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or a default positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		X:         -1,
		Y:         -1,
		Component: -1,
		Heading:   -1,
		Length:    -1,
		Increment: -1,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					switch role {
					case "x":
						if mapping.X == -1 {
							mapping.X = i
						}
					case "y":
						if mapping.Y == -1 {
							mapping.Y = i
						}
					case "component":
						if mapping.Component == -1 {
							mapping.Component = i
						}
					case "heading":
						if mapping.Heading == -1 {
							mapping.Heading = i
						}
					case "length":
						if mapping.Length == -1 {
							mapping.Length = i
						}
					case "increment":
						if mapping.Increment == -1 {
							mapping.Increment = i
						}
					}
				}
			}
		}
	}

	if !isHeader {
		// Fall back to positional mapping: X, Y, Component, Heading, Length, Increment
		return ColumnMapping{
			X:         0,
			Y:         1,
			Component: 2,
			Heading:   3,
			Length:    4,
			Increment: 5,
		}, false
	}

	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a Node from a row using the given column mapping.
// Returns the node, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.Node, string, string) {
	xStr := getCell(row, mapping.X)
	if xStr == "" {
		return model.Node{}, fmt.Sprintf("%s: Missing x value", rowLabel), ""
	}
	x, err := strconv.ParseFloat(xStr, 64)
	if err != nil {
		return model.Node{}, fmt.Sprintf("%s: Invalid x '%s'", rowLabel, xStr), ""
	}

	yStr := getCell(row, mapping.Y)
	if yStr == "" {
		return model.Node{}, fmt.Sprintf("%s: Missing y value", rowLabel), ""
	}
	y, err := strconv.ParseFloat(yStr, 64)
	if err != nil {
		return model.Node{}, fmt.Sprintf("%s: Invalid y '%s'", rowLabel, yStr), ""
	}

	node := model.Node{Position: model.Point{X: x, Y: y}}

	var warning string
	compStr := getCell(row, mapping.Component)
	if compStr != "" {
		kind, err := model.ParseComponentKind(strings.ToLower(compStr))
		if err != nil {
			warning = fmt.Sprintf("%s: Unknown component '%s', treating as waypoint", rowLabel, compStr)
		} else {
			node.Component = kind
		}
	}

	headingStr := getCell(row, mapping.Heading)
	if headingStr != "" {
		deg, err := strconv.ParseFloat(headingStr, 64)
		if err != nil {
			return model.Node{}, fmt.Sprintf("%s: Invalid heading '%s'", rowLabel, headingStr), warning
		}
		rad := deg * math.Pi / 180
		node.Heading = &rad
	}

	lengthStr := getCell(row, mapping.Length)
	if lengthStr != "" {
		length, err := strconv.ParseFloat(lengthStr, 64)
		if err != nil {
			return model.Node{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr), warning
		}
		if length <= 0 {
			return model.Node{}, fmt.Sprintf("%s: Length must be positive", rowLabel), warning
		}
		node.LengthBefore = &length
	}

	incStr := getCell(row, mapping.Increment)
	if incStr != "" {
		if node.LengthBefore != nil {
			return model.Node{}, fmt.Sprintf("%s: Length and increment are mutually exclusive", rowLabel), warning
		}
		inc, err := strconv.ParseFloat(incStr, 64)
		if err != nil {
			return model.Node{}, fmt.Sprintf("%s: Invalid increment '%s'", rowLabel, incStr), warning
		}
		if inc <= 0 {
			return model.Node{}, fmt.Sprintf("%s: Increment must be positive", rowLabel), warning
		}
		node.LengthIncrement = &inc
	}

	return node, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports route waypoints from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	result = ImportCSVFromReader(bytes.NewReader(data), delimiter)
	result.Warnings = append(warnings, result.Warnings...)
	return result
}

// ImportCSVFromReader imports route waypoints from CSV data with a known delimiter.
func ImportCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot parse CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports route waypoints from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into nodes.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	// Detect columns from first row
	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		// Validate that required columns were found
		missing := []string{}
		if mapping.X == -1 {
			missing = append(missing, "X")
		}
		if mapping.Y == -1 {
			missing = append(missing, "Y")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else {
		// No header: check if first row is numeric (positional mapping)
		if len(rows[0]) >= 2 {
			if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][0]), 64); err != nil {
				// First column is not numeric, might be an unrecognized header.
				// Skip it as a header but use positional mapping.
				startRow = 1
				result.Warnings = append(result.Warnings, "Detected header row, skipping")
			}
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		node, errMsg, warning := parseRow(row, mapping, rowLabel)

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Nodes = append(result.Nodes, node)
	}

	if len(result.Nodes) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No waypoint rows found")
	}

	return result
}

// Package importer reads guardrail pieces from CSV and Excel tables.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition in English and French.
//
// Each row is one structure item: the piece it belongs to, its type and,
// for sections, its length. Rows are grouped into pieces by piece number,
// in order of first appearance.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/RailCut/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Pieces   []model.Piece
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Piece  int
	Type   int
	Length int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"piece":  {"piece", "piece no", "piece number", "run", "morceau", "n morceau", "no morceau"},
	"type":   {"type", "item", "element", "kind", "nature"},
	"length": {"length", "len", "l", "section length", "longueur", "long"},
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
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

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

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (piece, type, length) and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Piece: -1, Type: -1, Length: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "piece":
					if mapping.Piece == -1 {
						mapping.Piece = i
					}
				case "type":
					if mapping.Type == -1 {
						mapping.Type = i
					}
				case "length":
					if mapping.Length == -1 {
						mapping.Length = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Piece: 0, Type: 1, Length: 2}, false
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

// parseLength accepts both decimal separators, since French spreadsheets
// export "1000,5".
func parseLength(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

// parseRow extracts the piece number and structure item from a row.
// Returns the piece number, the item, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (string, model.StructureItem, string, string) {
	piece := getCell(row, mapping.Piece)
	if piece == "" {
		return "", model.StructureItem{}, fmt.Sprintf("%s: Missing piece number", rowLabel), ""
	}

	typeStr := getCell(row, mapping.Type)
	itemType, ok := model.ParseItemType(typeStr)
	if !ok {
		return "", model.StructureItem{}, fmt.Sprintf("%s: Unknown item type '%s'", rowLabel, typeStr), ""
	}

	lengthStr := getCell(row, mapping.Length)
	if itemType != model.ItemSection {
		var warning string
		if lengthStr != "" {
			warning = fmt.Sprintf("%s: Length ignored for %s", rowLabel, itemType)
		}
		return piece, model.StructureItem{Type: itemType}, "", warning
	}

	if lengthStr == "" {
		return "", model.StructureItem{}, fmt.Sprintf("%s: Missing section length", rowLabel), ""
	}
	length, err := parseLength(lengthStr)
	if err != nil {
		return "", model.StructureItem{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr), ""
	}
	if length <= 0 {
		return "", model.StructureItem{}, fmt.Sprintf("%s: Section length must be positive", rowLabel), ""
	}

	return piece, model.Section(length), "", ""
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

// ImportCSV imports pieces from a CSV file.
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
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports pieces from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports pieces from an Excel (.xlsx) file.
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
// It detects headers, maps columns, and groups item rows into pieces.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Piece == -1 {
			missing = append(missing, "Piece")
		}
		if mapping.Type == -1 {
			missing = append(missing, "Type")
		}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, ok := model.ParseItemType(getCell(rows[0], mapping.Type)); !ok && len(rows[0]) >= 2 {
		// Unrecognized header: skip it and keep positional mapping
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	index := map[string]int{}
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		piece, item, errMsg, warning := parseRow(row, mapping, rowLabel)

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		n, ok := index[piece]
		if !ok {
			n = len(result.Pieces)
			index[piece] = n
			result.Pieces = append(result.Pieces, model.Piece{})
		}
		p := &result.Pieces[n]
		p.Structure = append(p.Structure, item)
		if item.Type == model.ItemSection {
			p.SectionCount++
		}
	}

	return result
}

package table

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadFile reads a spreadsheet export into a Collection. The format is
// derived from the file extension: .csv and .tsv become a single sheet
// named after the file, .json is decoded as a full collection.
func LoadFile(filename string) (Collection, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadSeparated(file, name, ',')
	case ".tsv":
		return ReadSeparated(file, name, '\t')
	case ".json":
		return loadJSON(file)
	default:
		return nil, fmt.Errorf("unsupported format: %s", filepath.Ext(filename))
	}
}

// ReadSeparated reads a delimited stream as a single-sheet collection.
func ReadSeparated(r io.Reader, sheetName string, sep rune) (Collection, error) {
	reader := csv.NewReader(r)
	reader.Comma = sep
	reader.FieldsPerRecord = -1 // allow variable fields

	var grid Grid
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error at line %d: %w", len(grid)+1, err)
		}
		row := make([]Cell, len(record))
		for i, v := range record {
			row[i] = strings.TrimSpace(v)
		}
		grid = append(grid, row)
	}

	return Collection{{Name: sheetName, Grid: grid}}, nil
}

// loadJSON decodes either a Collection array or a name->grid object.
func loadJSON(r io.Reader) (Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var sheets Collection
	if err := json.Unmarshal(data, &sheets); err == nil {
		return sheets, nil
	}

	var byName map[string]Grid
	if err := json.Unmarshal(data, &byName); err != nil {
		return nil, fmt.Errorf("invalid table JSON: %w", err)
	}

	// Object keys carry no order; sort for a stable collection.
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	sheets = make(Collection, 0, len(byName))
	for _, n := range names {
		sheets = append(sheets, Sheet{Name: n, Grid: byName[n]})
	}
	return sheets, nil
}

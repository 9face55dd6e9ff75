package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TSVReader reads tab-separated exports as written by spreadsheet tools.
// UTF-16 files are detected by their BOM; anything else is read as UTF-8.
// Reading stops at the first blank row or a row whose first cell is "Total".
type TSVReader struct{}

func (r *TSVReader) Read(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tsv file %s: %w", path, err)
	}
	defer file.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	csvReader := csv.NewReader(transform.NewReader(file, decoder))
	csvReader.Comma = '\t'
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("read tsv header: %w", err)
	}
	normalizedHeaders := normalizeHeaders(headers)

	records := make([]Record, 0, 64)
	rowNumber := 1
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tsv row %d: %w", rowNumber+1, err)
		}
		rowNumber++

		if len(row) == 0 {
			break
		}
		first := strings.TrimSpace(row[0])
		if first == "" || strings.EqualFold(first, "Total") {
			break
		}

		records = append(records, newRecord(rowNumber, normalizedHeaders, row))
	}

	return records, nil
}

package config

import (
	"encoding/csv"
	"os"
	"strings"

	"opsdash/internal/models"
)

// LoadFeedFile reads the CSV-exported tracker feed from disk. The first
// row is the header; every other row becomes a RawRow keyed by the
// lowercased, trimmed header names. Short rows are padded and long rows
// truncated; the feed is a shared spreadsheet and ragged rows happen.
func LoadFeedFile(path string) ([]models.RawRow, error) {
	//open the file
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows allowed
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []models.RawRow{}, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]models.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(models.RawRow, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SPDX-License-Identifier: MIT
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"gitlab.com/fisherprime/rowtree/record"
)

// Input formats.
const (
	formatJSON  = "json"
	formatJSONL = "jsonl"
	formatYAML  = "yaml"
	formatCSV   = "csv"
)

var errUnknownFormat = errors.New("unknown format")

// formatOf infers the input format from a file extension.
func formatOf(path string) (format string, err error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case formatJSON, formatJSONL, formatCSV:
		return ext, nil
	case "ndjson":
		return formatJSONL, nil
	case formatYAML, "yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q, set --format", errUnknownFormat, path)
	}
}

// load decodes a list of records, normalizing integral values.
func load(src io.Reader, format string, parseStrings bool) (records []record.Map, err error) {
	switch format {
	case formatJSON:
		records, err = loadJSON(src)
	case formatJSONL:
		records, err = loadJSONLines(src)
	case formatYAML:
		records, err = loadYAML(src)
	case formatCSV:
		// CSV values are all strings.
		parseStrings = true
		records, err = loadCSV(src)
	default:
		err = fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
	if err != nil {
		return
	}

	for index := range records {
		record.Normalize(records[index], parseStrings)
	}

	return
}

func loadJSON(src io.Reader) (records []record.Map, err error) {
	dec := json.NewDecoder(src)
	dec.UseNumber()

	err = dec.Decode(&records)

	return
}

func loadJSONLines(src io.Reader) (records []record.Map, err error) {
	dec := json.NewDecoder(src)
	dec.UseNumber()

	for line := 1; ; line++ {
		var rec record.Map
		if err = dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
				return
			}

			err = fmt.Errorf("record %d: %w", line, err)
			return
		}
		records = append(records, rec)
	}
}

func loadYAML(src io.Reader) (records []record.Map, err error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return
	}
	if len(bytes.TrimSpace(data)) < 1 {
		return
	}

	err = yaml.Unmarshal(data, &records)

	return
}

// loadCSV reads a header row of field names followed by records.
func loadCSV(src io.Reader) (records []record.Map, err error) {
	r := csv.NewReader(src)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		return
	}

	rows, err := r.ReadAll()
	if err != nil {
		return
	}

	records = make([]record.Map, 0, len(rows))
	for _, row := range rows {
		rec := make(record.Map, len(header))
		for index, field := range header {
			// Empty cells are treated as missing fields.
			if index < len(row) && row[index] != "" {
				rec[field] = row[index]
			}
		}
		records = append(records, rec)
	}

	return
}

package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadHistoryJSONL reads history records from a JSONL file.
func ReadHistoryJSONL(path string) ([]HistoryRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Missing file reads as empty
		}
		return nil, fmt.Errorf("opening history file: %w", err)
	}
	defer f.Close()

	var records []HistoryRecord
	scanner := bufio.NewScanner(f)

	// Statements can be long
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec HistoryRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	return records, nil
}

// WriteHistoryJSONL writes history records to a JSONL file, replacing existing content.
func WriteHistoryJSONL(path string, records []HistoryRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating history file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing history file: %w", err)
	}
	return f.Close()
}

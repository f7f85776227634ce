package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	appLog "vacationcal/internal/log"
	"vacationcal/internal/model"
)

// LoadCSV reads raw vacation records from a CSV file. Each data row has four
// ordered fields: start date (YYYY/MM/DD), end date (YYYY/MM/DD), owner name
// and a free-text description. The first row is a header and is skipped.
//
// Ingestion is skip-and-continue: a malformed row (too few fields, bad date,
// empty owner, start after end) is logged and dropped without aborting the
// load. A missing file is not an error; the calendar renders with an empty
// overlay.
//
// The returned slice preserves input order and is not deduplicated; callers
// pass it through Dedup.
func LoadCSV(path string) ([]model.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			appLog.Info("csv source not found, proceeding with zero events", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("source: open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Rows are validated by hand so short rows can be skipped instead of
	// failing the whole read.
	r.FieldsPerRecord = -1

	events := make([]model.Event, 0)
	line := 0
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			appLog.Error("csv row unreadable, skipping", err, "path", path, "line", line+1)
			line++
			continue
		}
		line++
		if line == 1 {
			// Header row.
			continue
		}

		ev, err := parseRow(row)
		if err != nil {
			appLog.Error("csv row rejected", err, "path", path, "line", line)
			continue
		}
		events = append(events, ev)
	}

	appLog.Info("csv load completed", "path", path, "record_count", len(events))
	return events, nil
}

// parseRow converts one CSV record into an Event, validating every required
// field.
func parseRow(row []string) (model.Event, error) {
	if len(row) < 4 {
		return model.Event{}, fmt.Errorf("source: expected 4 fields, got %d", len(row))
	}

	start, err := model.ParseDate(strings.TrimSpace(row[0]))
	if err != nil {
		return model.Event{}, fmt.Errorf("source: bad start date: %w", err)
	}
	end, err := model.ParseDate(strings.TrimSpace(row[1]))
	if err != nil {
		return model.Event{}, fmt.Errorf("source: bad end date: %w", err)
	}
	if end.Before(start) {
		return model.Event{}, fmt.Errorf("source: start %s is after end %s", start, end)
	}

	owner := strings.TrimSpace(row[2])
	if owner == "" {
		return model.Event{}, errors.New("source: owner is empty")
	}

	return model.Event{
		Owner:       owner,
		Start:       start,
		End:         end,
		Description: row[3],
	}, nil
}

package task

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"
)

// Column names as produced by the tracker export.
const (
	colNumber      = "number"
	colDescription = "short_description"
	colAssignedTo  = "assigned_to"
	colState       = "state"
	colPlanned     = "u_horas_planejadas"
	colReal        = "u_horas_reais"
	colSprint      = "story.sprint"
	colEpic        = "story.epic"
	colSprintStart = "story.sprint.start_date"
	colSprintEnd   = "story.sprint.end_date"
)

var requiredColumns = []string{
	colNumber,
	colAssignedTo,
	colState,
	colPlanned,
	colReal,
	colSprint,
}

// MissingColumnError reports a structurally broken export: a required column
// is absent from the header row. Unlike cell-level parsing, this aborts the
// whole ingest.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found in export header", e.Column)
}

// ReadRecords parses a Latin-1 encoded CSV export into TaskRecords.
// Duration cells are canonicalized with ParseHours (negative values floor at
// zero), sprint dates become nil when unparseable.
func ReadRecords(r io.Reader) ([]TaskRecord, error) {
	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("export is empty: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("could not read export header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, &MissingColumnError{Column: name}
		}
	}

	cell := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []TaskRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read export row: %w", err)
		}
		records = append(records, TaskRecord{
			Number:           cell(row, colNumber),
			ShortDescription: cell(row, colDescription),
			AssignedTo:       cell(row, colAssignedTo),
			State:            cell(row, colState),
			Epic:             cell(row, colEpic),
			Sprint:           cell(row, colSprint),
			SprintStart:      ParseDate(cell(row, colSprintStart)),
			SprintEnd:        ParseDate(cell(row, colSprintEnd)),
			PlannedHours:     math.Max(0, ParseHours(cell(row, colPlanned))),
			RealHours:        math.Max(0, ParseHours(cell(row, colReal))),
		})
	}

	log.Debugf("Parsed %d task records from export", len(records))
	return records, nil
}

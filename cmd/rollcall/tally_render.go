package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"rollcall/internal/ingest"
)

// renderTally formats the run summary as a table on interactive terminals
// and as plain key=value lines everywhere else, so scripts can parse it.
func renderTally(writer io.Writer, tally *ingest.RunTally) string {
	rows := [][]string{
		{"Rows processed", strconv.Itoa(tally.RowsProcessed)},
		{"Rows skipped", strconv.Itoa(tally.RowsSkipped)},
		{"New identities", strconv.Itoa(tally.NewIdentities)},
		{"Duplicate identities", strconv.Itoa(tally.DuplicateIdentities)},
		{"Events recorded", strconv.Itoa(tally.EventsRecorded)},
		{"Duplicate events", strconv.Itoa(tally.DuplicateEvents)},
		{"Commits", strconv.Itoa(tally.Commits)},
	}

	if isTerminal(writer) {
		header := fmt.Sprintf("Run %s", tally.RunID)
		return header + "\n" + renderTable([]string{"Metric", "Count"}, rows)
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, "run_id="+tally.RunID)
	for _, row := range rows {
		key := strings.ReplaceAll(strings.ToLower(row[0]), " ", "_")
		lines = append(lines, key+"="+row[1])
	}
	return strings.Join(lines, "\n")
}

// Package export writes journal records in formats meant for spreadsheets
// and other tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/brigade/core/dispatch/logging"
)

// CSVHeader lists the columns written by WriteCSV.
var CSVHeader = []string{"batch_id", "timestamp", "dish", "station", "prepared", "replenished"}

// WriteJSON writes the records to w as a JSON array.
func WriteJSON(w io.Writer, recs []logging.LogRecord) error {
	if recs == nil {
		recs = []logging.LogRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

// WriteCSV writes one row per dish outcome: prepared dishes first, then the
// dishes that were requeued, batch by batch.
func WriteCSV(w io.Writer, recs []logging.LogRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range recs {
		ts := r.Timestamp.Format(time.RFC3339)
		for _, p := range r.Prepared {
			row := []string{r.BatchID, ts, p.Dish, p.Station, "true", strconv.FormatBool(p.Replenished)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		for _, d := range r.Failed {
			if err := cw.Write([]string{r.BatchID, ts, d, "", "false", "false"}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/worklog/internal/store"
)

// ToCSV writes one row per work session, oldest day first as given.
func ToCSV(logs []store.DayLog, loc *time.Location, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Date", "Session", "Start", "End", "Breaks", "Break (s)", "Day Work (s)", "Day Work"}); err != nil {
		return err
	}

	for _, r := range buildRows(logs, loc) {
		rec := []string{
			r.Date,
			r.SessionID,
			r.Start,
			r.End,
			strconv.Itoa(r.Breaks),
			strconv.FormatInt(r.BreakSeconds, 10),
			strconv.FormatInt(r.DayWorkSeconds, 10),
			formatDuration(r.DayWorkSeconds),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

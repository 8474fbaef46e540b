package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sadopc/worklog/internal/analytics"
	"github.com/sadopc/worklog/internal/store"
)

// row is one exported work session.
type row struct {
	Date           string
	SessionID      string
	Start          string
	End            string
	Breaks         int
	BreakSeconds   int64
	DayWorkSeconds int64
}

func buildRows(logs []store.DayLog, loc *time.Location) []row {
	if loc == nil {
		loc = time.Local
	}
	var rows []row
	for _, l := range logs {
		for _, s := range l.Sessions {
			end := ""
			if s.End != nil {
				end = s.End.Time().In(loc).Format(time.RFC3339)
			}
			rows = append(rows, row{
				Date:           l.Date,
				SessionID:      s.ID,
				Start:          s.Start.Time().In(loc).Format(time.RFC3339),
				End:            end,
				Breaks:         len(s.Breaks),
				BreakSeconds:   s.BreakSeconds(),
				DayWorkSeconds: l.WorkSeconds,
			})
		}
	}
	return rows
}

// FileName returns <dir>/worklog-<date>.<format>.
func FileName(dir, format string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("worklog-%s.%s", store.DayKey(now), format))
}

func formatDuration(secs int64) string {
	return analytics.FormatHMS(secs)
}

package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/worklog/internal/store"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Sessions   []jsonSession `json:"sessions"`
}

type jsonSession struct {
	Date           string `json:"date"`
	SessionID      string `json:"session_id"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time,omitempty"`
	Breaks         int    `json:"breaks"`
	BreakSeconds   int64  `json:"break_seconds"`
	DayWorkSeconds int64  `json:"day_work_seconds"`
	DayWork        string `json:"day_work"`
}

func ToJSON(logs []store.DayLog, loc *time.Location, now time.Time, path string) error {
	rows := buildRows(logs, loc)
	export := jsonExport{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Count:      len(rows),
	}

	for _, r := range rows {
		export.Sessions = append(export.Sessions, jsonSession{
			Date:           r.Date,
			SessionID:      r.SessionID,
			StartTime:      r.Start,
			EndTime:        r.End,
			Breaks:         r.Breaks,
			BreakSeconds:   r.BreakSeconds,
			DayWorkSeconds: r.DayWorkSeconds,
			DayWork:        formatDuration(r.DayWorkSeconds),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

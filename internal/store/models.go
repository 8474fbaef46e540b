package store

import (
	"encoding/json"
	"strconv"
	"time"
)

// Millis is a Unix timestamp in milliseconds.
type Millis int64

func MillisOf(t time.Time) Millis { return Millis(t.UnixMilli()) }

func (m Millis) Time() time.Time { return time.UnixMilli(int64(m)) }

func (m Millis) Ptr() *Millis { return &m }

type Break struct {
	Start Millis  `json:"start"`
	End   *Millis `json:"end,omitempty"`
}

func (b Break) Open() bool { return b.End == nil }

// Seconds returns the closed length of the break, floored. Open breaks count 0.
func (b Break) Seconds() int64 {
	if b.End == nil {
		return 0
	}
	return ElapsedSeconds(b.Start, *b.End)
}

type WorkSession struct {
	ID     string  `json:"id"`
	Start  Millis  `json:"start"`
	End    *Millis `json:"end,omitempty"`
	Breaks []Break `json:"breaks"`
}

// Clone returns a deep copy so callers can mutate breaks freely.
func (w WorkSession) Clone() WorkSession {
	c := w
	if w.End != nil {
		c.End = w.End.Ptr()
	}
	c.Breaks = make([]Break, len(w.Breaks))
	for i, b := range w.Breaks {
		c.Breaks[i] = Break{Start: b.Start}
		if b.End != nil {
			c.Breaks[i].End = b.End.Ptr()
		}
	}
	return c
}

func (w WorkSession) BreakSeconds() int64 {
	var total int64
	for _, b := range w.Breaks {
		total += b.Seconds()
	}
	return total
}

type DayLog struct {
	Date        string        `json:"date"`
	Sessions    []WorkSession `json:"sessions"`
	WorkSeconds int64         `json:"workSeconds"`
}

type Task struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Topic            string `json:"topic"`
	EstimatedMinutes int    `json:"estMinutes"`
	FrequencyPerWeek int    `json:"frequencyPerWeek"`
}

type CompletedTask struct {
	ID     string `json:"id"`
	TaskID string `json:"taskId"`
	Date   string `json:"date"`
}

type Setting struct {
	Key   string
	Value string
}

type AuthState struct {
	Email string `json:"email"`
}

const DaysPerWeek = 7

// Assignments maps day index (0 = Monday) to the ordered task ids placed on
// that day. A task id appears once per planned occurrence.
type Assignments [DaysPerWeek][]string

// MarshalJSON writes the assignments as an object keyed "0".."6".
func (a Assignments) MarshalJSON() ([]byte, error) {
	m := make(map[string][]string, DaysPerWeek)
	for d, ids := range a {
		if ids == nil {
			ids = []string{}
		}
		m[strconv.Itoa(d)] = ids
	}
	return json.Marshal(m)
}

func (a *Assignments) UnmarshalJSON(data []byte) error {
	var m map[string][]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out Assignments
	for k, ids := range m {
		d, err := strconv.Atoi(k)
		if err != nil || d < 0 || d >= DaysPerWeek {
			continue
		}
		out[d] = ids
	}
	*a = out
	return nil
}

// Clone returns a deep copy.
func (a Assignments) Clone() Assignments {
	var c Assignments
	for d, ids := range a {
		if ids != nil {
			c[d] = append(make([]string, 0, len(ids)), ids...)
		}
	}
	return c
}

type WeekPlan struct {
	WeekOf      string      `json:"weekOf"`
	DailyTarget int         `json:"dailyTarget"`
	Assignments Assignments `json:"assignments"`
}

// Phase is the state of the day's open session.
type Phase int

const (
	PhaseNoSession Phase = iota
	PhaseWorking
	PhaseOnBreak
	PhaseIdle // session open, nothing being timed
)

var phaseNames = map[Phase]string{
	PhaseNoSession: "no_session",
	PhaseWorking:   "working",
	PhaseOnBreak:   "on_break",
	PhaseIdle:      "idle",
}

func (p Phase) String() string {
	if n, ok := phaseNames[p]; ok {
		return n
	}
	return "unknown"
}

// DayState is the in-progress timer record for one calendar day.
//
// Since holds the start of the running work span while Working and the start
// of the running break while OnBreak; it is zero in the other phases. Session
// is nil exactly when Phase is PhaseNoSession.
type DayState struct {
	Date                   string
	AccumulatedWorkSeconds int64
	Session                *WorkSession
	Phase                  Phase
	Since                  Millis
}

func NewDayState(date string) DayState {
	return DayState{Date: date}
}

type dayStateJSON struct {
	Date                   string       `json:"date"`
	AccumulatedWorkSeconds int64        `json:"accumulatedWorkSeconds"`
	CurrentSession         *WorkSession `json:"currentSession,omitempty"`
	IsOnBreak              bool         `json:"isOnBreak"`
	CurrentStart           *Millis      `json:"currentStart,omitempty"`
	CurrentBreakStart      *Millis      `json:"currentBreakStart,omitempty"`
}

func (s DayState) MarshalJSON() ([]byte, error) {
	out := dayStateJSON{
		Date:                   s.Date,
		AccumulatedWorkSeconds: s.AccumulatedWorkSeconds,
		CurrentSession:         s.Session,
		IsOnBreak:              s.Phase == PhaseOnBreak,
	}
	switch s.Phase {
	case PhaseWorking:
		out.CurrentStart = s.Since.Ptr()
	case PhaseOnBreak:
		out.CurrentBreakStart = s.Since.Ptr()
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the flat persisted layout and folds any contradictory
// marker combination into one legal phase. Non-positive markers count as absent.
func (s *DayState) UnmarshalJSON(data []byte) error {
	var in dayStateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	st := DayState{
		Date:                   in.Date,
		AccumulatedWorkSeconds: max(in.AccumulatedWorkSeconds, 0),
		Session:                in.CurrentSession,
	}
	switch {
	case st.Session == nil:
		st.Phase = PhaseNoSession
	case in.IsOnBreak:
		st.Phase = PhaseOnBreak
		st.Since = breakStartOf(in, st.Session)
	case in.CurrentStart != nil && *in.CurrentStart > 0:
		st.Phase = PhaseWorking
		st.Since = *in.CurrentStart
	default:
		st.Phase = PhaseIdle
	}
	*s = st
	return nil
}

func breakStartOf(in dayStateJSON, sess *WorkSession) Millis {
	if in.CurrentBreakStart != nil && *in.CurrentBreakStart > 0 {
		return *in.CurrentBreakStart
	}
	if n := len(sess.Breaks); n > 0 && sess.Breaks[n-1].Open() {
		return sess.Breaks[n-1].Start
	}
	return sess.Start
}

// ElapsedSeconds returns whole seconds from a to b, clamped at zero.
func ElapsedSeconds(a, b Millis) int64 {
	d := int64(b - a)
	if d <= 0 {
		return 0
	}
	return d / 1000
}

// Package timer tracks worked and break seconds for the current calendar day.
//
// All state lives in the injected StateStore, so the timer survives process
// restarts. Every call first rolls the stored state over to today: a state
// left over from an earlier day is dropped, including any session that was
// never closed.
package timer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/worklog/internal/clock"
	"github.com/sadopc/worklog/internal/logger"
	"github.com/sadopc/worklog/internal/store"
)

// StateStore is the persistence the timer needs.
type StateStore interface {
	LoadDayState() (store.DayState, error)
	SaveDayState(store.DayState) error
	AddSessionToDay(date string, session store.WorkSession, workSecondsDelta int64) error
}

type Timer struct {
	store StateStore
	clock clock.Clock
	loc   *time.Location
	newID func() string
}

// New returns a timer over st. A nil loc means time.Local.
func New(st StateStore, c clock.Clock, loc *time.Location) *Timer {
	if loc == nil {
		loc = time.Local
	}
	return &Timer{store: st, clock: c, loc: loc, newID: uuid.NewString}
}

// Snapshot is the read model shown to the user.
type Snapshot struct {
	Date                string
	Phase               store.Phase
	SessionID           string
	WorkSecondsToday    int64
	IsOnBreak           bool
	BreakSecondsCurrent int64
}

func (t *Timer) now() store.Millis {
	return store.MillisOf(t.clock.Now())
}

func (t *Timer) today() string {
	return store.DayKey(t.clock.Now().In(t.loc))
}

// load reads the persisted state and rolls it to today.
func (t *Timer) load() (store.DayState, error) {
	st, err := t.store.LoadDayState()
	if err != nil {
		return store.DayState{}, err
	}
	today := t.today()
	if st.Date != today {
		if st.Session != nil {
			logger.Info("discarding unclosed session from previous day",
				"date", st.Date, "session", st.Session.ID, "accumulated", st.AccumulatedWorkSeconds)
		}
		return store.NewDayState(today), nil
	}
	return st, nil
}

// mutate loads, applies fn and persists the result.
func (t *Timer) mutate(op string, fn func(st *store.DayState, now store.Millis)) error {
	st, err := t.load()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	now := t.now()
	before := st.Phase
	fn(&st, now)
	if err := t.store.SaveDayState(st); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	logger.Debug("timer transition", "op", op, "from", before, "to", st.Phase)
	return nil
}

// StartWork opens a new session when none is open, or resumes timing an idle
// one. Calling it while working or on break changes nothing.
func (t *Timer) StartWork() error {
	return t.mutate("start work", func(st *store.DayState, now store.Millis) {
		switch st.Phase {
		case store.PhaseNoSession:
			st.Session = &store.WorkSession{ID: t.newID(), Start: now, Breaks: []store.Break{}}
			st.Phase = store.PhaseWorking
			st.Since = now
		case store.PhaseIdle:
			st.Phase = store.PhaseWorking
			st.Since = now
		}
	})
}

// StartBreak folds the running work span into the day total and opens a
// break. It does nothing without an open session or when already on break.
func (t *Timer) StartBreak() error {
	return t.mutate("start break", func(st *store.DayState, now store.Millis) {
		if st.Phase != store.PhaseWorking && st.Phase != store.PhaseIdle {
			return
		}
		foldWork(st, now)
		sess := st.Session.Clone()
		sess.Breaks = append(sess.Breaks, store.Break{Start: now})
		st.Session = &sess
		st.Phase = store.PhaseOnBreak
		st.Since = now
	})
}

// EndBreak closes the current break and resumes timing work.
func (t *Timer) EndBreak() error {
	return t.mutate("end break", func(st *store.DayState, now store.Millis) {
		if st.Phase != store.PhaseOnBreak {
			return
		}
		sess := st.Session.Clone()
		closeLastBreak(&sess, now)
		st.Session = &sess
		st.Phase = store.PhaseWorking
		st.Since = now
	})
}

// Suspend stops timing work without starting a break. The session stays open
// and StartWork resumes it. Used when the user goes idle.
func (t *Timer) Suspend() error {
	return t.mutate("suspend", func(st *store.DayState, now store.Millis) {
		if st.Phase != store.PhaseWorking {
			return
		}
		foldWork(st, now)
		st.Phase = store.PhaseIdle
		st.Since = 0
	})
}

// SaveAndReset closes the open session into today's day log and writes a
// zeroed state for the same date. Without an open session only the reset is
// written, so repeated calls add nothing.
func (t *Timer) SaveAndReset() error {
	st, err := t.load()
	if err != nil {
		return fmt.Errorf("save and reset: %w", err)
	}
	now := t.now()

	if st.Session != nil {
		foldWork(&st, now)
		sess := st.Session.Clone()
		if st.Phase == store.PhaseOnBreak {
			closeLastBreak(&sess, now)
		}
		sess.End = now.Ptr()
		if err := t.store.AddSessionToDay(st.Date, sess, st.AccumulatedWorkSeconds); err != nil {
			return fmt.Errorf("save and reset: %w", err)
		}
		logger.Info("session closed", "date", st.Date, "session", sess.ID,
			"work_seconds", st.AccumulatedWorkSeconds, "breaks", len(sess.Breaks))
	}

	if err := t.store.SaveDayState(store.NewDayState(st.Date)); err != nil {
		return fmt.Errorf("save and reset: %w", err)
	}
	return nil
}

// Read projects the stored state onto now. It never writes.
func (t *Timer) Read() (Snapshot, error) {
	st, err := t.load()
	if err != nil {
		return Snapshot{}, fmt.Errorf("read timer: %w", err)
	}
	now := t.now()
	return Project(st, now), nil
}

// Project computes the snapshot of st at now.
func Project(st store.DayState, now store.Millis) Snapshot {
	snap := Snapshot{
		Date:             st.Date,
		Phase:            st.Phase,
		WorkSecondsToday: st.AccumulatedWorkSeconds,
		IsOnBreak:        st.Phase == store.PhaseOnBreak,
	}
	if st.Session != nil {
		snap.SessionID = st.Session.ID
	}
	switch st.Phase {
	case store.PhaseWorking:
		snap.WorkSecondsToday += store.ElapsedSeconds(st.Since, now)
	case store.PhaseOnBreak:
		snap.BreakSecondsCurrent = store.ElapsedSeconds(st.Since, now)
	}
	return snap
}

func foldWork(st *store.DayState, now store.Millis) {
	if st.Phase == store.PhaseWorking {
		st.AccumulatedWorkSeconds += store.ElapsedSeconds(st.Since, now)
	}
	st.Since = 0
}

func closeLastBreak(sess *store.WorkSession, now store.Millis) {
	if n := len(sess.Breaks); n > 0 && sess.Breaks[n-1].Open() {
		sess.Breaks[n-1].End = now.Ptr()
	}
}

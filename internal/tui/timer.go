package tui

import (
	"time"

	"github.com/sadopc/worklog/internal/clock"
	"github.com/sadopc/worklog/internal/logger"
	"github.com/sadopc/worklog/internal/store"
	"github.com/sadopc/worklog/internal/timer"
)

// timerModel mirrors the persisted day timer for display and suspends it
// after idleTimeout without key activity.
type timerModel struct {
	timer *timer.Timer
	clock clock.Clock

	snap timer.Snapshot

	// Idle detection
	lastActivity time.Time
	idleTimeout  time.Duration // zero disables
	isIdle       bool          // suspended by us, resumed on the next key
}

func newTimerModel(t *timer.Timer, c clock.Clock, idleTimeout time.Duration) timerModel {
	return timerModel{
		timer:        t,
		clock:        c,
		lastActivity: c.Now(),
		idleTimeout:  idleTimeout,
	}
}

func (t *timerModel) read() error {
	snap, err := t.timer.Read()
	if err != nil {
		return err
	}
	t.snap = snap
	return nil
}

// tick refreshes the snapshot and suspends work once the user has been
// away for idleTimeout.
func (t *timerModel) tick() error {
	if err := t.read(); err != nil {
		return err
	}
	if t.idleTimeout <= 0 || t.isIdle || t.snap.Phase != store.PhaseWorking {
		return nil
	}
	away := t.clock.Now().Sub(t.lastActivity)
	if away < t.idleTimeout {
		return nil
	}
	if err := t.timer.Suspend(); err != nil {
		return err
	}
	t.isIdle = true
	logger.Info("idle, timer suspended", "away", away.Round(time.Second))
	return t.read()
}

// recordActivity notes a key press. It reports whether a session suspended
// for idleness was resumed.
func (t *timerModel) recordActivity() (bool, error) {
	t.lastActivity = t.clock.Now()
	if !t.isIdle {
		return false, nil
	}
	t.isIdle = false
	if err := t.timer.StartWork(); err != nil {
		return false, err
	}
	logger.Info("activity, timer resumed")
	return true, t.read()
}

func (t *timerModel) startWork() error {
	t.isIdle = false
	if err := t.timer.StartWork(); err != nil {
		return err
	}
	return t.read()
}

func (t *timerModel) startBreak() error {
	t.isIdle = false
	if err := t.timer.StartBreak(); err != nil {
		return err
	}
	return t.read()
}

func (t *timerModel) endBreak() error {
	if err := t.timer.EndBreak(); err != nil {
		return err
	}
	return t.read()
}

func (t timerModel) phase() store.Phase { return t.snap.Phase }

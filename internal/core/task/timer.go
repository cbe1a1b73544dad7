package task

import "time"

const (
	// DefaultDuration is the auto-completion window opened when a task is
	// checked.
	DefaultDuration = time.Hour
	// DefaultSweepInterval is how often the background sweep runs.
	DefaultSweepInterval = 30 * time.Second
)

// Timer computes per-task timer values for a fixed window length.
type Timer struct {
	Duration time.Duration
}

// DefaultTimer returns a Timer using DefaultDuration.
func DefaultTimer() Timer {
	return Timer{Duration: DefaultDuration}
}

func (tm Timer) duration() time.Duration {
	if tm.Duration <= 0 {
		return DefaultDuration
	}
	return tm.Duration
}

// Elapsed returns the time since the task was checked. ok is false when the
// task is not Timered.
func (tm Timer) Elapsed(t Task, now time.Time) (time.Duration, bool) {
	if t.State() != StateTimered {
		return 0, false
	}
	elapsed := now.Sub(*t.CheckedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed, true
}

// Progress returns how far through its window the task is, in [0, 100].
// ok is false when the task is not Timered.
func (tm Timer) Progress(t Task, now time.Time) (float64, bool) {
	elapsed, ok := tm.Elapsed(t, now)
	if !ok {
		return 0, false
	}
	p := float64(elapsed) / float64(tm.duration()) * 100
	if p > 100 {
		p = 100
	}
	return p, true
}

// Remaining returns the time left in the task's window, never negative.
// ok is false when the task is not Timered.
func (tm Timer) Remaining(t Task, now time.Time) (time.Duration, bool) {
	elapsed, ok := tm.Elapsed(t, now)
	if !ok {
		return 0, false
	}
	left := tm.duration() - elapsed
	if left < 0 {
		left = 0
	}
	return left, true
}

// Expired reports whether a Timered task's window has fully elapsed.
func (tm Timer) Expired(t Task, now time.Time) bool {
	elapsed, ok := tm.Elapsed(t, now)
	return ok && elapsed >= tm.duration()
}

// Cutoff returns the latest CheckedAt that counts as expired at now.
func (tm Timer) Cutoff(now time.Time) time.Time {
	return now.Add(-tm.duration())
}

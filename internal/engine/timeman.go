package engine

import "time"

// TimeManager tracks the time budget of one search. A zero budget never
// expires.
type TimeManager struct {
	start  time.Time
	budget time.Duration
}

// NewTimeManager starts the clock for a search with the given budget.
func NewTimeManager(budget time.Duration) *TimeManager {
	return &TimeManager{start: time.Now(), budget: max(budget, 0)}
}

// Elapsed returns the time since the search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.start)
}

// Budget returns the configured budget, zero for unbounded.
func (tm *TimeManager) Budget() time.Duration {
	return tm.budget
}

// Expired reports whether the budget is used up.
func (tm *TimeManager) Expired() bool {
	return tm.budget > 0 && tm.Elapsed() >= tm.budget
}

// CanStartIteration reports whether another depth is likely to finish. Each
// iteration costs several times the previous one, so none is started once
// half the budget is gone.
func (tm *TimeManager) CanStartIteration() bool {
	return tm.budget == 0 || tm.Elapsed() < tm.budget/2
}

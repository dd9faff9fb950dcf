package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrGoalNotFound is returned by operations that need a goal to exist.
var ErrGoalNotFound = errors.New("store: goal not found")

// Store owns the in-memory snapshot and is the single source of truth for
// every other component. All mutations are read-modify-write over the whole
// snapshot followed by a gateway save. Callers are single-threaded; the
// store does not lock.
type Store struct {
	gw   Gateway
	snap *Snapshot
}

// New returns a store bound to gw with an empty snapshot. Call Load to pick
// up persisted state.
func New(gw Gateway) *Store {
	return &Store{gw: gw, snap: &Snapshot{}}
}

// Load replaces the in-memory snapshot with the persisted one, or keeps an
// empty snapshot when none exists yet.
func (s *Store) Load(ctx context.Context) error {
	snap, err := s.gw.Load(ctx)
	if err != nil {
		return err
	}
	if snap != nil {
		s.snap = snap
	}
	return nil
}

// Data exposes the live snapshot for reads. Metrics and views recompute from
// it on demand; nothing derived is stored back.
func (s *Store) Data() *Snapshot {
	return s.snap
}

func (s *Store) persist(ctx context.Context) error {
	return s.gw.Save(ctx, s.snap)
}

// Commit replaces the whole snapshot and persists it. Check-ins build their
// result on a clone and commit only after every planner call succeeded, so a
// failed attempt never leaves partial state here.
func (s *Store) Commit(ctx context.Context, snap *Snapshot) error {
	if err := s.gw.Save(ctx, snap); err != nil {
		return err
	}
	s.snap = snap
	return nil
}

// Reset clears the persisted slot and empties the in-memory state.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.gw.Clear(ctx); err != nil {
		return err
	}
	s.snap = &Snapshot{}
	return nil
}

// FinancialGoal looks up a financial goal by ID.
func (s *Store) FinancialGoal(id string) (*FinancialGoal, bool) {
	for i := range s.snap.FinancialGoals {
		if s.snap.FinancialGoals[i].ID == id {
			return &s.snap.FinancialGoals[i], true
		}
	}
	return nil, false
}

// PersonalGoal looks up a personal goal by ID.
func (s *Store) PersonalGoal(id string) (*PersonalGoal, bool) {
	for i := range s.snap.PersonalGoals {
		if s.snap.PersonalGoals[i].ID == id {
			return &s.snap.PersonalGoals[i], true
		}
	}
	return nil, false
}

// AddFinancialGoal appends the goal and replaces the user profile wholesale,
// matching setup semantics: the latest setup's income figures win.
func (s *Store) AddFinancialGoal(ctx context.Context, g FinancialGoal, profile UserProfile) error {
	s.snap.FinancialGoals = append(s.snap.FinancialGoals, g)
	s.snap.UserProfile = &profile
	return s.persist(ctx)
}

// AddPersonalGoal appends the goal.
func (s *Store) AddPersonalGoal(ctx context.Context, g PersonalGoal) error {
	s.snap.PersonalGoals = append(s.snap.PersonalGoals, g)
	return s.persist(ctx)
}

// SetGoalStatus updates one goal's lifecycle state. Unknown IDs are a no-op.
func (s *Store) SetGoalStatus(ctx context.Context, id string, kind GoalKind, status GoalStatus) error {
	changed := false
	switch kind {
	case KindFinancial:
		if g, ok := s.FinancialGoal(id); ok && g.Status != status {
			g.Status = status
			changed = true
		}
	case KindPersonal:
		if g, ok := s.PersonalGoal(id); ok && g.Status != status {
			g.Status = status
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.persist(ctx)
}

// DeleteGoal removes a goal from its list. Deleting an absent ID is a no-op,
// not an error; nothing else in the snapshot is touched.
func (s *Store) DeleteGoal(ctx context.Context, id string, kind GoalKind) error {
	changed := false
	switch kind {
	case KindFinancial:
		for i, g := range s.snap.FinancialGoals {
			if g.ID == id {
				s.snap.FinancialGoals = append(s.snap.FinancialGoals[:i], s.snap.FinancialGoals[i+1:]...)
				changed = true
				break
			}
		}
	case KindPersonal:
		for i, g := range s.snap.PersonalGoals {
			if g.ID == id {
				s.snap.PersonalGoals = append(s.snap.PersonalGoals[:i], s.snap.PersonalGoals[i+1:]...)
				changed = true
				break
			}
		}
	}
	if !changed {
		return nil
	}
	return s.persist(ctx)
}

// AddCustomTask appends a user-authored task to the goal's current week.
func (s *Store) AddCustomTask(ctx context.Context, goalID, description string) (WeeklyTask, error) {
	g, ok := s.PersonalGoal(goalID)
	if !ok {
		return WeeklyTask{}, ErrGoalNotFound
	}
	task := WeeklyTask{ID: uuid.NewString(), Description: description, IsCustom: true}
	idx := g.CurrentWeek - 1
	for len(g.TaskHistory) <= idx {
		g.TaskHistory = append(g.TaskHistory, nil)
	}
	g.TaskHistory[idx] = append(g.TaskHistory[idx], task)
	if err := s.persist(ctx); err != nil {
		return WeeklyTask{}, err
	}
	return task, nil
}

// ToggleTask flips one current-week task's completion flag. Unknown goal or
// task IDs are a no-op.
func (s *Store) ToggleTask(ctx context.Context, goalID, taskID string) error {
	g, ok := s.PersonalGoal(goalID)
	if !ok {
		return nil
	}
	tasks := g.CurrentWeekTasks()
	for i := range tasks {
		if tasks[i].ID == taskID {
			tasks[i].Completed = !tasks[i].Completed
			return s.persist(ctx)
		}
	}
	return nil
}

// DeleteTask removes one current-week task. Unknown IDs are a no-op.
func (s *Store) DeleteTask(ctx context.Context, goalID, taskID string) error {
	g, ok := s.PersonalGoal(goalID)
	if !ok {
		return nil
	}
	idx := g.CurrentWeek - 1
	if idx < 0 || idx >= len(g.TaskHistory) {
		return nil
	}
	for i, t := range g.TaskHistory[idx] {
		if t.ID == taskID {
			g.TaskHistory[idx] = append(g.TaskHistory[idx][:i], g.TaskHistory[idx][i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

// AddTransaction prepends to the ledger, newest first.
func (s *Store) AddTransaction(ctx context.Context, tx Transaction) error {
	s.snap.Transactions = append([]Transaction{tx}, s.snap.Transactions...)
	return s.persist(ctx)
}

// DeleteTransaction removes a ledger entry. Absent IDs are a no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	for i, tx := range s.snap.Transactions {
		if tx.ID == id {
			s.snap.Transactions = append(s.snap.Transactions[:i], s.snap.Transactions[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

// MarkNotificationRead sets one notification's read flag.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	for i := range s.snap.Notifications {
		if s.snap.Notifications[i].ID == id {
			if s.snap.Notifications[i].Read {
				return nil
			}
			s.snap.Notifications[i].Read = true
			return s.persist(ctx)
		}
	}
	return nil
}

// MarkAllNotificationsRead sets every notification's read flag.
func (s *Store) MarkAllNotificationsRead(ctx context.Context) error {
	changed := false
	for i := range s.snap.Notifications {
		if !s.snap.Notifications[i].Read {
			s.snap.Notifications[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.persist(ctx)
}

// ClearReadNotifications drops read notifications, keeping unread ones in
// order. This is the only way notifications leave the list.
func (s *Store) ClearReadNotifications(ctx context.Context) error {
	unread := s.snap.Notifications[:0]
	changed := false
	for _, n := range s.snap.Notifications {
		if n.Read {
			changed = true
			continue
		}
		unread = append(unread, n)
	}
	if !changed {
		return nil
	}
	s.snap.Notifications = unread
	return s.persist(ctx)
}

// UnreadNotifications counts notifications awaiting the user.
func (s *Store) UnreadNotifications() int {
	count := 0
	for _, n := range s.snap.Notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jask/northstar/internal/llm"
	"github.com/jask/northstar/internal/store"
)

// Validation errors, rejected before any planner call or mutation.
var (
	ErrNegativeSavedAmount = errors.New("checkin: saved amount must not be negative")
	ErrNoPersonalGoals     = errors.New("checkin: at least one personal goal is required")
	ErrGoalNotFound        = errors.New("checkin: goal not found")
	ErrGoalNotActive       = errors.New("checkin: goal is not active")
)

// CheckinService executes the weekly check-in: apply the user's task
// decisions, fan out one planner call per personal goal, and commit the
// merged result atomically. A single planner failure aborts the whole
// check-in with no partial state.
type CheckinService struct {
	Store   *store.Store
	Planner llm.Planner
}

// CheckinResult is what one successful check-in produced.
type CheckinResult struct {
	FinancialGoal    store.FinancialGoal
	PersonalGoals    []store.PersonalGoal
	NewInsights      []store.AIInsight
	NewNotifications []store.Notification
}

// Submit runs one check-in for one financial goal and one or more personal
// goals. completedTaskIDs is the full assertion for the current week: a task
// is complete iff its ID appears, so unchecking is meaningful. IDs outside
// the goals' current weeks are ignored.
func (s *CheckinService) Submit(ctx context.Context, financialGoalID string, personalGoalIDs []string, savedAmountCents int64, completedTaskIDs []string) (CheckinResult, error) {
	if savedAmountCents < 0 {
		return CheckinResult{}, ErrNegativeSavedAmount
	}
	if len(personalGoalIDs) == 0 {
		return CheckinResult{}, ErrNoPersonalGoals
	}

	// All mutation happens on a clone; the live snapshot is untouched until
	// every planner call has succeeded.
	snap := s.Store.Data().Clone()

	fin := findFinancial(snap, financialGoalID)
	if fin == nil {
		return CheckinResult{}, fmt.Errorf("%w: financial %s", ErrGoalNotFound, financialGoalID)
	}
	if fin.Status != store.StatusActive {
		return CheckinResult{}, fmt.Errorf("%w: financial %s", ErrGoalNotActive, financialGoalID)
	}
	goals := make([]*store.PersonalGoal, len(personalGoalIDs))
	for i, id := range personalGoalIDs {
		g := findPersonal(snap, id)
		if g == nil {
			return CheckinResult{}, fmt.Errorf("%w: personal %s", ErrGoalNotFound, id)
		}
		if g.Status != store.StatusActive {
			return CheckinResult{}, fmt.Errorf("%w: personal %s", ErrGoalNotActive, id)
		}
		goals[i] = g
	}

	finBefore := *fin.Clone()

	asserted := make(map[string]bool, len(completedTaskIDs))
	for _, id := range completedTaskIDs {
		asserted[id] = true
	}

	// Step 1: the asserted set replaces current-week completion flags.
	for _, g := range goals {
		tasks := g.CurrentWeekTasks()
		for i := range tasks {
			tasks[i].Completed = asserted[tasks[i].ID]
		}
	}

	// One planner call per goal, concurrently; the first failure aborts all.
	reqs := make([]llm.WeeklyUpdateRequest, len(goals))
	for i, g := range goals {
		reqs[i] = buildUpdateRequest(*fin, *g, savedAmountCents, asserted)
	}
	results := make([]llm.WeeklyUpdateResponse, len(goals))
	eg, egCtx := errgroup.WithContext(ctx)
	for i := range reqs {
		eg.Go(func() error {
			resp, err := s.Planner.WeeklyUpdate(egCtx, reqs[i])
			if err != nil {
				return fmt.Errorf("weekly update for %s: %w", reqs[i].PersonalGoal.Description, err)
			}
			results[i] = resp
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return CheckinResult{}, err
	}

	now := time.Now().UTC()

	// The saved amount is reported once per check-in, so exactly one
	// financial update applies: the first supplied goal's result decides,
	// deterministically, regardless of call completion order.
	fin.SavingsHistory = append(fin.SavingsHistory, store.SavingsEntry{
		Week:        len(fin.SavingsHistory) + 1,
		AmountCents: savedAmountCents,
	})
	fin.CurrentAmountCents += savedAmountCents

	var insights []store.AIInsight
	for i, g := range goals {
		week := g.CurrentWeekTasks()
		completed := 0
		for _, t := range week {
			if t.Completed {
				completed++
			}
		}

		planned := make([]store.WeeklyTask, 0, len(results[i].NextWeekTasks))
		for _, desc := range results[i].NextWeekTasks {
			planned = append(planned, store.WeeklyTask{ID: uuid.NewString(), Description: desc})
		}
		next := mergeNextWeek(week, planned)

		g.CompletionHistory = append(g.CompletionHistory, store.CompletionEntry{
			Week:           g.CurrentWeek,
			CompletedTasks: completed,
			TotalTasks:     len(week),
		})
		g.CurrentWeek++
		idx := g.CurrentWeek - 1
		for len(g.TaskHistory) <= idx {
			g.TaskHistory = append(g.TaskHistory, nil)
		}
		g.TaskHistory[idx] = next

		if ins := results[i].Insight; ins != nil {
			insights = append(insights, store.AIInsight{
				ID:   uuid.NewString(),
				Type: store.InsightType(ins.Type),
				Text: ins.Text,
				Date: now,
			})
		}
	}
	snap.Insights = append(append([]store.AIInsight(nil), insights...), snap.Insights...)

	personalsAfter := make([]store.PersonalGoal, len(goals))
	for i, g := range goals {
		personalsAfter[i] = *g
	}
	notifications := GenerateCheckinNotifications(finBefore, *fin, personalsAfter, insights, now)
	snap.Notifications = append(append([]store.Notification(nil), notifications...), snap.Notifications...)

	if err := s.Store.Commit(ctx, snap); err != nil {
		return CheckinResult{}, err
	}
	return CheckinResult{
		FinancialGoal:    *fin,
		PersonalGoals:    personalsAfter,
		NewInsights:      insights,
		NewNotifications: notifications,
	}, nil
}

// mergeNextWeek builds the upcoming week from the planner's list. If the
// planner echoes back an ID that already existed in the just-completed week,
// the local completion flag wins (the planner never sees local edits). An
// empty planner list carries the completed week's tasks forward instead of
// silently wiping the week: fresh IDs keep task ownership per-week, and
// completion starts over.
func mergeNextWeek(prevWeek, planned []store.WeeklyTask) []store.WeeklyTask {
	if len(planned) == 0 {
		carried := make([]store.WeeklyTask, len(prevWeek))
		for i, t := range prevWeek {
			carried[i] = store.WeeklyTask{ID: uuid.NewString(), Description: t.Description, IsCustom: t.IsCustom}
		}
		return carried
	}
	prevByID := make(map[string]bool, len(prevWeek))
	for _, t := range prevWeek {
		prevByID[t.ID] = t.Completed
	}
	out := make([]store.WeeklyTask, len(planned))
	copy(out, planned)
	for i := range out {
		if completed, ok := prevByID[out[i].ID]; ok {
			out[i].Completed = completed
		}
	}
	return out
}

func buildUpdateRequest(fin store.FinancialGoal, g store.PersonalGoal, savedAmountCents int64, asserted map[string]bool) llm.WeeklyUpdateRequest {
	week := g.CurrentWeekTasks()
	tasks := make([]llm.TaskState, len(week))
	var completedIDs []string
	for i, t := range week {
		tasks[i] = llm.TaskState{ID: t.ID, Description: t.Description, Completed: t.Completed}
		if asserted[t.ID] {
			completedIDs = append(completedIDs, t.ID)
		}
	}
	return llm.WeeklyUpdateRequest{
		FinancialGoal: llm.FinancialGoalState{
			ItemName:                 fin.ItemName,
			TargetAmountCents:        fin.TargetAmountCents,
			CurrentAmountCents:       fin.CurrentAmountCents,
			WeeklySavingsTargetCents: fin.WeeklySavingsTargetCents,
			RecentSavings:            recentSavings(fin.SavingsHistory, 5),
		},
		PersonalGoal: llm.PersonalGoalState{
			Description:        g.Description,
			GoalType:           g.GoalType,
			DailyTimeAvailable: g.DailyTimeAvailable,
			CurrentWeek:        g.CurrentWeek,
			Tasks:              tasks,
			RecentCompletion:   recentCompletion(g.CompletionHistory, 5),
		},
		SavedAmountCents: savedAmountCents,
		CompletedTaskIDs: completedIDs,
	}
}

func recentSavings(history []store.SavingsEntry, n int) []llm.WeekAmount {
	if len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]llm.WeekAmount, len(history))
	for i, e := range history {
		out[i] = llm.WeekAmount{Week: e.Week, AmountCents: e.AmountCents}
	}
	return out
}

func recentCompletion(history []store.CompletionEntry, n int) []llm.WeekCompletion {
	if len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]llm.WeekCompletion, len(history))
	for i, e := range history {
		out[i] = llm.WeekCompletion{Week: e.Week, CompletedTasks: e.CompletedTasks, TotalTasks: e.TotalTasks}
	}
	return out
}

func findFinancial(snap *store.Snapshot, id string) *store.FinancialGoal {
	for i := range snap.FinancialGoals {
		if snap.FinancialGoals[i].ID == id {
			return &snap.FinancialGoals[i]
		}
	}
	return nil
}

func findPersonal(snap *store.Snapshot, id string) *store.PersonalGoal {
	for i := range snap.PersonalGoals {
		if snap.PersonalGoals[i].ID == id {
			return &snap.PersonalGoals[i]
		}
	}
	return nil
}

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/northstar/internal/database"
)

func newTestStore(t *testing.T) (*Store, *SQLiteGateway) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	t.Log("migrations applied")

	gw := NewSQLiteGateway(db)
	st := New(gw)
	require.NoError(t, st.Load(context.Background()))
	return st, gw
}

func TestLoadEmptySlot(t *testing.T) {
	t.Parallel()

	st, gw := newTestStore(t)
	snap, err := gw.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, snap, "nothing was ever saved")
	require.NotNil(t, st.Data())
	require.Empty(t, st.Data().FinancialGoals)
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, gw := newTestStore(t)

	goal := FinancialGoal{
		ID:                       "fin-1",
		Status:                   StatusActive,
		ItemName:                 "MacBook Pro",
		TargetAmountCents:        200000,
		TargetDate:               "6 months",
		WeeklySavingsTargetCents: 7700,
	}
	profile := UserProfile{IncomeCents: 300000, HousingCostCents: 120000}
	require.NoError(t, st.AddFinancialGoal(ctx, goal, profile))

	personal := PersonalGoal{
		ID:          "per-1",
		Status:      StatusActive,
		Description: "learn guitar",
		GoalType:    "learning",
		TargetDate:  "8 weeks",
		CurrentWeek: 1,
		TaskHistory: [][]WeeklyTask{{
			{ID: "t1", Description: "practice chords"},
		}},
	}
	require.NoError(t, st.AddPersonalGoal(ctx, personal))
	t.Log("goals persisted")

	loaded, err := gw.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, profile, *loaded.UserProfile)
	require.Len(t, loaded.FinancialGoals, 1)
	require.Equal(t, goal, loaded.FinancialGoals[0])
	require.Len(t, loaded.PersonalGoals, 1)
	require.Equal(t, "practice chords", loaded.PersonalGoals[0].TaskHistory[0][0].Description)
}

func TestProfileReplacedWholesale(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, _ := newTestStore(t)

	require.NoError(t, st.AddFinancialGoal(ctx, FinancialGoal{ID: "a", Status: StatusActive}, UserProfile{IncomeCents: 100}))
	require.NoError(t, st.AddFinancialGoal(ctx, FinancialGoal{ID: "b", Status: StatusActive}, UserProfile{IncomeCents: 200}))
	require.Equal(t, int64(200), st.Data().UserProfile.IncomeCents)
	require.Len(t, st.Data().FinancialGoals, 2)
}

func TestGoalStatusAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, gw := newTestStore(t)

	require.NoError(t, st.AddPersonalGoal(ctx, PersonalGoal{ID: "per-1", Status: StatusActive, CurrentWeek: 1}))
	require.NoError(t, st.SetGoalStatus(ctx, "per-1", KindPersonal, StatusPaused))
	g, ok := st.PersonalGoal("per-1")
	require.True(t, ok)
	require.Equal(t, StatusPaused, g.Status)

	// unknown ID and wrong kind are quiet no-ops
	require.NoError(t, st.SetGoalStatus(ctx, "missing", KindPersonal, StatusActive))
	require.NoError(t, st.DeleteGoal(ctx, "per-1", KindFinancial))
	_, ok = st.PersonalGoal("per-1")
	require.True(t, ok, "wrong-kind delete must not remove the goal")

	require.NoError(t, st.DeleteGoal(ctx, "per-1", KindPersonal))
	_, ok = st.PersonalGoal("per-1")
	require.False(t, ok)
	require.NoError(t, st.DeleteGoal(ctx, "per-1", KindPersonal), "double delete is a no-op")

	loaded, err := gw.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, loaded.PersonalGoals)
}

func TestTaskMutations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, _ := newTestStore(t)

	require.NoError(t, st.AddPersonalGoal(ctx, PersonalGoal{
		ID:          "per-1",
		Status:      StatusActive,
		CurrentWeek: 1,
		TaskHistory: [][]WeeklyTask{{{ID: "t1", Description: "run 5k"}}},
	}))

	task, err := st.AddCustomTask(ctx, "per-1", "stretch daily")
	require.NoError(t, err)
	require.True(t, task.IsCustom)
	require.NotEmpty(t, task.ID)

	_, err = st.AddCustomTask(ctx, "missing", "anything")
	require.ErrorIs(t, err, ErrGoalNotFound)

	require.NoError(t, st.ToggleTask(ctx, "per-1", "t1"))
	g, _ := st.PersonalGoal("per-1")
	require.True(t, g.CurrentWeekTasks()[0].Completed)
	require.NoError(t, st.ToggleTask(ctx, "per-1", "t1"))
	g, _ = st.PersonalGoal("per-1")
	require.False(t, g.CurrentWeekTasks()[0].Completed)

	require.NoError(t, st.DeleteTask(ctx, "per-1", task.ID))
	g, _ = st.PersonalGoal("per-1")
	require.Len(t, g.CurrentWeekTasks(), 1)
	require.NoError(t, st.DeleteTask(ctx, "per-1", "gone"), "unknown task is a no-op")
}

func TestCustomTaskOnFutureWeekSlot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, _ := newTestStore(t)

	// current week has no slot yet; adding a task must create it
	require.NoError(t, st.AddPersonalGoal(ctx, PersonalGoal{ID: "per-1", Status: StatusActive, CurrentWeek: 3}))
	task, err := st.AddCustomTask(ctx, "per-1", "week three task")
	require.NoError(t, err)

	g, _ := st.PersonalGoal("per-1")
	require.Len(t, g.TaskHistory, 3)
	require.Equal(t, task.ID, g.CurrentWeekTasks()[0].ID)
}

func TestTransactionLedger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, _ := newTestStore(t)

	first := Transaction{ID: "tx-1", Description: "groceries", AmountCents: 4500, Type: TxExpense, Category: "Food", Date: time.Now().UTC()}
	second := Transaction{ID: "tx-2", Description: "salary", AmountCents: 300000, Type: TxIncome, Category: "Salary", Date: time.Now().UTC()}
	require.NoError(t, st.AddTransaction(ctx, first))
	require.NoError(t, st.AddTransaction(ctx, second))

	// newest first
	require.Equal(t, "tx-2", st.Data().Transactions[0].ID)
	require.Equal(t, "tx-1", st.Data().Transactions[1].ID)

	require.NoError(t, st.DeleteTransaction(ctx, "tx-1"))
	require.Len(t, st.Data().Transactions, 1)
	require.NoError(t, st.DeleteTransaction(ctx, "tx-1"), "absent ID is a no-op")
}

func TestNotificationLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, _ := newTestStore(t)
	snap := st.Data()
	snap.Notifications = []Notification{
		{ID: "n1", Type: NotifMilestone, Title: "Milestone Reached!"},
		{ID: "n2", Type: NotifWarning, Title: "Goal Off-Track"},
		{ID: "n3", Type: NotifInsight, Title: "New AI Insight"},
	}
	require.NoError(t, st.Commit(ctx, snap))
	require.Equal(t, 3, st.UnreadNotifications())

	require.NoError(t, st.MarkNotificationRead(ctx, "n2"))
	require.Equal(t, 2, st.UnreadNotifications())
	require.NoError(t, st.MarkNotificationRead(ctx, "n2"), "re-marking is a no-op")

	require.NoError(t, st.ClearReadNotifications(ctx))
	require.Len(t, st.Data().Notifications, 2)
	require.Equal(t, "n1", st.Data().Notifications[0].ID)
	require.Equal(t, "n3", st.Data().Notifications[1].ID)

	require.NoError(t, st.MarkAllNotificationsRead(ctx))
	require.Equal(t, 0, st.UnreadNotifications())
	require.NoError(t, st.ClearReadNotifications(ctx))
	require.Empty(t, st.Data().Notifications)
}

func TestCommitSwapsSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, gw := newTestStore(t)

	next := st.Data().Clone()
	next.FinancialGoals = append(next.FinancialGoals, FinancialGoal{ID: "fin-1", Status: StatusActive})
	require.NoError(t, st.Commit(ctx, next))
	require.Len(t, st.Data().FinancialGoals, 1)

	loaded, err := gw.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.FinancialGoals, 1)
}

func TestReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, gw := newTestStore(t)

	require.NoError(t, st.AddPersonalGoal(ctx, PersonalGoal{ID: "per-1", Status: StatusActive, CurrentWeek: 1}))
	require.NoError(t, st.Reset(ctx))
	require.Empty(t, st.Data().PersonalGoals)

	loaded, err := gw.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded, "slot must be empty after reset")
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{
		UserProfile: &UserProfile{IncomeCents: 100},
		FinancialGoals: []FinancialGoal{{
			ID:             "fin-1",
			SavingsHistory: []SavingsEntry{{Week: 1, AmountCents: 500}},
		}},
		PersonalGoals: []PersonalGoal{{
			ID:                "per-1",
			CurrentWeek:       1,
			TaskHistory:       [][]WeeklyTask{{{ID: "t1", Description: "original"}}},
			CompletionHistory: []CompletionEntry{{Week: 1, CompletedTasks: 1, TotalTasks: 2}},
		}},
	}
	clone := snap.Clone()
	clone.UserProfile.IncomeCents = 999
	clone.FinancialGoals[0].SavingsHistory[0].AmountCents = 999
	clone.PersonalGoals[0].TaskHistory[0][0].Description = "mutated"
	clone.PersonalGoals[0].CompletionHistory[0].CompletedTasks = 99

	require.Equal(t, int64(100), snap.UserProfile.IncomeCents)
	require.Equal(t, int64(500), snap.FinancialGoals[0].SavingsHistory[0].AmountCents)
	require.Equal(t, "original", snap.PersonalGoals[0].TaskHistory[0][0].Description)
	require.Equal(t, 1, snap.PersonalGoals[0].CompletionHistory[0].CompletedTasks)
}

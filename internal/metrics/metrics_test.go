package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/northstar/internal/store"
)

func finGoal(status store.GoalStatus, current, target, weekly int64, history ...int64) store.FinancialGoal {
	g := store.FinancialGoal{
		ID:                       "fin",
		Status:                   status,
		ItemName:                 "MacBook",
		CurrentAmountCents:       current,
		TargetAmountCents:        target,
		WeeklySavingsTargetCents: weekly,
	}
	for i, amount := range history {
		g.SavingsHistory = append(g.SavingsHistory, store.SavingsEntry{Week: i + 1, AmountCents: amount})
	}
	return g
}

func perGoal(status store.GoalStatus, timeline string, weeks ...[2]int) store.PersonalGoal {
	g := store.PersonalGoal{
		ID:          "per",
		Status:      status,
		Description: "learn guitar",
		TargetDate:  timeline,
	}
	for i, w := range weeks {
		g.CompletionHistory = append(g.CompletionHistory, store.CompletionEntry{
			Week:           i + 1,
			CompletedTasks: w[0],
			TotalTasks:     w[1],
		})
	}
	g.CurrentWeek = len(weeks) + 1
	return g
}

func TestFinancialGoalHealth(t *testing.T) {
	t.Parallel()

	// no history yet: nothing to judge
	require.Equal(t, HealthGood, FinancialGoalHealth(finGoal(store.StatusActive, 0, 100000, 5000)))
	// 2 weeks at 5000 target expects 10000; 9500 saved is 95%
	require.Equal(t, HealthGood, FinancialGoalHealth(finGoal(store.StatusActive, 9500, 100000, 5000, 5000, 4500)))
	// 7000 of 10000 expected = 70%
	require.Equal(t, HealthAverage, FinancialGoalHealth(finGoal(store.StatusActive, 7000, 100000, 5000, 4000, 3000)))
	// 2000 of 10000 expected = 20%
	require.Equal(t, HealthPoor, FinancialGoalHealth(finGoal(store.StatusActive, 2000, 100000, 5000, 1000, 1000)))
	// zero weekly target never divides
	require.Equal(t, HealthGood, FinancialGoalHealth(finGoal(store.StatusActive, 0, 100000, 0, 0)))
}

func TestPersonalGoalHealth(t *testing.T) {
	t.Parallel()

	require.Equal(t, HealthGood, PersonalGoalHealth(perGoal(store.StatusActive, "8 weeks")))
	// only the latest week matters
	require.Equal(t, HealthGood, PersonalGoalHealth(perGoal(store.StatusActive, "8 weeks", [2]int{0, 4}, [2]int{3, 4})))
	require.Equal(t, HealthAverage, PersonalGoalHealth(perGoal(store.StatusActive, "8 weeks", [2]int{4, 4}, [2]int{2, 4})))
	require.Equal(t, HealthPoor, PersonalGoalHealth(perGoal(store.StatusActive, "8 weeks", [2]int{4, 4}, [2]int{1, 4})))
	// a week with no tasks is not a failure
	require.Equal(t, HealthGood, PersonalGoalHealth(perGoal(store.StatusActive, "8 weeks", [2]int{0, 0})))
}

func TestProgress(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 25.0, FinancialProgress(finGoal(store.StatusActive, 25000, 100000, 5000)), 0.001)
	// over-saving clamps at 100
	require.InDelta(t, 100.0, FinancialProgress(finGoal(store.StatusActive, 120000, 100000, 5000)), 0.001)
	require.InDelta(t, 0.0, FinancialProgress(finGoal(store.StatusActive, 5000, 0, 0)), 0.001)

	// 2 completed weeks of an 8-week timeline
	require.InDelta(t, 25.0, PersonalProgress(perGoal(store.StatusActive, "8 weeks", [2]int{3, 4}, [2]int{4, 4})), 0.001)
	// unparseable timeline falls back to 12 weeks
	require.InDelta(t, 100.0/12, PersonalProgress(perGoal(store.StatusActive, "someday", [2]int{3, 4})), 0.001)
}

func TestOverallProgress(t *testing.T) {
	t.Parallel()

	fin := []store.FinancialGoal{finGoal(store.StatusActive, 50000, 100000, 5000)}
	per := []store.PersonalGoal{perGoal(store.StatusActive, "8 weeks", [2]int{4, 4}, [2]int{4, 4})}

	// (50 + 25) / 2
	require.InDelta(t, 37.5, OverallProgress(fin, per), 0.001)
	// one category alone stands by itself
	require.InDelta(t, 50.0, OverallProgress(fin, nil), 0.001)
	require.InDelta(t, 25.0, OverallProgress(nil, per), 0.001)
	require.InDelta(t, 0.0, OverallProgress(nil, nil), 0.001)

	// paused goals do not count
	paused := []store.FinancialGoal{finGoal(store.StatusPaused, 50000, 100000, 5000)}
	require.InDelta(t, 25.0, OverallProgress(paused, per), 0.001)
}

func TestStreak(t *testing.T) {
	t.Parallel()

	fin := finGoal(store.StatusActive, 0, 100000, 5000, 5000, 6000, 5000)
	per := perGoal(store.StatusActive, "12 weeks", [2]int{2, 4}, [2]int{3, 4}, [2]int{4, 4})
	require.Equal(t, 3, Streak([]store.FinancialGoal{fin}, []store.PersonalGoal{per}))

	// a short week breaks the run at that point; later weeks still count
	brokenFin := finGoal(store.StatusActive, 0, 100000, 5000, 5000, 2000, 5000)
	require.Equal(t, 1, Streak([]store.FinancialGoal{brokenFin}, []store.PersonalGoal{per}))

	// under 50% completion breaks it too
	lazyPer := perGoal(store.StatusActive, "12 weeks", [2]int{4, 4}, [2]int{1, 4}, [2]int{4, 4})
	require.Equal(t, 1, Streak([]store.FinancialGoal{fin}, []store.PersonalGoal{lazyPer}))

	// zero-task weeks pass the task condition
	quietPer := perGoal(store.StatusActive, "12 weeks", [2]int{4, 4}, [2]int{0, 0}, [2]int{4, 4})
	require.Equal(t, 3, Streak([]store.FinancialGoal{fin}, []store.PersonalGoal{quietPer}))

	// both kinds must have an active goal
	require.Equal(t, 0, Streak([]store.FinancialGoal{fin}, nil))
	require.Equal(t, 0, Streak(nil, []store.PersonalGoal{per}))

	// paused primaries are skipped, not counted
	pausedFin := finGoal(store.StatusPaused, 0, 100000, 5000, 5000)
	require.Equal(t, 3, Streak([]store.FinancialGoal{pausedFin, fin}, []store.PersonalGoal{per}))
}

func TestSavingsRateAndTotalSaved(t *testing.T) {
	t.Parallel()

	fin := finGoal(store.StatusActive, 0, 100000, 5000, 4000, 6000)
	// average 5000 of 5000 target
	require.InDelta(t, 100.0, SavingsRate([]store.FinancialGoal{fin}), 0.001)

	under := finGoal(store.StatusActive, 0, 100000, 5000, 2000, 3000)
	require.InDelta(t, 50.0, SavingsRate([]store.FinancialGoal{under}), 0.001)

	require.InDelta(t, 0.0, SavingsRate(nil), 0.001)
	require.InDelta(t, 0.0, SavingsRate([]store.FinancialGoal{finGoal(store.StatusActive, 0, 100000, 5000)}), 0.001)

	a := finGoal(store.StatusActive, 12000, 100000, 5000)
	b := finGoal(store.StatusPaused, 8000, 50000, 2500)
	require.Equal(t, int64(20000), TotalSaved([]store.FinancialGoal{a, b}))
}

func TestSpendingBreakdown(t *testing.T) {
	t.Parallel()

	txs := []store.Transaction{
		{ID: "1", Type: store.TxExpense, Category: "Food", AmountCents: 3000},
		{ID: "2", Type: store.TxExpense, Category: "Transport", AmountCents: 3000},
		{ID: "3", Type: store.TxExpense, Category: "Food", AmountCents: 3000},
		{ID: "4", Type: store.TxIncome, Category: "Salary", AmountCents: 200000},
		{ID: "5", Type: store.TxExpense, Category: "Rent", AmountCents: 3000},
	}
	breakdown := SpendingBreakdown(txs)
	require.Len(t, breakdown, 3)
	require.Equal(t, "Food", breakdown[0].Category)
	require.Equal(t, int64(6000), breakdown[0].AmountCents)
	require.InDelta(t, 50.0, breakdown[0].Percent, 0.001)
	// equal percentages tie-break alphabetically
	require.Equal(t, "Rent", breakdown[1].Category)
	require.Equal(t, "Transport", breakdown[2].Category)

	require.Nil(t, SpendingBreakdown(nil))
	require.Nil(t, SpendingBreakdown([]store.Transaction{{Type: store.TxIncome, AmountCents: 100}}))
}

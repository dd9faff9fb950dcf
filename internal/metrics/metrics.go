// Package metrics computes derived views over the snapshot. Everything here
// is a pure function recomputed on demand; nothing is persisted or cached
// across store mutations.
package metrics

import (
	"sort"

	"github.com/jask/northstar/internal/store"
	"github.com/jask/northstar/internal/timeline"
)

// Health is the three-level qualitative classification of a goal.
type Health string

const (
	HealthGood    Health = "good"
	HealthAverage Health = "average"
	HealthPoor    Health = "poor"
)

// FinancialGoalHealth compares cumulative savings against the pace the
// weekly target implies. A goal with no history is good: no evidence of
// trouble yet.
func FinancialGoalHealth(g store.FinancialGoal) Health {
	if len(g.SavingsHistory) == 0 {
		return HealthGood
	}
	expected := int64(len(g.SavingsHistory)) * g.WeeklySavingsTargetCents
	if expected == 0 {
		return HealthGood
	}
	ratio := float64(g.CurrentAmountCents) / float64(expected)
	switch {
	case ratio >= 0.9:
		return HealthGood
	case ratio >= 0.6:
		return HealthAverage
	}
	return HealthPoor
}

// PersonalGoalHealth looks only at the most recent completed week. Zero
// history and zero-task weeks classify as good.
func PersonalGoalHealth(g store.PersonalGoal) Health {
	if len(g.CompletionHistory) == 0 {
		return HealthGood
	}
	last := g.CompletionHistory[len(g.CompletionHistory)-1]
	if last.TotalTasks == 0 {
		return HealthGood
	}
	rate := float64(last.CompletedTasks) / float64(last.TotalTasks)
	switch {
	case rate >= 0.7:
		return HealthGood
	case rate >= 0.4:
		return HealthAverage
	}
	return HealthPoor
}

// FinancialProgress is the goal's percent toward its target, clamped to
// [0,100].
func FinancialProgress(g store.FinancialGoal) float64 {
	if g.TargetAmountCents <= 0 {
		return 0
	}
	pct := float64(g.CurrentAmountCents) / float64(g.TargetAmountCents) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// PersonalProgress is weeks-completed over total timeline weeks, as a
// percent.
func PersonalProgress(g store.PersonalGoal) float64 {
	total := timeline.ParseWeeks(g.TargetDate)
	if total <= 0 {
		return 0
	}
	return float64(len(g.CompletionHistory)) / float64(total) * 100
}

// OverallProgress averages financial and personal progress across active
// goals. When only one category has active goals it stands alone; with
// neither, progress is zero.
func OverallProgress(financial []store.FinancialGoal, personal []store.PersonalGoal) float64 {
	finSum, finCount := 0.0, 0
	for _, g := range financial {
		if g.Status != store.StatusActive {
			continue
		}
		finSum += FinancialProgress(g)
		finCount++
	}
	perSum, perCount := 0.0, 0
	for _, g := range personal {
		if g.Status != store.StatusActive {
			continue
		}
		perSum += PersonalProgress(g)
		perCount++
	}
	switch {
	case finCount > 0 && perCount > 0:
		return (finSum/float64(finCount) + perSum/float64(perCount)) / 2
	case finCount > 0:
		return finSum / float64(finCount)
	case perCount > 0:
		return perSum / float64(perCount)
	}
	return 0
}

// Streak counts consecutive trailing weeks where the primary active
// financial goal met its weekly savings target AND the primary active
// personal goal's completion rate was at least 50%. The first goal of each
// kind in list order is primary; a zero-task week passes the task condition.
func Streak(financial []store.FinancialGoal, personal []store.PersonalGoal) int {
	var fin *store.FinancialGoal
	for i := range financial {
		if financial[i].Status == store.StatusActive {
			fin = &financial[i]
			break
		}
	}
	var per *store.PersonalGoal
	for i := range personal {
		if personal[i].Status == store.StatusActive {
			per = &personal[i]
			break
		}
	}
	if fin == nil || per == nil {
		return 0
	}
	length := len(fin.SavingsHistory)
	if len(per.CompletionHistory) < length {
		length = len(per.CompletionHistory)
	}
	streak := 0
	for i := length - 1; i >= 0; i-- {
		savedEnough := fin.SavingsHistory[i].AmountCents >= fin.WeeklySavingsTargetCents
		comp := per.CompletionHistory[i]
		didEnough := comp.TotalTasks == 0 ||
			float64(comp.CompletedTasks)/float64(comp.TotalTasks) >= 0.5
		if !savedEnough || !didEnough {
			break
		}
		streak++
	}
	return streak
}

// SavingsRate is the first active goal's weekly average saved versus its
// weekly target, as a percent. Zero when there is no active goal, no
// history, or no target.
func SavingsRate(financial []store.FinancialGoal) float64 {
	for _, g := range financial {
		if g.Status != store.StatusActive {
			continue
		}
		if len(g.SavingsHistory) == 0 || g.WeeklySavingsTargetCents <= 0 {
			return 0
		}
		var total int64
		for _, e := range g.SavingsHistory {
			total += e.AmountCents
		}
		avg := float64(total) / float64(len(g.SavingsHistory))
		return avg / float64(g.WeeklySavingsTargetCents) * 100
	}
	return 0
}

// TotalSaved sums current amounts across every financial goal.
func TotalSaved(financial []store.FinancialGoal) int64 {
	var total int64
	for _, g := range financial {
		total += g.CurrentAmountCents
	}
	return total
}

// CategorySpend is one slice of the expense breakdown.
type CategorySpend struct {
	Category    string
	AmountCents int64
	Percent     float64
}

// SpendingBreakdown groups expense transactions by category, as a share of
// total expenses, sorted descending. Income entries are ignored.
func SpendingBreakdown(transactions []store.Transaction) []CategorySpend {
	totals := map[string]int64{}
	var totalExpense int64
	for _, tx := range transactions {
		if tx.Type != store.TxExpense {
			continue
		}
		totals[tx.Category] += tx.AmountCents
		totalExpense += tx.AmountCents
	}
	if totalExpense == 0 {
		return nil
	}
	out := make([]CategorySpend, 0, len(totals))
	for cat, amount := range totals {
		out = append(out, CategorySpend{
			Category:    cat,
			AmountCents: amount,
			Percent:     float64(amount) / float64(totalExpense) * 100,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Percent != out[j].Percent {
			return out[i].Percent > out[j].Percent
		}
		return out[i].Category < out[j].Category
	})
	return out
}

package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jask/northstar/internal/store"
)

var milestoneThresholds = []float64{25, 50, 75, 100}

// GenerateCheckinNotifications derives notifications from one check-in's
// before/after goal snapshots. Milestones fire once per threshold crossed
// this check-in (a big week can fire several), warnings fire per personal
// goal whose latest week finished below 40%, and each planner insight gets
// its own notification carrying the insight's date. Nothing is deduplicated
// against prior notifications.
func GenerateCheckinNotifications(before, after store.FinancialGoal, personals []store.PersonalGoal, insights []store.AIInsight, now time.Time) []store.Notification {
	var out []store.Notification

	for _, ins := range insights {
		out = append(out, store.Notification{
			ID:      uuid.NewString(),
			Type:    store.NotifInsight,
			Title:   "New AI Insight",
			Message: ins.Text,
			Date:    ins.Date,
		})
	}

	if after.TargetAmountCents > 0 {
		prev := float64(before.CurrentAmountCents) / float64(after.TargetAmountCents) * 100
		curr := float64(after.CurrentAmountCents) / float64(after.TargetAmountCents) * 100
		for _, threshold := range milestoneThresholds {
			if curr >= threshold && prev < threshold {
				out = append(out, store.Notification{
					ID:              uuid.NewString(),
					Type:            store.NotifMilestone,
					Title:           "Milestone Reached!",
					Message:         fmt.Sprintf("You've reached %.0f%% of your '%s' goal!", threshold, after.ItemName),
					Date:            now,
					RelatedGoalID:   after.ID,
					RelatedGoalKind: store.KindFinancial,
				})
			}
		}
	}

	for _, g := range personals {
		if len(g.CompletionHistory) == 0 {
			continue
		}
		last := g.CompletionHistory[len(g.CompletionHistory)-1]
		if last.TotalTasks == 0 {
			continue
		}
		if float64(last.CompletedTasks)/float64(last.TotalTasks) < 0.4 {
			out = append(out, store.Notification{
				ID:              uuid.NewString(),
				Type:            store.NotifWarning,
				Title:           "Goal Off-Track",
				Message:         fmt.Sprintf("You completed less than 40%% of your tasks for '%s'. Let's get back on track this week!", g.Description),
				Date:            now,
				RelatedGoalID:   g.ID,
				RelatedGoalKind: store.KindPersonal,
			})
		}
	}

	return out
}

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/northstar/internal/store"
)

func TestMilestoneNotifications(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	before := store.FinancialGoal{ID: "fin-1", ItemName: "MacBook", TargetAmountCents: 100000, CurrentAmountCents: 20000}
	after := before
	after.CurrentAmountCents = 80000

	// 20% -> 80% crosses 25, 50 and 75 in one week, but not 100
	out := GenerateCheckinNotifications(before, after, nil, nil, now)
	require.Len(t, out, 3)
	messages := make([]string, len(out))
	for i, n := range out {
		require.Equal(t, store.NotifMilestone, n.Type)
		require.Equal(t, "Milestone Reached!", n.Title)
		require.Equal(t, "fin-1", n.RelatedGoalID)
		require.Equal(t, store.KindFinancial, n.RelatedGoalKind)
		messages[i] = n.Message
	}
	require.Contains(t, messages, "You've reached 25% of your 'MacBook' goal!")
	require.Contains(t, messages, "You've reached 50% of your 'MacBook' goal!")
	require.Contains(t, messages, "You've reached 75% of your 'MacBook' goal!")
}

func TestMilestoneExactBoundary(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	before := store.FinancialGoal{ID: "fin-1", ItemName: "Trip", TargetAmountCents: 100000, CurrentAmountCents: 50000}
	after := before
	after.CurrentAmountCents = 100000

	// sitting at exactly 50% does not re-fire 50; reaching 100 fires 75 and 100
	out := GenerateCheckinNotifications(before, after, nil, nil, now)
	require.Len(t, out, 2)
	require.Contains(t, out[0].Message, "75%")
	require.Contains(t, out[1].Message, "100%")
}

func TestNoMilestoneWithoutTarget(t *testing.T) {
	t.Parallel()

	before := store.FinancialGoal{ID: "fin-1"}
	after := store.FinancialGoal{ID: "fin-1", CurrentAmountCents: 5000}
	require.Empty(t, GenerateCheckinNotifications(before, after, nil, nil, time.Now().UTC()))
}

func TestWarningNotifications(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	fin := store.FinancialGoal{ID: "fin-1", TargetAmountCents: 100000}

	offTrack := store.PersonalGoal{
		ID:                "per-1",
		Description:       "learn guitar",
		CompletionHistory: []store.CompletionEntry{{Week: 1, CompletedTasks: 1, TotalTasks: 4}},
	}
	out := GenerateCheckinNotifications(fin, fin, []store.PersonalGoal{offTrack}, nil, now)
	require.Len(t, out, 1)
	require.Equal(t, store.NotifWarning, out[0].Type)
	require.Equal(t, "Goal Off-Track", out[0].Title)
	require.Contains(t, out[0].Message, "learn guitar")
	require.Equal(t, store.KindPersonal, out[0].RelatedGoalKind)

	// exactly 40% is on track
	borderline := offTrack
	borderline.CompletionHistory = []store.CompletionEntry{{Week: 1, CompletedTasks: 2, TotalTasks: 5}}
	require.Empty(t, GenerateCheckinNotifications(fin, fin, []store.PersonalGoal{borderline}, nil, now))

	// a week with no tasks never warns
	quiet := offTrack
	quiet.CompletionHistory = []store.CompletionEntry{{Week: 1, CompletedTasks: 0, TotalTasks: 0}}
	require.Empty(t, GenerateCheckinNotifications(fin, fin, []store.PersonalGoal{quiet}, nil, now))

	// no history yet, nothing to judge
	fresh := store.PersonalGoal{ID: "per-2", Description: "new goal"}
	require.Empty(t, GenerateCheckinNotifications(fin, fin, []store.PersonalGoal{fresh}, nil, now))
}

func TestInsightNotificationsCarryInsightDate(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	insightDate := now.Add(-time.Hour)
	fin := store.FinancialGoal{ID: "fin-1"}
	insights := []store.AIInsight{
		{ID: "i1", Type: store.InsightCrossGoal, Text: "Savings and practice are both up.", Date: insightDate},
	}
	out := GenerateCheckinNotifications(fin, fin, nil, insights, now)
	require.Len(t, out, 1)
	require.Equal(t, store.NotifInsight, out[0].Type)
	require.Equal(t, "New AI Insight", out[0].Title)
	require.Equal(t, "Savings and practice are both up.", out[0].Message)
	require.Equal(t, insightDate, out[0].Date)
}

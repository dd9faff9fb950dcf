package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/northstar/internal/timeline"
)

// HeuristicPlanner is a deterministic, offline implementation of Planner.
// It mirrors the shape and timing behavior of the real providers so the rest
// of the app works without an API key; it is also the default provider.
type HeuristicPlanner struct{}

func NewHeuristicPlanner() *HeuristicPlanner {
	return &HeuristicPlanner{}
}

// Rough cost table in cents, keyed by keywords in the item name.
var costGuesses = []struct {
	keywords []string
	cents    int64
}{
	{[]string{"house", "deposit", "flat", "apartment"}, 2_000_000},
	{[]string{"car", "van"}, 1_200_000},
	{[]string{"motorbike", "motorcycle"}, 450_000},
	{[]string{"holiday", "trip", "travel", "vacation"}, 200_000},
	{[]string{"laptop", "computer", "macbook", "pc"}, 120_000},
	{[]string{"phone", "iphone"}, 90_000},
	{[]string{"bike", "bicycle"}, 60_000},
	{[]string{"camera"}, 80_000},
	{[]string{"guitar", "piano", "keyboard"}, 50_000},
}

const fallbackCostCents = 100_000

func estimateCost(item string) int64 {
	lower := strings.ToLower(item)
	for _, guess := range costGuesses {
		for _, kw := range guess.keywords {
			if strings.Contains(lower, kw) {
				return guess.cents
			}
		}
	}
	return fallbackCostCents
}

func (h *HeuristicPlanner) AnalyzeFinancialGoal(ctx context.Context, req FinancialAnalysisRequest) (FinancialAnalysisResponse, error) {
	if err := ctx.Err(); err != nil {
		return FinancialAnalysisResponse{}, err
	}
	cost := estimateCost(req.ItemName)
	disposableMonthly := req.IncomeCents - req.HousingCostCents
	if disposableMonthly < 0 {
		disposableMonthly = 0
	}
	// Assume at most half of disposable income is realistically savable.
	savableWeekly := disposableMonthly * 12 / 52 / 2

	desiredWeeks := timeline.ParseWeeks(req.Timeline)
	neededWeekly := cost / int64(desiredWeeks)
	if cost%int64(desiredWeeks) != 0 {
		neededWeekly++
	}

	if savableWeekly <= 0 {
		return FinancialAnalysisResponse{
			IsFeasible:               false,
			Reasoning:                "Your housing cost leaves no disposable income to save from, so this goal needs an income change first.",
			RealisticTimeline:        req.Timeline,
			EstimatedCostCents:       cost,
			WeeklySavingsTargetCents: 0,
		}, nil
	}

	if neededWeekly <= savableWeekly {
		return FinancialAnalysisResponse{
			IsFeasible: true,
			Reasoning: fmt.Sprintf("Saving %s a week from your disposable income covers the estimated %s cost within %s.",
				pounds(neededWeekly), pounds(cost), req.Timeline),
			RealisticTimeline:        req.Timeline,
			EstimatedCostCents:       cost,
			WeeklySavingsTargetCents: neededWeekly,
		}, nil
	}

	realisticWeeks := int((cost + savableWeekly - 1) / savableWeekly)
	realistic := timeline.FormatWeeks(realisticWeeks)
	target := cost / int64(realisticWeeks)
	if cost%int64(realisticWeeks) != 0 {
		target++
	}
	return FinancialAnalysisResponse{
		IsFeasible: false,
		Reasoning: fmt.Sprintf("The estimated %s cost needs %s a week over %s, which is beyond a sustainable share of your disposable income; %s is more realistic.",
			pounds(cost), pounds(neededWeekly), req.Timeline, realistic),
		RealisticTimeline:        realistic,
		EstimatedCostCents:       cost,
		WeeklySavingsTargetCents: target,
	}, nil
}

var firstWeekTemplates = map[string][]string{
	"learning": {
		"Pick one course or book and finish its first chapter",
		"Set up a daily practice slot of %s and do it three times",
		"Write down what you already know and the first gap to close",
		"Find one community or forum for the topic and read the top threads",
	},
	"fitness": {
		"Do three sessions of %s at an easy pace",
		"Record a baseline: how far, how heavy, or how long you can go today",
		"Plan which days of the week are training days",
		"Prepare kit and space so sessions need zero setup",
	},
	"creative": {
		"Produce one small rough piece without judging it",
		"Spend %s a day studying work you admire and note one technique",
		"Set up a dedicated workspace or file structure for the project",
		"Share one work-in-progress with a friend for a first reaction",
	},
}

var defaultFirstWeek = []string{
	"Break the goal into three concrete milestones and write them down",
	"Spend %s on the first milestone",
	"Remove one obstacle that would make daily progress harder",
	"Tell someone about the goal to make it real",
}

func (h *HeuristicPlanner) AnalyzePersonalGoal(ctx context.Context, req PersonalAnalysisRequest) (PersonalAnalysisResponse, error) {
	if err := ctx.Err(); err != nil {
		return PersonalAnalysisResponse{}, err
	}
	templates, ok := firstWeekTemplates[strings.ToLower(strings.TrimSpace(req.GoalType))]
	if !ok {
		templates = defaultFirstWeek
	}
	daily := strings.TrimSpace(req.DailyTimeAvailable)
	if daily == "" {
		daily = "30 minutes"
	}
	tasks := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		if strings.Contains(tmpl, "%s") {
			tasks = append(tasks, fmt.Sprintf(tmpl, daily))
		} else {
			tasks = append(tasks, tmpl)
		}
	}

	weeks := timeline.ParseWeeks(req.Timeline)
	feasible := weeks >= 4 || strings.EqualFold(req.SkillLevel, "intermediate") || strings.EqualFold(req.SkillLevel, "advanced")
	realistic := req.Timeline
	reasoning := fmt.Sprintf("With %s a day, %q is a workable target over %s.", daily, req.Goal, req.Timeline)
	if !feasible {
		realistic = timeline.FormatWeeks(8)
		reasoning = fmt.Sprintf("Starting from %s, %s is tight for %q; aim for %s and treat the original timeline as a stretch.",
			req.SkillLevel, req.Timeline, req.Goal, realistic)
	}
	return PersonalAnalysisResponse{
		IsFeasible:        feasible,
		Reasoning:         reasoning,
		RealisticTimeline: realistic,
		FirstWeekTasks:    tasks,
	}, nil
}

var progressionTemplates = map[string][]string{
	"learning": {
		"Review everything covered so far and list weak spots",
		"Practice for %s on the hardest topic from last week",
		"Teach one concept you learned to someone else or write it up",
		"Finish the next chapter or module of your material",
		"Do one timed exercise without notes",
	},
	"fitness": {
		"Add one extra session of %s this week",
		"Increase intensity slightly on your strongest day",
		"Do one longer session at conversational pace",
		"Track recovery: sleep and how each session felt",
		"Repeat last week's baseline test and compare",
	},
	"creative": {
		"Finish one complete small piece this week",
		"Spend %s iterating on last week's roughest work",
		"Try one technique you have never used",
		"Collect feedback from two people and note common points",
		"Start a piece that scares you a little",
	},
}

var defaultProgression = []string{
	"Review last week and pick the single most valuable task to repeat",
	"Spend %s on your next milestone",
	"Do the task you have been avoiding first",
	"Plan the coming week's sessions in your calendar",
	"Write three sentences on what is working and what is not",
}

// nearDuplicate reports whether two task descriptions are effectively the
// same. Normalized edit distance keeps reworded repeats out of the new plan.
func nearDuplicate(a, b string) bool {
	a, b = strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return true
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return true
	}
	dist := levenshtein.ComputeDistance(a, b)
	return float64(dist)/float64(longest) < 0.25
}

func (h *HeuristicPlanner) WeeklyUpdate(ctx context.Context, req WeeklyUpdateRequest) (WeeklyUpdateResponse, error) {
	if err := ctx.Err(); err != nil {
		return WeeklyUpdateResponse{}, err
	}
	rate := req.CompletionRate()
	count := 4
	switch {
	case rate < 0.5:
		count = 3
	case rate > 0.8:
		count = 5
	}

	pool, ok := progressionTemplates[strings.ToLower(strings.TrimSpace(req.PersonalGoal.GoalType))]
	if !ok {
		pool = defaultProgression
	}
	daily := strings.TrimSpace(req.PersonalGoal.DailyTimeAvailable)
	if daily == "" {
		daily = "30 minutes"
	}

	// Rotate the pool by week so consecutive plans differ, then drop anything
	// too close to a task the user already had.
	tasks := make([]string, 0, count)
	offset := req.PersonalGoal.CurrentWeek % len(pool)
	for i := 0; i < len(pool) && len(tasks) < count; i++ {
		tmpl := pool[(offset+i)%len(pool)]
		desc := tmpl
		if strings.Contains(tmpl, "%s") {
			desc = fmt.Sprintf(tmpl, daily)
		}
		repeat := false
		for _, prev := range req.PersonalGoal.Tasks {
			if nearDuplicate(desc, prev.Description) {
				repeat = true
				break
			}
		}
		if !repeat {
			tasks = append(tasks, desc)
		}
	}

	return WeeklyUpdateResponse{
		NextWeekTasks: tasks,
		Insight:       h.insight(req, rate),
	}, nil
}

func (h *HeuristicPlanner) insight(req WeeklyUpdateRequest, rate float64) *Insight {
	savedEnough := req.SavedAmountCents >= req.FinancialGoal.WeeklySavingsTargetCents
	switch {
	case savedEnough && rate >= 0.8:
		return &Insight{Type: "cross-goal", Text: fmt.Sprintf(
			"Strong week on both fronts: savings target hit and %d%% of tasks done. Momentum like this compounds.", int(rate*100))}
	case savedEnough && rate < 0.5:
		return &Insight{Type: "personal", Text: fmt.Sprintf(
			"Savings are on track, but only %d%% of tasks got done. Next week's plan is lighter so you can rebuild the habit.", int(rate*100))}
	case !savedEnough && rate >= 0.8:
		return &Insight{Type: "financial", Text: fmt.Sprintf(
			"You completed %d%% of tasks but saved %s against a %s target. One small recurring cost cut would close that gap.",
			int(rate*100), pounds(req.SavedAmountCents), pounds(req.FinancialGoal.WeeklySavingsTargetCents))}
	default:
		return &Insight{Type: "motivational", Text: "A slow week is data, not a verdict. Pick the smallest task first and let the week build from there."}
	}
}

func pounds(cents int64) string {
	return fmt.Sprintf("£%.2f", float64(cents)/100)
}

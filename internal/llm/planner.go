package llm

import "context"

// Planner is the planning-service boundary. Implementations may fail; callers
// treat any error as "nothing happened" and surface a retryable failure.
type Planner interface {
	AnalyzeFinancialGoal(ctx context.Context, req FinancialAnalysisRequest) (FinancialAnalysisResponse, error)
	AnalyzePersonalGoal(ctx context.Context, req PersonalAnalysisRequest) (PersonalAnalysisResponse, error)
	WeeklyUpdate(ctx context.Context, req WeeklyUpdateRequest) (WeeklyUpdateResponse, error)
}

// FinancialAnalysisRequest describes a proposed savings goal.
type FinancialAnalysisRequest struct {
	IncomeCents      int64  `json:"incomeCents"`      // monthly
	HousingCostCents int64  `json:"housingCostCents"` // monthly
	ItemName         string `json:"itemName"`
	Timeline         string `json:"timeline"`
}

// FinancialAnalysisResponse is the planner's feasibility verdict and plan.
type FinancialAnalysisResponse struct {
	IsFeasible               bool   `json:"isFeasible"`
	Reasoning                string `json:"reasoning"`
	RealisticTimeline        string `json:"realisticTimeline"`
	EstimatedCostCents       int64  `json:"estimatedCostCents"`
	WeeklySavingsTargetCents int64  `json:"weeklySavingsTargetCents"`
}

// PersonalAnalysisRequest describes a proposed personal-development goal.
type PersonalAnalysisRequest struct {
	Goal               string `json:"goal"`
	Timeline           string `json:"timeline"`
	SkillLevel         string `json:"skillLevel"`
	GoalType           string `json:"goalType"`
	DailyTimeAvailable string `json:"dailyTimeAvailable"`
}

// PersonalAnalysisResponse carries the verdict plus the first week's plan.
type PersonalAnalysisResponse struct {
	IsFeasible        bool     `json:"isFeasible"`
	Reasoning         string   `json:"reasoning"`
	RealisticTimeline string   `json:"realisticTimeline"`
	FirstWeekTasks    []string `json:"firstWeekTasks"`
}

// WeekAmount mirrors one savings-history entry for prompting.
type WeekAmount struct {
	Week        int   `json:"week"`
	AmountCents int64 `json:"amountCents"`
}

// WeekCompletion mirrors one completion-history entry for prompting.
type WeekCompletion struct {
	Week           int `json:"week"`
	CompletedTasks int `json:"completedTasks"`
	TotalTasks     int `json:"totalTasks"`
}

// TaskState is one current-week task with its completion mark applied.
type TaskState struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// FinancialGoalState summarizes the financial goal for a weekly update.
type FinancialGoalState struct {
	ItemName                 string       `json:"itemName"`
	TargetAmountCents        int64        `json:"targetAmountCents"`
	CurrentAmountCents       int64        `json:"currentAmountCents"`
	WeeklySavingsTargetCents int64        `json:"weeklySavingsTargetCents"`
	RecentSavings            []WeekAmount `json:"recentSavings"` // last 5 weeks
}

// PersonalGoalState summarizes one personal goal for a weekly update.
type PersonalGoalState struct {
	Description        string           `json:"description"`
	GoalType           string           `json:"goalType"`
	DailyTimeAvailable string           `json:"dailyTimeAvailable"`
	CurrentWeek        int              `json:"currentWeek"`
	Tasks              []TaskState      `json:"tasks"`
	RecentCompletion   []WeekCompletion `json:"recentCompletion"` // last 5 weeks
}

// WeeklyUpdateRequest is one check-in's worth of performance data.
type WeeklyUpdateRequest struct {
	FinancialGoal    FinancialGoalState `json:"financialGoal"`
	PersonalGoal     PersonalGoalState  `json:"personalGoal"`
	SavedAmountCents int64              `json:"savedAmountCents"`
	CompletedTaskIDs []string           `json:"completedTaskIds"`
}

// Insight is a single planner observation.
type Insight struct {
	Type string `json:"type"` // financial | personal | cross-goal | motivational
	Text string `json:"text"`
}

// WeeklyUpdateResponse is next week's plan. Insight may be nil.
type WeeklyUpdateResponse struct {
	NextWeekTasks []string `json:"nextWeekTasks"`
	Insight       *Insight `json:"insight"`
}

// CompletionRate is the personal goal's rate for the week being checked in,
// in [0,1]. A week with no tasks counts as fully done.
func (r WeeklyUpdateRequest) CompletionRate() float64 {
	total := len(r.PersonalGoal.Tasks)
	if total == 0 {
		return 1
	}
	done := 0
	for _, t := range r.PersonalGoal.Tasks {
		if t.Completed {
			done++
		}
	}
	return float64(done) / float64(total)
}

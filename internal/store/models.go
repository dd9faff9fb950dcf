package store

import "time"

// GoalStatus is the lifecycle state shared by both goal kinds.
type GoalStatus string

const (
	StatusActive    GoalStatus = "active"
	StatusPaused    GoalStatus = "paused"
	StatusCompleted GoalStatus = "completed"
)

// UserProfile holds the income figures captured at financial-goal setup.
// It is replaced wholesale on every setup, never merged.
type UserProfile struct {
	IncomeCents      int64 `json:"incomeCents"`
	HousingCostCents int64 `json:"housingCostCents"`
}

// SavingsEntry is one week's reported savings. Week numbers start at 1 and
// increase by exactly 1 per check-in.
type SavingsEntry struct {
	Week        int   `json:"week"`
	AmountCents int64 `json:"amountCents"`
}

// FinancialGoal is a savings goal toward a single item.
type FinancialGoal struct {
	ID                       string         `json:"id"`
	Status                   GoalStatus     `json:"status"`
	ItemName                 string         `json:"itemName"`
	TargetAmountCents        int64          `json:"targetAmountCents"`
	TargetDate               string         `json:"targetDate"` // free-text timeline label, e.g. "6 months"
	CurrentAmountCents       int64          `json:"currentAmountCents"`
	TimelineAnalysis         string         `json:"timelineAnalysis"`
	WeeklySavingsTargetCents int64          `json:"weeklySavingsTargetCents"`
	SavingsHistory           []SavingsEntry `json:"savingsHistory"`
}

// WeeklyTask belongs to exactly one week slot of one personal goal.
type WeeklyTask struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	IsCustom    bool   `json:"isCustom"`
}

// CompletionEntry records how one executed week went.
type CompletionEntry struct {
	Week           int `json:"week"`
	CompletedTasks int `json:"completedTasks"`
	TotalTasks     int `json:"totalTasks"`
}

// PersonalGoal is a skill or habit goal executed week by week.
// TaskHistory is indexed by week-1; CurrentWeek is the week being executed.
type PersonalGoal struct {
	ID                 string            `json:"id"`
	Status             GoalStatus        `json:"status"`
	Description        string            `json:"description"`
	GoalType           string            `json:"goalType"`
	DailyTimeAvailable string            `json:"dailyTimeAvailable"`
	TargetDate         string            `json:"targetDate"`
	CurrentLevel       string            `json:"currentLevel"`
	TimelineAnalysis   string            `json:"timelineAnalysis"`
	TaskHistory        [][]WeeklyTask    `json:"taskHistory"`
	CurrentWeek        int               `json:"currentWeek"`
	CompletionHistory  []CompletionEntry `json:"completionHistory"`
}

// CurrentWeekTasks returns the task list for the week being executed, or nil
// if that slot does not exist yet.
func (g *PersonalGoal) CurrentWeekTasks() []WeeklyTask {
	idx := g.CurrentWeek - 1
	if idx < 0 || idx >= len(g.TaskHistory) {
		return nil
	}
	return g.TaskHistory[idx]
}

// TransactionType distinguishes ledger entries.
type TransactionType string

const (
	TxIncome  TransactionType = "income"
	TxExpense TransactionType = "expense"
)

// Transaction is an independent ledger entry, not derived from goals.
// AmountCents is stored positive for both types.
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	AmountCents int64           `json:"amountCents"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
}

// InsightType classifies planner insights.
type InsightType string

const (
	InsightFinancial    InsightType = "financial"
	InsightPersonal     InsightType = "personal"
	InsightCrossGoal    InsightType = "cross-goal"
	InsightMotivational InsightType = "motivational"
)

// AIInsight is one planner observation. The list is append-only, newest first.
type AIInsight struct {
	ID   string      `json:"id"`
	Type InsightType `json:"type"`
	Text string      `json:"text"`
	Date time.Time   `json:"date"`
}

// NotificationType classifies derived notifications.
type NotificationType string

const (
	NotifInsight   NotificationType = "insight"
	NotifMilestone NotificationType = "milestone"
	NotifWarning   NotificationType = "warning"
)

// GoalKind tags which list a related goal lives in.
type GoalKind string

const (
	KindFinancial GoalKind = "financial"
	KindPersonal  GoalKind = "personal"
)

// Notification is derived during check-ins. Only the Read flag mutates after
// creation; removal happens only through the explicit clear-read action.
type Notification struct {
	ID              string           `json:"id"`
	Type            NotificationType `json:"type"`
	Title           string           `json:"title"`
	Message         string           `json:"message"`
	Date            time.Time        `json:"date"`
	Read            bool             `json:"read"`
	RelatedGoalID   string           `json:"relatedGoalId,omitempty"`
	RelatedGoalKind GoalKind         `json:"relatedGoalType,omitempty"`
}

// Snapshot is the complete persisted state.
type Snapshot struct {
	UserProfile    *UserProfile    `json:"userProfile"`
	FinancialGoals []FinancialGoal `json:"financialGoals"`
	PersonalGoals  []PersonalGoal  `json:"personalGoals"`
	Insights       []AIInsight     `json:"insights"`
	Transactions   []Transaction   `json:"transactions"`
	Notifications  []Notification  `json:"notifications"`
}

// Clone returns a deep copy. Check-ins mutate a clone and commit it only
// after every planner call has succeeded.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{}
	if s.UserProfile != nil {
		p := *s.UserProfile
		out.UserProfile = &p
	}
	out.FinancialGoals = make([]FinancialGoal, len(s.FinancialGoals))
	for i, g := range s.FinancialGoals {
		out.FinancialGoals[i] = *g.Clone()
	}
	out.PersonalGoals = make([]PersonalGoal, len(s.PersonalGoals))
	for i, g := range s.PersonalGoals {
		out.PersonalGoals[i] = *g.Clone()
	}
	out.Insights = append([]AIInsight(nil), s.Insights...)
	out.Transactions = append([]Transaction(nil), s.Transactions...)
	out.Notifications = append([]Notification(nil), s.Notifications...)
	return out
}

// Clone returns a deep copy of the goal including its savings history.
func (g *FinancialGoal) Clone() *FinancialGoal {
	out := *g
	out.SavingsHistory = append([]SavingsEntry(nil), g.SavingsHistory...)
	return &out
}

// Clone returns a deep copy of the goal including every week's task list.
func (g *PersonalGoal) Clone() *PersonalGoal {
	out := *g
	out.TaskHistory = make([][]WeeklyTask, len(g.TaskHistory))
	for i, week := range g.TaskHistory {
		out.TaskHistory[i] = append([]WeeklyTask(nil), week...)
	}
	out.CompletionHistory = append([]CompletionEntry(nil), g.CompletionHistory...)
	return &out
}

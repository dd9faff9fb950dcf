package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jask/northstar/internal/llm"
	"github.com/jask/northstar/internal/store"
)

var (
	ErrEmptyGoal      = errors.New("setup: goal description is required")
	ErrNegativeAmount = errors.New("setup: amounts must not be negative")
)

// SetupService runs the feasibility analysis for a new goal and stores the
// result. Planner failures abort with no side effects.
type SetupService struct {
	Store   *store.Store
	Planner llm.Planner
}

// FinancialGoalSetupData is the financial setup form.
type FinancialGoalSetupData struct {
	IncomeCents      int64
	HousingCostCents int64
	SavingsGoal      string
	SavingsTimeline  string
}

// PersonalGoalSetupData is the personal setup form.
type PersonalGoalSetupData struct {
	PersonalGoal       string
	PersonalTimeline   string
	CurrentSkillLevel  string
	GoalType           string
	DailyTimeAvailable string
}

// SubmitFinancialGoal analyzes feasibility and creates an active goal with
// the planner's estimated cost and weekly target. The user profile is
// replaced wholesale with this setup's income figures.
func (s *SetupService) SubmitFinancialGoal(ctx context.Context, data FinancialGoalSetupData) (store.FinancialGoal, error) {
	if data.SavingsGoal == "" {
		return store.FinancialGoal{}, ErrEmptyGoal
	}
	if data.IncomeCents < 0 || data.HousingCostCents < 0 {
		return store.FinancialGoal{}, ErrNegativeAmount
	}
	analysis, err := s.Planner.AnalyzeFinancialGoal(ctx, llm.FinancialAnalysisRequest{
		IncomeCents:      data.IncomeCents,
		HousingCostCents: data.HousingCostCents,
		ItemName:         data.SavingsGoal,
		Timeline:         data.SavingsTimeline,
	})
	if err != nil {
		return store.FinancialGoal{}, fmt.Errorf("analyze financial goal: %w", err)
	}
	goal := store.FinancialGoal{
		ID:                       uuid.NewString(),
		Status:                   store.StatusActive,
		ItemName:                 data.SavingsGoal,
		TargetAmountCents:        analysis.EstimatedCostCents,
		TargetDate:               analysis.RealisticTimeline,
		TimelineAnalysis:         analysis.Reasoning,
		WeeklySavingsTargetCents: analysis.WeeklySavingsTargetCents,
	}
	profile := store.UserProfile{IncomeCents: data.IncomeCents, HousingCostCents: data.HousingCostCents}
	if err := s.Store.AddFinancialGoal(ctx, goal, profile); err != nil {
		return store.FinancialGoal{}, err
	}
	return goal, nil
}

// SubmitPersonalGoal analyzes feasibility and creates an active goal seeded
// with the planner's first-week tasks.
func (s *SetupService) SubmitPersonalGoal(ctx context.Context, data PersonalGoalSetupData) (store.PersonalGoal, error) {
	if data.PersonalGoal == "" {
		return store.PersonalGoal{}, ErrEmptyGoal
	}
	analysis, err := s.Planner.AnalyzePersonalGoal(ctx, llm.PersonalAnalysisRequest{
		Goal:               data.PersonalGoal,
		Timeline:           data.PersonalTimeline,
		SkillLevel:         data.CurrentSkillLevel,
		GoalType:           data.GoalType,
		DailyTimeAvailable: data.DailyTimeAvailable,
	})
	if err != nil {
		return store.PersonalGoal{}, fmt.Errorf("analyze personal goal: %w", err)
	}
	firstWeek := make([]store.WeeklyTask, len(analysis.FirstWeekTasks))
	for i, desc := range analysis.FirstWeekTasks {
		firstWeek[i] = store.WeeklyTask{ID: uuid.NewString(), Description: desc}
	}
	goal := store.PersonalGoal{
		ID:                 uuid.NewString(),
		Status:             store.StatusActive,
		Description:        data.PersonalGoal,
		GoalType:           data.GoalType,
		DailyTimeAvailable: data.DailyTimeAvailable,
		TargetDate:         analysis.RealisticTimeline,
		CurrentLevel:       data.CurrentSkillLevel,
		TimelineAnalysis:   analysis.Reasoning,
		TaskHistory:        [][]store.WeeklyTask{firstWeek},
		CurrentWeek:        1,
	}
	if err := s.Store.AddPersonalGoal(ctx, goal); err != nil {
		return store.PersonalGoal{}, err
	}
	return goal, nil
}

package tui

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jask/northstar/internal/config"
	"github.com/jask/northstar/internal/service"
	"github.com/jask/northstar/internal/store"
)

// App ties together views over the goal store.
type App struct {
	ctx      context.Context
	store    *store.Store
	services Services
	cfg      config.Config
	state    appState
	status   string
	currency string

	goalCursor  int
	taskCursor  int
	txCursor    int
	notifCursor int

	// check-in flow; busy blocks re-triggering while a planner call runs
	checkinBusy   bool
	amountInput   string
	editingAmount bool

	// sequential prompt for setup and transaction forms
	form *formState

	// full-reset confirmation state
	resetArmed bool
}

// Services are the injected operations behind the views.
type Services struct {
	Setup   *service.SetupService
	Checkin *service.CheckinService
}

type appState string

const (
	viewDashboard     appState = "dashboard"
	viewGoals         appState = "goals"
	viewCheckin       appState = "checkin"
	viewTransactions  appState = "transactions"
	viewInsights      appState = "insights"
	viewNotifications appState = "notifications"
)

type formKind string

const (
	formFinancialSetup formKind = "financialSetup"
	formPersonalSetup  formKind = "personalSetup"
	formTransaction    formKind = "transaction"
	formCustomTask     formKind = "customTask"
	formSettings       formKind = "settings"
)

// formState walks the user through one field at a time.
type formState struct {
	kind       formKind
	fields     []string
	values     []string
	index      int
	input      string
	taskGoalID string
}

func New(ctx context.Context, cfg config.Config, st *store.Store, services Services) *App {
	return &App{
		ctx:      ctx,
		store:    st,
		services: services,
		cfg:      cfg,
		state:    viewDashboard,
		currency: cfg.UI.CurrencySymbol,
	}
}

func (a *App) Init() tea.Cmd {
	return nil
}

// messages

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type statusMsg string

type checkinDoneMsg struct{ result service.CheckinResult }

type setupDoneMsg struct{ what string }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.form != nil {
			return a.handleFormKey(m)
		}
		switch a.state {
		case viewCheckin:
			return a.handleCheckinKey(m)
		case viewGoals:
			return a.handleGoalsKey(m)
		case viewTransactions:
			return a.handleTransactionsKey(m)
		case viewNotifications:
			return a.handleNotificationsKey(m)
		}
		return a.handleGlobalKey(m)
	case checkinDoneMsg:
		a.checkinBusy = false
		a.amountInput = ""
		a.status = fmt.Sprintf("check-in complete: %d new insight(s), %d notification(s)",
			len(m.result.NewInsights), len(m.result.NewNotifications))
		a.state = viewDashboard
	case setupDoneMsg:
		a.status = m.what + " created"
		a.state = viewGoals
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.checkinBusy = false
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) handleGlobalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "d":
		a.state = viewDashboard
	case "g":
		a.state = viewGoals
		a.goalCursor = 0
	case "w":
		a.state = viewCheckin
		a.taskCursor = 0
		a.editingAmount = false
		a.status = ""
	case "x":
		a.state = viewTransactions
		a.txCursor = 0
	case "i":
		a.state = viewInsights
	case "n":
		a.state = viewNotifications
		a.notifCursor = 0
	case "S":
		// blank answers keep the current value
		a.form = &formState{
			kind: formSettings,
			fields: []string{
				"Currency symbol (now " + a.cfg.UI.CurrencySymbol + ")",
				"Username (now " + a.cfg.UI.Username + ")",
				"Planner provider openai/heuristic (now " + a.cfg.Planner.Provider + ")",
			},
			values: make([]string, 3),
		}
	case "ctrl+r":
		// two presses within one session state: first arms, second wipes
		if !a.resetArmed {
			a.resetArmed = true
			a.status = "press ctrl+r again to erase ALL data"
			return a, nil
		}
		a.resetArmed = false
		a.state = viewDashboard
		return a, a.mutateCmd("all data erased", func() error {
			return a.store.Reset(a.ctx)
		})
	}
	a.resetArmed = false
	return a, nil
}

// goals view

// goalRow flattens both goal lists for a single cursor.
type goalRow struct {
	kind store.GoalKind
	id   string
}

func (a *App) goalRows() []goalRow {
	snap := a.store.Data()
	rows := make([]goalRow, 0, len(snap.FinancialGoals)+len(snap.PersonalGoals))
	for _, g := range snap.FinancialGoals {
		rows = append(rows, goalRow{kind: store.KindFinancial, id: g.ID})
	}
	for _, g := range snap.PersonalGoals {
		rows = append(rows, goalRow{kind: store.KindPersonal, id: g.ID})
	}
	return rows
}

func (a *App) handleGoalsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := a.goalRows()
	switch m.String() {
	case "up", "k":
		if a.goalCursor > 0 {
			a.goalCursor--
		}
	case "down", "j":
		if a.goalCursor < len(rows)-1 {
			a.goalCursor++
		}
	case "f":
		a.form = &formState{
			kind:   formFinancialSetup,
			fields: []string{"Monthly income (" + a.currency + ")", "Monthly housing cost (" + a.currency + ")", "What are you saving for?", "Desired timeline (e.g. 6 months)"},
			values: make([]string, 4),
		}
	case "p":
		a.form = &formState{
			kind:   formPersonalSetup,
			fields: []string{"Personal goal", "Desired timeline (e.g. 8 weeks)", "Current skill level", "Goal type (learning/fitness/creative)", "Daily time available"},
			values: make([]string, 5),
		}
	case "s":
		if a.goalCursor < len(rows) {
			return a, a.toggleStatusCmd(rows[a.goalCursor])
		}
	case "c":
		if a.goalCursor < len(rows) {
			row := rows[a.goalCursor]
			return a, a.mutateCmd("goal completed", func() error {
				return a.store.SetGoalStatus(a.ctx, row.id, row.kind, store.StatusCompleted)
			})
		}
	case "D":
		if a.goalCursor < len(rows) {
			row := rows[a.goalCursor]
			if a.goalCursor == len(rows)-1 && a.goalCursor > 0 {
				a.goalCursor--
			}
			return a, a.mutateCmd("goal deleted", func() error {
				return a.store.DeleteGoal(a.ctx, row.id, row.kind)
			})
		}
	case "a":
		if a.goalCursor < len(rows) && rows[a.goalCursor].kind == store.KindPersonal {
			a.form = &formState{
				kind:       formCustomTask,
				fields:     []string{"Task description"},
				values:     make([]string, 1),
				taskGoalID: rows[a.goalCursor].id,
			}
		}
	default:
		return a.handleGlobalKey(m)
	}
	return a, nil
}

func (a *App) toggleStatusCmd(row goalRow) tea.Cmd {
	var current store.GoalStatus
	switch row.kind {
	case store.KindFinancial:
		if g, ok := a.store.FinancialGoal(row.id); ok {
			current = g.Status
		}
	case store.KindPersonal:
		if g, ok := a.store.PersonalGoal(row.id); ok {
			current = g.Status
		}
	}
	next := store.StatusPaused
	label := "goal paused"
	if current == store.StatusPaused {
		next = store.StatusActive
		label = "goal resumed"
	}
	return a.mutateCmd(label, func() error {
		return a.store.SetGoalStatus(a.ctx, row.id, row.kind, next)
	})
}

// mutateCmd wraps a synchronous store mutation into a status-reporting command.
func (a *App) mutateCmd(label string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return errMsg{err}
		}
		return statusMsg(label)
	}
}

// check-in view

// checkinTask pairs a task with its owning goal for the combined cursor.
type checkinTask struct {
	goalID string
	task   store.WeeklyTask
}

func (a *App) checkinTasks() []checkinTask {
	var out []checkinTask
	for _, g := range a.store.Data().PersonalGoals {
		if g.Status != store.StatusActive {
			continue
		}
		for _, t := range g.CurrentWeekTasks() {
			out = append(out, checkinTask{goalID: g.ID, task: t})
		}
	}
	return out
}

func (a *App) activeFinancialGoal() *store.FinancialGoal {
	for i, g := range a.store.Data().FinancialGoals {
		if g.Status == store.StatusActive {
			return &a.store.Data().FinancialGoals[i]
		}
	}
	return nil
}

func (a *App) handleCheckinKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.checkinBusy {
		// one check-in in flight at a time; only quit is allowed through
		if s := m.String(); s == "q" || s == "ctrl+c" {
			return a, tea.Quit
		}
		return a, nil
	}
	if a.editingAmount {
		switch m.String() {
		case "enter":
			a.editingAmount = false
		case "esc":
			a.editingAmount = false
			a.amountInput = ""
		case "backspace":
			if len(a.amountInput) > 0 {
				a.amountInput = a.amountInput[:len(a.amountInput)-1]
			}
		default:
			if len(m.String()) == 1 {
				a.amountInput += m.String()
			}
		}
		return a, nil
	}
	tasks := a.checkinTasks()
	switch m.String() {
	case "up", "k":
		if a.taskCursor > 0 {
			a.taskCursor--
		}
	case "down", "j":
		if a.taskCursor < len(tasks)-1 {
			a.taskCursor++
		}
	case " ":
		if a.taskCursor < len(tasks) {
			t := tasks[a.taskCursor]
			return a, a.mutateCmd("", func() error {
				return a.store.ToggleTask(a.ctx, t.goalID, t.task.ID)
			})
		}
	case "backspace":
		if a.taskCursor < len(tasks) {
			t := tasks[a.taskCursor]
			if a.taskCursor == len(tasks)-1 && a.taskCursor > 0 {
				a.taskCursor--
			}
			return a, a.mutateCmd("task removed", func() error {
				return a.store.DeleteTask(a.ctx, t.goalID, t.task.ID)
			})
		}
	case "e":
		a.editingAmount = true
	case "enter":
		return a, a.submitCheckinCmd()
	default:
		return a.handleGlobalKey(m)
	}
	return a, nil
}

func (a *App) submitCheckinCmd() tea.Cmd {
	fin := a.activeFinancialGoal()
	if fin == nil {
		a.status = "no active financial goal to check in"
		return nil
	}
	amount, err := parseCents(a.amountInput)
	if err != nil {
		a.status = "enter a valid saved amount first ([e] to edit)"
		return nil
	}
	var goalIDs []string
	var completed []string
	for _, g := range a.store.Data().PersonalGoals {
		if g.Status != store.StatusActive {
			continue
		}
		goalIDs = append(goalIDs, g.ID)
		for _, t := range g.CurrentWeekTasks() {
			if t.Completed {
				completed = append(completed, t.ID)
			}
		}
	}
	if len(goalIDs) == 0 {
		a.status = "no active personal goals to check in"
		return nil
	}
	a.checkinBusy = true
	a.status = "generating next week's plan..."
	finID := fin.ID
	return func() tea.Msg {
		result, err := a.services.Checkin.Submit(a.ctx, finID, goalIDs, amount, completed)
		if err != nil {
			return errMsg{fmt.Errorf("check-in failed, try again: %w", err)}
		}
		return checkinDoneMsg{result: result}
	}
}

// transactions view

func (a *App) handleTransactionsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	txs := a.store.Data().Transactions
	switch m.String() {
	case "up", "k":
		if a.txCursor > 0 {
			a.txCursor--
		}
	case "down", "j":
		if a.txCursor < len(txs)-1 {
			a.txCursor++
		}
	case "a":
		a.form = &formState{
			kind:   formTransaction,
			fields: []string{"Description", "Amount (" + a.currency + ")", "Type (income/expense)", "Category"},
			values: make([]string, 4),
		}
	case "D":
		if a.txCursor < len(txs) {
			id := txs[a.txCursor].ID
			if a.txCursor == len(txs)-1 && a.txCursor > 0 {
				a.txCursor--
			}
			return a, a.mutateCmd("transaction deleted", func() error {
				return a.store.DeleteTransaction(a.ctx, id)
			})
		}
	default:
		return a.handleGlobalKey(m)
	}
	return a, nil
}

// notifications view

func (a *App) handleNotificationsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	notifs := a.store.Data().Notifications
	switch m.String() {
	case "up", "k":
		if a.notifCursor > 0 {
			a.notifCursor--
		}
	case "down", "j":
		if a.notifCursor < len(notifs)-1 {
			a.notifCursor++
		}
	case "enter":
		if a.notifCursor < len(notifs) {
			id := notifs[a.notifCursor].ID
			return a, a.mutateCmd("marked read", func() error {
				return a.store.MarkNotificationRead(a.ctx, id)
			})
		}
	case "a":
		return a, a.mutateCmd("all marked read", func() error {
			return a.store.MarkAllNotificationsRead(a.ctx)
		})
	case "c":
		a.notifCursor = 0
		return a, a.mutateCmd("read notifications cleared", func() error {
			return a.store.ClearReadNotifications(a.ctx)
		})
	default:
		return a.handleGlobalKey(m)
	}
	return a, nil
}

// forms

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.form
	switch m.String() {
	case "esc":
		a.form = nil
		a.status = "cancelled"
	case "enter":
		f.values[f.index] = strings.TrimSpace(f.input)
		f.input = ""
		f.index++
		if f.index >= len(f.fields) {
			a.form = nil
			return a, a.submitFormCmd(f)
		}
	case "backspace":
		if len(f.input) > 0 {
			f.input = f.input[:len(f.input)-1]
		}
	default:
		if len(m.String()) == 1 {
			f.input += m.String()
		} else if m.Type == tea.KeySpace {
			f.input += " "
		}
	}
	return a, nil
}

func (a *App) submitFormCmd(f *formState) tea.Cmd {
	switch f.kind {
	case formFinancialSetup:
		income, err1 := parseCents(f.values[0])
		housing, err2 := parseCents(f.values[1])
		if err1 != nil || err2 != nil {
			a.status = "income and housing must be amounts"
			return nil
		}
		a.status = "analyzing your financial goal..."
		return func() tea.Msg {
			_, err := a.services.Setup.SubmitFinancialGoal(a.ctx, service.FinancialGoalSetupData{
				IncomeCents:      income,
				HousingCostCents: housing,
				SavingsGoal:      f.values[2],
				SavingsTimeline:  f.values[3],
			})
			if err != nil {
				return errMsg{err}
			}
			return setupDoneMsg{what: "financial goal"}
		}
	case formPersonalSetup:
		a.status = "analyzing your personal goal..."
		return func() tea.Msg {
			_, err := a.services.Setup.SubmitPersonalGoal(a.ctx, service.PersonalGoalSetupData{
				PersonalGoal:       f.values[0],
				PersonalTimeline:   f.values[1],
				CurrentSkillLevel:  f.values[2],
				GoalType:           f.values[3],
				DailyTimeAvailable: f.values[4],
			})
			if err != nil {
				return errMsg{err}
			}
			return setupDoneMsg{what: "personal goal"}
		}
	case formCustomTask:
		goalID := f.taskGoalID
		desc := f.values[0]
		return a.mutateCmd("task added", func() error {
			_, err := a.store.AddCustomTask(a.ctx, goalID, desc)
			return err
		})
	case formSettings:
		if v := f.values[0]; v != "" {
			a.cfg.UI.CurrencySymbol = v
			a.currency = v
		}
		if v := f.values[1]; v != "" {
			a.cfg.UI.Username = v
		}
		if v := strings.ToLower(f.values[2]); v == "openai" || v == "heuristic" {
			a.cfg.Planner.Provider = v
		}
		cfg := a.cfg
		return func() tea.Msg {
			if err := config.Save(cfg); err != nil {
				return errMsg{err}
			}
			return statusMsg("settings saved (provider change applies on restart)")
		}
	case formTransaction:
		amount, err := parseCents(f.values[1])
		if err != nil {
			a.status = "amount must be a number"
			return nil
		}
		txType := store.TxExpense
		if strings.EqualFold(f.values[2], "income") {
			txType = store.TxIncome
		}
		tx := store.Transaction{
			ID:          uuid.NewString(),
			Description: f.values[0],
			AmountCents: amount,
			Type:        txType,
			Category:    f.values[3],
			Date:        time.Now().UTC(),
		}
		return a.mutateCmd("transaction added", func() error {
			return a.store.AddTransaction(a.ctx, tx)
		})
	}
	return nil
}

// parseCents accepts "12", "12.5", "12.34" and an optional currency prefix.
func parseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "£")
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(v * 100)), nil
}

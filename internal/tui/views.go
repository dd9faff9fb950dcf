package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/northstar/internal/metrics"
	"github.com/jask/northstar/internal/store"
)

// styles
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)

	healthStyles = map[metrics.Health]lipgloss.Style{
		metrics.HealthGood:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		metrics.HealthAverage: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		metrics.HealthPoor:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

func healthDot(h metrics.Health) string {
	return healthStyles[h].Render("●")
}

func (a *App) View() string {
	if a.form != nil {
		return a.renderForm()
	}
	var body string
	switch a.state {
	case viewGoals:
		body = a.renderGoals()
	case viewCheckin:
		body = a.renderCheckin()
	case viewTransactions:
		body = a.renderTransactions()
	case viewInsights:
		body = a.renderInsights()
	case viewNotifications:
		body = a.renderNotifications()
	default:
		body = a.renderDashboard()
	}
	if a.status != "" {
		body += "\n" + a.status
	}
	return body
}

func (a *App) money(cents int64) string {
	return fmt.Sprintf("%s%.2f", a.currency, float64(cents)/100)
}

const navHelp = "[d] Dashboard  [g] Goals  [w] Check-in  [x] Transactions  [i] Insights  [n] Notifications  [S] Settings  [q] Quit"

func (a *App) renderDashboard() string {
	snap := a.store.Data()
	title := titleStyle.Render("Northstar - " + a.cfg.UI.Username)

	progress := metrics.OverallProgress(snap.FinancialGoals, snap.PersonalGoals)
	streak := metrics.Streak(snap.FinancialGoals, snap.PersonalGoals)
	body := fmt.Sprintf("Overall progress: %.0f%%   Streak: %s   Total saved: %s   Unread notifications: %d",
		progress, pluralWeeks(streak), a.money(metrics.TotalSaved(snap.FinancialGoals)), a.store.UnreadNotifications())

	body += "\n\nFinancial goals:"
	if len(snap.FinancialGoals) == 0 {
		body += "\n  " + dimStyle.Render("none yet - press [g] then [f] to set one up")
	}
	for _, g := range snap.FinancialGoals {
		body += fmt.Sprintf("\n  %s %-28s %s / %s (%.0f%%) %s",
			healthDot(metrics.FinancialGoalHealth(g)), g.ItemName,
			a.money(g.CurrentAmountCents), a.money(g.TargetAmountCents),
			metrics.FinancialProgress(g), dimStyle.Render(string(g.Status)))
	}
	body += "\nPersonal goals:"
	if len(snap.PersonalGoals) == 0 {
		body += "\n  " + dimStyle.Render("none yet - press [g] then [p] to set one up")
	}
	for _, g := range snap.PersonalGoals {
		body += fmt.Sprintf("\n  %s %-28s week %d (%.0f%%) %s",
			healthDot(metrics.PersonalGoalHealth(g)), g.Description, g.CurrentWeek,
			metrics.PersonalProgress(g), dimStyle.Render(string(g.Status)))
	}

	if len(snap.Insights) > 0 {
		latest := snap.Insights[0]
		body += fmt.Sprintf("\n\nLatest insight (%s): %s", latest.Type, latest.Text)
	}
	return fmt.Sprintf("%s\n%s\n\n%s", title, body, navHelp)
}

func (a *App) renderGoals() string {
	snap := a.store.Data()
	title := titleStyle.Render("Goals")
	rows := a.goalRows()
	out := title + "\n"
	if snap.UserProfile != nil {
		out += fmt.Sprintf("Income %s/month  Housing %s/month  Savings rate %.0f%%\n",
			a.money(snap.UserProfile.IncomeCents), a.money(snap.UserProfile.HousingCostCents),
			metrics.SavingsRate(snap.FinancialGoals))
	}
	for i, row := range rows {
		marker := " "
		if i == a.goalCursor {
			marker = "▶"
		}
		switch row.kind {
		case store.KindFinancial:
			g, _ := a.store.FinancialGoal(row.id)
			out += fmt.Sprintf("%s %s [financial] %-28s %s target, %s/week, %s  %s\n",
				marker, healthDot(metrics.FinancialGoalHealth(*g)), g.ItemName,
				a.money(g.TargetAmountCents), a.money(g.WeeklySavingsTargetCents),
				g.TargetDate, dimStyle.Render(string(g.Status)))
		case store.KindPersonal:
			g, _ := a.store.PersonalGoal(row.id)
			out += fmt.Sprintf("%s %s [personal]  %-28s week %d of %s  %s\n",
				marker, healthDot(metrics.PersonalGoalHealth(*g)), g.Description,
				g.CurrentWeek, g.TargetDate, dimStyle.Render(string(g.Status)))
		}
	}
	if len(rows) == 0 {
		out += dimStyle.Render("no goals yet") + "\n"
	}
	out += "[f] New financial  [p] New personal  [a] Add task  [s] Pause/resume  [c] Complete  [D] Delete\n" + navHelp
	return out
}

func (a *App) renderCheckin() string {
	title := titleStyle.Render("Weekly Check-in")
	fin := a.activeFinancialGoal()
	if fin == nil {
		return title + "\nNo active financial goal. Set one up first.\n" + navHelp
	}
	out := fmt.Sprintf("%s\nGoal: %s - target %s/week\n", title, fin.ItemName, a.money(fin.WeeklySavingsTargetCents))

	amount := a.amountInput
	if a.editingAmount {
		amount += "▌"
	} else if amount == "" {
		amount = dimStyle.Render("(press [e] to enter)")
	}
	out += fmt.Sprintf("Saved this week: %s %s\n\nThis week's tasks:\n", a.currency, amount)

	tasks := a.checkinTasks()
	lastGoal := ""
	for i, ct := range tasks {
		if ct.goalID != lastGoal {
			if g, ok := a.store.PersonalGoal(ct.goalID); ok {
				out += fmt.Sprintf("  %s (week %d):\n", g.Description, g.CurrentWeek)
			}
			lastGoal = ct.goalID
		}
		marker := " "
		if i == a.taskCursor {
			marker = "▶"
		}
		check := "[ ]"
		if ct.task.Completed {
			check = "[x]"
		}
		custom := ""
		if ct.task.IsCustom {
			custom = dimStyle.Render(" (custom)")
		}
		out += fmt.Sprintf("  %s %s %s%s\n", marker, check, ct.task.Description, custom)
	}
	if len(tasks) == 0 {
		out += dimStyle.Render("  no tasks this week") + "\n"
	}
	if a.checkinBusy {
		out += "\ngenerating next week's plan, hang tight...\n"
		return out
	}
	out += "\n[space] Toggle  [backspace] Remove task  [e] Saved amount  [enter] Submit\n" + navHelp
	return out
}

func (a *App) renderTransactions() string {
	snap := a.store.Data()
	title := titleStyle.Render("Transactions")
	out := title + "\n"
	for i, t := range snap.Transactions {
		marker := " "
		if i == a.txCursor {
			marker = "▶"
		}
		sign := "-"
		if t.Type == store.TxIncome {
			sign = "+"
		}
		out += fmt.Sprintf("%s %s  %-32s %s%s  %s\n",
			marker, t.Date.Format("02/01"), t.Description, sign, a.money(t.AmountCents), dimStyle.Render(t.Category))
	}
	if len(snap.Transactions) == 0 {
		out += dimStyle.Render("no transactions yet") + "\n"
	}
	if breakdown := metrics.SpendingBreakdown(snap.Transactions); len(breakdown) > 0 {
		out += "\nSpending by category:\n"
		for _, c := range breakdown {
			out += fmt.Sprintf("  %-20s %5.1f%%  %s\n", c.Category, c.Percent, a.money(c.AmountCents))
		}
	}
	out += "\n[a] Add  [D] Delete\n" + navHelp
	return out
}

func (a *App) renderInsights() string {
	snap := a.store.Data()
	title := titleStyle.Render("Insights")
	out := title + "\n"
	if len(snap.Insights) == 0 {
		out += dimStyle.Render("insights arrive after your first weekly check-in") + "\n"
	}
	for _, ins := range snap.Insights {
		out += fmt.Sprintf("%s [%s] %s\n", ins.Date.Format("02 Jan"), ins.Type, ins.Text)
	}
	return out + "\n" + navHelp
}

func (a *App) renderNotifications() string {
	snap := a.store.Data()
	title := titleStyle.Render("Notifications")
	out := title + "\n"
	for i, n := range snap.Notifications {
		marker := " "
		if i == a.notifCursor {
			marker = "▶"
		}
		read := "•"
		if n.Read {
			read = " "
		}
		out += fmt.Sprintf("%s %s [%s] %s - %s\n", marker, read, n.Type, n.Title, n.Message)
	}
	if len(snap.Notifications) == 0 {
		out += dimStyle.Render("nothing yet") + "\n"
	}
	out += "[enter] Mark read  [a] Mark all read  [c] Clear read\n" + navHelp
	return out
}

func (a *App) renderForm() string {
	f := a.form
	title := titleStyle.Render(formTitle(f.kind))
	out := title + "\n"
	for i := 0; i < f.index; i++ {
		out += fmt.Sprintf("%s: %s\n", f.fields[i], f.values[i])
	}
	out += fmt.Sprintf("%s: %s▌\n", f.fields[f.index], f.input)
	out += dimStyle.Render("[enter] Next  [esc] Cancel")
	return out
}

func formTitle(kind formKind) string {
	switch kind {
	case formFinancialSetup:
		return "New Financial Goal"
	case formPersonalSetup:
		return "New Personal Goal"
	case formTransaction:
		return "New Transaction"
	case formCustomTask:
		return "New Task"
	case formSettings:
		return "Settings"
	}
	return "Form"
}

func pluralWeeks(n int) string {
	if n == 1 {
		return "1 week"
	}
	return fmt.Sprintf("%d weeks", n)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/bayanapp/bayan-tui/internal/api"
	"github.com/bayanapp/bayan-tui/internal/credential"
	"github.com/bayanapp/bayan-tui/internal/model"
	"github.com/bayanapp/bayan-tui/internal/notify"
	"github.com/bayanapp/bayan-tui/internal/resolution"
	"github.com/bayanapp/bayan-tui/internal/store"
	"github.com/bayanapp/bayan-tui/internal/theme"
	"github.com/bayanapp/bayan-tui/internal/ui/notiflist"
	"github.com/bayanapp/bayan-tui/internal/ui/reportdetail"
	"github.com/bayanapp/bayan-tui/internal/ui/reportlist"
	"github.com/bayanapp/bayan-tui/internal/ui/statsview"
	"github.com/bayanapp/bayan-tui/internal/watch"
)

const requestTimeout = 30 * time.Second

// loginResultMsg is the outcome of a sign-in attempt.
type loginResultMsg struct {
	user     model.User
	email    string
	password string
	remember bool
	auto     bool
	err      error
}

// statusUpdateResultMsg is the outcome of a direct status change.
type statusUpdateResultMsg struct {
	reportID   int
	prevStatus string
	err        error
}

// deleteResultMsg is the outcome of a report deletion.
type deleteResultMsg struct {
	reportID int
	err      error
}

// submitResultMsg is the outcome of a new-report submission.
type submitResultMsg struct {
	err error
}

// resolutionResultMsg is the outcome of a resolution dialog submit.
type resolutionResultMsg struct {
	reportID int
	outcome  resolution.Outcome
}

// serverCountMsg carries the backend's pending-notification count.
type serverCountMsg struct {
	count int
}

type toastExpireMsg struct{ seq int }

type bannerExpireMsg struct{ seq int }

// settingSavedMsg reports a background settings write.
type settingSavedMsg struct {
	key string
	err error
}

// tryAutoLogin attempts a sign-in with the keyring-saved password for
// the configured email. A missing entry is not an error.
func (m Model) tryAutoLogin() tea.Cmd {
	client := m.client
	email := m.cfg.Server.Email
	return func() tea.Msg {
		password, err := credential.Get(credential.PasswordKey)
		if err != nil || password == "" {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		user, err := client.Login(ctx, email, password)
		return loginResultMsg{user: user, email: email, auto: true, err: err}
	}
}

// login signs in with the submitted credentials.
func (m Model) login(email, password string, remember bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		user, err := client.Login(ctx, email, password)
		return loginResultMsg{
			user:     user,
			email:    email,
			password: password,
			remember: remember,
			err:      err,
		}
	}
}

// handleLoginResult finishes the sign-in: builds the role-specific
// views, registers the background checks, and starts watching.
func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if msg.auto {
			// A stale saved password falls back to the interactive form.
			m.log.Info("automatic sign-in failed", zap.Error(msg.err))
			return m, nil
		}
		return m, m.loginView.SetError(loginFailureText(msg.err))
	}

	m.user = msg.user
	m.loggedIn = true
	m.currentView = ViewReports

	w, h := 80, 24
	if m.ready {
		w, h = m.layout.ContentWidth(), m.layout.ContentHeight()
	}

	admin := m.user.IsAdmin()
	m.reportList = reportlist.New(m.client, m.keys, admin, w, h)
	m.detailView = reportdetail.New(m.keys, admin, w, h)
	m.notifList = notiflist.New(m.notes, m.keys, w, h)
	m.statsView = statsview.New(m.client, admin, m.cfg.Display.EnhancedUI, w, h)

	if admin {
		m.watcher.RegisterCheck(watch.CheckAdmin, m.adminInterval())
	} else {
		m.watcher.RegisterCheck(watch.CheckUser, m.userInterval())
	}

	cmds := []tea.Cmd{
		m.reportList.Init(),
		m.statsView.LoadStats(),
		m.watcher.Start(),
		m.fetchServerCount(),
	}
	if msg.remember {
		cmds = append(cmds, m.rememberCredentials(msg.email, msg.password))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) userInterval() time.Duration {
	return time.Duration(m.cfg.Poll.UpdateIntervalSec) * time.Second
}

func (m Model) adminInterval() time.Duration {
	return time.Duration(m.cfg.Poll.AdminIntervalSec) * time.Second
}

// rememberCredentials saves the password to the OS keyring and the email
// to the config file. Failures are logged; login itself already worked.
func (m Model) rememberCredentials(email, password string) tea.Cmd {
	cfg := m.cfg
	log := m.log
	return func() tea.Msg {
		if err := credential.Set(credential.PasswordKey, password); err != nil {
			log.Warn("saving password to keyring failed", zap.Error(err))
		}
		cfg.Server.Email = email
		if err := model.SaveConfig(model.DefaultConfigPath(), cfg); err != nil {
			log.Warn("saving config failed", zap.Error(err))
		}
		return nil
	}
}

// fetchServerCount asks the backend how many notifications it is
// holding for this account.
func (m Model) fetchServerCount() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		count, err := client.NotificationsCount(ctx)
		if err != nil {
			return nil
		}
		return serverCountMsg{count: count}
	}
}

// handleUpdateMsg processes a completed background check: records the
// detected events, raises alerts and banners, and keeps listening.
func (m Model) handleUpdateMsg(msg watch.UpdateMsg) (tea.Model, tea.Cmd) {
	if msg.AuthMessage != "" {
		return m.forceLogout(msg.AuthMessage)
	}

	cmds := []tea.Cmd{m.watcher.WaitForNextResult()}
	if msg.Err != nil {
		// The watcher already logged it; the header shows "offline".
		return m, tea.Batch(cmds...)
	}

	for _, ev := range msg.Events {
		m.notes.Add(ev.Title, ev.Message)
	}

	if len(msg.Events) > 0 {
		first := msg.Events[0]

		switch m.presenter.Alert(context.Background(), first.Title, first.Message) {
		case notify.AlertNeedsPermission:
			m.permPrompt = &pendingAlert{title: first.Title, message: first.Message}
		}

		m.seq++
		m.banner = &banner{seq: m.seq, title: first.Title, text: first.Message}
		cmds = append(cmds, expireBanner(m.seq))

		// Resolved reports and new submissions both change what the
		// list and counters should show.
		if m.loggedIn {
			cmds = append(cmds, m.reportList.LoadReports(), m.statsView.LoadStats())
		}
	}

	return m, tea.Batch(cmds...)
}

func expireBanner(seq int) tea.Cmd {
	return tea.Tick(bannerDuration, func(time.Time) tea.Msg {
		return bannerExpireMsg{seq: seq}
	})
}

// answerPermission resolves the one-time alert permission prompt and,
// on a grant, delivers the alert that triggered it.
func (m *Model) answerPermission(granted bool) tea.Cmd {
	pending := m.permPrompt
	m.permPrompt = nil

	presenter := m.presenter
	return func() tea.Msg {
		ctx := context.Background()
		if granted {
			presenter.Grant(ctx)
			if pending != nil {
				presenter.Alert(ctx, pending.title, pending.message)
			}
		} else {
			presenter.Deny(ctx)
		}
		return nil
	}
}

// bannerNavigate jumps to the view the active banner is about: the
// report list, reloaded so the change is visible.
func (m Model) bannerNavigate() (bool, tea.Model, tea.Cmd) {
	m.banner = nil
	m.currentView = ViewReports
	return true, m, m.reportList.LoadReports()
}

// handleStatusChange routes an admin status change. A change into
// Resolved opens the resolution dialog instead of hitting the backend
// directly; everything else commits optimistically.
func (m Model) handleStatusChange(msg reportlist.StatusChangeRequestMsg) (tea.Model, tea.Cmd) {
	cmd := m.reportList.SetReportStatus(msg.ReportID, msg.NewStatus)

	if msg.NewStatus == model.StatusResolved {
		m.previousView = m.currentView
		m.currentView = ViewResolution
		return m, tea.Batch(cmd, m.resView.Start(msg.ReportID))
	}

	return m, tea.Batch(cmd, m.updateStatus(msg.ReportID, msg.NewStatus, msg.PrevStatus))
}

// updateStatus commits a non-resolution status change to the backend.
func (m Model) updateStatus(reportID int, newStatus, prevStatus string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := client.UpdateReportStatus(ctx, reportID, newStatus)
		return statusUpdateResultMsg{reportID: reportID, prevStatus: prevStatus, err: err}
	}
}

// submitResolution runs the workflow submit off the UI goroutine.
func (m Model) submitResolution() tea.Cmd {
	wf := m.workflow
	client := m.client
	reportID := wf.ReportID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		outcome := wf.Submit(ctx, client)
		return resolutionResultMsg{reportID: reportID, outcome: outcome}
	}
}

// handleResolutionResult reacts to the workflow outcome. Commits close
// the dialog and record a notification; anything else reopens the
// dialog with the failure surfaced.
func (m Model) handleResolutionResult(msg resolutionResultMsg) (tea.Model, tea.Cmd) {
	switch msg.outcome {
	case resolution.OutcomeCommitted:
		m.currentView = ViewReports
		m.notes.Add("Report Resolved",
			fmt.Sprintf("Report #%d was marked resolved.", msg.reportID))
		return m, tea.Batch(
			m.reportList.SetReportStatus(msg.reportID, model.StatusResolved),
			m.statsView.LoadStats(),
			m.showToast("Resolution recorded."),
		)

	case resolution.OutcomeFailed:
		cmd := m.reportList.SetReportStatus(msg.reportID, model.StatusInProgress)
		return m, tea.Batch(cmd, m.resView.Reopen())

	default: // OutcomeInvalid
		return m, m.resView.Reopen()
	}
}

// closeResolution handles a dismissed resolution dialog. The status
// control falls back to In Progress because the report is, by the
// admin's own account, being worked on.
func (m Model) closeResolution(reportID int, committed bool) (tea.Model, tea.Cmd) {
	m.currentView = ViewReports
	if committed {
		return m, nil
	}
	return m, m.reportList.SetReportStatus(reportID, model.StatusInProgress)
}

// deleteReport removes a report through the role-appropriate endpoint.
func (m Model) deleteReport(reportID int) tea.Cmd {
	client := m.client
	admin := m.user.IsAdmin()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var err error
		if admin {
			err = client.DeleteReport(ctx, reportID)
		} else {
			err = client.DeleteUserReport(ctx, reportID)
		}
		return deleteResultMsg{reportID: reportID, err: err}
	}
}

// submitReport sends a new report draft to the backend.
func (m Model) submitReport(draft model.ReportDraft) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return submitResultMsg{err: client.SubmitReport(ctx, draft)}
	}
}

// forceLogout drops the session after the backend rejected it. The
// watcher's stop channel is single-use, so a fresh one replaces it for
// the next session.
func (m Model) forceLogout(reason string) (tea.Model, tea.Cmd) {
	m.watcher.Stop()
	m.watcher = watch.New(m.client, m.db, m.log)
	m.loggedIn = false
	m.serverCount = 0
	m.currentView = ViewLogin

	cmds := []tea.Cmd{m.loginView.Start(m.cfg.Server.Email)}
	if reason != "" {
		cmds = append(cmds, m.loginView.SetError(reason))
	}
	return m, tea.Batch(cmds...)
}

// logout ends the session on the backend and returns to the login form.
func (m Model) logout() (tea.Model, tea.Cmd) {
	client := m.client
	log := m.log
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := client.Logout(ctx); err != nil {
			log.Warn("logout failed", zap.Error(err))
		}
	}()
	return m.forceLogout("")
}

// toggleDarkMode flips the palette and persists the preference.
func (m Model) toggleDarkMode() (bool, tea.Model, tea.Cmd) {
	m.darkMode = !m.darkMode
	theme.SetDarkMode(m.darkMode)
	return true, m, m.saveSetting(store.SettingDarkMode, fmt.Sprintf("%t", m.darkMode))
}

// saveSetting writes a settings key in the background.
func (m Model) saveSetting(key, value string) tea.Cmd {
	db := m.db
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return settingSavedMsg{key: key, err: db.SetSetting(ctx, key, value)}
	}
}

// showToast displays a transient status message.
func (m *Model) showToast(text string) tea.Cmd {
	m.seq++
	m.toast = text
	seq := m.seq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpireMsg{seq: seq}
	})
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "refresh", "sync":
		if m.loggedIn {
			m.watcher.RefreshAll()
			return m, tea.Batch(m.reportList.LoadReports(), m.statsView.LoadStats())
		}
		return m, nil
	case "quit", "q":
		m.watcher.Stop()
		return m, tea.Quit
	case "notifications":
		m.currentView = ViewNotifications
		return m, nil
	case "stats", "dashboard":
		m.currentView = ViewStats
		return m, m.statsView.LoadStats()
	case "new report", "report":
		if m.loggedIn && !m.user.IsAdmin() {
			m.currentView = ViewReportForm
			return m, m.reportForm.Start()
		}
		return m, nil
	case "read all":
		m.notes.MarkAllRead()
		return m, nil
	case "dark", "dark mode":
		_, next, c := m.toggleDarkMode()
		return next, c
	case "enhanced", "enhanced ui":
		m.cfg.Display.EnhancedUI = !m.cfg.Display.EnhancedUI
		m.statsView.SetEnhanced(m.cfg.Display.EnhancedUI)
		return m, m.saveSetting(store.SettingEnhancedUI,
			fmt.Sprintf("%t", m.cfg.Display.EnhancedUI))
	case "logout":
		if m.loggedIn {
			return m.logout()
		}
		return m, nil
	default:
		return m, m.showToast("Unknown command: " + cmd)
	}
}

// loginFailureText maps a login error to what the form should show.
func loginFailureText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var authErr *api.AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	return "Sign-in failed. Check the server address and try again."
}

// submitFailureText maps a report submission error to a toast.
func submitFailureText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Failed to submit report. Please try again."
}

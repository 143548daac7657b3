package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/bayanapp/bayan-tui/internal/api"
	"github.com/bayanapp/bayan-tui/internal/keys"
	"github.com/bayanapp/bayan-tui/internal/model"
	"github.com/bayanapp/bayan-tui/internal/notify"
	"github.com/bayanapp/bayan-tui/internal/resolution"
	"github.com/bayanapp/bayan-tui/internal/store"
	"github.com/bayanapp/bayan-tui/internal/ui"
	"github.com/bayanapp/bayan-tui/internal/ui/command"
	helpview "github.com/bayanapp/bayan-tui/internal/ui/help"
	"github.com/bayanapp/bayan-tui/internal/ui/loginform"
	"github.com/bayanapp/bayan-tui/internal/ui/notiflist"
	"github.com/bayanapp/bayan-tui/internal/ui/reportdetail"
	"github.com/bayanapp/bayan-tui/internal/ui/reportform"
	"github.com/bayanapp/bayan-tui/internal/ui/reportlist"
	"github.com/bayanapp/bayan-tui/internal/ui/resolutionform"
	"github.com/bayanapp/bayan-tui/internal/ui/statsview"
	"github.com/bayanapp/bayan-tui/internal/watch"
)

// bannerDuration is how long an in-app banner stays visible before
// auto-dismissing.
const bannerDuration = 10 * time.Second

// toastDuration is how long transient status toasts stay visible.
const toastDuration = 4 * time.Second

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewReports
	ViewDetail
	ViewNotifications
	ViewStats
	ViewReportForm
	ViewResolution
	ViewHelp
	ViewCommand
)

// banner is a transient in-app notification strip shown over the status
// bar. Pressing o while it is visible navigates to the relevant view.
type banner struct {
	seq   int
	title string
	text  string
}

// pendingAlert is an alert held back because permission is still
// unasked. It is delivered after a grant, dropped after a denial.
type pendingAlert struct {
	title   string
	message string
}

// Model is the root Bubble Tea model that manages authentication, view
// routing, layout, and the background update checks.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout

	cfg       *model.AppConfig
	client    *api.Client
	db        *store.SQLiteStore
	notes     *notify.Store
	presenter *notify.Presenter
	watcher   *watch.Watcher
	workflow  *resolution.Workflow
	keys      *keys.KeyMap
	log       *zap.Logger

	user     model.User
	loggedIn bool

	loginView  loginform.Model
	reportList reportlist.Model
	detailView reportdetail.Model
	notifList  notiflist.Model
	statsView  statsview.Model
	reportForm reportform.Model
	resView    resolutionform.Model
	helpView   helpview.Model
	cmdView    command.Model

	ready  bool
	banner *banner
	toast  string
	seq    int

	// serverCount is the backend's pending-notification count; the badge
	// shows whichever of it and the local unread count is larger.
	serverCount int

	// permPrompt is non-nil while the one-time alert permission question
	// is showing in the status bar.
	permPrompt *pendingAlert

	darkMode bool
}

// New creates the root application model.
func New(cfg *model.AppConfig, client *api.Client, db *store.SQLiteStore, notes *notify.Store, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}

	k := keys.DefaultKeyMap()
	wf := resolution.New()
	presenter := notify.NewPresenter(notes, notify.NewTerminalAlerter(nil), db, log)

	return Model{
		currentView: ViewLogin,
		cfg:         cfg,
		client:      client,
		db:          db,
		notes:       notes,
		presenter:   presenter,
		watcher:     watch.New(client, db, log),
		workflow:    wf,
		keys:        k,
		log:         log,
		loginView:   loginform.New(80, 24),
		reportForm:  reportform.New(80, 24),
		resView:     resolutionform.New(wf, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		cmdView:     command.New(80, 24),
	}
}

// Init shows the login form, attempting an automatic sign-in when a
// saved password exists for the configured email.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loginView.Start(m.cfg.Server.Email)}
	if m.cfg.Server.Email != "" {
		cmds = append(cmds, m.tryAutoLogin())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.loginView.SetSize(w, h)
		m.reportForm.SetSize(w, h)
		m.resView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.cmdView.SetSize(w, h)
		if m.loggedIn {
			m.reportList.SetSize(w, h)
			m.detailView.SetSize(w, h)
			m.notifList.SetSize(w, h)
			m.statsView.SetSize(w, h)
		}
		return m.updateActiveView(msg)

	case loginform.LoginSubmitMsg:
		return m, m.login(msg.Email, msg.Password, msg.Remember)

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case watch.UpdateMsg:
		return m.handleUpdateMsg(msg)

	// Background fetch results go to their owning model even when
	// another view is on screen.
	case reportlist.ReportsLoadedMsg:
		var cmd tea.Cmd
		m.reportList, cmd = m.reportList.Update(msg)
		return m, cmd

	case statsview.StatsLoadedMsg:
		var cmd tea.Cmd
		m.statsView, cmd = m.statsView.Update(msg)
		return m, cmd

	case reportlist.SelectedReportMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detailView.SetReport(msg.Report)
		return m, nil

	case reportdetail.BackMsg:
		m.currentView = ViewReports
		return m, nil

	case reportlist.StatusChangeRequestMsg:
		return m.handleStatusChange(msg)

	case statusUpdateResultMsg:
		if msg.err != nil {
			m.log.Warn("status update failed",
				zap.Int("report_id", msg.reportID), zap.Error(msg.err))
			cmd := m.reportList.SetReportStatus(msg.reportID, msg.prevStatus)
			return m, tea.Batch(cmd, m.showToast("Failed to update status."))
		}
		return m, tea.Batch(m.statsView.LoadStats(), m.showToast("Status updated."))

	case reportlist.DeleteRequestMsg:
		return m, m.deleteReport(msg.ReportID)

	case deleteResultMsg:
		if msg.err != nil {
			return m, m.showToast("Failed to delete report.")
		}
		cmd := m.reportList.RemoveReport(msg.reportID)
		return m, tea.Batch(cmd, m.statsView.LoadStats(), m.showToast("Report deleted."))

	case reportform.ReportSubmitMsg:
		return m, m.submitReport(msg.Draft)

	case reportform.ReportFormCancelMsg:
		m.currentView = ViewReports
		return m, nil

	case submitResultMsg:
		m.currentView = ViewReports
		if msg.err != nil {
			return m, m.showToast(submitFailureText(msg.err))
		}
		return m, tea.Batch(
			m.reportList.LoadReports(),
			m.statsView.LoadStats(),
			m.showToast("Report submitted."),
		)

	case resolutionform.SubmitRequestMsg:
		return m, m.submitResolution()

	case resolutionform.CancelMsg:
		return m.closeResolution(msg.ReportID, false)

	case resolutionResultMsg:
		return m.handleResolutionResult(msg)

	case notiflist.ChangedMsg:
		return m, nil

	case serverCountMsg:
		m.serverCount = msg.count
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case toastExpireMsg:
		if msg.seq == m.seq {
			m.toast = ""
		}
		return m, nil

	case bannerExpireMsg:
		if m.banner != nil && m.banner.seq == msg.seq {
			m.banner = nil
		}
		return m, nil

	case settingSavedMsg:
		if msg.err != nil {
			m.log.Warn("saving setting failed",
				zap.String("key", msg.key), zap.Error(msg.err))
		}
		return m, nil

	case tea.KeyMsg:
		if handled, next, cmd := m.handleGlobalKeys(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that apply across views. Returns
// handled=false to let the active view consume the key instead.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	// The permission prompt captures y/n while visible.
	if m.permPrompt != nil {
		switch msg.String() {
		case "y", "Y":
			return true, m, m.answerPermission(true)
		case "n", "N":
			return true, m, m.answerPermission(false)
		}
	}

	// Form views own the keyboard; only ctrl+c is global there.
	formActive := m.currentView == ViewLogin ||
		m.currentView == ViewReportForm ||
		m.currentView == ViewResolution ||
		m.currentView == ViewCommand

	switch msg.String() {
	case "ctrl+c":
		m.watcher.Stop()
		return true, m, tea.Quit

	case "o":
		if m.banner != nil && !formActive {
			return m.bannerNavigate()
		}
	}

	if formActive {
		return false, m, nil
	}

	switch msg.String() {
	case "q":
		if m.currentView == ViewReports {
			m.watcher.Stop()
			return true, m, tea.Quit
		}

	case "esc":
		if m.currentView == ViewNotifications ||
			m.currentView == ViewStats ||
			m.currentView == ViewHelp {
			m.currentView = ViewReports
			return true, m, nil
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case ":":
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return true, m, m.cmdView.Focus()

	case "N":
		if m.loggedIn && m.currentView != ViewNotifications {
			m.previousView = m.currentView
			m.currentView = ViewNotifications
			return true, m, nil
		}

	case "S":
		if m.loggedIn && m.currentView != ViewStats {
			m.previousView = m.currentView
			m.currentView = ViewStats
			return true, m, m.statsView.LoadStats()
		}

	case "n":
		if m.currentView == ViewReports && !m.user.IsAdmin() {
			m.previousView = m.currentView
			m.currentView = ViewReportForm
			return true, m, m.reportForm.Start()
		}

	case "r":
		if m.loggedIn && m.currentView == ViewReports {
			m.watcher.RefreshAll()
			return true, m, tea.Batch(
				m.reportList.LoadReports(), m.statsView.LoadStats())
		}

	case "D":
		return m.toggleDarkMode()
	}

	return false, m, nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewReports:
		m.reportList, cmd = m.reportList.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewNotifications:
		m.notifList, cmd = m.notifList.Update(msg)
	case ViewStats:
		m.statsView, cmd = m.statsView.Update(msg)
	case ViewReportForm:
		m.reportForm, cmd = m.reportForm.Update(msg)
	case ViewResolution:
		m.resView, cmd = m.resView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.cmdView, cmd = m.cmdView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := "Bayan"
	if m.loggedIn {
		if m.user.IsAdmin() {
			title = "Bayan Admin"
		} else {
			title = "Bayan Reports"
		}
	}

	header := m.layout.RenderHeader(title, m.badgeText(), m.pollStatus())
	content := m.renderContent()
	statusBar := m.renderStatusBar()

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// badgeText merges the local unread count and the server-reported count.
func (m Model) badgeText() string {
	count := m.notes.UnreadCount()
	if m.serverCount > count {
		count = m.serverCount
	}
	return notify.FormatBadge(count)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewReports:
		return m.reportList.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewNotifications:
		return m.notifList.View()
	case ViewStats:
		return m.statsView.View()
	case ViewReportForm:
		return m.reportForm.View()
	case ViewResolution:
		return m.resView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.cmdView.View()
	default:
		return ""
	}
}

// renderStatusBar picks the most urgent strip: permission prompt, then
// banner, then toast, then key hints.
func (m Model) renderStatusBar() string {
	switch {
	case m.permPrompt != nil:
		return m.layout.RenderStatusBar(
			"Enable desktop alerts for report updates? y yes | n no", true)
	case m.banner != nil:
		text := m.banner.title + ": " + m.banner.text + "  (o open)"
		return m.layout.RenderStatusBar(text, true)
	case m.toast != "":
		return m.layout.RenderStatusBar(m.toast, true)
	default:
		return m.layout.RenderStatusBar(m.keyHints(), false)
	}
}

// pollStatus summarizes the background checks for the header.
func (m Model) pollStatus() string {
	if !m.loggedIn {
		return ""
	}

	statuses := m.watcher.GetStatuses()
	running, errCount := 0, 0
	for _, s := range statuses {
		switch s.State {
		case watch.CheckRunning:
			running++
		case watch.CheckError:
			errCount++
		}
	}

	switch {
	case running > 0:
		return "checking..."
	case errCount > 0:
		return "offline"
	default:
		return "watching"
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewLogin:
		return "enter sign in | ctrl+c quit"
	case ViewDetail:
		return "esc back | j/k scroll"
	case ViewNotifications:
		return "enter read | d dismiss | m read all | C clear | esc back"
	case ViewStats:
		return "esc back | r refresh"
	case ViewReportForm, ViewResolution:
		return "enter submit | esc cancel"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	default:
		if summary := m.reportList.FilterSummary(); summary != "" {
			return summary + " | 1/2/3 toggle | / search"
		}
		hints := "q quit | ? help | N notifications | S stats | / search | r refresh"
		if m.user.IsAdmin() {
			return hints + " | s status | d delete"
		}
		return hints + " | n new report | d delete"
	}
}

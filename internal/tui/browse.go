package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/pittsix/cmsctl/internal/api"
	"github.com/pittsix/cmsctl/internal/gate"
	"github.com/pittsix/cmsctl/internal/resource"
	"github.com/pittsix/cmsctl/internal/session"
)

// BrowseView represents the current browse screen
type BrowseView int

// Browse view constants
const (
	// BrowseViewLogin is the login form screen
	BrowseViewLogin BrowseView = iota
	// BrowseViewList is the article list screen
	BrowseViewList
	// BrowseViewDetail shows a single article
	BrowseViewDetail
	// BrowseViewConfirmDelete is the delete confirmation screen
	BrowseViewConfirmDelete
	// BrowseViewHelp is the help screen
	BrowseViewHelp
)

// browseKeyMap defines the keyboard shortcuts for the list view
type browseKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Refresh key.Binding
	Delete  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var browseKeys = browseKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open article"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowseStyles contains lipgloss styles for the browse TUI
type BrowseStyles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Muted    lipgloss.Style
	Cursor   lipgloss.Style
	Badge    lipgloss.Style
	Border   lipgloss.Style
	Help     lipgloss.Style
}

// DefaultBrowseStyles returns the default lipgloss styles
func DefaultBrowseStyles() BrowseStyles {
	return BrowseStyles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")). // Purple
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Gray
			MarginBottom(1),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Cursor: lipgloss.NewStyle().
			Background(lipgloss.Color("63")).  // Purple
			Foreground(lipgloss.Color("230")). // Light yellow
			Bold(true).
			Padding(0, 1),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")), // Cyan
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")). // Purple
			Padding(1, 2),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Gray
			MarginTop(1),
	}
}

// BrowseModel represents the TUI state for browsing articles
type BrowseModel struct {
	ctx      context.Context
	client   *api.Client
	sessions *session.Store
	articles *resource.Controller[resource.Article]

	sessionCh   <-chan session.Session
	stopWatch   func()
	currentSess session.Session

	view      BrowseView
	items     []resource.Article
	cursor    int
	loading   bool
	quitting  bool
	statusMsg string
	lastError string
	width     int
	height    int

	loginForm     *huh.Form
	loginEmail    string
	loginPassword string

	spin   spinner.Model
	styles BrowseStyles
}

// Messages for browse events

type sessionChangedMsg struct {
	Session session.Session
}

type articlesLoadedMsg struct {
	Items []resource.Article
}

type articlesFailedMsg struct {
	Err error
}

type loginFailedMsg struct {
	Err error
}

type deleteDoneMsg struct {
	Err error
}

// NewBrowseModel creates a new browse TUI model
func NewBrowseModel(ctx context.Context, client *api.Client, sessions *session.Store, articles *resource.Controller[resource.Article]) *BrowseModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	ch, stop := sessions.Watch()

	m := &BrowseModel{
		ctx:       ctx,
		client:    client,
		sessions:  sessions,
		articles:  articles,
		sessionCh: ch,
		stopWatch: stop,
		spin:      sp,
		styles:    DefaultBrowseStyles(),
	}

	m.currentSess = sessions.Current()
	m.applyGate()
	return m
}

// applyGate re-evaluates access for the current view against the
// current session. Runs on entry and on every session change so a
// mid-session invalidation pushes the user back to the login screen.
func (m *BrowseModel) applyGate() {
	switch gate.CanEnter(m.currentSess, true) {
	case gate.Allow:
		if m.view == BrowseViewLogin {
			m.view = BrowseViewList
			m.loginForm = nil
		}
	case gate.RedirectToLogin:
		if m.view != BrowseViewLogin {
			m.view = BrowseViewLogin
			m.items = nil
			m.cursor = 0
		}
		if m.loginForm == nil {
			m.loginForm = m.newLoginForm()
		}
	}
}

func (m *BrowseModel) newLoginForm() *huh.Form {
	m.loginEmail = ""
	m.loginPassword = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&m.loginEmail).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("email is required")
					}
					return nil
				}),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.loginPassword).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("password is required")
					}
					return nil
				}),
		).Title("Sign in"),
	)
}

// waitForSession blocks on the session watch channel
func (m *BrowseModel) waitForSession() tea.Cmd {
	return func() tea.Msg {
		sess, ok := <-m.sessionCh
		if !ok {
			return nil
		}
		return sessionChangedMsg{Session: sess}
	}
}

// loadArticles fetches the article collection
func (m *BrowseModel) loadArticles() tea.Cmd {
	return func() tea.Msg {
		if err := m.articles.List(m.ctx); err != nil {
			return articlesFailedMsg{Err: err}
		}
		return articlesLoadedMsg{Items: m.articles.Items()}
	}
}

// submitLogin exchanges credentials for a token and hands it to the
// session store. The store fetches the profile asynchronously; the
// resulting transition arrives through the watch channel.
func (m *BrowseModel) submitLogin(email, password string) tea.Cmd {
	return func() tea.Msg {
		token, err := m.client.Login(m.ctx, email, password)
		if err != nil {
			return loginFailedMsg{Err: err}
		}
		m.sessions.Login(token)
		return nil
	}
}

func (m *BrowseModel) confirmDelete() tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{Err: m.articles.ConfirmDelete(m.ctx)}
	}
}

// Init initializes the model
func (m *BrowseModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, m.waitForSession()}
	if m.view == BrowseViewLogin && m.loginForm != nil {
		cmds = append(cmds, m.loginForm.Init())
	}
	if m.view == BrowseViewList {
		m.loading = true
		cmds = append(cmds, m.loadArticles())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, browseKeys.Quit) && m.view != BrowseViewLogin {
			return m.quit()
		}
		if msg.String() == "ctrl+c" {
			return m.quit()
		}

	case sessionChangedMsg:
		wasList := m.view != BrowseViewLogin
		m.currentSess = msg.Session
		m.applyGate()
		cmds := []tea.Cmd{m.waitForSession()}
		if msg.Session.Status == session.StatusInvalid {
			m.lastError = "session expired, sign in again"
		}
		if !wasList && m.view == BrowseViewList {
			m.loading = true
			m.lastError = ""
			cmds = append(cmds, m.loadArticles())
		}
		if m.view == BrowseViewLogin && m.loginForm != nil {
			cmds = append(cmds, m.loginForm.Init())
		}
		return m, tea.Batch(cmds...)

	case articlesLoadedMsg:
		m.loading = false
		m.items = msg.Items
		if m.cursor >= len(m.items) {
			m.cursor = max(0, len(m.items)-1)
		}
		m.statusMsg = fmt.Sprintf("%d articles", len(m.items))
		return m, nil

	case articlesFailedMsg:
		m.loading = false
		// Stale items stay on screen; only the status line reports it.
		m.lastError = errorText(msg.Err)
		return m, nil

	case loginFailedMsg:
		m.lastError = errorText(msg.Err)
		m.loginForm = m.newLoginForm()
		return m, m.loginForm.Init()

	case deleteDoneMsg:
		if msg.Err != nil {
			// Still confirming; the entry was not removed.
			m.lastError = errorText(msg.Err)
			return m, nil
		}
		m.view = BrowseViewList
		m.items = m.articles.Items()
		if m.cursor >= len(m.items) {
			m.cursor = max(0, len(m.items)-1)
		}
		m.statusMsg = "article deleted"
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	switch m.view {
	case BrowseViewLogin:
		return m.updateLogin(msg)
	case BrowseViewList:
		return m.updateList(msg)
	case BrowseViewDetail:
		return m.updateDetail(msg)
	case BrowseViewConfirmDelete:
		return m.updateConfirmDelete(msg)
	case BrowseViewHelp:
		return m.updateHelp(msg)
	}
	return m, nil
}

func (m *BrowseModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.stopWatch != nil {
		m.stopWatch()
	}
	return m, tea.Quit
}

func (m *BrowseModel) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return m.quit()
	}
	if m.loginForm == nil {
		return m, nil
	}
	form, cmd := m.loginForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.loginForm = f
		if f.State == huh.StateCompleted {
			email := f.GetString("email")
			password := f.GetString("password")
			m.lastError = ""
			m.statusMsg = "signing in..."
			return m, m.submitLogin(email, password)
		}
	}
	return m, cmd
}

func (m *BrowseModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, browseKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, browseKeys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, browseKeys.Open):
		if len(m.items) > 0 {
			m.view = BrowseViewDetail
		}

	case key.Matches(keyMsg, browseKeys.Refresh):
		if !m.loading {
			m.loading = true
			m.lastError = ""
			return m, m.loadArticles()
		}

	case key.Matches(keyMsg, browseKeys.Delete):
		if len(m.items) > 0 {
			if _, err := m.articles.RequestDelete(m.items[m.cursor].ID); err != nil {
				m.lastError = errorText(err)
				return m, nil
			}
			m.view = BrowseViewConfirmDelete
		}

	case key.Matches(keyMsg, browseKeys.Help):
		m.view = BrowseViewHelp
	}

	return m, nil
}

func (m *BrowseModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "enter", "backspace":
			m.view = BrowseViewList
		}
	}
	return m, nil
}

func (m *BrowseModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "enter":
		m.statusMsg = "deleting..."
		return m, m.confirmDelete()
	case "n", "esc":
		m.articles.CancelDelete()
		m.view = BrowseViewList
	}
	return m, nil
}

func (m *BrowseModel) updateHelp(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		m.view = BrowseViewList
	}
	return m, nil
}

// View renders the UI
func (m *BrowseModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case BrowseViewLogin:
		return m.renderLogin()
	case BrowseViewDetail:
		return m.renderDetail()
	case BrowseViewConfirmDelete:
		return m.renderConfirmDelete()
	case BrowseViewHelp:
		return m.renderHelp()
	default:
		return m.renderList()
	}
}

func (m *BrowseModel) renderLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("cmsctl browse"))
	b.WriteString("\n")
	if m.lastError != "" {
		b.WriteString(m.styles.Error.Render("✗ "+m.lastError) + "\n\n")
	}
	if m.currentSess.Status == session.StatusAuthenticating {
		b.WriteString(m.spin.View() + " checking session...\n")
		return b.String()
	}
	if m.loginForm != nil {
		b.WriteString(m.loginForm.View())
	}
	b.WriteString(m.styles.Help.Render("esc to quit"))
	return b.String()
}

func (m *BrowseModel) renderList() string {
	var b strings.Builder

	title := "Articles"
	if m.currentSess.User != nil {
		title = fmt.Sprintf("Articles — %s", m.currentSess.User.DisplayName)
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")

	if m.loading {
		b.WriteString(m.spin.View() + " loading articles...\n")
	} else if len(m.items) == 0 {
		b.WriteString(m.styles.Muted.Render("No articles yet. Press r to refresh.") + "\n")
	}

	for i, a := range m.items {
		line := fmt.Sprintf("%s  %s", a.Title, m.styles.Badge.Render("["+a.Status+"]"))
		if a.Author != "" {
			line += m.styles.Muted.Render("  by " + a.Author)
		}
		if i == m.cursor {
			b.WriteString(m.styles.Cursor.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusLine())
	b.WriteString(m.styles.Help.Render("↑/↓ navigate • enter open • r refresh • d delete • ? help • q quit"))
	return b.String()
}

func (m *BrowseModel) renderDetail() string {
	if m.cursor >= len(m.items) {
		return m.renderList()
	}
	a := m.items[m.cursor]

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(a.Title))
	b.WriteString("\n")
	meta := a.Status
	if a.Author != "" {
		meta += " • " + a.Author
	}
	if !a.CreatedAt.IsZero() {
		meta += " • " + a.CreatedAt.Format("2006-01-02")
	}
	b.WriteString(m.styles.Subtitle.Render(meta))
	b.WriteString("\n")
	b.WriteString(a.Content)
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("esc back"))
	return b.String()
}

func (m *BrowseModel) renderConfirmDelete() string {
	conf := m.articles.Confirmation()
	label := ""
	if conf != nil {
		label = conf.TargetLabel
	}

	var b strings.Builder
	body := fmt.Sprintf("Delete %q?\n\nThis cannot be undone.\n\n%s",
		label,
		"y confirm • n cancel")
	b.WriteString(m.styles.Border.Render(body))
	if m.lastError != "" {
		b.WriteString("\n" + m.styles.Error.Render("✗ "+m.lastError))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *BrowseModel) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Keyboard shortcuts"))
	b.WriteString("\n")

	bindings := []key.Binding{
		browseKeys.Up, browseKeys.Down, browseKeys.Open,
		browseKeys.Refresh, browseKeys.Delete, browseKeys.Help, browseKeys.Quit,
	}
	for _, kb := range bindings {
		h := kb.Help()
		b.WriteString(fmt.Sprintf("  %-8s %s\n", h.Key, h.Desc))
	}
	b.WriteString(m.styles.Help.Render("press any key to return"))
	return b.String()
}

func (m *BrowseModel) renderStatusLine() string {
	var parts []string
	if m.lastError != "" {
		parts = append(parts, m.styles.Error.Render("✗ "+m.lastError))
	} else if m.statusMsg != "" {
		parts = append(parts, m.styles.Muted.Render(m.statusMsg))
	}
	if len(parts) == 0 {
		return "\n"
	}
	return "\n" + strings.Join(parts, "  ") + "\n"
}

// errorText extracts display-ready text from an error
func errorText(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := api.AsError(err); ok {
		return apiErr.Message()
	}
	return err.Error()
}

// RunBrowse starts the browse TUI
func RunBrowse(ctx context.Context, client *api.Client, sessions *session.Store, articles *resource.Controller[resource.Article]) error {
	model := NewBrowseModel(ctx, client, sessions, articles)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

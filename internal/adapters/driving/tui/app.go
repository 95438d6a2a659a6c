package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docfoundry/docfoundry-cli/internal/adapters/driving/tui/components/input"
	"github.com/docfoundry/docfoundry-cli/internal/adapters/driving/tui/components/list"
	"github.com/docfoundry/docfoundry-cli/internal/adapters/driving/tui/components/status"
	"github.com/docfoundry/docfoundry-cli/internal/adapters/driving/tui/components/transcript"
	"github.com/docfoundry/docfoundry-cli/internal/adapters/driving/tui/keymap"
	"github.com/docfoundry/docfoundry-cli/internal/adapters/driving/tui/messages"
	"github.com/docfoundry/docfoundry-cli/internal/adapters/driving/tui/styles"
	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/logger"
)

const (
	sidebarMaxWidth = 40
	inputHeight     = 3
	statusHeight    = 1
)

// App is the root Bubbletea model: a scope sidebar beside the chat.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	input      *input.ChatInput
	transcript *transcript.View
	projects   *list.ScopeList
	kbs        *list.ScopeList
	docs       *list.ScopeList
	status     *status.Bar

	focus    messages.Pane
	showHelp bool
	width    int
	height   int
	ready    bool
	err      error
}

// Option configures an App.
type Option func(*App)

// WithMarkdownStyle selects the glamour style for assistant turns.
func WithMarkdownStyle(style string) Option {
	return func(a *App) {
		a.transcript = transcript.New(a.styles, style)
	}
}

// NewApp creates the TUI application.
func NewApp(ports *Ports, opts ...Option) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		keymap:     km,
		input:      input.NewChatInput(s),
		transcript: transcript.New(s, ""),
		projects:   list.NewScopeList(s, "Projects", "All projects"),
		kbs:        list.NewScopeList(s, "Knowledge bases", "All knowledge bases"),
		docs:       list.NewScopeList(s, "Documents", "All documents"),
		status:     status.NewBar(s, km),
		focus:      messages.PaneInput,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.refreshTranscript()
	a.refreshScope()
	a.refreshCredentials()
	return a, nil
}

// WithContext sets the context used for backend calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Attach bridges controller change notifications into the program.
// send is typically (*tea.Program).Send.
func (a *App) Attach(send func(tea.Msg)) {
	a.ports.Conversation.OnChange(func() {
		send(messages.TranscriptChanged{})
	})
	a.ports.Scope.OnChange(func(ev domain.ScopeEvent) {
		send(messages.ScopeChanged{Event: ev})
	})
	if a.ports.Credentials != nil {
		a.ports.Credentials.OnChange(func(token string) {
			send(messages.CredentialsChanged{Authenticated: token != ""})
		})
	}
}

// Init loads the project list and the unfiltered knowledge base list.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("DocFoundry"),
		a.input.Init(),
		a.loadScope(),
	)
}

func (a *App) loadScope() tea.Cmd {
	scope := a.ports.Scope
	ctx := a.ctx
	return func() tea.Msg {
		projectsErr := scope.RefreshProjects(ctx)
		kbsErr := scope.RefreshKnowledgeBases(ctx, scope.Selection().ProjectID)
		return messages.ScopeLoaded{Err: errors.Join(projectsErr, kbsErr)}
	}
}

// Update handles incoming messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case messages.TranscriptChanged:
		a.refreshTranscript()
		return a, nil

	case messages.SendCompleted:
		if !msg.Accepted {
			a.status.SetMessage("Still thinking, message not sent")
		}
		a.refreshTranscript()
		return a, nil

	case messages.ScopeChanged:
		if msg.Event.Err != nil {
			logger.Debug("Scope %s: %v", msg.Event.Kind, msg.Event.Err)
		}
		a.refreshScope()
		return a, nil

	case messages.ScopeLoaded:
		a.refreshScope()
		if msg.Err != nil {
			a.err = msg.Err
			if a.isAuthenticated() {
				a.status.SetState(status.StateError)
				a.status.SetMessage(msg.Err.Error())
			}
		}
		return a, nil

	case messages.CredentialsChanged:
		a.refreshCredentials()
		if msg.Authenticated {
			return a, a.loadScope()
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.status.SetState(status.StateError)
		a.status.SetMessage(msg.Err.Error())
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()

	switch {
	case keymap.Matches(k, a.keymap.Quit):
		return tea.Quit
	case keymap.Matches(k, a.keymap.Help):
		a.showHelp = !a.showHelp
		return nil
	case keymap.Matches(k, a.keymap.NextPane):
		return a.setFocus(a.focus.Next())
	case keymap.Matches(k, a.keymap.PrevPane):
		return a.setFocus(a.focus.Prev())
	case keymap.Matches(k, a.keymap.NewChat):
		a.ports.Conversation.Reset()
		a.refreshTranscript()
		a.status.Clear()
		a.status.SetMessage("New chat")
		return nil
	case keymap.Matches(k, a.keymap.ToggleTrace):
		opts := a.ports.Conversation.Options()
		opts.ShowTrace = !opts.ShowTrace
		a.ports.Conversation.SetOptions(opts)
		a.refreshTranscript()
		return nil
	case keymap.Matches(k, a.keymap.MoreChunks):
		a.adjustTopK(1)
		return nil
	case keymap.Matches(k, a.keymap.FewerChunks):
		a.adjustTopK(-1)
		return nil
	case keymap.Matches(k, a.keymap.ScrollUp):
		a.transcript.ScrollUp()
		return nil
	case keymap.Matches(k, a.keymap.ScrollDown):
		a.transcript.ScrollDown()
		return nil
	}

	if a.focus == messages.PaneInput {
		if keymap.Matches(k, a.keymap.Send) {
			return a.send()
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return cmd
	}

	l := a.focusedList()
	switch {
	case keymap.Matches(k, a.keymap.Select):
		a.applySelection(l.Highlighted().ID)
	case keymap.Matches(k, a.keymap.Clear):
		a.applySelection("")
	default:
		l.Update(msg)
	}
	return nil
}

// send submits the input. While a query is in flight the input is kept
// and nothing is sent.
func (a *App) send() tea.Cmd {
	text := strings.TrimSpace(a.input.Value())
	if text == "" {
		return nil
	}
	if a.ports.Conversation.State().Busy {
		a.status.SetMessage("Still thinking, message not sent")
		return nil
	}

	a.input.Reset()
	a.status.Clear()
	a.status.SetState(status.StateThinking)

	conv := a.ports.Conversation
	ctx := a.ctx
	return func() tea.Msg {
		return messages.SendCompleted{Accepted: conv.Send(ctx, text)}
	}
}

func (a *App) applySelection(id string) {
	switch a.focus {
	case messages.PaneProjects:
		a.ports.Scope.SetProject(a.ctx, id)
	case messages.PaneKnowledgeBases:
		a.ports.Scope.SetKnowledgeBase(a.ctx, id)
	case messages.PaneDocuments:
		a.ports.Scope.SetDocument(a.ctx, id)
	}
	a.refreshScope()
}

func (a *App) adjustTopK(delta int) {
	opts := a.ports.Conversation.Options()
	opts.TopK = domain.ClampTopK(opts.TopK + delta)
	a.ports.Conversation.SetOptions(opts)
	a.refreshStatusOptions()
}

func (a *App) setFocus(p messages.Pane) tea.Cmd {
	a.focus = p
	a.projects.SetFocused(p == messages.PaneProjects)
	a.kbs.SetFocused(p == messages.PaneKnowledgeBases)
	a.docs.SetFocused(p == messages.PaneDocuments)
	a.status.SetListHints(p != messages.PaneInput)

	if p == messages.PaneInput {
		return a.input.Focus()
	}
	a.input.Blur()
	return nil
}

func (a *App) focusedList() *list.ScopeList {
	switch a.focus {
	case messages.PaneKnowledgeBases:
		return a.kbs
	case messages.PaneDocuments:
		return a.docs
	default:
		return a.projects
	}
}

func (a *App) refreshTranscript() {
	conv := a.ports.Conversation
	a.transcript.SetTurns(conv.Transcript())

	state := conv.State()
	switch {
	case state.Busy:
		a.status.SetState(status.StateThinking)
	case state.LastError != "":
		a.status.SetState(status.StateError)
		a.status.SetMessage(state.LastError)
	case a.status.State() == status.StateThinking:
		a.status.SetState(status.StateReady)
	}
	a.refreshStatusOptions()
}

func (a *App) refreshStatusOptions() {
	opts := a.ports.Conversation.Options()
	a.status.SetOptions(opts.TopK, opts.ShowTrace)
}

func (a *App) refreshScope() {
	scope := a.ports.Scope
	sel := scope.Selection()

	projects := scope.Projects()
	items := make([]list.Item, 0, len(projects))
	for _, p := range projects {
		items = append(items, list.Item{ID: p.ID, Label: p.Name})
	}
	a.projects.SetItems(items)
	a.projects.SetActive(sel.ProjectID)

	kbs := scope.KnowledgeBases()
	items = make([]list.Item, 0, len(kbs))
	for _, kb := range kbs {
		items = append(items, list.Item{ID: kb.ID, Label: kb.Name})
	}
	a.kbs.SetItems(items)
	a.kbs.SetActive(sel.KBID)

	docs := scope.Documents()
	items = make([]list.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, list.Item{ID: d.ID, Label: d.DisplayTitle()})
	}
	a.docs.SetItems(items)
	a.docs.SetActive(sel.DocID)

	a.status.SetScope(sel.String())
}

func (a *App) refreshCredentials() {
	if !a.isAuthenticated() {
		a.status.SetIdentity("")
		a.status.SetState(status.StateSignedOut)
		return
	}
	if a.status.State() == status.StateSignedOut {
		a.status.SetState(status.StateReady)
	}
	if a.ports.Credentials == nil {
		a.status.SetIdentity("")
		return
	}
	if claims, err := a.ports.Credentials.Claims(); err == nil {
		a.status.SetIdentity(claims.Identity())
	} else {
		a.status.SetIdentity("")
	}
}

func (a *App) isAuthenticated() bool {
	creds := a.ports.Credentials
	return creds == nil || creds.IsAuthenticated()
}

// View renders the application.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	sidebar := a.renderSidebar()
	main := lipgloss.JoinVertical(lipgloss.Left,
		a.transcript.View(),
		a.input.View(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)

	if a.showHelp {
		body = lipgloss.JoinVertical(lipgloss.Left, body, a.renderHelp())
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, a.status.View())
}

func (a *App) renderSidebar() string {
	w := a.sidebarWidth()
	pane := func(l *list.ScopeList) string {
		style := a.styles.Border
		if l.Focused() {
			style = a.styles.FocusedBorder
		}
		return style.Width(w - 2).Render(l.View())
	}

	parts := []string{pane(a.projects), pane(a.kbs), pane(a.docs)}
	if profile := a.renderProfile(w - 2); profile != "" {
		parts = append(parts, a.styles.Border.Width(w-2).Render(profile))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderProfile renders the selected document's profile, or "".
func (a *App) renderProfile(width int) string {
	p := a.ports.Scope.Profile()
	if p == nil {
		return ""
	}

	lines := []string{a.styles.Subtitle.Render("Profile")}
	if p.Title != "" {
		lines = append(lines, a.styles.Normal.Render(p.Title))
	}
	meta := p.DocType
	if years := p.Years(); years != "" {
		if meta != "" {
			meta += " · "
		}
		meta += years
	}
	if meta != "" {
		lines = append(lines, a.styles.Muted.Render(meta))
	}
	if p.Summary != "" {
		lines = append(lines, lipgloss.NewStyle().Width(width).Render(p.Summary))
	}
	if len(p.Tags) > 0 {
		lines = append(lines, a.styles.Muted.Render("#"+strings.Join(p.Tags, " #")))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderHelp() string {
	groups := a.keymap.FullHelp()
	cols := make([]string, 0, len(groups))
	for _, group := range groups {
		lines := make([]string, 0, len(group))
		for _, b := range group {
			h := b.Help()
			lines = append(lines, a.styles.Normal.Render(h.Key)+" "+a.styles.Help.Render(h.Desc))
		}
		cols = append(cols, lipgloss.NewStyle().PaddingRight(3).Render(strings.Join(lines, "\n")))
	}
	return a.styles.Border.Render(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
}

func (a *App) sidebarWidth() int {
	w := a.width / 3
	if w > sidebarMaxWidth {
		w = sidebarMaxWidth
	}
	if w < 12 {
		w = 12
	}
	return w
}

// SetDimensions lays out all panes for a terminal of the given size.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	side := a.sidebarWidth()
	mainWidth := width - side
	if mainWidth < 20 {
		mainWidth = 20
	}

	transcriptHeight := height - inputHeight - statusHeight
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	a.transcript.SetDimensions(mainWidth, transcriptHeight)
	a.input.SetWidth(mainWidth)
	a.status.SetWidth(width)

	// Three bordered lists share the sidebar height.
	listHeight := (height-statusHeight)/3 - 2
	if listHeight < 2 {
		listHeight = 2
	}
	for _, l := range []*list.ScopeList{a.projects, a.kbs, a.docs} {
		l.SetDimensions(side-4, listHeight)
	}
}

// Focus returns the pane that has keyboard focus.
func (a *App) Focus() messages.Pane {
	return a.focus
}

// Err returns the last error shown, if any.
func (a *App) Err() error {
	return a.err
}

// Ready reports whether the window size is known.
func (a *App) Ready() bool {
	return a.ready
}

// Input returns the chat input component.
func (a *App) Input() *input.ChatInput {
	return a.input
}

// Status returns the status bar component.
func (a *App) Status() *status.Bar {
	return a.status
}

// Lists returns the project, knowledge base and document lists.
func (a *App) Lists() (projects, kbs, docs *list.ScopeList) {
	return a.projects, a.kbs, a.docs
}

// Transcript returns the transcript component.
func (a *App) Transcript() *transcript.View {
	return a.transcript
}

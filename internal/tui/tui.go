package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"

	curationcmd "github.com/goliatone/go-curations/internal/commands/curation"
	"github.com/goliatone/go-curations/internal/curation"
	"github.com/goliatone/go-curations/internal/poller"
)

const defaultCommandTimeout = 30 * time.Second

var (
	ErrSourceRequired = errors.New("tui: snapshot source required")
	ErrActionDisabled = errors.New("tui: action not available")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	labelStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// statusColors maps the display status colours to terminal colours.
var statusColors = map[string]lipgloss.Color{
	"grey":   lipgloss.Color("245"),
	"green":  lipgloss.Color("42"),
	"orange": lipgloss.Color("214"),
	"yellow": lipgloss.Color("220"),
	"blue":   lipgloss.Color("39"),
	"red":    lipgloss.Color("196"),
}

// Source is the poller state the model renders. *poller.Poller satisfies it.
type Source interface {
	Snapshot() poller.Snapshot
	Subscribe(fn func(poller.Snapshot)) func()
}

// DispatchFunc sends a curation command to its handler.
type DispatchFunc func(ctx context.Context, msg command.Message) error

// SnapshotMsg carries a new poller snapshot into the update loop.
type SnapshotMsg struct {
	Snapshot poller.Snapshot
}

// CommandDoneMsg reports the outcome of a dispatched command.
type CommandDoneMsg struct {
	Name string
	Err  error
}

// Model is the bubbletea model of the curation status watcher.
type Model struct {
	source      Source
	dispatch    DispatchFunc
	timeout     time.Duration
	updates     chan poller.Snapshot
	unsubscribe func()

	snapshot poller.Snapshot
	spinner  spinner.Model
	busy     string
	notice   string
	noticeOK bool
	width    int
}

// Option customises a Model.
type Option func(*Model)

// WithDispatch replaces the go-command dispatcher.
func WithDispatch(fn DispatchFunc) Option {
	return func(m *Model) {
		if fn != nil {
			m.dispatch = fn
		}
	}
}

func WithCommandTimeout(timeout time.Duration) Option {
	return func(m *Model) {
		if timeout > 0 {
			m.timeout = timeout
		}
	}
}

// NewModel subscribes to source and returns a model ready for tea.NewProgram.
// Call Close when the program exits.
func NewModel(source Source, opts ...Option) (Model, error) {
	if source == nil {
		return Model{}, ErrSourceRequired
	}
	m := Model{
		source:   source,
		dispatch: Dispatch,
		timeout:  defaultCommandTimeout,
		updates:  make(chan poller.Snapshot, 1),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		snapshot: source.Snapshot(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	updates := m.updates
	m.unsubscribe = source.Subscribe(func(snap poller.Snapshot) {
		// Keep only the newest snapshot when the UI falls behind.
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- snap:
		default:
		}
	})
	return m, nil
}

// Dispatch routes curation commands through the go-command dispatcher.
func Dispatch(ctx context.Context, msg command.Message) error {
	switch typed := msg.(type) {
	case curationcmd.CreateCurationRequestCommand:
		return dispatcher.Dispatch(ctx, typed)
	case curationcmd.ResubmitCurationRequestCommand:
		return dispatcher.Dispatch(ctx, typed)
	case curationcmd.RefreshCurationRequestCommand:
		return dispatcher.Dispatch(ctx, typed)
	default:
		return fmt.Errorf("tui: unsupported command %T", msg)
	}
}

// Close stops listening for snapshots.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForSnapshot(m.updates))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SnapshotMsg:
		m.snapshot = msg.Snapshot
		return m, waitForSnapshot(m.updates)

	case CommandDoneMsg:
		m.busy = ""
		if msg.Err != nil {
			m.notice = fmt.Sprintf("%s failed: %v", msg.Name, msg.Err)
			m.noticeOK = false
		} else {
			m.notice = msg.Name + " done"
			m.noticeOK = true
		}
		m.snapshot = m.source.Snapshot()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Close()
		return m, tea.Quit
	}
	if m.busy != "" {
		return m, nil
	}

	recordID := m.snapshot.Record.ID
	action := m.snapshot.Action
	switch msg.String() {
	case "c":
		if action.Kind != curation.ActionCreateRequest || !action.Enabled {
			return m.reject("create")
		}
		return m.run("create", curationcmd.CreateCurationRequestCommand{RecordID: recordID})
	case "r":
		if (action.Kind != curation.ActionResubmit && action.Kind != curation.ActionResubmitPublished) || !action.Enabled {
			return m.reject("resubmit")
		}
		return m.run("resubmit", curationcmd.ResubmitCurationRequestCommand{RecordID: recordID})
	case "f":
		if !m.snapshot.Record.Persisted() {
			return m.reject("refresh")
		}
		return m.run("refresh", curationcmd.RefreshCurationRequestCommand{RecordID: recordID})
	}
	return m, nil
}

func (m Model) reject(name string) (tea.Model, tea.Cmd) {
	m.notice = fmt.Sprintf("%s: %v", name, ErrActionDisabled)
	m.noticeOK = false
	return m, nil
}

func (m Model) run(name string, msg command.Message) (tea.Model, tea.Cmd) {
	m.busy = name
	m.notice = ""
	dispatch, timeout := m.dispatch, m.timeout
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return CommandDoneMsg{Name: name, Err: dispatch(ctx, msg)}
	}
}

func waitForSnapshot(updates <-chan poller.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

func (m Model) View() string {
	snap := m.snapshot
	var out strings.Builder

	title := "Curation status"
	if snap.Record.ID != "" {
		title += " · record " + snap.Record.ID
	} else {
		title += " · unsaved draft"
	}
	out.WriteString(titleStyle.Render(title))
	out.WriteString("\n\n")

	var body strings.Builder
	status := lipgloss.NewStyle().Bold(true)
	if color, ok := statusColors[snap.Status.Color]; ok {
		status = status.Foreground(color)
	}
	body.WriteString(labelStyle.Render("Status: "))
	body.WriteString(status.Render(snap.Status.Label))
	if snap.Loading || m.busy != "" {
		body.WriteString(" " + m.spinner.View())
	}
	body.WriteString("\n")
	if snap.Status.Tooltip != "" {
		body.WriteString(mutedStyle.Render(snap.Status.Tooltip) + "\n")
	}

	if snap.Request != nil {
		body.WriteString(fmt.Sprintf("%s #%s %s\n", labelStyle.Render("Request:"), snap.Request.Number, snap.Request.Title))
	}

	body.WriteString(labelStyle.Render("Action: "))
	if snap.Action.Enabled {
		body.WriteString(snap.Action.Label)
	} else {
		body.WriteString(disabledStyle.Render(snap.Action.Label))
	}
	if snap.Action.Href != "" {
		body.WriteString(" " + mutedStyle.Render(snap.Action.Href))
	}
	body.WriteString("\n")
	if snap.Action.Tooltip != "" {
		body.WriteString(mutedStyle.Render(snap.Action.Tooltip) + "\n")
	}

	if !snap.LastFetched.IsZero() {
		body.WriteString(mutedStyle.Render("Updated "+snap.LastFetched.Format(time.Kitchen)) + "\n")
	}
	if snap.Err != nil {
		body.WriteString(errorStyle.Render("Last refresh failed: "+snap.Err.Error()) + "\n")
	}

	pane := paneStyle
	if m.width > 4 {
		pane = pane.Width(m.width - 2)
	}
	out.WriteString(pane.Render(strings.TrimRight(body.String(), "\n")))
	out.WriteString("\n")

	if m.notice != "" {
		if m.noticeOK {
			out.WriteString(mutedStyle.Render(m.notice))
		} else {
			out.WriteString(errorStyle.Render(m.notice))
		}
		out.WriteString("\n")
	}
	out.WriteString(helpStyle.Render("c create · r resubmit · f refresh · q quit"))
	out.WriteString("\n")
	return out.String()
}

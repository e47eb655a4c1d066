package listview

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/boken/internal/model"
	"github.com/Makepad-fr/boken/internal/ui"
)

// Messages carrying the outcome of each network call back to Update.
type loginMsg struct {
	token string
	err   error
}

type itemsMsg struct {
	items []model.Item
	err   error
}

// listItem adapts model.Item to bubbles/list.Item.
type listItem struct{ item model.Item }

func (i listItem) Title() string       { return i.item.Title }
func (i listItem) Description() string { return i.item.Description }
func (i listItem) FilterValue() string { return i.item.Title }

// itemDelegate renders an entry as a title line and an indented description.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 2 }
func (d itemDelegate) Spacing() int                              { return 1 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()
	prefix := "  "
	title := t.Title.Render(it.Title())
	if index == m.Index() {
		prefix = t.Selected.Render(">") + " "
		title = t.Accent.Render(it.Title())
	}
	fmt.Fprintf(w, "%s%s\n  %s", prefix, title, t.Muted.Render(it.Description()))
}

type keyMap struct {
	Quit      key.Binding
	Back      key.Binding
	ForceQuit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Back:      key.NewBinding(key.WithKeys("esc")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// Model is the Bubble Tea face of a Session: Init runs the bootstrap
// pipeline, each network call is a command, and quitting unmounts.
type Model struct {
	session *Session
	opts    Options
	keys    keyMap

	spinner spinner.Model
	list    list.Model

	width, height int
}

var _ tea.Model = (*Model)(nil)

func NewModel(s *Session, opt Options) *Model {
	t := ui.Current()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("webtoon", "webtoons")
	l.Styles.HelpStyle = t.Muted
	l.Styles.PaginationStyle = t.Muted
	l.FilterInput.Prompt = "/ "
	// quitting goes through Update so the session is always unmounted
	l.DisableQuitKeybindings()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(t.Accent),
	)

	return &Model{
		session: s,
		opts:    opt,
		keys:    defaultKeys(),
		spinner: sp,
		list:    l,
	}
}

// Session exposes the underlying state holder.
func (m *Model) Session() *Session { return m.session }

// Unmount tears the view down; late call results are dropped.
func (m *Model) Unmount() { m.session.Unmount() }

func (m *Model) Init() tea.Cmd {
	if !m.session.Start() {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.loginCmd())
}

func (m *Model) loginCmd() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		token, err := s.Login()
		return loginMsg{token: token, err: err}
	}
}

func (m *Model) itemsCmd(token string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		items, err := s.Fetch(token)
		return itemsMsg{items: items, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeList()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.Unmount()
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Quit) && m.list.FilterState() != list.Filtering {
			m.Unmount()
			return m, tea.Quit
		}
		// esc clears an applied filter first
		if key.Matches(msg, m.keys.Back) && m.list.FilterState() == list.Unfiltered {
			m.Unmount()
			return m, tea.Quit
		}

	case loginMsg:
		if !m.session.LoginDone(msg.token, msg.err) {
			return m, nil
		}
		m.resizeList()
		return m, m.itemsCmd(msg.token)

	case itemsMsg:
		if !m.session.Mounted() {
			return m, nil
		}
		m.session.ItemsDone(msg.items, msg.err)
		st := m.session.State()
		entries := make([]list.Item, 0, len(st.Items))
		for _, it := range st.Items {
			entries = append(entries, listItem{item: it})
		}
		return m, m.list.SetItems(entries)

	case spinner.TickMsg:
		if !m.session.State().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.session.State().Phase() != PhaseList {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	t := ui.Current()
	st := m.session.State()
	opt := m.opts
	opt.Width = m.width

	var body string
	switch st.Phase() {
	case PhaseLoading:
		body = m.spinner.View() + " " + t.Muted.Render(loadingText)
	case PhaseList:
		body = m.list.View()
	default:
		body = renderBody(t, st)
	}
	return compose(t, st, opt, body)
}

// resizeList gives the list whatever the header and token panel leave. The
// panel wraps, so it is measured at the current width.
func (m *Model) resizeList() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	t := ui.Current()
	opt := m.opts
	opt.Width = m.width
	reserved := lipgloss.Height(t.Title.Render(opt.title()))
	if panel := renderToken(t, m.session.State(), opt); panel != "" {
		reserved += lipgloss.Height(panel)
	}
	h := m.height - reserved
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width, h)
}

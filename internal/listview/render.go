package listview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/boken/internal/model"
	"github.com/Makepad-fr/boken/internal/ui"
)

const (
	defaultTitle = "Webtoons"
	loadingText  = "Loading..."
	emptyText    = "No webtoons found."
	tokenLabel   = "Token (debug):"
)

// Options tune rendering.
type Options struct {
	Title     string
	ShowToken bool
	Width     int // 0 = unconstrained
}

func (o Options) title() string {
	if o.Title == "" {
		return defaultTitle
	}
	return o.Title
}

// Render is the view as a pure function of the state.
func Render(s State, opt Options) string {
	t := ui.Current()
	return compose(t, s, opt, renderBody(t, s))
}

// compose stacks the header, the phase body and the optional token panel.
func compose(t ui.Theme, s State, opt Options, body string) string {
	sections := []string{t.Title.Render(opt.title()), body}
	if panel := renderToken(t, s, opt); panel != "" {
		sections = append(sections, panel)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderBody(t ui.Theme, s State) string {
	switch s.Phase() {
	case PhaseLoading:
		return t.Muted.Render(loadingText)
	case PhaseError:
		return t.Error.Render(s.Err)
	case PhaseEmpty:
		return t.Muted.Render(emptyText)
	default:
		return renderItems(t, s.Items)
	}
}

func renderItems(t ui.Theme, items []model.Item) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s\n", t.Accent.Render(t.SymBullet), t.Title.Render(it.Title))
		b.WriteString("  " + t.Muted.Render(it.Description))
	}
	return b.String()
}

func renderToken(t ui.Theme, s State, opt Options) string {
	if !opt.ShowToken || !s.HasToken() {
		return ""
	}
	panel := t.Panel()
	if opt.Width > 4 {
		panel = panel.Width(opt.Width - 2)
	}
	return panel.Render(t.Muted.Render(tokenLabel) + " " + s.Token)
}

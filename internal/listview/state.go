package listview

import "github.com/Makepad-fr/boken/internal/model"

// Phase is the single presentation the view is in at any time.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseError
	PhaseEmpty
	PhaseList
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseEmpty:
		return "empty"
	case PhaseList:
		return "list"
	}
	return "unknown"
}

// State is everything the view renders from. Token is independent of the
// phase; it is only disclosed in the debug panel.
type State struct {
	Loading bool
	Err     string
	Items   []model.Item
	Token   string
}

func (s State) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.Err != "":
		return PhaseError
	case len(s.Items) == 0:
		return PhaseEmpty
	default:
		return PhaseList
	}
}

func (s State) HasToken() bool { return s.Token != "" }

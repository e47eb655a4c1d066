package listview

import (
	"context"
	"errors"
	"log"

	"github.com/Makepad-fr/boken/internal/api"
	"github.com/Makepad-fr/boken/internal/model"
)

// Fetcher is the remote side of the bootstrap pipeline.
type Fetcher interface {
	Login(ctx context.Context, creds model.Credentials) (string, error)
	ListItems(ctx context.Context, token string) ([]model.Item, error)
}

// Session owns the view state for one mount and the login -> list pipeline
// that fills it. Login and Fetch may block and are safe to call off the UI
// goroutine; every other method must run on the goroutine that owns the
// state. Once Unmount is called, LoginDone and ItemsDone are no-ops.
type Session struct {
	fetcher Fetcher
	creds   model.Credentials

	ctx    context.Context
	cancel context.CancelFunc

	state   State
	mounted bool
	started bool
}

func NewSession(f Fetcher, creds model.Credentials) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		fetcher: f,
		creds:   creds,
		ctx:     ctx,
		cancel:  cancel,
		state:   State{Loading: true},
		mounted: true,
	}
}

// State returns a snapshot of the current view state.
func (s *Session) State() State { return s.state }

func (s *Session) Mounted() bool { return s.mounted }

// Start marks the pipeline as running. It reports false when the pipeline
// already ran for this mount or the view is gone.
func (s *Session) Start() bool {
	if !s.mounted || s.started {
		return false
	}
	s.started = true
	s.state.Loading = true
	s.state.Err = ""
	return true
}

// Login performs the authentication call.
func (s *Session) Login() (string, error) {
	return s.fetcher.Login(s.ctx, s.creds)
}

// Fetch performs the protected collection call.
func (s *Session) Fetch(token string) ([]model.Item, error) {
	return s.fetcher.ListItems(s.ctx, token)
}

// LoginDone applies the login outcome and reports whether the collection
// call should follow.
func (s *Session) LoginDone(token string, err error) bool {
	if !s.mounted {
		return false
	}
	if err != nil {
		log.Printf("auth / fetch error: %v", err)
		s.state.Err = err.Error()
		s.settle()
		return false
	}
	s.state.Token = token
	return true
}

// ItemsDone applies the collection outcome and settles the pipeline.
func (s *Session) ItemsDone(items []model.Item, err error) {
	if !s.mounted {
		return
	}
	if err != nil {
		log.Printf("auth / fetch error: %v", err)
		var shapeErr *api.ShapeError
		if errors.As(err, &shapeErr) {
			s.state.Items = []model.Item{}
		}
		s.state.Err = err.Error()
	} else {
		s.state.Items = items
	}
	s.settle()
}

// Unmount tears the view down. In-flight calls are cancelled and whatever
// they return is ignored.
func (s *Session) Unmount() {
	s.mounted = false
	s.cancel()
}

// Run drives the whole pipeline synchronously and returns the settled state.
func (s *Session) Run() State {
	if !s.Start() {
		return s.state
	}
	token, err := s.Login()
	if !s.LoginDone(token, err) {
		return s.state
	}
	items, err := s.Fetch(token)
	s.ItemsDone(items, err)
	return s.state
}

func (s *Session) settle() {
	s.state.Loading = false
}

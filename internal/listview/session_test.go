package listview

import (
	"context"
	"errors"
	"testing"

	"github.com/Makepad-fr/boken/internal/api"
	"github.com/Makepad-fr/boken/internal/model"
)

// fakeFetcher records calls and returns canned answers. When loginGate is
// set, Login blocks until it is closed.
type fakeFetcher struct {
	token    string
	loginErr error
	items    []model.Item
	listErr  error

	loginGate chan struct{}

	loginCalls int
	listCalls  int
	gotCreds   model.Credentials
	gotToken   string
}

func (f *fakeFetcher) Login(_ context.Context, creds model.Credentials) (string, error) {
	f.loginCalls++
	f.gotCreds = creds
	if f.loginGate != nil {
		<-f.loginGate
	}
	return f.token, f.loginErr
}

func (f *fakeFetcher) ListItems(_ context.Context, token string) ([]model.Item, error) {
	f.listCalls++
	f.gotToken = token
	return f.items, f.listErr
}

var testCreds = model.Credentials{Email: "a@a.com", Password: "1234"}

func TestSession_StartsLoading(t *testing.T) {
	t.Parallel()

	s := NewSession(&fakeFetcher{}, testCreds)
	if got := s.State().Phase(); got != PhaseLoading {
		t.Fatalf("initial phase = %s, want loading", got)
	}
}

func TestSession_RunSuccess(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{
		token: "T",
		items: []model.Item{
			{ID: 1, Title: "A", Description: "a"},
			{ID: 2, Title: "B", Description: "b"},
		},
	}
	st := NewSession(f, testCreds).Run()

	if st.Loading {
		t.Fatal("still loading after run")
	}
	if st.Err != "" {
		t.Fatalf("unexpected error %q", st.Err)
	}
	if st.Phase() != PhaseList || len(st.Items) != 2 {
		t.Fatalf("phase = %s items = %+v", st.Phase(), st.Items)
	}
	if st.Token != "T" || f.gotToken != "T" {
		t.Errorf("token state = %q, sent = %q, want T", st.Token, f.gotToken)
	}
	if f.gotCreds != testCreds {
		t.Errorf("creds = %+v", f.gotCreds)
	}
}

func TestSession_LoginFailureSkipsCollection(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{loginErr: api.ErrNoToken}
	st := NewSession(f, testCreds).Run()

	if st.Phase() != PhaseError {
		t.Fatalf("phase = %s, want error", st.Phase())
	}
	if st.Err != api.ErrNoToken.Error() {
		t.Errorf("err = %q", st.Err)
	}
	if f.listCalls != 0 {
		t.Errorf("list calls = %d, want 0", f.listCalls)
	}
	if st.HasToken() {
		t.Errorf("token captured on failed login: %q", st.Token)
	}
}

func TestSession_ShapeErrorEmptiesItems(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{
		token:   "T",
		items:   []model.Item{{ID: 9, Title: "stale"}},
		listErr: &api.ShapeError{Resource: "/api/webtoons/"},
	}
	st := NewSession(f, testCreds).Run()

	if st.Loading {
		t.Fatal("still loading")
	}
	if st.Items == nil || len(st.Items) != 0 {
		t.Fatalf("items = %#v, want empty", st.Items)
	}
	if st.Err != "Unexpected /api/webtoons/ response format (see log)." {
		t.Errorf("err = %q", st.Err)
	}
	if !st.HasToken() {
		t.Error("token should stay captured after a collection failure")
	}
}

func TestSession_RunsOncePerMount(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{token: "T"}
	s := NewSession(f, testCreds)
	s.Run()
	s.Run()

	if f.loginCalls != 1 {
		t.Fatalf("login calls = %d, want 1", f.loginCalls)
	}
}

func TestSession_UnmountDuringLoginDropsResult(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{token: "T", loginGate: make(chan struct{})}
	s := NewSession(f, testCreds)
	if !s.Start() {
		t.Fatal("Start = false on a fresh session")
	}
	before := s.State()

	type result struct {
		token string
		err   error
	}
	done := make(chan result)
	go func() {
		token, err := s.Login()
		done <- result{token, err}
	}()

	s.Unmount()
	close(f.loginGate)
	r := <-done

	if s.LoginDone(r.token, r.err) {
		t.Fatal("LoginDone asked for the collection call after unmount")
	}
	s.ItemsDone(nil, errors.New("late"))

	after := s.State()
	if after.Loading != before.Loading || after.Err != before.Err || after.Token != before.Token {
		t.Fatalf("state changed after unmount: before %+v after %+v", before, after)
	}
	if f.listCalls != 0 {
		t.Errorf("list calls = %d, want 0", f.listCalls)
	}
}

func TestSession_StartAfterUnmount(t *testing.T) {
	t.Parallel()

	s := NewSession(&fakeFetcher{}, testCreds)
	s.Unmount()
	if s.Start() {
		t.Fatal("Start = true after unmount")
	}
}

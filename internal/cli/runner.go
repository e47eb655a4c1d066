package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/boken/internal/api"
	"github.com/Makepad-fr/boken/internal/config"
	"github.com/Makepad-fr/boken/internal/listview"
	"github.com/Makepad-fr/boken/internal/server"
	"github.com/Makepad-fr/boken/internal/store/jsonstore"
	"github.com/Makepad-fr/boken/internal/ui"
)

// Options carry the resolved config and where output goes.
type Options struct {
	Config config.Config
	Stdout io.Writer
	Stderr io.Writer
}

func (o *Options) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
// No subcommand means `ls`.
func Run(args []string, opt Options) int {
	opt.defaults()
	ui.SetTheme(opt.Config.Skin)

	cmd, a := "ls", []string(nil)
	if len(args) > 0 {
		cmd, a = args[0], args[1:]
	}

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0

	case "ls":
		return doList(opt)

	case "print":
		return doPrint(opt)

	case "token":
		return doToken(opt)

	case "serve":
		return doServe(opt)

	case "catalog":
		if len(a) == 0 || a[0] != "init" || len(a) > 2 {
			ui.Fail(opt.Stderr, "usage: boken catalog init [path]")
			return 2
		}
		path := opt.Config.Server.Catalog
		if len(a) == 2 {
			path = a[1]
		}
		return doCatalogInit(opt, path)
	}

	ui.Fail(opt.Stderr, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `boken - webtoon list client

Usage:
  boken [flags] <subcommand> [args]

Subcommands:
  ls                    Log in and browse the webtoon list (interactive TUI, default)
  print                 Log in, fetch once and print the result (non-interactive)
  token                 Log in and print the access token (JWT payload decoded when possible)
  serve                 Run the demo API (/login/, /refresh/, /api/webtoons/)
  catalog init [path]   Write the default demo catalog (JSON or YAML by extension)

Configuration:
  $HOME/.config/boken/config.yml, BOKEN_* env vars (e.g. BOKEN_EMAIL, BOKEN_PASSWORD),
  then flags.

Examples:
  boken serve
  BOKEN_EMAIL=a@a.com BOKEN_PASSWORD=1234 boken
  boken --show-token=false print
`)
}

// setupLogging routes the std logger to the log file, or drops it so the
// terminal UI is never drawn over.
func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "boken")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return func() { f.Close() }, nil
}

// clientSession validates the client config and builds a fresh session.
func clientSession(opt Options) (*listview.Session, int) {
	cfg := opt.Config
	if err := cfg.ValidateClient(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			ui.Fail(opt.Stderr, line)
		}
		ui.Hint(opt.Stderr, "Hint: run `boken help` for configuration sources")
		return nil, 2
	}
	client := api.NewClient(cfg.ClientOptions())
	return listview.NewSession(client, cfg.Credentials()), 0
}

func viewOptions(cfg config.Config) listview.Options {
	return listview.Options{ShowToken: cfg.ShowToken}
}

// ---------------------------------------------------
// Client subcommands
// ---------------------------------------------------

func doList(opt Options) int {
	session, code := clientSession(opt)
	if session == nil {
		return code
	}
	closeLog, err := setupLogging(opt.Config.LogFile)
	if err != nil {
		ui.Fail(opt.Stderr, err.Error())
		return 1
	}
	defer closeLog()

	m := listview.NewModel(session, viewOptions(opt.Config))
	defer m.Unmount()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(opt.Stdout))
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			ui.Fail(opt.Stderr, "the list view needs a real terminal; try `boken print`")
			return 1
		}
		ui.Fail(opt.Stderr, "tui: "+err.Error())
		return 1
	}
	return 0
}

func doPrint(opt Options) int {
	session, code := clientSession(opt)
	if session == nil {
		return code
	}
	closeLog, err := setupLogging(opt.Config.LogFile)
	if err != nil {
		ui.Fail(opt.Stderr, err.Error())
		return 1
	}
	defer closeLog()
	defer session.Unmount()

	st := session.Run()
	fmt.Fprintln(opt.Stdout, listview.Render(st, viewOptions(opt.Config)))
	if st.Err != "" {
		return 1
	}
	return 0
}

// doToken logs in and prints the token; JWTs get their payload decoded
// locally (unsigned).
func doToken(opt Options) int {
	cfg := opt.Config
	if err := cfg.ValidateClient(); err != nil {
		ui.Fail(opt.Stderr, strings.ReplaceAll(err.Error(), "\n", "; "))
		return 2
	}
	closeLog, err := setupLogging(cfg.LogFile)
	if err != nil {
		ui.Fail(opt.Stderr, err.Error())
		return 1
	}
	defer closeLog()

	token, err := api.NewClient(cfg.ClientOptions()).Login(context.Background(), cfg.Credentials())
	if err != nil {
		ui.Fail(opt.Stderr, err.Error())
		return 1
	}
	fmt.Fprintln(opt.Stdout, token)

	payload, err := api.DecodeClaims(token)
	if err != nil {
		ui.Hint(opt.Stdout, "Opaque token (cannot introspect locally).")
		return 0
	}
	fmt.Fprintln(opt.Stdout, "JWT payload:")
	fmt.Fprintln(opt.Stdout, payload)
	return 0
}

// ---------------------------------------------------
// Demo backend subcommands
// ---------------------------------------------------

func doServe(opt Options) int {
	sc := opt.Config.Server
	log.SetOutput(opt.Stderr)

	cat, err := jsonstore.Load(sc.Catalog)
	if err != nil {
		ui.Fail(opt.Stderr, "catalog: "+err.Error())
		return 1
	}
	srv, err := server.New(server.Options{
		Secret:     sc.Secret,
		Paginate:   sc.Paginate,
		AccessTTL:  sc.AccessTTL,
		RefreshTTL: sc.RefreshTTL,
		AccessLog:  true,
	}, cat)
	if err != nil {
		ui.Fail(opt.Stderr, "server: "+err.Error())
		return 1
	}

	ln, err := net.Listen("tcp", sc.Addr)
	if err != nil {
		ui.Fail(opt.Stderr, "listen: "+err.Error())
		return 1
	}

	ui.OK(opt.Stdout, fmt.Sprintf("serving %d webtoons for %d accounts on http://%s", len(cat.Webtoons), len(cat.Users), ln.Addr()))
	if sc.Catalog == "" {
		ui.Hint(opt.Stdout, "demo catalog in use; log in with a@a.com / 1234")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Serve(ctx, ln); err != nil && !errors.Is(err, context.Canceled) {
		ui.Fail(opt.Stderr, "serve: "+err.Error())
		return 1
	}
	ui.OK(opt.Stdout, "stopped")
	return 0
}

func doCatalogInit(opt Options, path string) int {
	if path == "" {
		path = jsonstore.DefaultFileName
	}
	if _, err := os.Stat(path); err == nil {
		ui.Fail(opt.Stderr, "catalog init: "+path+" already exists")
		return 1
	}
	if err := jsonstore.Save(path, jsonstore.Default()); err != nil {
		ui.Fail(opt.Stderr, "catalog init: "+err.Error())
		return 1
	}
	ui.OK(opt.Stdout, "wrote "+path)
	return 0
}

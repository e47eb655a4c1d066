package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Makepad-fr/boken/internal/cli"
	"github.com/Makepad-fr/boken/internal/config"
)

var version = "dev"

func main() {
	// Root flags (apply to every subcommand). Names match config keys so
	// explicitly set flags override file and env values.
	configPath := flag.String("config", "", "config file (default is $HOME/.config/boken/config.yml)")
	flag.String("api-url", config.DefaultAPIURL, "API base URL")
	flag.String("email", "", "login email")
	flag.String("password", "", "login password")
	flag.Bool("show-token", true, "show the session token debug panel")
	flag.String("skin", config.DefaultSkin, "color skin: classic|neon|mono")
	flag.String("log-file", "", "write debug logs to this file")
	flag.String("server.addr", config.DefaultServerAddr, "serve: listen address")
	flag.String("server.catalog", "", "serve: catalog file (.json/.yml)")
	flag.Bool("server.paginate", false, "serve: wrap the list as {count,next,previous,results}")
	showVersion := flag.Bool("version", false, "print version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("boken %s\n", version)
		return
	}

	overrides := map[string]any{}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "config", "version":
			return
		}
		if g, ok := f.Value.(flag.Getter); ok {
			overrides[f.Name] = g.Get()
		}
	})

	cfg, err := config.Load(*configPath, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	code := cli.Run(flag.Args(), cli.Options{Config: cfg})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}

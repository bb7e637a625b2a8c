package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"scanlog/internal/adapters/editor"
	"scanlog/internal/adapters/tui"
	"scanlog/internal/adapters/tui/views"
	"scanlog/internal/bootstrap"
	"scanlog/internal/config"
	"scanlog/internal/logging"
)

func main() {
	os.Exit(run())
}

// run returns the exit code so deferred cleanup happens before exiting
func run() int {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the history database")
	flag.StringVar(&cfg.RemoteURL, "remote", cfg.RemoteURL, "document host base URL")
	quiet := flag.Bool("quiet", false, "do not ring the terminal bell on each recorded scan")
	useEditor := flag.Bool("editor", false, "open exports in $EDITOR instead of the system viewer")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// The alternate screen owns the terminal, keep log noise out of it
	if cfg.LogLevel == "info" {
		cfg.LogLevel = "error"
	}

	var opts []bootstrap.Option
	if !*quiet {
		opts = append(opts, bootstrap.WithAdmitHook(tui.Bell(os.Stderr)))
	}

	rt, err := bootstrap.Open(cfg, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer rt.Close()

	var openerOpts []editor.Option
	if *useEditor {
		openerOpts = append(openerOpts, editor.WithEditor())
	}

	app := tui.NewApp(views.Services{
		Session:  rt.Session,
		Remote:   rt.Remote,
		Guard:    rt.Guard,
		Exporter: rt.Exporter,
	}, editor.NewOpener(openerOpts...))
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		logging.DefaultLogger().Errorw("tui exited", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// Package cli wires the rovr command line to the explorer.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pfassina/rovr/internal/app"
	"github.com/pfassina/rovr/internal/config"
	"github.com/pfassina/rovr/internal/log"
	"github.com/pfassina/rovr/internal/session"
	"github.com/pfassina/rovr/internal/ssh"
	"github.com/pfassina/rovr/internal/ui"
	"github.com/pfassina/rovr/internal/version"
)

// Deps are the pieces of the root command that tests replace.
type Deps struct {
	LoadConfig func() (*config.Config, error)
	Store      *session.Store
	Launch     func(ctx context.Context, opts app.Options) error
	Serve      func(ctx context.Context, cfg *config.Config, opts ssh.Options) error
}

// DefaultDeps runs the real explorer and server.
func DefaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		Store:      session.NewStore(),
		Launch:     runExplorer,
		Serve:      runServer,
	}
}

type rootFlags struct {
	with         []string
	without      []string
	configPath   bool
	version      bool
	resetUIState bool
	cwdFile      string
	chooserFile  string
	serve        bool
	listen       string
}

// NewRootCmd builds the rovr command.
func NewRootCmd(deps Deps) *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:   "rovr [path]",
		Short: "A terminal file explorer",
		Long: `rovr is a keyboard-driven file explorer for the terminal.

It remembers which panels you had open between runs, can act as a file
chooser for other programs, and can be served to remote users over SSH.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return run(cmd, deps, f, path)
		},
	}

	fl := cmd.Flags()
	fl.StringArrayVar(&f.with, "with", nil, "enable a feature by config path (e.g. plugins.bat); repeatable")
	fl.StringArrayVar(&f.without, "without", nil, "disable a feature by config path (e.g. interface.tooltips); repeatable")
	fl.BoolVar(&f.configPath, "config-path", false, "print the config directory and exit")
	fl.BoolVar(&f.version, "version", false, "print the version and exit")
	fl.BoolVar(&f.resetUIState, "reset-ui-state", false, "delete the saved UI state and exit")
	fl.StringVar(&f.cwdFile, "cwd-file", "", "write the final directory to this file on exit")
	fl.StringVar(&f.chooserFile, "chooser-file", "", "write chosen files to this file on exit")
	fl.BoolVar(&f.serve, "serve", false, "serve the explorer over SSH")
	fl.StringVar(&f.listen, "listen", "", "listen address for --serve (default serve.listen)")

	return cmd
}

func run(cmd *cobra.Command, deps Deps, f rootFlags, path string) error {
	out := cmd.OutOrStdout()
	p := painterFor(out)

	switch {
	case f.configPath:
		fmt.Fprintln(out, p.Paint(ui.Label, "Config Path:"), p.Paint(ui.Value, config.Normalise(config.ConfigDir())))
		return nil
	case f.version:
		fmt.Fprintln(out, version.Version)
		return nil
	case f.resetUIState:
		resetUIState(out, p, deps.Store)
		return nil
	}

	cfg, err := deps.LoadConfig()
	if err != nil {
		return err
	}
	if err := config.ApplyFeatures(cfg, f.with, f.without); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if f.serve {
		return deps.Serve(ctx, cfg, ssh.Options{Listen: f.listen, StartPath: path})
	}

	return deps.Launch(ctx, app.Options{
		Config:      cfg,
		Store:       deps.Store,
		StartPath:   path,
		CwdFile:     f.cwdFile,
		ChooserFile: f.chooserFile,
	})
}

// resetUIState removes the state file. Failures are reported, never returned.
func resetUIState(out io.Writer, p ui.Painter, store *session.Store) {
	path := config.Normalise(store.Path())
	removed, err := store.Remove()
	switch {
	case err != nil:
		fmt.Fprintln(out, p.Paint(ui.Failure, "Failed to remove UI state:"), err)
	case removed:
		fmt.Fprintln(out, p.Paint(ui.Success, "Removed UI state:"), p.Paint(ui.Value, path))
	default:
		fmt.Fprintln(out, p.Paint(ui.DimText, "No UI state found at"), p.Paint(ui.Value, path))
	}
}

func painterFor(w io.Writer) ui.Painter {
	f, ok := w.(*os.File)
	if !ok {
		return ui.Painter{}
	}
	return ui.Painter{Color: isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())}
}

func runExplorer(ctx context.Context, opts app.Options) error {
	a, err := app.New(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, tea.ErrInterrupted) {
		return fmt.Errorf("run explorer: %w", err)
	}
	return nil
}

func runServer(ctx context.Context, cfg *config.Config, opts ssh.Options) error {
	s, err := ssh.New(cfg, opts)
	if err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Execute runs the root command with signal handling and logging set up.
func Execute() error {
	logFile := log.Init()
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCmd(DefaultDeps()).ExecuteContext(ctx)
}

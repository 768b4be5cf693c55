// Command agentmux launches, cleans up, and resets parallel coding-agent
// workers, each living in its own git worktree and tmux window.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mkrall/agentmux/internal/config"
	"github.com/mkrall/agentmux/internal/errors"
	"github.com/mkrall/agentmux/internal/orchestrator"
	"github.com/mkrall/agentmux/internal/run"
	"github.com/mkrall/agentmux/internal/scaffold"
	"github.com/mkrall/agentmux/internal/worktree"
	"github.com/mkrall/agentmux/pkg/agent"
	"github.com/mkrall/agentmux/pkg/tmux"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose bool
	flagDebug   bool
)

func main() {
	root := rootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err))
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agentmux",
		Short: "Run parallel coding-agent workers in git worktrees and tmux windows",
		Long: `Agentmux gives each unit of work its own git worktree, its own tmux
window, and its own coding-agent session started from a plan file. Workers
are identified by branch name; there is no daemon and no state file —
cleanup and reset rediscover everything from git and tmux directly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Debug output")

	cmd.AddCommand(initCmd())
	cmd.AddCommand(launchCmd())
	cmd.AddCommand(cleanupCmd())
	cmd.AddCommand(resetCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// newLogger builds the process logger honoring the --verbose/--debug flags.
// Logs go to stderr; stdout is reserved for summaries.
func newLogger() *log.Logger {
	level := log.WarnLevel
	if flagVerbose {
		level = log.InfoLevel
	}
	if flagDebug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
}

// app bundles the wired-up collaborators a command needs.
type app struct {
	cfg  config.Config
	log  *log.Logger
	orch *orchestrator.Orchestrator
	cwd  string
}

// buildApp wires the real collaborators for one command invocation.
func buildApp(humanlayer, autoYes bool) (*app, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(errors.CategoryRuntime, "cannot determine working directory", err)
	}

	logger := newLogger()
	cfg := config.Load(cwd, logger)
	runner := run.NewExecRunner()

	windows := tmux.NewClient(runner)
	trees := worktree.NewManager(cfg, runner, logger)
	personas := scaffold.NewScaffolder(scaffold.EmbeddedAssets{}, logger)

	agentOpts := []agent.Option{agent.WithTerminal(windows)}
	if humanlayer {
		agentOpts = append(agentOpts, agent.WithWrapper("humanlayer"))
	}
	starter := agent.NewRunner(agentOpts...)

	var confirm orchestrator.Confirmer = orchestrator.PromptConfirmer{}
	if autoYes {
		confirm = orchestrator.AutoConfirmer{}
	}

	orch := orchestrator.New(cfg, logger, trees, windows, starter, personas, confirm)

	return &app{cfg: cfg, log: logger, orch: orch, cwd: cwd}, nil
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold persona files and a plan template into the current project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return errors.Wrap(errors.CategoryRuntime, "cannot determine working directory", err)
			}
			logger := newLogger()
			s := scaffold.NewScaffolder(scaffold.EmbeddedAssets{}, logger)
			return s.Init(cwd, filepath.Base(cwd))
		},
	}
}

func launchCmd() *cobra.Command {
	var flagHumanlayer bool

	cmd := &cobra.Command{
		Use:   "launch <branch> <plan-file>",
		Short: "Create a worktree, open a tmux window, and start an agent on the plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(flagHumanlayer, false)
			if err != nil {
				return err
			}
			return a.orch.Launch(args[0], args[1])
		},
	}

	cmd.Flags().BoolVar(&flagHumanlayer, "humanlayer", false, "Route the agent command through the humanlayer wrapper")

	return cmd
}

func cleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup <branch>",
		Short: "Tear down one worker: window, worktree, and branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(false, false)
			if err != nil {
				return err
			}
			return a.orch.Cleanup(args[0])
		},
	}
}

func resetCmd() *cobra.Command {
	var flagYes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discover and tear down every worker-pattern resource, with confirmation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(false, flagYes)
			if err != nil {
				return err
			}
			return a.orch.Reset(a.cwd)
		},
	}

	cmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip confirmation prompts")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the agentmux version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("agentmux %s\n", version)
		},
	}
}

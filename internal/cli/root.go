package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/driftlab/blobtask/internal/app"
	"github.com/driftlab/blobtask/internal/config"
	"github.com/driftlab/blobtask/internal/logger"
	"github.com/driftlab/blobtask/internal/tui"
)

var (
	logLevel   string
	logConsole bool
)

var rootCmd = &cobra.Command{
	Use:   "blobtask",
	Short: "blobtask - personal task manager with cloud or local persistence",
	Long: `blobtask groups tasks into projects, tracks completion, and mirrors
everything either to a remote per-user document backend or to on-device
storage when no backend is configured.

Run 'blobtask' without arguments to launch the interactive TUI.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
		}

		logConfig := logger.DefaultConfig()
		logConfig.Level = logger.ParseLevel(cfg.LogLevel)
		logConfig.FilePath = cfg.LogFile
		logConfig.Console = cfg.LogConsole

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("blobtask started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := startApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		logger.Info("Launching TUI")
		p := tea.NewProgram(tui.NewModel(a), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("blobtask exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Also log to stderr")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(avatarCmd)
}

// startApp loads config, resolves the identity and wires the stores. A
// failed remote handshake surfaces here as a blocked start.
func startApp(cmd *cobra.Command) (*app.App, error) {
	return startAppWithToken(cmd, "")
}

// startAppWithToken is startApp with an interactively supplied bootstrap
// token, which takes precedence over BLOBTASK_AUTH_TOKEN.
func startAppWithToken(cmd *cobra.Command, token string) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if token != "" {
		cfg.AuthToken = token
	}

	a := app.New(cfg)
	if err := a.Start(cmd.Context()); err != nil {
		return nil, err
	}
	return a, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

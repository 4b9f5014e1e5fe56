package commands

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"yatra/internal/logging"
	"yatra/internal/service"
	"yatra/internal/tui"
)

var chatSpeak bool

// NewChatCmd creates the interactive chat command.
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive planner",
		Long: `Open the terminal planner: fill in a traveller profile, get a plan, then
ask follow-up questions. Logs are written to the configured log file.

Examples:
  yatra chat
  yatra chat --speak`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}
	cmd.Flags().BoolVar(&chatSpeak, "speak", false, "Read the plan aloud once it is ready")
	return cmd
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger, f, err := logging.ToFile(cfg.Log.File, level)
	if err != nil {
		return err
	}
	defer f.Close()

	app, err := service.NewApp(cmd.Context(), cfg, logger, service.Options{})
	if err != nil {
		return err
	}
	defer app.Close()

	m := tui.New(cmd.Context(), app.NewSession(), tui.Options{Speak: chatSpeak})
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}

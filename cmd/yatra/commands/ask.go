package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"yatra/internal/service"
)

var askAudio string

// NewAskCmd creates the ask command.
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer one question about destinations",
		Long: `Answer a single question from the destination index. The question can be
given as arguments or transcribed from an audio file when voice input is enabled.

Examples:
  yatra ask "Best time to visit Kerala?"
  yatra ask --audio question.wav`,
		RunE: runAsk,
	}
	cmd.Flags().StringVar(&askAudio, "audio", "", "Transcribe the question from this audio file")
	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" && askAudio == "" {
		return errors.New("a question or --audio is required")
	}

	app, err := openApp(cmd, service.Options{})
	if err != nil {
		return err
	}
	defer app.Close()

	if askAudio != "" {
		tr, err := service.NewTranscriber(app.Config.Voice)
		if err != nil {
			return err
		}
		if tr == nil {
			return errors.New("voice input is disabled; set voice.input to openai")
		}
		rec := tr.Transcribe(cmd.Context(), askAudio)
		if !rec.OK() {
			fmt.Fprintln(cmd.OutOrStdout(), rec.Message())
			return nil
		}
		question = rec.Text
		fmt.Fprintf(cmd.OutOrStdout(), "You said: %s\n", question)
	}

	reply, _ := app.NewSession().Ask(cmd.Context(), question)
	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}

package voice

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// CommandSpeaker reads text aloud with a local program such as espeak or say.
type CommandSpeaker struct {
	Name string
	Args []string
}

var _ Speaker = (*CommandSpeaker)(nil)

// DefaultCommand returns the platform's usual text-to-speech program.
func DefaultCommand() *CommandSpeaker {
	if runtime.GOOS == "darwin" {
		return &CommandSpeaker{Name: "say"}
	}
	return &CommandSpeaker{Name: "espeak"}
}

// Speak runs the program with text as its last argument.
func (c *CommandSpeaker) Speak(ctx context.Context, text string) error {
	args := append(append([]string{}, c.Args...), text)
	out, err := exec.CommandContext(ctx, c.Name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", c.Name, err, out)
	}
	return nil
}

package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandOutput speaks by running a TTS command with the text appended as
// its last argument, e.g. ["espeak", "-s", "160"].
type CommandOutput struct {
	Argv []string
}

// Speak blocks until the command finishes or ctx is cancelled.
func (o *CommandOutput) Speak(ctx context.Context, text string) error {
	if len(o.Argv) == 0 {
		return ErrUnavailable
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if _, err := exec.LookPath(o.Argv[0]); err != nil {
		return fmt.Errorf("%w: %s not found", ErrUnavailable, o.Argv[0])
	}

	args := append(append([]string(nil), o.Argv[1:]...), text)
	cmd := exec.CommandContext(ctx, o.Argv[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", o.Argv[0], err, msg)
		}
		return fmt.Errorf("%s: %w", o.Argv[0], err)
	}
	return nil
}

// Package voice adapts speech capture and speech output for the interactive
// layer. Capture failures are values, output failures are warnings; neither
// ever reaches the planner or conversation pipelines as an error.
package voice

import (
	"context"

	"github.com/charmbracelet/log"
)

// Outcome classifies a transcription attempt.
type Outcome int

const (
	Recognized Outcome = iota
	Unrecognized
	ServiceUnavailable
	OtherError
)

func (o Outcome) String() string {
	switch o {
	case Recognized:
		return "recognized"
	case Unrecognized:
		return "unrecognized"
	case ServiceUnavailable:
		return "service_unavailable"
	default:
		return "error"
	}
}

// Messages shown for failed captures.
const (
	MsgUnrecognized       = "Sorry, I could not understand."
	MsgServiceUnavailable = "Speech recognition service error."
)

// Recognition is the result of one transcription.
type Recognition struct {
	Text    string
	Outcome Outcome
	Err     error
}

// OK reports whether speech was recognized.
func (r Recognition) OK() bool { return r.Outcome == Recognized }

// Message returns the recognized text or the user-facing failure message.
func (r Recognition) Message() string {
	switch r.Outcome {
	case Recognized:
		return r.Text
	case Unrecognized:
		return MsgUnrecognized
	case ServiceUnavailable:
		return MsgServiceUnavailable
	default:
		if r.Err == nil {
			return "Error: unknown"
		}
		return "Error: " + r.Err.Error()
	}
}

// Transcriber turns a recorded audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) Recognition
}

// Speaker reads text aloud.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Nop is a Speaker that does nothing.
type Nop struct{}

func (Nop) Speak(context.Context, string) error { return nil }

type bestEffort struct {
	speaker Speaker
	logger  *log.Logger
}

// BestEffort wraps s so that failures are logged as warnings and never returned.
func BestEffort(s Speaker, logger *log.Logger) Speaker {
	if logger == nil {
		logger = log.Default()
	}
	return &bestEffort{speaker: s, logger: logger}
}

func (b *bestEffort) Speak(ctx context.Context, text string) error {
	if err := b.speaker.Speak(ctx, text); err != nil {
		b.logger.Warn("speech output failed", "err", err)
	}
	return nil
}

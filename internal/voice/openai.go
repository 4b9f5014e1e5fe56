package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultTimeout = 60 * time.Second
)

// OpenAIConfig configures the OpenAI speech endpoints.
type OpenAIConfig struct {
	BaseURL   string
	APIKeyEnv string
	// STTModel defaults to whisper-1.
	STTModel string
	// TTSModel defaults to tts-1.
	TTSModel string
	Voice    string
	// OutputPath receives synthesized audio.
	OutputPath string
	Timeout    time.Duration
}

func newOpenAIClient(cfg OpenAIConfig) (*goopenai.Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	oc := goopenai.DefaultConfig(key)
	oc.BaseURL = cfg.BaseURL
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return goopenai.NewClientWithConfig(oc), nil
}

// Whisper transcribes audio files with the OpenAI transcription API.
type Whisper struct {
	client *goopenai.Client
	model  string
}

var _ Transcriber = (*Whisper)(nil)

// NewWhisper creates a transcriber.
func NewWhisper(cfg OpenAIConfig) (*Whisper, error) {
	c, err := newOpenAIClient(cfg)
	if err != nil {
		return nil, err
	}
	model := cfg.STTModel
	if model == "" {
		model = goopenai.Whisper1
	}
	return &Whisper{client: c, model: model}, nil
}

// Transcribe never returns an error; failures are classified in the result.
func (w *Whisper) Transcribe(ctx context.Context, audioPath string) Recognition {
	if _, err := os.Stat(audioPath); err != nil {
		return Recognition{Outcome: OtherError, Err: err}
	}
	resp, err := w.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    w.model,
		FilePath: audioPath,
	})
	if err != nil {
		return Recognition{Outcome: classify(err), Err: err}
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return Recognition{Outcome: Unrecognized}
	}
	return Recognition{Text: text, Outcome: Recognized}
}

func classify(err error) Outcome {
	var (
		apiErr *goopenai.APIError
		reqErr *goopenai.RequestError
		urlErr *url.Error
		netErr net.Error
	)
	switch {
	case errors.As(err, &apiErr), errors.As(err, &reqErr), errors.As(err, &urlErr), errors.As(err, &netErr):
		return ServiceUnavailable
	default:
		return OtherError
	}
}

// TTS synthesizes speech into an audio file with the OpenAI speech API.
type TTS struct {
	client *goopenai.Client
	model  goopenai.SpeechModel
	voice  goopenai.SpeechVoice
	path   string
}

var _ Speaker = (*TTS)(nil)

// NewTTS creates a speaker writing mp3 audio to cfg.OutputPath.
func NewTTS(cfg OpenAIConfig) (*TTS, error) {
	c, err := newOpenAIClient(cfg)
	if err != nil {
		return nil, err
	}
	t := &TTS{
		client: c,
		model:  goopenai.SpeechModel(cfg.TTSModel),
		voice:  goopenai.SpeechVoice(cfg.Voice),
		path:   cfg.OutputPath,
	}
	if t.model == "" {
		t.model = goopenai.TTSModel1
	}
	if t.voice == "" {
		t.voice = goopenai.VoiceAlloy
	}
	if t.path == "" {
		t.path = "tour_plan.mp3"
	}
	return t, nil
}

// Path returns where audio is written.
func (t *TTS) Path() string { return t.path }

func (t *TTS) Speak(ctx context.Context, text string) error {
	resp, err := t.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          t.model,
		Input:          text,
		Voice:          t.voice,
		ResponseFormat: goopenai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return fmt.Errorf("create speech: %w", err)
	}
	defer resp.Close()

	if dir := filepath.Dir(t.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(t.path)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	if _, err := io.Copy(f, resp); err != nil {
		f.Close()
		return fmt.Errorf("write audio: %w", err)
	}
	return f.Close()
}

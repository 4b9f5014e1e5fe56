package voice

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatra/internal/logging"
)

const keyEnv = "YATRA_TEST_VOICE_KEY"

func TestRecognitionMessage(t *testing.T) {
	tests := []struct {
		name string
		rec  Recognition
		want string
	}{
		{"recognized", Recognition{Text: "plan goa", Outcome: Recognized}, "plan goa"},
		{"unrecognized", Recognition{Outcome: Unrecognized}, "Sorry, I could not understand."},
		{"service", Recognition{Outcome: ServiceUnavailable, Err: errors.New("503")}, "Speech recognition service error."},
		{"other", Recognition{Outcome: OtherError, Err: errors.New("mic unplugged")}, "Error: mic unplugged"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.Message())
			assert.Equal(t, tt.name == "recognized", tt.rec.OK())
		})
	}
}

type failingSpeaker struct{}

func (failingSpeaker) Speak(context.Context, string) error { return errors.New("no audio device") }

func TestBestEffort(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "debug")
	require.NoError(t, err)
	s := BestEffort(failingSpeaker{}, logger)
	assert.NoError(t, s.Speak(context.Background(), "hello"))
	assert.Contains(t, buf.String(), "speech output failed")
	assert.Contains(t, buf.String(), "no audio device")

	assert.NoError(t, Nop{}.Speak(context.Background(), "x"))
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "q.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF0000WAVE"), 0o644))
	return path
}

func newWhisper(t *testing.T, h http.HandlerFunc) *Whisper {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	t.Setenv(keyEnv, "secret")
	w, err := NewWhisper(OpenAIConfig{BaseURL: srv.URL + "/v1", APIKeyEnv: keyEnv})
	require.NoError(t, err)
	return w
}

func TestWhisperTranscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("recognized", func(t *testing.T) {
		w := newWhisper(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"text":" best beaches in goa? "}`))
		})
		rec := w.Transcribe(ctx, writeAudio(t))
		assert.Equal(t, Recognized, rec.Outcome)
		assert.Equal(t, "best beaches in goa?", rec.Message())
	})

	t.Run("silence", func(t *testing.T) {
		w := newWhisper(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"text":""}`))
		})
		rec := w.Transcribe(ctx, writeAudio(t))
		assert.Equal(t, Unrecognized, rec.Outcome)
		assert.Equal(t, MsgUnrecognized, rec.Message())
	})

	t.Run("service error", func(t *testing.T) {
		w := newWhisper(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
		})
		rec := w.Transcribe(ctx, writeAudio(t))
		assert.Equal(t, ServiceUnavailable, rec.Outcome)
		assert.Equal(t, MsgServiceUnavailable, rec.Message())
	})

	t.Run("missing file", func(t *testing.T) {
		w := newWhisper(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("request must not be sent")
		})
		rec := w.Transcribe(ctx, filepath.Join(t.TempDir(), "none.wav"))
		assert.Equal(t, OtherError, rec.Outcome)
		assert.Contains(t, rec.Message(), "Error: ")
	})
}

func TestTTSSpeak(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3-fake-mp3"))
	}))
	defer srv.Close()
	t.Setenv(keyEnv, "secret")

	out := filepath.Join(t.TempDir(), "audio", "plan.mp3")
	tts, err := NewTTS(OpenAIConfig{BaseURL: srv.URL + "/v1", APIKeyEnv: keyEnv, OutputPath: out})
	require.NoError(t, err)
	require.NoError(t, tts.Speak(context.Background(), "Have a safe journey"))

	data, err := os.ReadFile(tts.Path())
	require.NoError(t, err)
	assert.Equal(t, "ID3-fake-mp3", string(data))
}

func TestCommandSpeaker(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}
	ctx := context.Background()
	assert.NoError(t, (&CommandSpeaker{Name: "true"}).Speak(ctx, "hi"))
	assert.Error(t, (&CommandSpeaker{Name: "false"}).Speak(ctx, "hi"))
	assert.Error(t, (&CommandSpeaker{Name: "yatra-no-such-binary"}).Speak(ctx, "hi"))
}

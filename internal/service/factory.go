package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"yatra/internal/config"
	"yatra/internal/domain"
	"yatra/internal/embedding/hashing"
	embedollama "yatra/internal/embedding/ollama"
	embedopenai "yatra/internal/embedding/openai"
	llmollama "yatra/internal/llm/ollama"
	llmopenai "yatra/internal/llm/openai"
	"yatra/internal/prompt"
	"yatra/internal/summarizer"
	"yatra/internal/vectorstore/memory"
	"yatra/internal/vectorstore/postgres"
	"yatra/internal/vectorstore/qdrant"
	"yatra/internal/vectorstore/sqlite"
	"yatra/internal/voice"
)

// NewEmbedder builds the configured embedding provider.
func NewEmbedder(cfg config.EmbedderConfig) (domain.Embedder, error) {
	switch cfg.Type {
	case "hashing", "":
		return hashing.NewEmbedder(cfg.Dimension), nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		return embedopenai.NewClient(embedopenai.Config{
			BaseURL:   cfg.OpenAI.BaseURL,
			APIKeyEnv: cfg.OpenAI.APIKeyEnv,
			Model:     cfg.OpenAI.Model,
			Timeout:   config.Timeout(cfg.OpenAI.TimeoutSecs, embedopenai.DefaultTimeout),
		})
	case "ollama":
		if cfg.Ollama == nil {
			return nil, fmt.Errorf("ollama embedder config missing")
		}
		return embedollama.NewEmbedder(embedollama.Config{
			Host:    cfg.Ollama.Host,
			Model:   cfg.Ollama.Model,
			Timeout: config.Timeout(cfg.Ollama.TimeoutSecs, embedollama.DefaultTimeout),
		})
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}

// NewStore opens the configured vector store.
func NewStore(ctx context.Context, cfg config.VectorStoreConfig) (domain.VectorStore, error) {
	switch cfg.Type {
	case "sqlite", "":
		return sqlite.Open(ctx, cfg.PersistDir)
	case "memory":
		return memory.NewStorage(), nil
	case "qdrant":
		if cfg.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:        cfg.Qdrant.URL,
			APIKey:     os.Getenv(cfg.Qdrant.APIKeyEnv),
			Collection: cfg.Qdrant.Collection,
			Timeout:    config.Timeout(cfg.Qdrant.TimeoutSecs, 15*time.Second),
		}), nil
	case "postgres":
		if cfg.Postgres == nil {
			return nil, fmt.Errorf("postgres config missing")
		}
		url := os.Getenv(cfg.Postgres.URLEnv)
		if url == "" {
			return nil, fmt.Errorf("missing postgres connection string in env %s", cfg.Postgres.URLEnv)
		}
		return postgres.NewStorage(ctx, url, cfg.Postgres.Table)
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Type)
	}
}

// NewGenerator builds the configured generation provider.
func NewGenerator(cfg config.GenerationConfig) (domain.Generator, error) {
	timeout := config.Timeout(cfg.TimeoutSecs, 2*time.Minute)
	switch cfg.Type {
	case "openai", "":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai generation config missing")
		}
		return llmopenai.NewGenerator(llmopenai.Config{
			BaseURL:   cfg.OpenAI.BaseURL,
			APIKeyEnv: cfg.OpenAI.APIKeyEnv,
			Model:     cfg.OpenAI.Model,
			Timeout:   timeout,
		})
	case "ollama":
		if cfg.Ollama == nil {
			return nil, fmt.Errorf("ollama generation config missing")
		}
		return llmollama.NewGenerator(llmollama.Config{
			Host:    cfg.Ollama.Host,
			Model:   cfg.Ollama.Model,
			Timeout: config.Timeout(cfg.Ollama.TimeoutSecs, timeout),
		})
	default:
		return nil, fmt.Errorf("unknown generator: %s", cfg.Type)
	}
}

// NewSummarizer builds the configured summarizer.
func NewSummarizer(cfg config.SummarizerConfig, gen domain.Generator, prompts *prompt.Store) (domain.Summarizer, error) {
	switch cfg.Type {
	case "llm", "":
		return summarizer.NewLLMSummarizer(gen, prompts), nil
	case "frequency":
		return summarizer.NewFrequencySummarizer(), nil
	default:
		return nil, fmt.Errorf("unknown summarizer: %s", cfg.Type)
	}
}

// NewSpeaker builds the configured speech output. It never fails: a speaker
// that cannot be set up is replaced by a silent one and a warning.
func NewSpeaker(cfg config.VoiceConfig, logger *log.Logger) voice.Speaker {
	var s voice.Speaker = voice.Nop{}
	switch cfg.Output {
	case "command":
		cmd := voice.DefaultCommand()
		if cfg.Command != "" {
			cmd = &voice.CommandSpeaker{Name: cfg.Command}
		}
		cmd.Args = cfg.CommandArgs
		s = cmd
	case "openai":
		tts, err := voice.NewTTS(voice.OpenAIConfig{
			BaseURL:    cfg.BaseURL,
			APIKeyEnv:  cfg.APIKeyEnv,
			OutputPath: cfg.AudioPath,
		})
		if err != nil {
			logger.Warn("speech output disabled", "err", err)
			break
		}
		s = tts
	}
	return voice.BestEffort(s, logger)
}

// NewTranscriber builds the configured speech input, or nil when disabled.
func NewTranscriber(cfg config.VoiceConfig) (voice.Transcriber, error) {
	switch cfg.Input {
	case "openai":
		return voice.NewWhisper(voice.OpenAIConfig{BaseURL: cfg.BaseURL, APIKeyEnv: cfg.APIKeyEnv})
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown voice input: %s", cfg.Input)
	}
}

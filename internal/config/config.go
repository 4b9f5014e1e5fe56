// Package config loads the application configuration from YAML or TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultSources are the travel pages indexed when no sources are configured.
var DefaultSources = []string{
	"https://www.lonelyplanet.com/india",
	"https://www.tripadvisor.in/Attractions-g293860-Activities-India.html",
	"https://traveltriangle.com/blog/best-places-to-visit-in-india/",
	"https://www.holidify.com/country/india/places-to-visit.html",
}

// DefaultTemperature is the planner sampling temperature.
const DefaultTemperature = 0.2

// SourcesConfig lists the documents to ingest and how to fetch them.
type SourcesConfig struct {
	URLs              []string `yaml:"urls" toml:"urls"`
	TimeoutSecs       int      `yaml:"timeout_secs" toml:"timeout_secs"`
	RequestsPerSecond float64  `yaml:"requests_per_second" toml:"requests_per_second"`
	UserAgent         string   `yaml:"user_agent,omitempty" toml:"user_agent,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	ChunkSize int `yaml:"chunk_size" toml:"chunk_size"`
	Overlap   int `yaml:"overlap" toml:"overlap"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url" toml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env" toml:"api_key_env"`
	Model       string `yaml:"model" toml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" toml:"timeout_secs"`
}

// OllamaConfig points at an Ollama server. An empty host means OLLAMA_HOST.
type OllamaConfig struct {
	Host        string `yaml:"host,omitempty" toml:"host,omitempty"`
	Model       string `yaml:"model" toml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" toml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type        string                `yaml:"type" toml:"type"`
	Dimension   int                   `yaml:"dimension,omitempty" toml:"dimension,omitempty"`
	Concurrency int                   `yaml:"concurrency" toml:"concurrency"`
	OpenAI      *OpenAIEmbedderConfig `yaml:"openai,omitempty" toml:"openai,omitempty"`
	Ollama      *OllamaConfig         `yaml:"ollama,omitempty" toml:"ollama,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url" toml:"url"`
	APIKeyEnv   string `yaml:"api_key_env,omitempty" toml:"api_key_env,omitempty"`
	Collection  string `yaml:"collection" toml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs" toml:"timeout_secs"`
}

// PostgresConfig contains connection details for a pgvector table.
type PostgresConfig struct {
	// URLEnv names the environment variable holding the connection string.
	URLEnv string `yaml:"url_env" toml:"url_env"`
	Table  string `yaml:"table" toml:"table"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type       string          `yaml:"type" toml:"type"`
	PersistDir string          `yaml:"persist_dir" toml:"persist_dir"`
	Qdrant     *QdrantConfig   `yaml:"qdrant,omitempty" toml:"qdrant,omitempty"`
	Postgres   *PostgresConfig `yaml:"postgres,omitempty" toml:"postgres,omitempty"`
}

// RetrievalConfig configures the retriever.
type RetrievalConfig struct {
	TopK int `yaml:"top_k" toml:"top_k"`
}

// OpenAIGeneratorConfig configures an OpenAI-compatible chat endpoint.
type OpenAIGeneratorConfig struct {
	BaseURL   string `yaml:"base_url" toml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env" toml:"api_key_env"`
	Model     string `yaml:"model" toml:"model"`
}

// GenerationConfig selects and configures the generation provider.
type GenerationConfig struct {
	Type        string                 `yaml:"type" toml:"type"`
	// Temperature is a pointer so that an explicit 0 survives defaulting.
	Temperature *float64               `yaml:"temperature,omitempty" toml:"temperature,omitempty"`
	MaxTokens   int                    `yaml:"max_tokens" toml:"max_tokens"`
	TimeoutSecs int                    `yaml:"timeout_secs" toml:"timeout_secs"`
	OpenAI      *OpenAIGeneratorConfig `yaml:"openai,omitempty" toml:"openai,omitempty"`
	Ollama      *OllamaConfig          `yaml:"ollama,omitempty" toml:"ollama,omitempty"`
}

// Temp returns the configured sampling temperature.
func (g GenerationConfig) Temp() float64 {
	if g.Temperature == nil {
		return DefaultTemperature
	}
	return *g.Temperature
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type     string `yaml:"type" toml:"type"`
	MinWords int    `yaml:"min_words" toml:"min_words"`
	MaxWords int    `yaml:"max_words" toml:"max_words"`
}

// PromptsConfig optionally points at a directory of template overrides.
type PromptsConfig struct {
	Dir string `yaml:"dir,omitempty" toml:"dir,omitempty"`
}

// ConversationConfig configures chat sessions.
type ConversationConfig struct {
	HistoryWindow int  `yaml:"history_window" toml:"history_window"`
	UseHistory    bool `yaml:"use_history" toml:"use_history"`
}

// ReportConfig configures the exported plan document.
type ReportConfig struct {
	Path  string `yaml:"path" toml:"path"`
	Title string `yaml:"title" toml:"title"`
}

// VoiceConfig selects speech input and output adapters.
type VoiceConfig struct {
	// Input is "openai" or "none".
	Input string `yaml:"input" toml:"input"`
	// Output is "none", "command" or "openai".
	Output      string   `yaml:"output" toml:"output"`
	Command     string   `yaml:"command,omitempty" toml:"command,omitempty"`
	CommandArgs []string `yaml:"command_args,omitempty" toml:"command_args,omitempty"`
	BaseURL     string   `yaml:"base_url,omitempty" toml:"base_url,omitempty"`
	APIKeyEnv   string   `yaml:"api_key_env" toml:"api_key_env"`
	AudioPath   string   `yaml:"audio_path" toml:"audio_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Sources      SourcesConfig      `yaml:"sources" toml:"sources"`
	Chunker      ChunkerConfig      `yaml:"chunker" toml:"chunker"`
	Embedder     EmbedderConfig     `yaml:"embedder" toml:"embedder"`
	VectorStore  VectorStoreConfig  `yaml:"vector_store" toml:"vector_store"`
	Retrieval    RetrievalConfig    `yaml:"retrieval" toml:"retrieval"`
	Generation   GenerationConfig   `yaml:"generation" toml:"generation"`
	Summarizer   SummarizerConfig   `yaml:"summarizer" toml:"summarizer"`
	Prompts      PromptsConfig      `yaml:"prompts" toml:"prompts"`
	Conversation ConversationConfig `yaml:"conversation" toml:"conversation"`
	Report       ReportConfig       `yaml:"report" toml:"report"`
	Voice        VoiceConfig        `yaml:"voice" toml:"voice"`
	Log          LogConfig          `yaml:"log" toml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Files ending in .toml are decoded as TOML, everything else as YAML.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if isTOML(path) {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml and ./config.toml first, then ~/.config/yatra/config.yaml.
// If none exists, it writes defaults to ~/.config/yatra/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	for _, cwdPath := range []string{"config.yaml", "config.toml"} {
		if _, err := os.Stat(cwdPath); err == nil {
			cfg, err := Load(cwdPath)
			return cfg, cwdPath, err
		}
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports every invalid setting at once.
func (c *AppConfig) Validate() error {
	var errs []error
	if len(c.Sources.URLs) == 0 {
		errs = append(errs, errors.New("sources.urls must not be empty"))
	}
	if c.Chunker.ChunkSize <= 0 {
		errs = append(errs, errors.New("chunker.chunk_size must be positive"))
	}
	if c.Chunker.Overlap < 0 || c.Chunker.Overlap >= c.Chunker.ChunkSize {
		errs = append(errs, errors.New("chunker.overlap must be in [0, chunk_size)"))
	}
	if c.Retrieval.TopK <= 0 {
		errs = append(errs, errors.New("retrieval.top_k must be positive"))
	}
	if t := c.Generation.Temp(); t < 0 || t > 2 {
		errs = append(errs, errors.New("generation.temperature must be between 0 and 2"))
	}
	if c.Summarizer.MinWords < 0 || c.Summarizer.MaxWords <= 0 || c.Summarizer.MinWords > c.Summarizer.MaxWords {
		errs = append(errs, errors.New("summarizer word bounds must satisfy 0 <= min_words <= max_words"))
	}
	if c.Conversation.HistoryWindow <= 0 {
		errs = append(errs, errors.New("conversation.history_window must be positive"))
	}
	errs = append(errs, oneOf("embedder.type", c.Embedder.Type, "hashing", "openai", "ollama"))
	errs = append(errs, oneOf("vector_store.type", c.VectorStore.Type, "sqlite", "memory", "qdrant", "postgres"))
	errs = append(errs, oneOf("generation.type", c.Generation.Type, "openai", "ollama"))
	errs = append(errs, oneOf("summarizer.type", c.Summarizer.Type, "llm", "frequency"))
	errs = append(errs, oneOf("voice.input", c.Voice.Input, "none", "openai"))
	errs = append(errs, oneOf("voice.output", c.Voice.Output, "none", "command", "openai"))
	return errors.Join(errs...)
}

// Timeout converts a seconds setting, falling back to def when unset.
func Timeout(secs int, def time.Duration) time.Duration {
	if secs <= 0 {
		return def
	}
	return time.Duration(secs) * time.Second
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, ", "), value)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "yatra", "config.yaml"), nil
}

// Default returns the built-in configuration: local hashing embeddings in a
// sqlite index and a Groq-hosted chat model.
func Default() *AppConfig {
	cfg := &AppConfig{
		Sources:     SourcesConfig{URLs: append([]string(nil), DefaultSources...)},
		Embedder:    EmbedderConfig{Type: "hashing"},
		VectorStore: VectorStoreConfig{Type: "sqlite"},
		Generation: GenerationConfig{
			Type: "openai",
			OpenAI: &OpenAIGeneratorConfig{
				BaseURL:   "https://api.groq.com/openai/v1",
				APIKeyEnv: "GROQ_API_KEY",
				Model:     "llama-3.3-70b-versatile",
			},
		},
		Summarizer: SummarizerConfig{Type: "llm"},
		Voice:      VoiceConfig{Input: "none", Output: "none"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if len(cfg.Sources.URLs) == 0 {
		cfg.Sources.URLs = append([]string(nil), DefaultSources...)
	}
	if cfg.Sources.TimeoutSecs == 0 {
		cfg.Sources.TimeoutSecs = 20
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 1000
	}
	if cfg.Chunker.Overlap == 0 {
		cfg.Chunker.Overlap = 20
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "hashing"
	}
	if cfg.Embedder.Type == "hashing" && cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = 512
	}
	if cfg.Embedder.Concurrency == 0 {
		cfg.Embedder.Concurrency = 4
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Embedder.Type == "ollama" {
		if cfg.Embedder.Ollama == nil {
			cfg.Embedder.Ollama = &OllamaConfig{}
		}
		if cfg.Embedder.Ollama.Model == "" {
			cfg.Embedder.Ollama.Model = "nomic-embed-text"
		}
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "sqlite"
	}
	if cfg.VectorStore.PersistDir == "" {
		cfg.VectorStore.PersistDir = "tour_index"
	}
	if cfg.VectorStore.Type == "qdrant" {
		if cfg.VectorStore.Qdrant == nil {
			cfg.VectorStore.Qdrant = &QdrantConfig{}
		}
		if cfg.VectorStore.Qdrant.URL == "" {
			cfg.VectorStore.Qdrant.URL = "http://localhost:6333"
		}
		if cfg.VectorStore.Qdrant.Collection == "" {
			cfg.VectorStore.Qdrant.Collection = "tour_places"
		}
		if cfg.VectorStore.Qdrant.TimeoutSecs == 0 {
			cfg.VectorStore.Qdrant.TimeoutSecs = 15
		}
	}
	if cfg.VectorStore.Type == "postgres" {
		if cfg.VectorStore.Postgres == nil {
			cfg.VectorStore.Postgres = &PostgresConfig{}
		}
		if cfg.VectorStore.Postgres.URLEnv == "" {
			cfg.VectorStore.Postgres.URLEnv = "DATABASE_URL"
		}
		if cfg.VectorStore.Postgres.Table == "" {
			cfg.VectorStore.Postgres.Table = "tour_chunks"
		}
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Generation.Type == "" {
		cfg.Generation.Type = "openai"
	}
	if cfg.Generation.Temperature == nil {
		t := DefaultTemperature
		cfg.Generation.Temperature = &t
	}
	if cfg.Generation.MaxTokens == 0 {
		cfg.Generation.MaxTokens = 2048
	}
	if cfg.Generation.TimeoutSecs == 0 {
		cfg.Generation.TimeoutSecs = 120
	}
	if cfg.Generation.Type == "openai" {
		if cfg.Generation.OpenAI == nil {
			cfg.Generation.OpenAI = &OpenAIGeneratorConfig{}
		}
		if cfg.Generation.OpenAI.APIKeyEnv == "" {
			cfg.Generation.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
	}
	if cfg.Generation.Type == "ollama" {
		if cfg.Generation.Ollama == nil {
			cfg.Generation.Ollama = &OllamaConfig{}
		}
		if cfg.Generation.Ollama.Model == "" {
			cfg.Generation.Ollama.Model = "llama3.1"
		}
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "llm"
	}
	if cfg.Summarizer.MinWords == 0 {
		cfg.Summarizer.MinWords = 300
	}
	if cfg.Summarizer.MaxWords == 0 {
		cfg.Summarizer.MaxWords = 800
	}
	if cfg.Conversation.HistoryWindow == 0 {
		cfg.Conversation.HistoryWindow = 5
	}
	if cfg.Report.Path == "" {
		cfg.Report.Path = "tour_plan.pdf"
	}
	if cfg.Report.Title == "" {
		cfg.Report.Title = "Your Tour Plan"
	}
	if cfg.Voice.Input == "" {
		cfg.Voice.Input = "none"
	}
	if cfg.Voice.Output == "" {
		cfg.Voice.Output = "none"
	}
	if cfg.Voice.APIKeyEnv == "" {
		cfg.Voice.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Voice.AudioPath == "" {
		cfg.Voice.AudioPath = "tour_plan.mp3"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.File == "" {
		cfg.Log.File = "yatra.log"
	}
}

// Package service assembles the configured components into the planning and
// conversation pipelines shared by every session.
package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"

	"yatra/internal/chunker"
	"yatra/internal/config"
	"yatra/internal/domain"
	"yatra/internal/loader"
	"yatra/internal/prompt"
	"yatra/internal/report"
	"yatra/internal/retrieval"
	"yatra/internal/voice"
)

// Options adjusts how NewApp builds the index.
type Options struct {
	// Rebuild ignores a reusable persisted index.
	Rebuild bool
}

// App holds the components built once at startup.
type App struct {
	Config       *config.AppConfig
	Index        *retrieval.Index
	Retriever    *retrieval.Retriever
	Planner      *Planner
	Conversation *Conversation
	Speaker      voice.Speaker

	store  domain.VectorStore
	logger *log.Logger
}

// Fingerprint identifies the ingestion settings an index was built from.
func Fingerprint(cfg *config.AppConfig) string {
	parts := append([]string{}, cfg.Sources.URLs...)
	parts = append(parts, strconv.Itoa(cfg.Chunker.ChunkSize), strconv.Itoa(cfg.Chunker.Overlap))
	return retrieval.Fingerprint(parts...)
}

// NewApp builds or loads the index and wires both pipelines. Any error here
// is fatal to the caller; nothing has been served yet.
func NewApp(ctx context.Context, cfg *config.AppConfig, logger *log.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	emb, err := NewEmbedder(cfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("embedder init failed: %w", err)
	}
	gen, err := NewGenerator(cfg.Generation)
	if err != nil {
		return nil, fmt.Errorf("generator init failed: %w", err)
	}
	prompts, err := prompt.NewStore(cfg.Prompts.Dir)
	if err != nil {
		return nil, err
	}
	sum, err := NewSummarizer(cfg.Summarizer, gen, prompts)
	if err != nil {
		return nil, err
	}
	store, err := NewStore(ctx, cfg.VectorStore)
	if err != nil {
		return nil, fmt.Errorf("vector store init failed: %w", err)
	}

	ld := loader.New(loader.Config{
		Timeout:           config.Timeout(cfg.Sources.TimeoutSecs, loader.DefaultTimeout),
		RequestsPerSecond: cfg.Sources.RequestsPerSecond,
		UserAgent:         cfg.Sources.UserAgent,
	}, logger)
	ch := chunker.NewCharacterChunker(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap)

	index, err := retrieval.Build(ctx, retrieval.BuildOptions{
		PersistDir:  cfg.VectorStore.PersistDir,
		Store:       store,
		Embedder:    emb,
		Fingerprint: Fingerprint(cfg),
		Ingest:      IngestFunc(ld, ch, cfg.Sources.URLs),
		Rebuild:     opts.Rebuild,
		Concurrency: cfg.Embedder.Concurrency,
		Logger:      logger,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("building index: %w", err)
	}

	retriever := retrieval.NewRetriever(index, cfg.Retrieval.TopK)
	temp := cfg.Generation.Temp()
	planner := NewPlanner(retriever, gen, sum, report.NewPDFExporter(), prompts, PlannerOptions{
		TopK:        cfg.Retrieval.TopK,
		Temperature: temp,
		MaxTokens:   cfg.Generation.MaxTokens,
		MinWords:    cfg.Summarizer.MinWords,
		MaxWords:    cfg.Summarizer.MaxWords,
		ReportPath:  cfg.Report.Path,
		ReportTitle: cfg.Report.Title,
	}, logger)
	conv := NewConversation(retriever, gen, prompts, ConversationOptions{
		TopK:        cfg.Retrieval.TopK,
		Temperature: temp,
		MaxTokens:   cfg.Generation.MaxTokens,
		UseHistory:  cfg.Conversation.UseHistory,
	}, logger)

	return &App{
		Config:       cfg,
		Index:        index,
		Retriever:    retriever,
		Planner:      planner,
		Conversation: conv,
		Speaker:      NewSpeaker(cfg.Voice, logger),
		store:        store,
		logger:       logger,
	}, nil
}

// IngestFunc loads sources and chunks them. It fails only when nothing at
// all could be loaded.
func IngestFunc(ld *loader.Loader, ch domain.Chunker, sources []string) retrieval.IngestFunc {
	return func(ctx context.Context) ([]domain.Chunk, error) {
		docs := ld.Load(ctx, sources)
		if len(docs) == 0 {
			return nil, domain.ErrNoDocuments
		}
		return ch.Chunk(docs), nil
	}
}

// NewSession starts a session over the shared pipelines.
func (a *App) NewSession() *Session {
	return NewSession(a.Planner, a.Conversation, a.Speaker, a.Config.Conversation.HistoryWindow)
}

// Close releases the vector store.
func (a *App) Close() error {
	return a.store.Close()
}

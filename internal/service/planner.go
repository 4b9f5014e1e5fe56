package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"yatra/internal/domain"
	"yatra/internal/prompt"
)

// PlannerOptions tunes the planning pipeline.
type PlannerOptions struct {
	TopK        int
	Temperature float64
	MaxTokens   int
	MinWords    int
	MaxWords    int
	ReportPath  string
	ReportTitle string
}

// Planner turns a user profile into a tour plan and a report file.
type Planner struct {
	retriever  domain.Retriever
	generator  domain.Generator
	summarizer domain.Summarizer
	exporter   domain.ReportExporter
	prompts    *prompt.Store
	opts       PlannerOptions
	logger     *log.Logger
}

// NewPlanner wires the planning pipeline. A nil prompts store means the
// built-in templates.
func NewPlanner(
	retriever domain.Retriever,
	generator domain.Generator,
	sum domain.Summarizer,
	exporter domain.ReportExporter,
	prompts *prompt.Store,
	opts PlannerOptions,
	logger *log.Logger,
) *Planner {
	if prompts == nil {
		prompts = prompt.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	if opts.MinWords == 0 && opts.MaxWords == 0 {
		opts.MinWords, opts.MaxWords = 300, 800
	}
	if opts.ReportPath == "" {
		opts.ReportPath = "tour_plan.pdf"
	}
	if opts.ReportTitle == "" {
		opts.ReportTitle = "Your Tour Plan"
	}
	return &Planner{
		retriever:  retriever,
		generator:  generator,
		summarizer: sum,
		exporter:   exporter,
		prompts:    prompts,
		opts:       opts,
		logger:     logger,
	}
}

// PlacesQuery is the retrieval query derived from a profile.
func PlacesQuery(p domain.UserProfile) string {
	return fmt.Sprintf("Best destinations for budget %s with interests %s", p.Budget, p.InterestList())
}

// Plan runs retrieval, filtering, summarization, response generation and
// export in order. Any failing step aborts the plan.
func (p *Planner) Plan(ctx context.Context, profile domain.UserProfile) (*domain.PlanResult, error) {
	start := time.Now()
	genOpts := domain.GenerateOptions{Temperature: p.opts.Temperature, MaxTokens: p.opts.MaxTokens}

	step := time.Now()
	places, err := p.retriever.Retrieve(ctx, PlacesQuery(profile), p.opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("retrieving destinations: %w", err)
	}
	p.logger.Debug("retrieved destinations", "chunks", len(places), "took", time.Since(step))

	step = time.Now()
	plannerPrompt, err := p.prompts.Render(prompt.Planner, prompt.PlannerVars{
		Budget:    profile.Budget,
		Interests: profile.InterestList(),
		Duration:  profile.Duration,
		Style:     string(profile.Style),
		City:      profile.City,
		Places:    strings.Join(places, "\n"),
	})
	if err != nil {
		return nil, err
	}
	filtered, err := p.generator.Complete(ctx, plannerPrompt, genOpts)
	if err != nil {
		return nil, fmt.Errorf("filtering destinations: %w", err)
	}
	p.logger.Debug("filtered destinations", "chars", len(filtered), "took", time.Since(step))

	step = time.Now()
	summarized, err := p.summarizer.Summarize(ctx, filtered, p.opts.MinWords, p.opts.MaxWords)
	if err != nil {
		return nil, fmt.Errorf("summarizing destinations: %w", err)
	}
	p.logger.Debug("summarized destinations", "chars", len(summarized), "took", time.Since(step))

	step = time.Now()
	responsePrompt, err := p.prompts.Render(prompt.Response, prompt.ResponseVars{FilteredPlaces: summarized})
	if err != nil {
		return nil, err
	}
	final, err := p.generator.Complete(ctx, responsePrompt, genOpts)
	if err != nil {
		return nil, fmt.Errorf("writing recommendation: %w", err)
	}
	p.logger.Debug("wrote recommendation", "chars", len(final), "took", time.Since(step))

	step = time.Now()
	path, err := p.exporter.Export(p.opts.ReportTitle, final, p.opts.ReportPath)
	if err != nil {
		return nil, fmt.Errorf("exporting report: %w", err)
	}
	p.logger.Debug("exported report", "path", path, "took", time.Since(step))

	p.logger.Info("plan ready", "city", profile.City, "style", profile.Style, "took", time.Since(start))
	return &domain.PlanResult{FinalText: final, Report: &domain.ReportHandle{Path: path}}, nil
}

// GenerateTourPlan is Plan for presentation code: a failure is returned as
// a message with no report, never as an error.
func (p *Planner) GenerateTourPlan(ctx context.Context, profile domain.UserProfile) domain.PlanResult {
	res, err := p.Plan(ctx, profile)
	if err != nil {
		p.logger.Error("planning failed", "err", err)
		return domain.PlanResult{FinalText: "Error generating plan: " + err.Error()}
	}
	return *res
}

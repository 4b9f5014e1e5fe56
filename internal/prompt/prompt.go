// Package prompt holds the text templates sent to the generation provider.
// Every template has an embedded default; a directory of <name>.tmpl files
// may override any of them.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"yatra/internal/domain"
)

// Template names.
const (
	Planner   = "planner"
	Response  = "response"
	Answer    = "answer"
	Summarize = "summarize"
)

// Names lists every known template.
var Names = []string{Planner, Response, Answer, Summarize}

var defaults = map[string]string{
	Planner: `Act as a professional tour planner. Based on the user's profile, plan the top 5 travel destinations in India or abroad.
Include: destination name, highlights, best season, estimated budget, activities, nearby attractions, accommodation options,
and a match score (0-100) based on preferences.

USER PROFILE:
- Budget: {{.Budget}}
- Interests: {{.Interests}}
- Travel Duration: {{.Duration}}
- Travel Style: {{.Style}}
- Starting City: {{.City}}

DESTINATION DATA:
{{.Places}}
`,

	Response: `Create a warm and clear travel recommendation. For each suggested destination, include:
- Destination Name
- Why it matches the user
- Best Time to Visit
- Estimated Budget
- Top 3 Activities
- Accommodation Tip
- Match Score (0-100)

Finish with an inspiring note encouraging safe and fun travel.

DESTINATION DATA:
{{.FilteredPlaces}}
`,

	Answer: `Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.

{{.Context}}
{{if .History}}
Conversation so far:
{{range .History}}{{.Role}}: {{.Content}}
{{end}}{{end}}
Question: {{.Question}}
Helpful Answer:`,

	Summarize: `Summarize the following travel plan in at most {{.MaxWords}} words and at least {{.MinWords}} words when the text allows it.
Keep every destination name, season, budget figure and match score. Return only the summary.

TEXT:
{{.Text}}

Summary:`,
}

// PlannerVars fills the planner template.
type PlannerVars struct {
	Budget    string
	Interests string
	Duration  string
	Style     string
	City      string
	Places    string
}

// ResponseVars fills the response template.
type ResponseVars struct {
	FilteredPlaces string
}

// AnswerVars fills the answer template. History is empty unless the caller
// opts in to conversational context.
type AnswerVars struct {
	Context  string
	Question string
	History  []domain.Turn
}

// SummarizeVars fills the summarize template.
type SummarizeVars struct {
	Text     string
	MinWords int
	MaxWords int
}

// Store is a parsed, read-only set of templates.
type Store struct {
	tmpl *template.Template
	dir  string
}

// NewStore parses the default templates and applies overrides from dir.
// An empty dir means defaults only; missing override files are ignored.
func NewStore(dir string) (*Store, error) {
	root := template.New("prompts").Option("missingkey=error")
	for _, name := range Names {
		text := defaults[name]
		if dir != "" {
			data, err := os.ReadFile(filepath.Join(dir, name+".tmpl"))
			switch {
			case err == nil:
				text = string(data)
			case !errors.Is(err, os.ErrNotExist):
				return nil, fmt.Errorf("read prompt %q: %w", name, err)
			}
		}
		if _, err := root.New(name).Parse(text); err != nil {
			return nil, fmt.Errorf("parse prompt %q: %w", name, err)
		}
	}
	return &Store{tmpl: root, dir: dir}, nil
}

// Default returns a store holding only the embedded templates.
func Default() *Store {
	s, err := NewStore("")
	if err != nil {
		panic(err)
	}
	return s
}

// Dir returns the override directory, empty when none is configured.
func (s *Store) Dir() string { return s.dir }

// Render executes the named template with data.
func (s *Store) Render(name string, data any) (string, error) {
	t := s.tmpl.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}
	return sb.String(), nil
}

// WriteDefaults writes every embedded template into dir, keeping files that
// already exist so user edits survive.
func WriteDefaults(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	for _, name := range Names {
		path := filepath.Join(dir, name+".tmpl")
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(defaults[name]), 0o644); err != nil {
			return fmt.Errorf("write prompt %q: %w", name, err)
		}
	}
	return nil
}

package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatra/internal/domain"
	"yatra/internal/logging"
	"yatra/internal/report"
)

func mumbaiProfile(t *testing.T) domain.UserProfile {
	t.Helper()
	p, err := domain.ParseProfile(domain.ProfileInput{
		Budget:    "₹50,000",
		Interests: "beaches, trekking",
		Duration:  "7 days",
		Style:     "Adventure",
		City:      "Mumbai",
	})
	require.NoError(t, err)
	return p
}

func newTestPlanner(ret domain.Retriever, gen domain.Generator, sum domain.Summarizer, exp domain.ReportExporter, path string) *Planner {
	return NewPlanner(ret, gen, sum, exp, nil, PlannerOptions{
		TopK:        5,
		Temperature: 0.2,
		MinWords:    300,
		MaxWords:    800,
		ReportPath:  path,
	}, logging.Discard())
}

func TestPlacesQuery(t *testing.T) {
	assert.Equal(t,
		"Best destinations for budget ₹50,000 with interests beaches, trekking",
		PlacesQuery(mumbaiProfile(t)))
}

func TestPlan_EndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "tour_plan.pdf")
	ret := &fakeRetriever{docs: []string{"Goa: beaches and forts.", "Manali: trekking in the Himalayas."}}
	gen := &fakeGenerator{replies: []string{"1. Goa 2. Manali", "Pack for Goa and Manali. Travel safe!"}}
	sum := &fakeSummarizer{}

	res, err := newTestPlanner(ret, gen, sum, report.NewPDFExporter(), path).Plan(context.Background(), mumbaiProfile(t))
	require.NoError(t, err)

	assert.Equal(t, "Pack for Goa and Manali. Travel safe!", res.FinalText)
	require.NotNil(t, res.Report)
	assert.Equal(t, path, res.Report.Path)
	assert.FileExists(t, path)
	assert.True(t, res.OK())

	require.Equal(t, []string{"Best destinations for budget ₹50,000 with interests beaches, trekking"}, ret.queries)
	require.Equal(t, 2, gen.calls())
	assert.Contains(t, gen.prompts[0], "- Travel Style: Adventure")
	assert.Contains(t, gen.prompts[0], "- Starting City: Mumbai")
	assert.Contains(t, gen.prompts[0], "DESTINATION DATA:\nGoa: beaches and forts.\nManali: trekking in the Himalayas.")
	assert.Contains(t, gen.prompts[1], "SUMMARY: 1. Goa 2. Manali")
	assert.Equal(t, [][2]int{{300, 800}}, sum.args)
}

func TestGenerateTourPlan_Failures(t *testing.T) {
	tests := []struct {
		name    string
		ret     *fakeRetriever
		gen     *fakeGenerator
		sum     *fakeSummarizer
		exp     domain.ReportExporter
		wantMsg string
	}{
		{
			name:    "retrieval",
			ret:     &fakeRetriever{err: domain.ErrIndexNotReady},
			gen:     &fakeGenerator{},
			sum:     &fakeSummarizer{},
			wantMsg: "index not ready",
		},
		{
			name:    "filter step",
			ret:     &fakeRetriever{docs: []string{"Goa"}},
			gen:     &fakeGenerator{failOn: 1},
			sum:     &fakeSummarizer{},
			wantMsg: "provider unavailable",
		},
		{
			name:    "summarize step",
			ret:     &fakeRetriever{docs: []string{"Goa"}},
			gen:     &fakeGenerator{},
			sum:     &fakeSummarizer{err: errProvider},
			wantMsg: "summarizing",
		},
		{
			name:    "response step",
			ret:     &fakeRetriever{docs: []string{"Goa"}},
			gen:     &fakeGenerator{failOn: 2},
			sum:     &fakeSummarizer{},
			wantMsg: "writing recommendation",
		},
		{
			name:    "export",
			ret:     &fakeRetriever{docs: []string{"Goa"}},
			gen:     &fakeGenerator{},
			sum:     &fakeSummarizer{},
			exp:     failingExporter{},
			wantMsg: "disk full",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "plan.pdf")
			exp := tt.exp
			if exp == nil {
				exp = report.NewPDFExporter()
			}
			res := newTestPlanner(tt.ret, tt.gen, tt.sum, exp, path).GenerateTourPlan(context.Background(), mumbaiProfile(t))

			assert.Nil(t, res.Report)
			assert.False(t, res.OK())
			assert.True(t, strings.HasPrefix(res.FinalText, "Error generating plan: "), res.FinalText)
			assert.Contains(t, res.FinalText, tt.wantMsg)
			assert.NoFileExists(t, path)
		})
	}
}

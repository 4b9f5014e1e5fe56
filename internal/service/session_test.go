package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatra/internal/domain"
	"yatra/internal/report"
)

func TestIsExit(t *testing.T) {
	for _, s := range []string{"exit", "QUIT", " Bye ", "bYe"} {
		assert.True(t, IsExit(s), s)
	}
	for _, s := range []string{"bye bye", "goodbye", "", "exit now"} {
		assert.False(t, IsExit(s), s)
	}
}

func TestSession_ExitNeverReachesGenerator(t *testing.T) {
	gen := &fakeGenerator{}
	ret := &fakeRetriever{docs: []string{"Goa"}}
	s := NewSession(nil, newTestConversation(ret, gen, false), nil, 5)

	for _, msg := range []string{"bye", "BYE", " Exit ", "quit"} {
		reply, done := s.Ask(context.Background(), msg)
		assert.Equal(t, "Goodbye! Have a safe journey!", reply)
		assert.True(t, done)
	}
	assert.Zero(t, gen.calls())
	assert.Empty(t, ret.queries)
	assert.Empty(t, s.History())
}

func TestSession_AskRecordsTurns(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"Try Goa.", "Try Manali."}}
	s := NewSession(nil, newTestConversation(&fakeRetriever{docs: []string{"Goa"}}, gen, false), nil, 5)

	reply, done := s.Ask(context.Background(), "beaches?")
	assert.Equal(t, "Try Goa.", reply)
	assert.False(t, done)
	_, _ = s.Ask(context.Background(), "hills?")

	assert.Equal(t, []domain.Turn{
		{Role: domain.RoleUser, Content: "beaches?"},
		{Role: domain.RoleAssistant, Content: "Try Goa."},
		{Role: domain.RoleUser, Content: "hills?"},
		{Role: domain.RoleAssistant, Content: "Try Manali."},
	}, s.History())

	reply, done = s.Ask(context.Background(), "   ")
	assert.Empty(t, reply)
	assert.False(t, done)
	assert.Len(t, s.History(), 4)
}

func TestSession_WindowIsBounded(t *testing.T) {
	s := NewSession(nil, newTestConversation(&fakeRetriever{}, &fakeGenerator{}, false), nil, 5)
	for i := 0; i < 4; i++ {
		s.Ask(context.Background(), "q")
	}
	assert.Len(t, s.History(), 8)
	assert.Len(t, s.Window(), 5)
}

func TestSession_Plan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")
	planner := newTestPlanner(&fakeRetriever{docs: []string{"Goa"}}, &fakeGenerator{}, &fakeSummarizer{}, report.NewPDFExporter(), path)
	s := NewSession(planner, nil, nil, 5)
	assert.NotEmpty(t, s.ID)

	res := s.Plan(context.Background())
	assert.Nil(t, res.Report)
	assert.Contains(t, res.FinalText, "Error generating plan")

	s.SetProfile(mumbaiProfile(t))
	p, ok := s.Profile()
	require.True(t, ok)
	assert.Equal(t, "Mumbai", p.City)

	res = s.Plan(context.Background())
	require.NotNil(t, res.Report)
	assert.FileExists(t, res.Report.Path)

	s.Speak(context.Background(), res.FinalText)
}

func TestSessions_AreIsolated(t *testing.T) {
	conv := newTestConversation(&fakeRetriever{}, &fakeGenerator{}, false)
	a := NewSession(nil, conv, nil, 5)
	b := NewSession(nil, conv, nil, 5)
	a.Ask(context.Background(), "hello")
	assert.Len(t, a.History(), 2)
	assert.Empty(t, b.History())
	assert.NotEqual(t, a.ID, b.ID)
}

package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatra/internal/domain"
	"yatra/internal/logging"
)

func newTestConversation(ret domain.Retriever, gen domain.Generator, useHistory bool) *Conversation {
	return NewConversation(ret, gen, nil, ConversationOptions{TopK: 5, UseHistory: useHistory}, logging.Discard())
}

func TestAnswer_UsesRetrievedContext(t *testing.T) {
	ret := &fakeRetriever{docs: []string{"Goa has beaches.", "Jaipur has forts."}}
	gen := &fakeGenerator{replies: []string{"Goa."}}

	out, err := newTestConversation(ret, gen, false).Answer(context.Background(), "  Where are beaches? ", nil)
	require.NoError(t, err)
	assert.Equal(t, "Goa.", out)
	assert.Equal(t, []string{"Where are beaches?"}, ret.queries)
	assert.Contains(t, gen.prompts[0], "Goa has beaches.\n\nJaipur has forts.")
	assert.Contains(t, gen.prompts[0], "Question: Where are beaches?")
}

func TestAnswer_Deterministic(t *testing.T) {
	ret := &fakeRetriever{docs: []string{"Kerala backwaters"}}
	conv := newTestConversation(ret, &fakeGenerator{}, false)

	a, err := conv.Answer(context.Background(), "best houseboats?", nil)
	require.NoError(t, err)
	b, err := conv.Answer(context.Background(), "best houseboats?", nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRespond_Errors(t *testing.T) {
	t.Run("generator", func(t *testing.T) {
		conv := newTestConversation(&fakeRetriever{docs: []string{"x"}}, &fakeGenerator{failOn: 1}, false)
		out := conv.Respond(context.Background(), "hi", nil)
		assert.True(t, strings.HasPrefix(out, "Error answering question: "))
		assert.Contains(t, out, "provider unavailable")
	})
	t.Run("empty query", func(t *testing.T) {
		conv := newTestConversation(&fakeRetriever{err: domain.ErrEmptyQuery}, &fakeGenerator{}, false)
		out := conv.Respond(context.Background(), "", nil)
		assert.Contains(t, out, "empty query")
	})
}

func TestAnswer_HistoryOptIn(t *testing.T) {
	window := []domain.Turn{{Role: domain.RoleUser, Content: "I like hills"}}

	gen := &fakeGenerator{}
	_, err := newTestConversation(&fakeRetriever{}, gen, false).Answer(context.Background(), "where?", window)
	require.NoError(t, err)
	assert.NotContains(t, gen.prompts[0], "I like hills")

	gen = &fakeGenerator{}
	ret := &fakeRetriever{}
	_, err = newTestConversation(ret, gen, true).Answer(context.Background(), "where?", window)
	require.NoError(t, err)
	assert.Contains(t, gen.prompts[0], "user: I like hills")
	assert.Equal(t, []string{"where?"}, ret.queries)
}

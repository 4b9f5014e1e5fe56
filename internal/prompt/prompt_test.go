package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatra/internal/domain"
)

func TestRenderDefaults(t *testing.T) {
	s := Default()

	t.Run("planner", func(t *testing.T) {
		out, err := s.Render(Planner, PlannerVars{
			Budget: "₹50,000", Interests: "beaches, trekking", Duration: "7 days",
			Style: "Adventure", City: "Mumbai", Places: "Goa\nManali",
		})
		require.NoError(t, err)
		assert.Contains(t, out, "- Budget: ₹50,000")
		assert.Contains(t, out, "- Interests: beaches, trekking")
		assert.Contains(t, out, "- Starting City: Mumbai")
		assert.Contains(t, out, "DESTINATION DATA:\nGoa\nManali")
	})

	t.Run("response", func(t *testing.T) {
		out, err := s.Render(Response, ResponseVars{FilteredPlaces: "Goa summary"})
		require.NoError(t, err)
		assert.Contains(t, out, "Match Score (0-100)")
		assert.Contains(t, out, "Goa summary")
	})

	t.Run("answer without history", func(t *testing.T) {
		out, err := s.Render(Answer, AnswerVars{Context: "Goa has beaches.", Question: "Where are beaches?"})
		require.NoError(t, err)
		assert.Contains(t, out, "Goa has beaches.")
		assert.Contains(t, out, "Question: Where are beaches?\nHelpful Answer:")
		assert.NotContains(t, out, "Conversation so far")
	})

	t.Run("answer with history", func(t *testing.T) {
		out, err := s.Render(Answer, AnswerVars{
			Context:  "ctx",
			Question: "and food?",
			History:  []domain.Turn{{Role: domain.RoleUser, Content: "hi"}, {Role: domain.RoleAssistant, Content: "hello"}},
		})
		require.NoError(t, err)
		assert.Contains(t, out, "user: hi\nassistant: hello\n")
	})

	t.Run("summarize", func(t *testing.T) {
		out, err := s.Render(Summarize, SummarizeVars{Text: "long", MinWords: 300, MaxWords: 800})
		require.NoError(t, err)
		assert.Contains(t, out, "at most 800 words")
		assert.Contains(t, out, "at least 300 words")
	})
}

func TestRender_Errors(t *testing.T) {
	s := Default()
	_, err := s.Render("nope", nil)
	assert.Error(t, err)

	_, err = s.Render(Planner, map[string]string{"Budget": "1"})
	assert.Error(t, err, "missing keys must fail")
}

func TestNewStore_Overrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "response.tmpl"), []byte("Short: {{.FilteredPlaces}}"), 0o644))

	s, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())

	out, err := s.Render(Response, ResponseVars{FilteredPlaces: "Goa"})
	require.NoError(t, err)
	assert.Equal(t, "Short: Goa", out)

	out, err = s.Render(Planner, PlannerVars{City: "Pune"})
	require.NoError(t, err)
	assert.Contains(t, out, "Starting City: Pune")
}

func TestNewStore_BadTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer.tmpl"), []byte("{{.Question"), 0o644))
	_, err := NewStore(dir)
	assert.Error(t, err)
}

func TestWriteDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "planner.tmpl"), []byte("mine {{.City}}"), 0o644))

	require.NoError(t, WriteDefaults(dir))
	for _, name := range Names {
		assert.FileExists(t, filepath.Join(dir, name+".tmpl"))
	}
	data, err := os.ReadFile(filepath.Join(dir, "planner.tmpl"))
	require.NoError(t, err)
	assert.Equal(t, "mine {{.City}}", string(data))

	s, err := NewStore(dir)
	require.NoError(t, err)
	out, err := s.Render(Planner, PlannerVars{City: "Delhi"})
	require.NoError(t, err)
	assert.Equal(t, "mine Delhi", out)
}

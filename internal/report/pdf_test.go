package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatra/internal/loader"
)

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "tour_plan.pdf")
	body := "1. Goa - beaches, ₹20,000\n2. Manali - trekking\n" + strings.Repeat("A long day of travel. ", 400)

	got, err := NewPDFExporter().Export(DefaultTitle, body, path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))

	text, err := loader.ExtractPDF(data)
	require.NoError(t, err)
	assert.Contains(t, text, DefaultTitle)
}

func TestExport_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	_, err := NewPDFExporter().Export("Plan", "short body", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(data))
	assert.Greater(t, len(data), 100)
}

package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers: []string{"time", "category", "message"},
		Rows: []map[string]string{
			{"time": "2024-01-01T00:00:00Z", "category": "SYSTEM", "message": "boot"},
			{"time": "2024-01-02T00:00:00Z", "category": "OTHER", "message": "role change"},
		},
	}

	out, err := exporter.Render(data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "time,category,message", lines[0])
	assert.Contains(t, lines[2], "role change")
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRenderProjectSummary(t *testing.T) {
	exporter := NewPDFExporter()
	out, err := exporter.RenderProjectSummary(ProjectSummary{
		Title:       "Line Follower Robot",
		LeaderName:  "Alice",
		LeaderRegID: "alice",
		LeaderEmail: "alice@poornima.org",
		TeamMembers: []string{"Bob", "Carol"},
		Components:  "Arduino, L298",
		Status:      "SUBMITTED",
		Summary:     "Built and tested",
		CreatedAt:   "2024-01-01",
	})
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestPDFExporterRequiresTitle(t *testing.T) {
	exporter := NewPDFExporter()
	_, err := exporter.RenderProjectSummary(ProjectSummary{})
	require.Error(t, err)
}

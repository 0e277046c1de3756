package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRender(t *testing.T) {
	exporter := NewCSVExporter()
	payload, err := exporter.Render(Dataset{
		Headers: []string{"Title", "Days", "Begin", "Building"},
		Rows: []map[string]string{
			{"Title": "MAC2311 - Section 12345", "Days": "MWF", "Begin": "07:25 AM", "Building": "LIT"},
			{"Title": "Gym", "Days": "T", "Begin": "06:00 PM"},
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Title,Days,Begin,Building", lines[0])
	assert.Equal(t, "MAC2311 - Section 12345,MWF,07:25 AM,LIT", lines[1])

	// Ragged rows render empty cells, keeping column order.
	assert.Equal(t, "Gym,T,06:00 PM,", lines[2])
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	assert.Error(t, err)
}

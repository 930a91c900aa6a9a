package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRendersPositionalRows(t *testing.T) {
	data := Dataset{
		Headers: []string{"Student ID", "Name", "Batch"},
		Rows: [][]string{
			{"1", "Asha", "Morning A"},
			{"2", "Biru", "Evening B"},
		},
	}

	payload, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Student ID,Name,Batch", lines[0])
	assert.Equal(t, "1,Asha,Morning A", lines[1])
	assert.Equal(t, "2,Biru,Evening B", lines[2])
}

func TestCSVExporterNormalizesRowWidth(t *testing.T) {
	data := Dataset{
		Headers: []string{"A", "B", "C"},
		Rows: [][]string{
			{"only"},
			{"one", "two", "three", "extra"},
		},
	}

	payload, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "only,,", lines[1])
	assert.Equal(t, "one,two,three", lines[2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRendersDocument(t *testing.T) {
	data := Dataset{
		Headers: []string{"Name", "Status"},
		Rows:    [][]string{{"Asha", "Assigned"}},
	}

	payload, err := NewPDFExporter().Render(data, "Course 3 Roster")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

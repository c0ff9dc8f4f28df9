package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridDataset() Dataset {
	return Dataset{
		Headers: []string{"교시", "2024-03-04 (월)"},
		Rows: []map[string]string{
			{"교시": "1교시", "2024-03-04 (월)": "1-1 (1차시)"},
		},
	}
}

func TestPDFExporterRender(t *testing.T) {
	payload, err := NewPDFExporter().Render(gridDataset(), "시간표")
	require.NoError(t, err)
	assert.True(t, len(payload) > 0)
	assert.Equal(t, "%PDF", string(payload[:4]))
}

func TestPDFExporterRejectsEmptyHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "")
	require.Error(t, err)
}

func TestPDFExporterMissingFontFile(t *testing.T) {
	exporter := NewPDFExporterWithFont("NanumGothic", filepath.Join(t.TempDir(), "missing.ttf"))
	_, err := exporter.Render(gridDataset(), "시간표")
	require.Error(t, err)
}

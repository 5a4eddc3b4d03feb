package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/halo-ir/scout-cli/internal/model"
)

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "investors.xlsx")
	investors := []model.DiscoveredInvestor{
		{
			Name:               "Jane Roe",
			Firm:               "Acme Ventures",
			Email:              "jane@acme.vc",
			FitScore:           85,
			PortfolioCompanies: []string{"Alpha", "Beta"},
			AlreadyInPipeline:  true,
		},
		{
			Name:     "John Smith",
			Firm:     "Beta Capital",
			FitScore: 60,
		},
	}

	require.NoError(t, WriteXLSX(path, investors))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "Investors", sheet.Name)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "Name", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "Fit Score", sheet.Rows[0].Cells[12].String())

	assert.Equal(t, "Jane Roe", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "Alpha, Beta", sheet.Rows[1].Cells[9].String())
	score, err := sheet.Rows[1].Cells[12].Int()
	require.NoError(t, err)
	assert.Equal(t, 85, score)
	assert.Equal(t, "yes", sheet.Rows[1].Cells[14].String())

	assert.Equal(t, "John Smith", sheet.Rows[2].Cells[0].String())
	assert.Equal(t, "no", sheet.Rows[2].Cells[14].String())
}

func TestWriteXLSX_EmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")

	require.NoError(t, WriteXLSX(path, nil))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets[0].Rows, 1)
}

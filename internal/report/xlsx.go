// Package report renders discovery results into files an analyst can
// hand around.
package report

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/halo-ir/scout-cli/internal/model"
)

var investorColumns = []string{
	"Name", "Firm", "Email", "Website", "Thesis", "Focus Areas",
	"Check Size", "Stage Preference", "Geography", "Portfolio Companies",
	"LinkedIn", "Crunchbase", "Fit Score", "Fit Reasoning", "Already In Pipeline",
}

// WriteXLSX writes the investor batch to an xlsx workbook at path.
// Rows keep the batch's order so the sheet reads like the run did.
func WriteXLSX(path string, investors []model.DiscoveredInvestor) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Investors")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range investorColumns {
		header.AddCell().SetString(col)
	}

	for _, inv := range investors {
		row := sheet.AddRow()
		row.AddCell().SetString(inv.Name)
		row.AddCell().SetString(inv.Firm)
		row.AddCell().SetString(inv.Email)
		row.AddCell().SetString(inv.Website)
		row.AddCell().SetString(inv.Thesis)
		row.AddCell().SetString(inv.FocusAreas)
		row.AddCell().SetString(inv.CheckSize)
		row.AddCell().SetString(inv.StagePreference)
		row.AddCell().SetString(inv.Geography)
		row.AddCell().SetString(strings.Join(inv.PortfolioCompanies, ", "))
		row.AddCell().SetString(inv.LinkedinURL)
		row.AddCell().SetString(inv.CrunchbaseURL)
		row.AddCell().SetInt(inv.FitScore)
		row.AddCell().SetString(inv.FitReasoning)
		if inv.AlreadyInPipeline {
			row.AddCell().SetString("yes")
		} else {
			row.AddCell().SetString("no")
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "report: save workbook")
	}
	return nil
}

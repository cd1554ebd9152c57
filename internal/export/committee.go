/**
 * @description
 * Committee-roster spreadsheet export for the super-admin's AGM workflow.
 * Produces either a per-association workbook (one row per committee member) or
 * a consolidated workbook listing every association.
 *
 * @dependencies
 * - github.com/xuri/excelize/v2: xlsx workbook writer.
 */

package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/myhainan/member-portal/internal/domain"
	"github.com/xuri/excelize/v2"
)

// ConsolidatedFileName is the download name of the all-associations workbook.
const ConsolidatedFileName = "AGM_Committee_List.xlsx"

var fileNameStrip = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
var fileNameSpaces = regexp.MustCompile(`\s+`)

// CommitteeFileName derives the download name for one association's roster:
// the display name stripped of special characters, spaces replaced with
// underscores, suffixed "_Committee_List.xlsx".
func CommitteeFileName(associationName string) string {
	clean := fileNameStrip.ReplaceAllString(associationName, "")
	clean = strings.TrimSpace(clean)
	clean = fileNameSpaces.ReplaceAllString(clean, "_")
	if clean == "" {
		clean = "Association"
	}
	return clean + "_Committee_List.xlsx"
}

// CommitteeWorkbook builds the roster workbook for a single association.
// The Location column mirrors the association name, matching the AGM template.
// An association with no committee yields a header-only sheet.
func CommitteeWorkbook(assoc *domain.Association) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Committee Members"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{"Association Name", "Location", "Name", "Title", "Category"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}

	name := assoc.Name
	if name == "" {
		name = assoc.ID.String()
	}
	for i, member := range assoc.Committee {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), member.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), member.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), member.Category)
	}
	return f, nil
}

// ConsolidatedWorkbook builds the workbook listing every association.
func ConsolidatedWorkbook(assocs []domain.Association) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Associations"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{"Association ID", "Association Name", "Location"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}

	for i, assoc := range assocs {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), assoc.ID.String())
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), assoc.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), assoc.Location)
	}
	return f, nil
}

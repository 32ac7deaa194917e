// Package export writes the tracker state to an .xlsx workbook.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alem-hub/score-tracker/internal/domain/leaderboard"
	"github.com/alem-hub/score-tracker/internal/domain/student"
)

// Sheet names.
const (
	SheetStudents = "Students"
	SheetRankings = "Rankings"
)

var (
	studentHeader = []interface{}{"Student Id", "Name", "Scores", "Total", "Added At"}
	rankingHeader = []interface{}{"Rank", "Name", "Total"}
)

// WriteWorkbook writes the students table and the ranking to w.
func WriteWorkbook(w io.Writer, students []*student.Student, ranking leaderboard.Ranking) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the students sheet.
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetStudents); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetRankings); err != nil {
		return fmt.Errorf("export: create sheet: %w", err)
	}

	rows := make([][]interface{}, 0, len(students)+1)
	rows = append(rows, studentHeader)
	for _, s := range students {
		scores := s.Scores()
		summaries := make([]string, len(scores))
		for i, sc := range scores {
			summaries[i] = sc.Summary()
		}
		rows = append(rows, []interface{}{
			s.ID,
			s.Name,
			strings.Join(summaries, "\n"),
			s.Total(student.Filter{}),
			s.CreatedAt,
		})
	}
	if err := writeRows(f, SheetStudents, rows); err != nil {
		return err
	}

	rows = rows[:0]
	rows = append(rows, []interface{}{ranking.Title()}, rankingHeader)
	for _, e := range ranking.Entries {
		rows = append(rows, []interface{}{int(e.Rank), e.Name, e.Total})
	}
	if err := writeRows(f, SheetRankings, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return fmt.Errorf("export: %s row %d: %w", sheet, idx+1, err)
		}
		cells := row
		if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
			return fmt.Errorf("export: %s row %d: %w", sheet, idx+1, err)
		}
	}
	return nil
}

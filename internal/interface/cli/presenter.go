package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alem-hub/score-tracker/internal/application/query"
	"github.com/alem-hub/score-tracker/internal/domain/activity"
	"github.com/alem-hub/score-tracker/internal/domain/student"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printStudents(w io.Writer, rows []query.StudentRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No students yet.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "STUDENT ID\tNAME\tSCORES\tTOTAL\tADDED AT")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			r.StudentID, r.Name, strings.Join(r.Scores, "; "), student.FormatValue(r.Total), r.AddedAt)
	}
	return tw.Flush()
}

func printScores(w io.Writer, res *query.StudentScoresResult) error {
	fmt.Fprintf(w, "%d %s\n", res.StudentID, res.Name)
	if len(res.Labels) == 0 {
		_, err := fmt.Fprintln(w, "No scores yet.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tSCORE")
	for i, label := range res.Labels {
		fmt.Fprintf(tw, "%d\t%s\n", i+1, label)
	}
	return tw.Flush()
}

func printRanking(w io.Writer, res *query.GetRankingsResult) error {
	fmt.Fprintln(w, res.Ranking.Title())
	if res.Empty() {
		_, err := fmt.Fprintln(w, "No students to rank.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "RANK\tNAME\tTOTAL")
	for _, e := range res.Ranking.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Rank, e.Name, student.FormatValue(e.Total))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Types: %s\n", strings.Join(res.TypeOptions, ", "))
	_, err := fmt.Fprintf(w, "Periods: %s\n", strings.Join(res.PeriodOptions, ", "))
	return err
}

func printAttempts(w io.Writer, records []activity.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No recent attempts.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "STUDENT ID\tNAME\tPERIOD\tTYPE\tSCORE\tTIMESTAMP")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.StudentID, r.StudentName, r.Period, r.Type, student.FormatValue(r.Score), r.Timestamp)
	}
	return tw.Flush()
}

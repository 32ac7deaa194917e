package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alem-hub/score-tracker/internal/domain/leaderboard"
	"github.com/alem-hub/score-tracker/internal/domain/student"
)

func TestWriteWorkbook(t *testing.T) {
	reg := student.NewRegistry()
	ana, err := reg.Add(1, "Ana", "2024-01-01 09:00:00")
	require.NoError(t, err)
	_, err = ana.AddScore(student.PeriodPrelim, "Quiz", 10, "2024-01-01 10:00:00")
	require.NoError(t, err)
	_, err = ana.AddScore(student.PeriodFinals, "Exam", 82.5, "2024-01-02 10:00:00")
	require.NoError(t, err)
	_, err = reg.Add(2, "Bella", "2024-01-01 09:30:00")
	require.NoError(t, err)

	students := reg.List()
	ranking := leaderboard.Build(students, student.Filter{})

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, students, ranking))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetStudents, SheetRankings}, f.GetSheetList())

	rows, err := f.GetRows(SheetStudents)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Student Id", "Name", "Scores", "Total", "Added At"}, rows[0])
	assert.Equal(t, "Ana", rows[1][1])
	assert.Equal(t, "Prelim - Quiz: 10.0\nFinals - Exam: 82.5", rows[1][2])
	assert.Equal(t, "92.5", rows[1][3])
	assert.Equal(t, "2024-01-01 09:00:00", rows[1][4])
	assert.Equal(t, "Bella", rows[2][1])

	rows, err = f.GetRows(SheetRankings)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Rankings (All, Period: All)", rows[0][0])
	assert.Equal(t, []string{"Rank", "Name", "Total"}, rows[1])
	assert.Equal(t, []string{"1", "Ana", "92.5"}, rows[2])
	assert.Equal(t, []string{"2", "Bella", "0"}, rows[3])
}

func TestWriteWorkbook_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, nil, leaderboard.Ranking{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetStudents)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

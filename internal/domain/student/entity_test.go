package student

import (
	"math"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/score-tracker/internal/domain/shared"
)

func newStudent(t *testing.T) *Student {
	t.Helper()
	reg := NewRegistryWithClock(fixedClock)
	s, err := reg.Add(1, "Ana", "")
	require.NoError(t, err)
	return s
}

func TestStudent_DuplicateScoreRejected(t *testing.T) {
	s := newStudent(t)

	_, err := s.AddScore(PeriodFinals, "Exam", 90, "2024-01-01 10:00:00")
	require.NoError(t, err)

	_, err = s.AddScore(PeriodFinals, "Exam", 80, "2024-01-01 11:00:00")
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrDuplicateScore)
	assert.Contains(t, shared.Message(err), "Finals - Exam: 90.0")

	sc, _, ok := s.FindScore(PeriodFinals, "Exam")
	require.True(t, ok)
	assert.Equal(t, 90.0, sc.Value)
	assert.Equal(t, 1, s.ScoreCount())
}

func TestStudent_DuplicateScoreIgnoresCaseAndSpaces(t *testing.T) {
	s := newStudent(t)

	_, err := s.AddScore(PeriodPrelim, "Quiz 1", 10, "t1")
	require.NoError(t, err)

	_, err = s.AddScore("prelim", "  QUIZ 1 ", 12, "t2")
	assert.ErrorIs(t, err, shared.ErrDuplicateScore)

	// same type in another period is fine
	_, err = s.AddScore(PeriodMidterm, "quiz 1", 12, "t3")
	assert.NoError(t, err)
}

func TestStudent_AddScoreValidation(t *testing.T) {
	s := newStudent(t)

	_, err := s.AddScore(PeriodPrelim, "   ", 10, "t")
	assert.True(t, shared.IsValidation(err))

	_, err = s.AddScore(PeriodPrelim, "Quiz", -1, "t")
	assert.True(t, shared.IsValidation(err))
	assert.Equal(t, "Score cannot be negative!", shared.Message(err))

	sc, err := s.AddScore(PeriodPrelim, "  Quiz  ", 0, "t")
	require.NoError(t, err)
	assert.Equal(t, "Quiz", sc.Type)
}

func TestStudent_UpdateScore(t *testing.T) {
	s := newStudent(t)
	_, err := s.AddScore(PeriodMidterm, "Lab", 50, "old")
	require.NoError(t, err)

	updated, err := s.UpdateScore("MIDTERM", "lab", 75, "new")
	require.NoError(t, err)
	assert.Equal(t, 75.0, updated.Value)
	assert.Equal(t, "new", updated.Timestamp)
	assert.Equal(t, PeriodMidterm, updated.Period)
	assert.Equal(t, "Lab", updated.Type)

	_, err = s.UpdateScore(PeriodFinals, "Lab", 10, "x")
	assert.ErrorIs(t, err, shared.ErrScoreNotFound)

	_, err = s.UpdateScore(PeriodMidterm, "Lab", -5, "x")
	assert.True(t, shared.IsValidation(err))
}

func TestStudent_NonFiniteScoreRejected(t *testing.T) {
	s := newStudent(t)
	_, err := s.AddScore(PeriodFinals, "Exam", 90, "t")
	require.NoError(t, err)

	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		_, err = s.AddScore(PeriodPrelim, "Quiz", v, "t")
		assert.ErrorIs(t, err, shared.ErrInvalidScore)
		assert.Equal(t, "Score must be a finite number!", shared.Message(err))

		_, err = s.UpdateScore(PeriodFinals, "Exam", v, "t")
		assert.True(t, shared.IsValidation(err))
	}

	assert.Equal(t, 1, s.ScoreCount())
	sc, _, ok := s.FindScore(PeriodFinals, "Exam")
	require.True(t, ok)
	assert.Equal(t, 90.0, sc.Value)
}

func TestStudent_KeysStayUniqueUnderRandomOperations(t *testing.T) {
	faker := gofakeit.New(7)
	s := newStudent(t)
	types := []string{"Quiz", "quiz", "QUIZ ", "Exam", "exam", "Lab"}
	periods := []Period{PeriodPrelim, "prelim", PeriodMidterm, PeriodFinals, "FINALS"}

	for i := 0; i < 300; i++ {
		p := periods[faker.IntRange(0, len(periods)-1)]
		typ := types[faker.IntRange(0, len(types)-1)]
		v := faker.Float64Range(0, 100)
		if faker.Bool() {
			_, _ = s.AddScore(p, typ, v, "t")
		} else {
			_, _ = s.UpdateScore(p, typ, v, "t")
		}
	}

	seen := make(map[ScoreKey]bool)
	for _, sc := range s.Scores() {
		assert.False(t, seen[sc.Key()], "duplicate key %v", sc.Key())
		seen[sc.Key()] = true
	}
}

func TestStudent_RemoveScoreAtIsPositional(t *testing.T) {
	s := newStudent(t)
	// legacy data can carry two entries with identical labels
	s.RestoreScore(Score{Period: PeriodPrelim, Type: "Activity", Value: 5, Timestamp: "t"})
	s.RestoreScore(Score{Period: PeriodPrelim, Type: "Activity", Value: 5, Timestamp: "t"})
	s.RestoreScore(Score{Period: PeriodFinals, Type: "Exam", Value: 9, Timestamp: "t"})

	labels := s.ScoreLabels()
	assert.Equal(t, labels[0], labels[1])

	removed, err := s.RemoveScoreAt(1)
	require.NoError(t, err)
	assert.Equal(t, "Activity", removed.Type)
	assert.Equal(t, 2, s.ScoreCount())

	_, err = s.RemoveScoreAt(5)
	assert.ErrorIs(t, err, shared.ErrScoreNotFound)
	_, err = s.RemoveScoreAt(-1)
	assert.ErrorIs(t, err, shared.ErrScoreNotFound)
}

func TestStudent_RemoveMatchingRequiresExactEntry(t *testing.T) {
	s := newStudent(t)
	added, err := s.AddScore(PeriodPrelim, "Quiz", 10, "2024-01-01 10:00:00")
	require.NoError(t, err)

	// modified since it was recorded: no match, nothing removed
	_, err = s.UpdateScore(PeriodPrelim, "Quiz", 11, "2024-01-01 10:05:00")
	require.NoError(t, err)
	assert.False(t, s.RemoveMatching(added))
	assert.Equal(t, 1, s.ScoreCount())

	current, _, _ := s.FindScore(PeriodPrelim, "Quiz")
	assert.True(t, s.RemoveMatching(current))
	assert.Zero(t, s.ScoreCount())
}

func TestStudent_TotalWithFilter(t *testing.T) {
	s := newStudent(t)
	_, _ = s.AddScore(PeriodPrelim, "Quiz", 10, "t")
	_, _ = s.AddScore(PeriodMidterm, "Quiz", 20, "t")
	_, _ = s.AddScore(PeriodMidterm, "Exam", 30, "t")

	assert.Equal(t, 60.0, s.Total(Filter{}))
	assert.Equal(t, 60.0, s.Total(Filter{Period: AllFilter, Type: AllFilter}))
	assert.Equal(t, 30.0, s.Total(Filter{Type: "quiz"}))
	assert.Equal(t, 50.0, s.Total(Filter{Period: "midterm"}))
	assert.Equal(t, 20.0, s.Total(Filter{Period: "Midterm", Type: "QUIZ"}))
}

func TestStudent_SelectionHelpers(t *testing.T) {
	s := newStudent(t)
	_, _ = s.AddScore(PeriodMidterm, "Quiz", 20, "t")
	_, _ = s.AddScore(PeriodFinals, "Exam", 30, "t")
	_, _ = s.AddScore(PeriodMidterm, "Lab", 5, "t")

	assert.Equal(t, []Period{PeriodFinals, PeriodMidterm}, s.PeriodsInUse())
	assert.Equal(t, []string{"Quiz", "Lab"}, s.TypesIn(PeriodMidterm))
	assert.Equal(t, "Midterm - Quiz (20.0) @ t", s.ScoreLabels()[0])
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "75.0", FormatValue(75))
	assert.Equal(t, "82.5", FormatValue(82.5))
}

package persistence_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/score-tracker/internal/domain/activity"
	"github.com/alem-hub/score-tracker/internal/domain/shared"
	"github.com/alem-hub/score-tracker/internal/domain/student"
	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence"
	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/score-tracker/pkg/timeutil"
)

var (
	now   = time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local)
	clock = timeutil.Fixed(now)
	stamp = "2024-06-01 08:00:00"
)

type countingRecorder struct {
	failures []string
}

func (c *countingRecorder) PersistenceFailure(op, document string) {
	c.failures = append(c.failures, op+":"+document)
}

type brokenStore struct{ err error }

func (b brokenStore) Read(context.Context, string) ([]byte, error) { return nil, b.err }
func (b brokenStore) Write(context.Context, string, []byte) error  { return b.err }
func (b brokenStore) Close() error                                 { return nil }

func newAdapter(store persistence.Store, opts ...persistence.AdapterOption) *persistence.Adapter {
	return persistence.NewAdapter(store, append([]persistence.AdapterOption{persistence.WithClock(clock)}, opts...)...)
}

// snapshot flattens a registry into comparable values.
type studentView struct {
	ID     int
	Name   string
	Scores []student.Score
}

func snapshot(reg *student.Registry) []studentView {
	out := make([]studentView, 0, reg.Len())
	for _, s := range reg.List() {
		out = append(out, studentView{ID: s.ID, Name: s.Name, Scores: s.Scores()})
	}
	return out
}

func TestRegistry_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	adapter := newAdapter(store)

	reg := student.NewRegistryWithClock(clock)
	ana, err := reg.Add(1, "Ana", "2024-01-01 10:00:00")
	require.NoError(t, err)
	_, err = ana.AddScore(student.PeriodFinals, "Exam", 90, "2024-01-02 10:00:00")
	require.NoError(t, err)
	_, err = ana.AddScore(student.PeriodPrelim, "Quiz 1", 12.5, "2024-01-03 10:00:00")
	require.NoError(t, err)
	_, err = reg.Add(7, "Bella", "")
	require.NoError(t, err)

	out := adapter.SaveRegistry(ctx, reg)
	require.True(t, out.OK(), out.Err)

	loaded, out := adapter.LoadRegistry(ctx)
	require.True(t, out.OK(), out.Err)

	if diff := cmp.Diff(snapshot(reg), snapshot(loaded)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	s, ok := loaded.Find(1)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01 10:00:00", s.CreatedAt)
}

func TestDecodeRegistry_LegacyBareNumber(t *testing.T) {
	doc := `[{"Student id": 3, "name": "Cara", "timestamp": "2023-09-01 12:00:00", "scores": [75]}]`

	reg, report, err := persistence.DecodeRegistry([]byte(doc), clock)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Legacy)

	s, ok := reg.Find(3)
	require.True(t, ok)
	assert.Equal(t, []student.Score{{
		Period:    student.PeriodPrelim,
		Type:      "Activity",
		Value:     75.0,
		Timestamp: stamp,
	}}, s.Scores())
}

func TestDecodeRegistry_DefaultsMissingFields(t *testing.T) {
	doc := `[{"Student id": 1, "name": "Ana", "scores": [
		{"score": 10},
		{"period": "Midterm", "type": "Lab", "timestamp": "2024-02-02 09:00:00"},
		{"period": "Finals", "type": "Exam", "score": "high", "timestamp": "x"},
		"n/a",
		true
	]}]`

	reg, report, err := persistence.DecodeRegistry([]byte(doc), clock)
	require.NoError(t, err)

	s, ok := reg.Find(1)
	require.True(t, ok)
	assert.Equal(t, stamp, s.CreatedAt)
	assert.Equal(t, []student.Score{
		{Period: "Prelim", Type: "Activity", Value: 10, Timestamp: stamp},
		{Period: "Midterm", Type: "Lab", Value: 0, Timestamp: "2024-02-02 09:00:00"},
		{Period: "Finals", Type: "Exam", Value: 0, Timestamp: "x"},
		{Period: "Prelim", Type: "Activity", Value: 0, Timestamp: stamp},
		{Period: "Prelim", Type: "Activity", Value: 0, Timestamp: stamp},
	}, s.Scores())
	assert.Equal(t, 2, report.Legacy)
	assert.Equal(t, 5, report.Defaulted)
}

func TestDecodeRegistry_FirstOccurrenceWins(t *testing.T) {
	doc := `[
		{"Student id": 1, "name": "Ana", "scores": [{"period": "Prelim", "type": "Quiz", "score": 5, "timestamp": "t"}]},
		{"Student id": 1, "name": "Impostor", "scores": [99]},
		{"Student id": 2, "name": "Bella", "scores": []}
	]`

	reg, report, err := persistence.DecodeRegistry([]byte(doc), clock)
	require.NoError(t, err)
	assert.Len(t, report.Dropped, 1)

	require.Equal(t, 2, reg.Len())
	s, _ := reg.Find(1)
	assert.Equal(t, "Ana", s.Name)
	assert.Equal(t, 1, s.ScoreCount())
	assert.Equal(t, 5.0, s.Scores()[0].Value)
}

func TestDecodeRegistry_DropsUnusableEntries(t *testing.T) {
	doc := `[
		{"name": "no id"},
		{"Student id": "4", "name": "string id"},
		{"Student id": 2.5, "name": "fractional id"},
		{"Student id": -1, "name": "negative"},
		42,
		{"Student id": 5, "name": "   "},
		{"Student id": 6, "name": "Ok", "scores": {"not": "a list"}}
	]`

	reg, report, err := persistence.DecodeRegistry([]byte(doc), clock)
	require.NoError(t, err)
	assert.Len(t, report.Dropped, 5)

	ids := make([]int, 0)
	for _, s := range reg.List() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int{5, 6}, ids)

	unnamed, _ := reg.Find(5)
	assert.Equal(t, "Student 5", unnamed.Name)
	six, _ := reg.Find(6)
	assert.Zero(t, six.ScoreCount())
}

func TestRegistry_RoundTripLargeID(t *testing.T) {
	const id = 3000000000

	reg := student.NewRegistryWithClock(clock)
	_, err := reg.Add(id, "Ana", stamp)
	require.NoError(t, err)

	data, err := persistence.EncodeRegistry(reg)
	require.NoError(t, err)

	loaded, report, err := persistence.DecodeRegistry(data, clock)
	require.NoError(t, err)
	assert.Empty(t, report.Dropped)
	require.Equal(t, 1, loaded.Len())
	s, ok := loaded.Find(id)
	require.True(t, ok)
	assert.Equal(t, "Ana", s.Name)

	// Exponent form written by other tools.
	loaded, report, err = persistence.DecodeRegistry([]byte(`[{"Student id": 3e9, "name": "Ana"}]`), clock)
	require.NoError(t, err)
	assert.Empty(t, report.Dropped)
	_, ok = loaded.Find(id)
	assert.True(t, ok)
}

func TestLoadRegistry_FailOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("missing document is not a failure", func(t *testing.T) {
		rec := &countingRecorder{}
		reg, out := newAdapter(memory.NewStore(), persistence.WithRecorder(rec)).LoadRegistry(ctx)
		assert.True(t, out.OK())
		assert.Zero(t, reg.Len())
		assert.Empty(t, rec.failures)
	})

	t.Run("corrupt document yields empty registry", func(t *testing.T) {
		store := memory.NewStore()
		store.Seed("students.json", []byte(`{"Student id": 1`))
		rec := &countingRecorder{}

		reg, out := newAdapter(store, persistence.WithRecorder(rec)).LoadRegistry(ctx)
		assert.False(t, out.OK())
		assert.ErrorIs(t, out.Err, shared.ErrExternalService)
		assert.ErrorIs(t, out.Err, shared.ErrPersistence)
		assert.Zero(t, reg.Len())
		assert.Equal(t, []string{"load:students.json"}, rec.failures)
	})

	t.Run("io error yields empty registry", func(t *testing.T) {
		reg, out := newAdapter(brokenStore{err: errors.New("disk on fire")}).LoadRegistry(ctx)
		assert.False(t, out.OK())
		assert.Zero(t, reg.Len())
	})
}

func TestSave_FailureIsReportedNotRaised(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.FailWrites = errors.New("read-only filesystem")
	rec := &countingRecorder{}
	adapter := newAdapter(store, persistence.WithRecorder(rec))

	reg := student.NewRegistry()
	_, err := reg.Add(1, "Ana", "")
	require.NoError(t, err)

	out := adapter.SaveRegistry(ctx, reg)
	assert.False(t, out.OK())
	assert.Equal(t, persistence.OpSave, out.Op)
	assert.Equal(t, 1, reg.Len(), "in-memory state is untouched")

	out = adapter.SaveLog(ctx, activity.NewLog(5))
	assert.False(t, out.OK())
	assert.Equal(t, []string{"save:students.json", "save:attempts.json"}, rec.failures)
}

func TestLog_LoadReappliesCapacity(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	doc := "["
	for i := 1; i <= 7; i++ {
		if i > 1 {
			doc += ","
		}
		doc += fmt.Sprintf(`{"sid": %d, "name": "S%d", "period": "Prelim", "type": "Quiz %d", "score": %d, "timestamp": "t%d"}`, i, i, i, i*10, i)
	}
	doc += "]"
	store.Seed("attempts.json", []byte(doc))

	log, out := newAdapter(store).LoadLog(ctx)
	require.True(t, out.OK(), out.Err)
	require.Equal(t, 5, log.Len())

	records := log.List()
	assert.Equal(t, 3, records[0].StudentID)
	assert.Equal(t, 7, records[4].StudentID)
	assert.Equal(t, "Quiz 7", records[4].Type)
	assert.Equal(t, 70.0, records[4].Score)
}

func TestLog_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	adapter := newAdapter(store)

	log := activity.NewLog(5)
	log.Push(activity.Record{StudentID: 1, StudentName: "Ana", Period: "Finals", Type: "Exam", Score: 90, Timestamp: "t1"})
	log.Push(activity.Record{StudentID: 2, StudentName: "Bo", Period: "Prelim", Type: "Quiz", Score: 7.5, Timestamp: "t2"})

	require.True(t, adapter.SaveLog(ctx, log).OK())

	raw, err := store.Read(ctx, "attempts.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"sid": 1, "name": "Ana", "period": "Finals", "type": "Exam", "score": 90, "timestamp": "t1"},
		{"sid": 2, "name": "Bo", "period": "Prelim", "type": "Quiz", "score": 7.5, "timestamp": "t2"}
	]`, string(raw))

	loaded, out := adapter.LoadLog(ctx)
	require.True(t, out.OK())
	assert.Equal(t, log.List(), loaded.List())
}

func TestDecodeLog_SkipsUnusableRecords(t *testing.T) {
	doc := `[{"name": "no sid"}, "junk", {"sid": 4, "period": "Midterm", "type": "Lab", "score": 3, "timestamp": "t"}]`

	log, report, err := persistence.DecodeLog([]byte(doc), 5)
	require.NoError(t, err)
	assert.Len(t, report.Dropped, 2)
	require.Equal(t, 1, log.Len())
	top, _ := log.Peek()
	assert.Equal(t, 4, top.StudentID)
}

func TestStudentsDocumentShape(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	reg := student.NewRegistry()
	s, err := reg.Add(1, "Ana", "2024-01-01 10:00:00")
	require.NoError(t, err)
	_, err = s.AddScore(student.PeriodFinals, "Exam", 90, "2024-01-02 10:00:00")
	require.NoError(t, err)

	require.True(t, newAdapter(store).SaveRegistry(ctx, reg).OK())

	raw, err := store.Read(ctx, "students.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"Student id": 1,
		"name": "Ana",
		"timestamp": "2024-01-01 10:00:00",
		"scores": [{"period": "Finals", "type": "Exam", "score": 90, "timestamp": "2024-01-02 10:00:00"}]
	}]`, string(raw))
}

func TestAuthFlag(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	adapter := newAdapter(store)

	flag, out := adapter.LoadAuth(ctx)
	assert.False(t, flag)
	assert.True(t, out.OK())

	require.True(t, adapter.SaveAuth(ctx, true).OK())
	flag, _ = adapter.LoadAuth(ctx)
	assert.True(t, flag)

	store.Seed("auth.json", []byte(`{"auth": "yes"}`))
	flag, out = adapter.LoadAuth(ctx)
	assert.False(t, flag)
	assert.True(t, out.OK())

	store.Seed("auth.json", []byte(`not json`))
	flag, out = adapter.LoadAuth(ctx)
	assert.False(t, flag)
	assert.False(t, out.OK())
}

func TestCustomDocumentNames(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	docs := persistence.Documents{Students: "s.json", Attempts: "a.json", Auth: "x.json"}
	adapter := newAdapter(store, persistence.WithDocuments(docs))

	require.True(t, adapter.SaveAuth(ctx, true).OK())
	_, err := store.Read(ctx, "x.json")
	assert.NoError(t, err)
	assert.Equal(t, docs, adapter.Documents())
}

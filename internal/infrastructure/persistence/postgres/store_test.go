package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence"
)

// fakeDB emulates the documents table in memory.
type fakeDB struct {
	rows    map[string]string
	execErr error
	execs   []string
}

func newFakeDB() *fakeDB {
	return &fakeDB{rows: make(map[string]string)}
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	if strings.Contains(sql, "INSERT INTO tracker_documents") {
		f.rows[args[0].(string)] = args[1].(string)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	body, ok := f.rows[args[0].(string)]
	return fakeRow{body: body, found: ok}
}

type fakeRow struct {
	body  string
	found bool
}

func (r fakeRow) Scan(dest ...any) error {
	if !r.found {
		return pgx.ErrNoRows
	}
	*dest[0].(*string) = r.body
	return nil
}

func TestStore_ReadMissingDocument(t *testing.T) {
	s := NewStore(newFakeDB())

	_, err := s.Read(context.Background(), "students.json")
	assert.ErrorIs(t, err, persistence.ErrDocumentNotFound)
}

func TestStore_WriteThenRead(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	s := NewStore(db)

	require.NoError(t, s.Write(ctx, "auth.json", []byte(`{"auth":true}`)))
	require.NoError(t, s.Write(ctx, "auth.json", []byte(`{"auth":false}`)))

	got, err := s.Read(ctx, "auth.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"auth":false}`, string(got))
	assert.Len(t, db.rows, 1)
}

func TestStore_Migrate(t *testing.T) {
	db := newFakeDB()
	s := NewStore(db)

	require.NoError(t, s.Migrate(context.Background()))
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0], "CREATE TABLE IF NOT EXISTS tracker_documents")

	db.execErr = errors.New("permission denied")
	assert.ErrorIs(t, s.Migrate(context.Background()), ErrMigrationFailed)
}

func TestStore_WriteError(t *testing.T) {
	db := newFakeDB()
	db.execErr = errors.New("connection reset")
	s := NewStore(db)

	err := s.Write(context.Background(), "students.json", []byte(`[]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "students.json")
}

func TestStore_Close(t *testing.T) {
	released := 0
	s := newStore(newFakeDB(), func() { released++ })

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, released)

	_, err := s.Read(context.Background(), "x")
	assert.ErrorIs(t, err, ErrConnectionClosed)
	assert.ErrorIs(t, s.Write(context.Background(), "x", nil), ErrConnectionClosed)
}

func TestConfig_DSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Password = "secret"
	assert.Equal(t,
		"host=localhost port=5432 dbname=postgres user=postgres password=secret sslmode=disable connect_timeout=10",
		cfg.DSN())

	cfg.URL = "postgres://u:p@db:5432/tracker"
	assert.Equal(t, "postgres://u:p@db:5432/tracker", cfg.DSN())

	pc, err := cfg.PoolConfig()
	require.NoError(t, err)
	assert.Equal(t, int32(4), pc.MaxConns)
}

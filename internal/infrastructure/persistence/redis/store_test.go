package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence"
)

type fakeClient struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	setErr error
	closed bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (f *fakeClient) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeClient) Set(_ context.Context, key string, value interface{}, exp time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = value.([]byte)
	f.ttls[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func TestStore_KeysArePrefixed(t *testing.T) {
	client := newFakeClient()
	s := NewStore(client, "")

	require.NoError(t, s.Write(context.Background(), "students.json", []byte(`[]`)))

	assert.Contains(t, client.data, "tracker:doc:students.json")
	assert.Equal(t, time.Duration(0), client.ttls["tracker:doc:students.json"])
}

func TestStore_ReadBack(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newFakeClient(), "test:")

	_, err := s.Read(ctx, "auth.json")
	assert.ErrorIs(t, err, persistence.ErrDocumentNotFound)

	require.NoError(t, s.Write(ctx, "auth.json", []byte(`{"auth":true}`)))
	got, err := s.Read(ctx, "auth.json")
	require.NoError(t, err)
	assert.Equal(t, `{"auth":true}`, string(got))
	assert.Equal(t, "test:auth.json", s.Key("auth.json"))
}

func TestStore_WriteError(t *testing.T) {
	client := newFakeClient()
	client.setErr = errors.New("READONLY")
	s := NewStore(client, "")

	err := s.Write(context.Background(), "attempts.json", []byte(`[]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "READONLY")
}

func TestStore_Close(t *testing.T) {
	client := newFakeClient()
	require.NoError(t, NewStore(client, "").Close())
	assert.True(t, client.closed)
}

func TestConfig_Addr(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr())
	assert.Equal(t, PrefixDocument, cfg.KeyPrefix)
}

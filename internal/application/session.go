// Package application wires the domain core to persistence for one working
// session. Commands and queries in the sub-packages operate on a Session.
package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/alem-hub/score-tracker/internal/domain/activity"
	"github.com/alem-hub/score-tracker/internal/domain/student"
	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence"
	"github.com/alem-hub/score-tracker/pkg/logger"
	"github.com/alem-hub/score-tracker/pkg/timeutil"
)

// OperationRecorder counts operations by result.
type OperationRecorder interface {
	Operation(name, result string)
}

type nopRecorder struct{}

func (nopRecorder) Operation(string, string) {}

// Session holds the in-memory state of one run: the registry, the activity
// log and the adapter that persists them. It is not safe for concurrent use.
type Session struct {
	ID       string
	Registry *student.Registry
	Log      *activity.Log

	adapter  *persistence.Adapter
	clock    timeutil.Clock
	logger   *logger.Logger
	recorder OperationRecorder
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock sets the clock used for new timestamps.
func WithClock(clock timeutil.Clock) SessionOption {
	return func(s *Session) { s.clock = clock }
}

// WithLogger sets the session logger.
func WithLogger(log *logger.Logger) SessionOption {
	return func(s *Session) { s.logger = log }
}

// WithRecorder sets the operation recorder.
func WithRecorder(r OperationRecorder) SessionOption {
	return func(s *Session) { s.recorder = r }
}

// Open loads the registry and the activity log through adapter. Failed loads
// leave empty state behind and are reported in the returned outcomes.
func Open(ctx context.Context, adapter *persistence.Adapter, opts ...SessionOption) (*Session, []persistence.Outcome) {
	s := &Session{
		ID:       uuid.NewString(),
		adapter:  adapter,
		clock:    timeutil.System,
		logger:   logger.Nop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithSessionID(s.ID)

	reg, regOut := adapter.LoadRegistry(ctx)
	log, logOut := adapter.LoadLog(ctx)
	s.Registry = reg
	s.Log = log

	s.logger.Debug("session opened",
		logger.Int("students", reg.Len()),
		logger.Int("attempts", log.Len()),
	)
	return s, []persistence.Outcome{regOut, logOut}
}

// Adapter returns the persistence adapter.
func (s *Session) Adapter() *persistence.Adapter {
	return s.adapter
}

// Logger returns the session logger.
func (s *Session) Logger() *logger.Logger {
	return s.logger
}

// Now returns the current timestamp string.
func (s *Session) Now() string {
	return timeutil.Stamp(s.clock)
}

// SaveStudents persists the registry.
func (s *Session) SaveStudents(ctx context.Context) persistence.Outcome {
	return s.adapter.SaveRegistry(ctx, s.Registry)
}

// SaveAttempts persists the activity log.
func (s *Session) SaveAttempts(ctx context.Context) persistence.Outcome {
	return s.adapter.SaveLog(ctx, s.Log)
}

// Operation results passed to the recorder.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
)

// Finish records the result of operation and returns err unchanged.
func (s *Session) Finish(operation string, err error) error {
	if err != nil {
		s.recorder.Operation(operation, ResultRejected)
		s.logger.Info("operation rejected", logger.Operation(operation), logger.Err(err))
		return err
	}
	s.recorder.Operation(operation, ResultOK)
	return nil
}

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/alem-hub/score-tracker/internal/domain/activity"
	"github.com/alem-hub/score-tracker/internal/domain/shared"
	"github.com/alem-hub/score-tracker/internal/domain/student"
	"github.com/alem-hub/score-tracker/pkg/logger"
	"github.com/alem-hub/score-tracker/pkg/timeutil"
)

// Operation names used in outcomes, logs and metrics.
const (
	OpLoad = "load"
	OpSave = "save"
)

// Outcome is the result of one load or save. Persistence is best-effort:
// a failed load still hands back an empty state and a failed save leaves the
// in-memory state untouched, so callers only log or count a failed Outcome.
type Outcome struct {
	Op       string
	Document string
	Err      error
	Report   DecodeReport
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// FailureRecorder counts persistence failures.
type FailureRecorder interface {
	PersistenceFailure(op, document string)
}

type nopRecorder struct{}

func (nopRecorder) PersistenceFailure(string, string) {}

// Adapter maps the registry, the activity log and the auth flag onto the
// documents of a Store.
type Adapter struct {
	store       Store
	docs        Documents
	clock       timeutil.Clock
	logCapacity int
	log         *logger.Logger
	recorder    FailureRecorder
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithDocuments overrides the document names.
func WithDocuments(docs Documents) AdapterOption {
	return func(a *Adapter) { a.docs = docs }
}

// WithClock sets the clock used for defaulted timestamps.
func WithClock(clock timeutil.Clock) AdapterOption {
	return func(a *Adapter) { a.clock = clock }
}

// WithLogCapacity sets the capacity of loaded activity logs.
func WithLogCapacity(capacity int) AdapterOption {
	return func(a *Adapter) { a.logCapacity = capacity }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) AdapterOption {
	return func(a *Adapter) { a.log = log }
}

// WithRecorder sets the failure recorder.
func WithRecorder(r FailureRecorder) AdapterOption {
	return func(a *Adapter) { a.recorder = r }
}

// NewAdapter creates an Adapter over store.
func NewAdapter(store Store, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		store:       store,
		docs:        DefaultDocuments(),
		clock:       timeutil.System,
		logCapacity: activity.DefaultCapacity,
		log:         logger.Nop(),
		recorder:    nopRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With(logger.Component("persistence"))
	return a
}

// Documents returns the document names in use.
func (a *Adapter) Documents() Documents {
	return a.docs
}

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRY
// ══════════════════════════════════════════════════════════════════════════════

// LoadRegistry reads the students document. A missing document yields an
// empty registry without error; any other failure yields an empty registry
// and a failed Outcome.
func (a *Adapter) LoadRegistry(ctx context.Context) (*student.Registry, Outcome) {
	out := Outcome{Op: OpLoad, Document: a.docs.Students}

	data, err := a.read(ctx, a.docs.Students)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return student.NewRegistryWithClock(a.clock), out
		}
		return student.NewRegistryWithClock(a.clock), a.fail(out, err)
	}

	reg, report, err := DecodeRegistry(data, a.clock)
	out.Report = report
	if err != nil {
		return reg, a.fail(out, err)
	}
	a.logReport(out)
	return reg, out
}

// SaveRegistry overwrites the students document.
func (a *Adapter) SaveRegistry(ctx context.Context, reg *student.Registry) Outcome {
	out := Outcome{Op: OpSave, Document: a.docs.Students}
	data, err := EncodeRegistry(reg)
	if err != nil {
		return a.fail(out, err)
	}
	if err := a.write(ctx, a.docs.Students, data); err != nil {
		return a.fail(out, err)
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVITY LOG
// ══════════════════════════════════════════════════════════════════════════════

// LoadLog reads the attempts document, re-applying the log capacity.
func (a *Adapter) LoadLog(ctx context.Context) (*activity.Log, Outcome) {
	out := Outcome{Op: OpLoad, Document: a.docs.Attempts}

	data, err := a.read(ctx, a.docs.Attempts)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return activity.NewLog(a.logCapacity), out
		}
		return activity.NewLog(a.logCapacity), a.fail(out, err)
	}

	log, report, err := DecodeLog(data, a.logCapacity)
	out.Report = report
	if err != nil {
		return log, a.fail(out, err)
	}
	a.logReport(out)
	return log, out
}

// SaveLog overwrites the attempts document.
func (a *Adapter) SaveLog(ctx context.Context, log *activity.Log) Outcome {
	out := Outcome{Op: OpSave, Document: a.docs.Attempts}
	data, err := EncodeLog(log)
	if err != nil {
		return a.fail(out, err)
	}
	if err := a.write(ctx, a.docs.Attempts, data); err != nil {
		return a.fail(out, err)
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH FLAG
// ══════════════════════════════════════════════════════════════════════════════

// LoadAuth reads the auth flag. Anything but a readable true is false.
func (a *Adapter) LoadAuth(ctx context.Context) (bool, Outcome) {
	out := Outcome{Op: OpLoad, Document: a.docs.Auth}

	data, err := a.read(ctx, a.docs.Auth)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return false, out
		}
		return false, a.fail(out, err)
	}

	flag, err := DecodeAuth(data)
	if err != nil {
		return false, a.fail(out, err)
	}
	return flag, out
}

// SaveAuth overwrites the auth flag document.
func (a *Adapter) SaveAuth(ctx context.Context, authenticated bool) Outcome {
	out := Outcome{Op: OpSave, Document: a.docs.Auth}
	data, err := EncodeAuth(authenticated)
	if err != nil {
		return a.fail(out, err)
	}
	if err := a.write(ctx, a.docs.Auth, data); err != nil {
		return a.fail(out, err)
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// INTERNALS
// ══════════════════════════════════════════════════════════════════════════════

func (a *Adapter) read(ctx context.Context, name string) ([]byte, error) {
	start := time.Now()
	data, err := a.store.Read(ctx, name)
	a.log.Debug("document read",
		logger.Document(name),
		logger.Int("bytes", len(data)),
		logger.Latency(time.Since(start)),
	)
	return data, err
}

func (a *Adapter) write(ctx context.Context, name string, data []byte) error {
	start := time.Now()
	err := a.store.Write(ctx, name, data)
	a.log.Debug("document written",
		logger.Document(name),
		logger.Int("bytes", len(data)),
		logger.Latency(time.Since(start)),
	)
	return err
}

func (a *Adapter) fail(out Outcome, err error) Outcome {
	wrapped := shared.ErrPersistence.WithMessage("%s %s failed", out.Op, out.Document)
	wrapped.Err = err
	out.Err = wrapped
	a.recorder.PersistenceFailure(out.Op, out.Document)
	a.log.Warn("persistence failed, continuing with in-memory state",
		logger.Operation(out.Op),
		logger.Document(out.Document),
		logger.Err(err),
	)
	return out
}

func (a *Adapter) logReport(out Outcome) {
	r := out.Report
	if len(r.Dropped) == 0 && r.Defaulted == 0 && r.Legacy == 0 {
		return
	}
	a.log.Info("document normalized on load",
		logger.Document(out.Document),
		logger.Int("dropped", len(r.Dropped)),
		logger.Int("defaulted", r.Defaulted),
		logger.Int("legacy_scores", r.Legacy),
		logger.Any("drop_reasons", r.Dropped),
	)
}

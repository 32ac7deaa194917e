package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alem-hub/score-tracker/internal/domain/activity"
	"github.com/alem-hub/score-tracker/internal/domain/student"
	"github.com/alem-hub/score-tracker/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// WIRE FORMAT
// ══════════════════════════════════════════════════════════════════════════════

type studentDoc struct {
	ID        int        `json:"Student id"`
	Name      string     `json:"name"`
	Timestamp string     `json:"timestamp"`
	Scores    []scoreDoc `json:"scores"`
}

type scoreDoc struct {
	Period    string  `json:"period"`
	Type      string  `json:"type"`
	Score     float64 `json:"score"`
	Timestamp string  `json:"timestamp"`
}

type attemptDoc struct {
	StudentID int     `json:"sid"`
	Name      string  `json:"name"`
	Period    string  `json:"period"`
	Type      string  `json:"type"`
	Score     float64 `json:"score"`
	Timestamp string  `json:"timestamp"`
}

type authDoc struct {
	Auth bool `json:"auth"`
}

// ══════════════════════════════════════════════════════════════════════════════
// ENCODING
// ══════════════════════════════════════════════════════════════════════════════

// EncodeRegistry renders the students document in registry order.
func EncodeRegistry(reg *student.Registry) ([]byte, error) {
	students := reg.List()
	docs := make([]studentDoc, 0, len(students))
	for _, s := range students {
		scores := s.Scores()
		sd := studentDoc{
			ID:        s.ID,
			Name:      s.Name,
			Timestamp: s.CreatedAt,
			Scores:    make([]scoreDoc, 0, len(scores)),
		}
		for _, sc := range scores {
			sd.Scores = append(sd.Scores, scoreDoc{
				Period:    string(sc.Period),
				Type:      sc.Type,
				Score:     sc.Value,
				Timestamp: sc.Timestamp,
			})
		}
		docs = append(docs, sd)
	}
	return json.Marshal(docs)
}

// EncodeLog renders the attempts document oldest first.
func EncodeLog(log *activity.Log) ([]byte, error) {
	records := log.List()
	docs := make([]attemptDoc, 0, len(records))
	for _, r := range records {
		docs = append(docs, attemptDoc{
			StudentID: r.StudentID,
			Name:      r.StudentName,
			Period:    string(r.Period),
			Type:      r.Type,
			Score:     r.Score,
			Timestamp: r.Timestamp,
		})
	}
	return json.Marshal(docs)
}

// EncodeAuth renders the auth flag document.
func EncodeAuth(authenticated bool) ([]byte, error) {
	return json.Marshal(authDoc{Auth: authenticated})
}

// ══════════════════════════════════════════════════════════════════════════════
// TOLERANT DECODING
// ══════════════════════════════════════════════════════════════════════════════

// DecodeReport tells what a tolerant decode had to fix or drop.
type DecodeReport struct {
	Dropped   []string // one reason per dropped entry
	Defaulted int      // fields filled with a default value
	Legacy    int      // bare-number scores converted
}

func (r *DecodeReport) drop(format string, args ...any) {
	r.Dropped = append(r.Dropped, fmt.Sprintf(format, args...))
}

// DecodeRegistry rebuilds a registry from a students document.
//
// Entries are replayed through Registry.Add in document order, so a repeated
// id keeps its first occurrence. Missing score fields are defaulted and a bare
// number is read as a legacy Prelim/Activity score. An error is returned only
// when the document as a whole is not a JSON array.
func DecodeRegistry(data []byte, clock timeutil.Clock) (*student.Registry, DecodeReport, error) {
	reg := student.NewRegistryWithClock(clock)
	var report DecodeReport

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return student.NewRegistryWithClock(clock), report, fmt.Errorf("students document: %w", err)
	}

	for i, entry := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
			report.drop("entry %d: not an object", i)
			continue
		}

		id, ok := intField(fields, "Student id")
		if !ok {
			report.drop("entry %d: missing or non-integer \"Student id\"", i)
			continue
		}

		name, _ := stringField(fields, "name")
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Student %d", id)
			report.Defaulted++
		}
		timestamp, _ := stringField(fields, "timestamp")

		s, err := reg.Add(id, name, timestamp)
		if err != nil {
			report.drop("entry %d: id %d: %v", i, id, err)
			continue
		}

		var scores []json.RawMessage
		if rawScores, ok := fields["scores"]; ok {
			if err := json.Unmarshal(rawScores, &scores); err != nil {
				report.Defaulted++
				scores = nil
			}
		}
		for _, rawScore := range scores {
			s.RestoreScore(decodeScore(rawScore, clock, &report))
		}
	}

	return reg, report, nil
}

func decodeScore(raw json.RawMessage, clock timeutil.Clock, report *DecodeReport) student.Score {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		// Legacy form: the score itself, or garbage counted as zero.
		value, _ := numberValue(raw)
		report.Legacy++
		return student.Score{
			Period:    student.DefaultPeriod,
			Type:      student.DefaultType,
			Value:     value,
			Timestamp: timeutil.Stamp(clock),
		}
	}

	sc := student.Score{
		Period:    student.DefaultPeriod,
		Type:      student.DefaultType,
		Timestamp: timeutil.Stamp(clock),
	}
	if v, ok := stringField(fields, "period"); ok {
		sc.Period = student.Period(v)
	} else {
		report.Defaulted++
	}
	if v, ok := stringField(fields, "type"); ok {
		sc.Type = v
	} else {
		report.Defaulted++
	}
	if v, ok := fields["score"]; ok {
		if n, ok := numberValue(v); ok {
			sc.Value = n
		} else {
			report.Defaulted++
		}
	} else {
		report.Defaulted++
	}
	if v, ok := stringField(fields, "timestamp"); ok {
		sc.Timestamp = v
	} else {
		report.Defaulted++
	}
	return sc
}

// DecodeLog rebuilds the activity log by pushing every record in order, so
// only the newest capacity records survive.
func DecodeLog(data []byte, capacity int) (*activity.Log, DecodeReport, error) {
	log := activity.NewLog(capacity)
	var report DecodeReport

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return activity.NewLog(capacity), report, fmt.Errorf("attempts document: %w", err)
	}

	for i, entry := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
			report.drop("attempt %d: not an object", i)
			continue
		}
		sid, ok := intField(fields, "sid")
		if !ok {
			report.drop("attempt %d: missing or non-integer \"sid\"", i)
			continue
		}

		r := activity.Record{StudentID: sid}
		r.StudentName, _ = stringField(fields, "name")
		period, _ := stringField(fields, "period")
		r.Period = student.Period(period)
		r.Type, _ = stringField(fields, "type")
		if v, ok := fields["score"]; ok {
			r.Score, _ = numberValue(v)
		}
		r.Timestamp, _ = stringField(fields, "timestamp")

		log.Push(r)
	}

	return log, report, nil
}

// DecodeAuth reads the auth flag; only a JSON true counts as authenticated.
func DecodeAuth(data []byte) (bool, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return false, fmt.Errorf("auth document: %w", err)
	}
	var flag bool
	if raw, ok := doc["auth"]; ok {
		if err := json.Unmarshal(raw, &flag); err != nil {
			return false, nil
		}
	}
	return flag, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// FIELD HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func intField(fields map[string]json.RawMessage, key string) (int, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}
	trimmed := bytes.TrimSpace(raw)
	if n, err := strconv.ParseInt(string(trimmed), 10, 0); err == nil {
		return int(n), true
	}
	// Integral values written in float form, e.g. 7.0 or 3e9.
	f, ok := numberValue(trimmed)
	if !ok || f != math.Trunc(f) || f >= math.MaxInt || f < math.MinInt {
		return 0, false
	}
	return int(f), true
}

// numberValue accepts JSON numbers only; strings, booleans and null are not
// numeric and yield 0.
func numberValue(raw json.RawMessage) (float64, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, false
	}
	switch trimmed[0] {
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
	default:
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return 0, false
	}
	return n, true
}

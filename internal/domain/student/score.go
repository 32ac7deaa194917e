package student

import (
	"fmt"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Period is a grading term bucket. The three standard periods are offered for
// new scores, but documents may carry any free-text period.
type Period string

const (
	PeriodPrelim  Period = "Prelim"
	PeriodMidterm Period = "Midterm"
	PeriodFinals  Period = "Finals"
)

// Periods lists the standard grading periods in term order.
func Periods() []Period {
	return []Period{PeriodPrelim, PeriodMidterm, PeriodFinals}
}

// IsStandard reports whether p is one of Prelim, Midterm or Finals.
func (p Period) IsStandard() bool {
	switch p {
	case PeriodPrelim, PeriodMidterm, PeriodFinals:
		return true
	default:
		return false
	}
}

// String returns the period label.
func (p Period) String() string {
	return string(p)
}

// Defaults applied when a persisted score lacks a field.
const (
	DefaultPeriod = PeriodPrelim
	DefaultType   = "Activity"
)

// Score is a single graded entry of a student.
type Score struct {
	Period    Period
	Type      string
	Value     float64
	Timestamp string
}

// Key returns the normalized (period, type) pair that must be unique within
// a student's scores.
func (s Score) Key() ScoreKey {
	return NewScoreKey(s.Period, s.Type)
}

// Label renders the score the way selection lists show it.
func (s Score) Label() string {
	return fmt.Sprintf("%s - %s (%s) @ %s", s.Period, s.Type, FormatValue(s.Value), s.Timestamp)
}

// Summary renders "<period> - <type>: <score>".
func (s Score) Summary() string {
	return fmt.Sprintf("%s - %s: %s", s.Period, s.Type, FormatValue(s.Value))
}

// sameEntry reports exact equality on every field. Used by undo, which must
// only remove the entry that was recorded, not one that merely shares a key.
func (s Score) sameEntry(o Score) bool {
	return s.Period == o.Period &&
		s.Type == o.Type &&
		s.Value == o.Value &&
		s.Timestamp == o.Timestamp
}

// ScoreKey is the case-insensitive identity of a score within one student.
type ScoreKey struct {
	Period string
	Type   string
}

// NewScoreKey trims and lower-cases both parts.
func NewScoreKey(period Period, typ string) ScoreKey {
	return ScoreKey{
		Period: normalize(string(period)),
		Type:   normalize(typ),
	}
}

// FormatValue prints whole scores with one decimal ("90.0") and fractional
// scores in their shortest form.
func FormatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%g", v)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// EqualFold compares two labels the way score keys do.
func EqualFold(a, b string) bool {
	return normalize(a) == normalize(b)
}

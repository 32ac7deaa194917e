package activity

// DefaultCapacity is how many recent additions the log keeps.
const DefaultCapacity = 5

// Log is a bounded history of score additions. Pushing past capacity evicts
// the oldest record; Pop returns the newest. Not safe for concurrent use.
type Log struct {
	records  []Record
	capacity int
}

// NewLog returns an empty log. A capacity below 1 falls back to
// DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Log{
		records:  make([]Record, 0, capacity),
		capacity: capacity,
	}
}

// Push appends r, evicting from the head while the log is over capacity.
func (l *Log) Push(r Record) {
	l.records = append(l.records, r)
	if over := len(l.records) - l.capacity; over > 0 {
		l.records = append(l.records[:0], l.records[over:]...)
	}
}

// Pop removes and returns the most recently pushed record.
func (l *Log) Pop() (Record, bool) {
	if len(l.records) == 0 {
		return Record{}, false
	}
	last := l.records[len(l.records)-1]
	l.records = l.records[:len(l.records)-1]
	return last, true
}

// Peek returns the most recently pushed record without removing it.
func (l *Log) Peek() (Record, bool) {
	if len(l.records) == 0 {
		return Record{}, false
	}
	return l.records[len(l.records)-1], true
}

// List returns the records oldest first; the last element is always the
// last push.
func (l *Log) List() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records held.
func (l *Log) Len() int {
	return len(l.records)
}

// Capacity returns the maximum number of records held.
func (l *Log) Capacity() int {
	return l.capacity
}

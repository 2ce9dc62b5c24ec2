package ledger

import (
	"encoding/binary"
	"math"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// DefaultMemoSize is the number of results a Memo keeps when created with a
// non-positive size.
const DefaultMemoSize = 256

// Result is a report together with its settlement plan.
type Result struct {
	Report      Report
	Settlements []Settlement
}

// Memo caches Compute + Plan results keyed by a content hash of the inputs.
// It never changes what callers observe; it only skips recomputation.
// Results are shared between callers and must be treated as read-only.
// Safe for concurrent use.
type Memo struct {
	mu      sync.Mutex
	size    int
	entries map[uint64]Result
	order   []uint64 // insertion order, oldest first

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewMemo creates a Memo holding at most size results.
func NewMemo(size int) *Memo {
	if size <= 0 {
		size = DefaultMemoSize
	}
	return &Memo{
		size:    size,
		entries: make(map[uint64]Result, size),
	}
}

// Settle returns the report and settlement plan for the given inputs.
func (m *Memo) Settle(participants []Participant, expenses []Expense) Result {
	key := Fingerprint(participants, expenses)

	m.mu.Lock()
	if res, ok := m.entries[key]; ok {
		m.mu.Unlock()
		m.hits.Add(1)
		return res
	}
	m.mu.Unlock()
	m.misses.Add(1)

	report := Compute(participants, expenses)
	res := Result{Report: report, Settlements: Plan(report.Stats)}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		if len(m.order) >= m.size {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.entries, oldest)
		}
		m.entries[key] = res
		m.order = append(m.order, key)
	}
	return res
}

// Hits returns how many calls were served from the cache.
func (m *Memo) Hits() uint64 { return m.hits.Load() }

// Misses returns how many calls had to compute.
func (m *Memo) Misses() uint64 { return m.misses.Load() }

// Len returns the number of cached results.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Fingerprint hashes everything Compute reads from its inputs. Custom splits
// are visited in id order so map iteration order does not leak into the key.
func Fingerprint(participants []Participant, expenses []Expense) uint64 {
	d := xxhash.New()
	var buf [8]byte

	putInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = d.Write(buf[:])
	}
	putFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
	putString := func(s string) {
		putInt(int64(len(s)))
		_, _ = d.WriteString(s)
	}

	putInt(int64(len(participants)))
	for _, p := range participants {
		putInt(int64(p.ID))
		putString(p.Name)
	}

	putInt(int64(len(expenses)))
	for _, e := range expenses {
		putInt(e.ID)
		putInt(int64(e.PayerID))
		putFloat(e.Amount)
		putString(string(e.SplitMode))

		putInt(int64(len(e.InvolvedIDs)))
		for _, id := range e.InvolvedIDs {
			putInt(int64(id))
		}

		ids := make([]ParticipantID, 0, len(e.CustomSplits))
		for id := range e.CustomSplits {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		putInt(int64(len(ids)))
		for _, id := range ids {
			putInt(int64(id))
			putFloat(e.CustomSplits[id])
		}
	}

	return d.Sum64()
}

package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemo_Settle(t *testing.T) {
	memo := NewMemo(2)
	expenses := []Expense{{ID: 1, PayerID: 1, Amount: 300, SplitMode: SplitEqual}}

	first := memo.Settle(abc, expenses)
	second := memo.Settle(abc, expenses)

	assert.Equal(t, first, second)
	assert.Equal(t, Compute(abc, expenses), first.Report)
	assert.Equal(t, Plan(first.Report.Stats), first.Settlements)
	assert.EqualValues(t, 1, memo.Hits())
	assert.EqualValues(t, 1, memo.Misses())
}

func TestMemo_EvictsOldest(t *testing.T) {
	memo := NewMemo(2)
	for i := 1; i <= 3; i++ {
		memo.Settle(abc, []Expense{{ID: int64(i), PayerID: 1, Amount: float64(i), SplitMode: SplitEqual}})
	}
	require.Equal(t, 2, memo.Len())

	// The first input was evicted, so asking again is a miss.
	memo.Settle(abc, []Expense{{ID: 1, PayerID: 1, Amount: 1, SplitMode: SplitEqual}})
	assert.EqualValues(t, 4, memo.Misses())
	assert.EqualValues(t, 0, memo.Hits())
}

func TestMemo_Concurrent(t *testing.T) {
	memo := NewMemo(0)
	expenses := []Expense{{ID: 1, PayerID: 2, Amount: 90, SplitMode: SplitEqual}}
	want := PlanReport(Compute(abc, expenses))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, memo.Settle(abc, expenses).Settlements)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 16, memo.Hits()+memo.Misses())
}

func TestFingerprint(t *testing.T) {
	base := []Expense{{
		ID: 1, PayerID: 1, Amount: 100, SplitMode: SplitExact,
		CustomSplits: map[ParticipantID]float64{1: 40, 2: 60},
	}}
	same := []Expense{{
		ID: 1, PayerID: 1, Amount: 100, SplitMode: SplitExact,
		CustomSplits: map[ParticipantID]float64{2: 60, 1: 40},
	}}
	changed := []Expense{{
		ID: 1, PayerID: 1, Amount: 100, SplitMode: SplitExact,
		CustomSplits: map[ParticipantID]float64{1: 50, 2: 50},
	}}

	assert.Equal(t, Fingerprint(abc, base), Fingerprint(abc, same))
	assert.NotEqual(t, Fingerprint(abc, base), Fingerprint(abc, changed))

	renamed := []Participant{{ID: 1, Name: "Alicia"}, abc[1], abc[2]}
	assert.NotEqual(t, Fingerprint(abc, base), Fingerprint(renamed, base))
}

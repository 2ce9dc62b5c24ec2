package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/pkg/money"
)

func TestWriteReport(t *testing.T) {
	sessions := []*models.Session{
		{
			Name: "Hotel",
			Participants: []ledger.Participant{
				{ID: 1, Name: "Alice"},
				{ID: 2, Name: "Bob"},
				{ID: 3, Name: "Charlie"},
			},
			Expenses: []ledger.Expense{
				{ID: 1, Title: "Room", PayerID: 1, Amount: 3000, SplitMode: ledger.SplitEqual},
			},
			PaidSettlements: []string{"Bob->Alice->1000.00"},
		},
		{
			Name:         "Empty",
			Participants: []ledger.Participant{{ID: 1, Name: "Alice"}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, "Kanchanaburi", sessions, money.MustFormatter("THB"), 1))
	out := buf.String()

	assert.Contains(t, out, "Kanchanaburi")
	assert.Contains(t, out, "== Hotel (1 expenses, total THB 3,000.00)")
	assert.Contains(t, out, "Bob -> Alice: THB 1,000.00 (paid)")
	assert.Contains(t, out, "Charlie -> Alice: THB 1,000.00\n")
	assert.Contains(t, out, "Everyone is settled.")
	assert.Contains(t, out, "== Trip total THB 3,000.00")
	assert.Contains(t, out, "1. Alice THB 1,000.00")
	assert.NotContains(t, out, "2. ")
}

package models

import "github.com/mmynk/tripsplit/internal/ledger"

// Session is one round of expense splitting inside a trip.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string

	// Name is the display name (e.g., "Breakfast", "Hotel").
	// Auto-generated as "Split #n" when left empty.
	Name string

	// CreatedAt is the Unix timestamp in milliseconds when the session was created.
	CreatedAt int64

	// Participants are the people sharing this session's expenses, in the
	// order they were added.
	Participants []ledger.Participant

	// Expenses are the recorded costs, in the order they were submitted.
	Expenses []ledger.Expense

	// PaidSettlements holds the keys of suggested transfers that have been
	// marked as paid. See session.SettlementKey.
	PaidSettlements []string
}

// Input returns the session's data in the form the ledger consumes.
func (s *Session) Input() ledger.SessionInput {
	return ledger.SessionInput{
		Participants: s.Participants,
		Expenses:     s.Expenses,
	}
}

// Participant returns the participant with the given id.
func (s *Session) Participant(id ledger.ParticipantID) (ledger.Participant, bool) {
	for _, p := range s.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return ledger.Participant{}, false
}

// Package ledger turns a session's participants and expenses into
// per-person balances and a list of transfers that settles them.
//
// Everything here is a pure function of its arguments: no I/O, no shared
// state, inputs are never modified. Callers recompute on every change.
package ledger

// ParticipantID identifies a participant within one session.
type ParticipantID int64

// NoParticipant is never assigned to a participant. Expense references
// that cannot be resolved at the import boundary map to it, so the
// allocator skips them like any other unknown id.
const NoParticipant ParticipantID = 0

// SplitMode selects how an expense is divided.
type SplitMode string

const (
	// SplitEqual divides the amount evenly among InvolvedIDs
	// (or among everyone when InvolvedIDs is empty).
	SplitEqual SplitMode = "equal"
	// SplitExact assigns the explicit amounts in CustomSplits.
	SplitExact SplitMode = "exact"
)

// Valid reports whether m is a known split mode.
func (m SplitMode) Valid() bool {
	return m == SplitEqual || m == SplitExact
}

// Participant is a person sharing expenses in a session.
type Participant struct {
	ID   ParticipantID `json:"id"`
	Name string        `json:"name"`
}

// Expense is one recorded cost with a payer and a split method.
type Expense struct {
	// ID is the creation timestamp in unix milliseconds, unique per session.
	ID int64 `json:"id"`

	Title string `json:"title"`

	// PayerID is the participant who paid the full Amount.
	PayerID ParticipantID `json:"payerId"`

	// Amount is the non-negative total of the expense.
	Amount float64 `json:"amount"`

	SplitMode SplitMode `json:"splitMode"`

	// InvolvedIDs is only read when SplitMode is SplitEqual.
	InvolvedIDs []ParticipantID `json:"involvedIds"`

	// CustomSplits is only read when SplitMode is SplitExact.
	CustomSplits map[ParticipantID]float64 `json:"customSplits"`
}

// PersonStat is one participant's derived balance.
type PersonStat struct {
	ID    ParticipantID `json:"id"`
	Name  string        `json:"name"`
	Paid  float64       `json:"paid"`  // Sum of amounts this person paid
	Share float64       `json:"share"` // Sum of this person's portions
	Net   float64       `json:"net"`   // Paid - Share; positive = owed money
}

// Report is the allocator's output.
type Report struct {
	Stats     map[ParticipantID]PersonStat `json:"stats"`
	TotalCost float64                      `json:"totalCost"`
}

// Settlement is a suggested payment from a debtor to a creditor.
type Settlement struct {
	From   string        `json:"from"`
	To     string        `json:"to"`
	FromID ParticipantID `json:"fromId"`
	ToID   ParticipantID `json:"toId"`
	Amount float64       `json:"amount"`
}

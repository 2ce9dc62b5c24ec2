// Package session implements the bookkeeping around one splitting session:
// adding and removing participants, turning expense drafts into ledger
// expenses, and remembering which suggested transfers were paid.
//
// All operations edit a *models.Session in place; persisting it is the
// caller's job.
package session

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/pkg/money"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrParticipantInUse    = errors.New("participant is referenced by an expense")
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrDuplicateName       = errors.New("another participant already has this name")
)

// Editor applies edits to sessions. The zero value is not usable; create
// one with NewEditor.
type Editor struct {
	money *money.Formatter
	now   func() time.Time
}

// Option configures an Editor.
type Option func(*Editor)

// WithClock replaces time.Now, which is used to assign expense ids.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// NewEditor creates an Editor that formats amounts in error messages with f.
func NewEditor(f *money.Formatter, opts ...Option) *Editor {
	e := &Editor{money: f, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultSessionName is the name given to the n-th session of a trip when
// none is provided.
func DefaultSessionName(n int) string {
	return fmt.Sprintf("Split #%d", n)
}

// AddParticipant appends a participant with the next free id and a
// placeholder name no one else in the session uses.
func (e *Editor) AddParticipant(s *models.Session) ledger.Participant {
	var next ledger.ParticipantID = 1
	for _, p := range s.Participants {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	name := fmt.Sprintf("Friend #%d", next)
	for n := next + 1; nameTaken(s, name, next); n++ {
		name = fmt.Sprintf("Friend #%d", n)
	}
	p := ledger.Participant{ID: next, Name: name}
	s.Participants = append(s.Participants, p)
	return p
}

// RenameParticipant changes a participant's name in place. Names are unique
// within a session since settlements and their keys refer to people by name.
func (e *Editor) RenameParticipant(s *models.Session, id ledger.ParticipantID, name string) error {
	idx := slices.IndexFunc(s.Participants, func(p ledger.Participant) bool { return p.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrParticipantNotFound, id)
	}
	if nameTaken(s, name, id) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, strings.TrimSpace(name))
	}
	s.Participants[idx].Name = name
	return nil
}

// nameTaken reports whether a participant other than self is called name.
// Blank names never collide.
func nameTaken(s *models.Session, name string, self ledger.ParticipantID) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	return slices.ContainsFunc(s.Participants, func(p ledger.Participant) bool {
		return p.ID != self && strings.TrimSpace(p.Name) == name
	})
}

// DuplicateName returns the first name shared by two participants, if any.
func DuplicateName(participants []ledger.Participant) (string, bool) {
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			return name, true
		}
		seen[name] = struct{}{}
	}
	return "", false
}

// RemoveParticipant deletes a participant that no expense refers to.
func (e *Editor) RemoveParticipant(s *models.Session, id ledger.ParticipantID) error {
	idx := slices.IndexFunc(s.Participants, func(p ledger.Participant) bool { return p.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrParticipantNotFound, id)
	}
	if InUse(s, id) {
		return fmt.Errorf("%w: %d", ErrParticipantInUse, id)
	}
	s.Participants = slices.Delete(s.Participants, idx, idx+1)
	return nil
}

// InUse reports whether any expense pays from, involves, or assigns a
// positive custom split to the participant.
func InUse(s *models.Session, id ledger.ParticipantID) bool {
	for _, e := range s.Expenses {
		if e.PayerID == id {
			return true
		}
		if slices.Contains(e.InvolvedIDs, id) {
			return true
		}
		if e.CustomSplits[id] > 0 {
			return true
		}
	}
	return false
}

// RemoveExpense deletes an expense by id.
func (e *Editor) RemoveExpense(s *models.Session, id int64) error {
	idx := slices.IndexFunc(s.Expenses, func(x ledger.Expense) bool { return x.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrExpenseNotFound, id)
	}
	s.Expenses = slices.Delete(s.Expenses, idx, idx+1)
	return nil
}

// Expense returns the expense with the given id.
func Expense(s *models.Session, id int64) (ledger.Expense, bool) {
	for _, x := range s.Expenses {
		if x.ID == id {
			return x, true
		}
	}
	return ledger.Expense{}, false
}

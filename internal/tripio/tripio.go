// Package tripio reads and writes the trip export file.
//
// The file format predates the single participant-id type: payer ids are
// strings and custom split keys are object keys. Both are converted to
// ledger.ParticipantID here and nowhere else.
package tripio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/session"
	"github.com/mmynk/tripsplit/internal/validation"
)

// Version is the only document version this package reads and writes.
const Version = 1

// ErrInvalidDocument wraps every import failure.
var ErrInvalidDocument = errors.New("invalid trip file")

// Document is the top-level export object.
type Document struct {
	Version    int       `json:"version" validate:"eq=1"`
	ExportedAt int64     `json:"exportedAt"`
	TripName   string    `json:"tripName"`
	Sessions   []Session `json:"sessions" validate:"required,dive"`
}

// Session is one exported session.
type Session struct {
	ID              string        `json:"id" validate:"required"`
	Name            string        `json:"name"`
	CreatedAt       int64         `json:"createdAt"`
	Participants    []Participant `json:"participants" validate:"required,dive"`
	Expenses        []Expense     `json:"expenses" validate:"required,dive"`
	PaidSettlements []string      `json:"paidSettlements,omitempty"`
}

// Participant is one exported participant.
type Participant struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Expense is one exported expense.
type Expense struct {
	ID           int64              `json:"id"`
	Title        string             `json:"title"`
	PayerID      string             `json:"payerId"`
	Amount       float64            `json:"amount"`
	InvolvedIDs  []int64            `json:"involvedIds" validate:"required"`
	SplitMode    string             `json:"splitMode" validate:"split_mode"`
	CustomSplits map[string]float64 `json:"customSplits" validate:"required"`
}

// Export writes the trip as an indented JSON document.
func Export(w io.Writer, tripName string, sessions []*models.Session, now time.Time) error {
	doc := NewDocument(tripName, sessions, now)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode trip: %w", err)
	}
	return nil
}

// NewDocument converts stored sessions to the export format.
func NewDocument(tripName string, sessions []*models.Session, now time.Time) *Document {
	doc := &Document{
		Version:    Version,
		ExportedAt: now.UnixMilli(),
		TripName:   tripName,
		Sessions:   make([]Session, 0, len(sessions)),
	}

	for _, s := range sessions {
		out := Session{
			ID:              s.ID,
			Name:            s.Name,
			CreatedAt:       s.CreatedAt,
			Participants:    make([]Participant, 0, len(s.Participants)),
			Expenses:        make([]Expense, 0, len(s.Expenses)),
			PaidSettlements: s.PaidSettlements,
		}
		for _, p := range s.Participants {
			out.Participants = append(out.Participants, Participant{ID: int64(p.ID), Name: p.Name})
		}
		for _, e := range s.Expenses {
			exp := Expense{
				ID:           e.ID,
				Title:        e.Title,
				PayerID:      strconv.FormatInt(int64(e.PayerID), 10),
				Amount:       e.Amount,
				InvolvedIDs:  make([]int64, 0, len(e.InvolvedIDs)),
				SplitMode:    string(e.SplitMode),
				CustomSplits: make(map[string]float64, len(e.CustomSplits)),
			}
			for _, id := range e.InvolvedIDs {
				exp.InvolvedIDs = append(exp.InvolvedIDs, int64(id))
			}
			for id, v := range e.CustomSplits {
				exp.CustomSplits[strconv.FormatInt(int64(id), 10)] = v
			}
			out.Expenses = append(out.Expenses, exp)
		}
		doc.Sessions = append(doc.Sessions, out)
	}

	return doc
}

// Import decodes and validates a trip document.
func Import(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: cannot read JSON: %v", ErrInvalidDocument, err)
	}
	if err := validation.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w:\n%v", ErrInvalidDocument, err)
	}
	for i, s := range doc.Sessions {
		participants := make([]ledger.Participant, len(s.Participants))
		for k, p := range s.Participants {
			participants[k] = ledger.Participant{ID: ledger.ParticipantID(p.ID), Name: p.Name}
		}
		if name, dup := session.DuplicateName(participants); dup {
			return nil, fmt.Errorf("%w: sessions[%d]: participant name %q is used twice", ErrInvalidDocument, i, name)
		}
	}
	return &doc, nil
}

// Models converts the document's sessions to stored sessions.
//
// Payer ids that are not integers become ledger.NoParticipant, and custom
// split keys that are not integers are dropped; the allocator would skip
// either reference anyway.
func (d *Document) Models() []*models.Session {
	sessions := make([]*models.Session, 0, len(d.Sessions))
	for _, s := range d.Sessions {
		out := &models.Session{
			ID:              s.ID,
			Name:            s.Name,
			CreatedAt:       s.CreatedAt,
			Participants:    make([]ledger.Participant, 0, len(s.Participants)),
			Expenses:        make([]ledger.Expense, 0, len(s.Expenses)),
			PaidSettlements: uniqueKeys(s.PaidSettlements),
		}
		for _, p := range s.Participants {
			out.Participants = append(out.Participants, ledger.Participant{ID: ledger.ParticipantID(p.ID), Name: p.Name})
		}
		for _, e := range s.Expenses {
			out.Expenses = append(out.Expenses, e.model())
		}
		sessions = append(sessions, out)
	}
	return sessions
}

// uniqueKeys drops repeated settlement keys, keeping first occurrences.
func uniqueKeys(keys []string) []string {
	var out []string
	for _, k := range keys {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

func (e Expense) model() ledger.Expense {
	out := ledger.Expense{
		ID:        e.ID,
		Title:     e.Title,
		PayerID:   parseID(e.PayerID),
		Amount:    e.Amount,
		SplitMode: ledger.SplitMode(e.SplitMode),
	}
	if len(e.InvolvedIDs) > 0 {
		out.InvolvedIDs = make([]ledger.ParticipantID, len(e.InvolvedIDs))
		for i, id := range e.InvolvedIDs {
			out.InvolvedIDs[i] = ledger.ParticipantID(id)
		}
	}
	if len(e.CustomSplits) > 0 {
		out.CustomSplits = make(map[ledger.ParticipantID]float64, len(e.CustomSplits))
		for key, v := range e.CustomSplits {
			id := parseID(key)
			if id == ledger.NoParticipant {
				continue
			}
			out.CustomSplits[id] = v
		}
	}
	return out
}

func parseID(s string) ledger.ParticipantID {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return ledger.NoParticipant
	}
	return ledger.ParticipantID(id)
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName returns the download name for an export, e.g.
// "Kanchanaburi_Trip_2026-10-16.json". The date is in UTC.
func FileName(tripName string, now time.Time) string {
	return fmt.Sprintf("%s_%s.json", whitespace.ReplaceAllString(tripName, "_"), now.UTC().Format(time.DateOnly))
}

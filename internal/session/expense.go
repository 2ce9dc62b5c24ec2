package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/validation"
)

var (
	ErrIncompleteExpense = errors.New("title, amount and payer are required")
	ErrInvalidExpense    = errors.New("invalid expense")
	ErrUnknownPayer      = errors.New("payer must be a participant of the session")
	ErrSplitMismatch     = errors.New("custom splits do not add up to the amount")
)

// Draft is an expense as entered by a user, before validation.
type Draft struct {
	Title string `json:"title" validate:"required"`

	// Amount is the decimal string typed by the user.
	Amount string `json:"amount" validate:"required,nonnegative_amount"`

	PayerID ledger.ParticipantID `json:"payerId" validate:"required"`

	SplitMode ledger.SplitMode `json:"splitMode" validate:"split_mode"`

	// InvolvedIDs may be empty for an equal split, meaning everyone.
	InvolvedIDs []ledger.ParticipantID `json:"involvedIds"`

	CustomSplits map[ledger.ParticipantID]float64 `json:"customSplits" validate:"dive,gte=0,lte=1000000000000"`
}

// SubmitExpense validates a draft and appends the resulting expense.
//
// Rules:
//   - title, amount and payer are required; the payer must be a participant
//   - exact: custom splits must sum to the amount within 0.05
//   - equal: an empty involved list is filled with every participant
//
// The new expense id is the current time in unix milliseconds, bumped until
// it is unique within the session.
func (e *Editor) SubmitExpense(s *models.Session, d Draft) (ledger.Expense, error) {
	expense, err := e.build(s, d)
	if err != nil {
		return ledger.Expense{}, err
	}

	id := e.now().UnixMilli()
	for {
		if _, taken := Expense(s, id); !taken {
			break
		}
		id++
	}
	expense.ID = id

	s.Expenses = append(s.Expenses, expense)
	return expense, nil
}

// ReplaceExpense validates a draft and swaps it in for the expense with the
// given id, keeping the id and position.
func (e *Editor) ReplaceExpense(s *models.Session, id int64, d Draft) (ledger.Expense, error) {
	idx := -1
	for i := range s.Expenses {
		if s.Expenses[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ledger.Expense{}, fmt.Errorf("%w: %d", ErrExpenseNotFound, id)
	}

	expense, err := e.build(s, d)
	if err != nil {
		return ledger.Expense{}, err
	}
	expense.ID = id
	s.Expenses[idx] = expense
	return expense, nil
}

func (e *Editor) build(s *models.Session, d Draft) (ledger.Expense, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Amount = strings.TrimSpace(d.Amount)
	if d.SplitMode == "" {
		d.SplitMode = ledger.SplitEqual
	}

	if d.Title == "" || d.Amount == "" || d.PayerID == ledger.NoParticipant {
		return ledger.Expense{}, ErrIncompleteExpense
	}
	if err := validation.Struct(d); err != nil {
		return ledger.Expense{}, fmt.Errorf("%w: %w", ErrInvalidExpense, err)
	}
	if _, ok := s.Participant(d.PayerID); !ok {
		return ledger.Expense{}, fmt.Errorf("%w: %d", ErrUnknownPayer, d.PayerID)
	}

	parsed, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return ledger.Expense{}, fmt.Errorf("%w: amount: %w", ErrInvalidExpense, err)
	}
	amount := parsed.InexactFloat64()

	expense := ledger.Expense{
		Title:     d.Title,
		PayerID:   d.PayerID,
		Amount:    amount,
		SplitMode: d.SplitMode,
	}

	switch d.SplitMode {
	case ledger.SplitExact:
		var sum float64
		splits := make(map[ledger.ParticipantID]float64, len(d.CustomSplits))
		for id, v := range d.CustomSplits {
			sum += v
			splits[id] = v
		}
		if !ledger.NearlyEqual(sum, amount, ledger.ExactSplitTolerance) {
			return ledger.Expense{}, fmt.Errorf("%w: splits total %s, amount is %s",
				ErrSplitMismatch, e.money.Format(sum), e.money.Format(amount))
		}
		expense.CustomSplits = splits
	default:
		involved := append([]ledger.ParticipantID(nil), d.InvolvedIDs...)
		if len(involved) == 0 {
			for _, p := range s.Participants {
				involved = append(involved, p.ID)
			}
		}
		expense.InvolvedIDs = involved
	}

	return expense, nil
}

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/config"
	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/session"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/internal/tripio"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/money"
)

// ResetTripName is the name a trip gets when its owner resets it.
const ResetTripName = "New Trip"

var errNameRequired = errors.New("name is required")

var _ api.TripServiceHandler = (*TripService)(nil)

// TripService implements the Connect TripService. Every call acts on the
// authenticated caller's trip.
type TripService struct {
	store           storage.Store
	editor          *session.Editor
	memo            *ledger.Memo
	money           *money.Formatter
	defaultTripName string
	now             func() time.Time
	logger          *slog.Logger

	// Session edits are read-modify-write, so they are serialized per owner.
	locks sync.Map // owner ID -> *sync.Mutex
}

// TripOption configures a TripService.
type TripOption func(*TripService)

// WithMemo shares a settlement memo, e.g. one whose counters are exported
// as metrics.
func WithMemo(m *ledger.Memo) TripOption {
	return func(s *TripService) { s.memo = m }
}

// WithFormatter sets the currency used in messages and reports.
func WithFormatter(f *money.Formatter) TripOption {
	return func(s *TripService) { s.money = f }
}

// WithDefaultTripName sets the name of trips their owner never named.
func WithDefaultTripName(name string) TripOption {
	return func(s *TripService) { s.defaultTripName = name }
}

// WithClock replaces time.Now for expense ids and export timestamps.
func WithClock(now func() time.Time) TripOption {
	return func(s *TripService) { s.now = now }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) TripOption {
	return func(s *TripService) { s.logger = l }
}

// NewTripService creates a new TripService with the given storage backend.
func NewTripService(store storage.Store, opts ...TripOption) *TripService {
	s := &TripService{
		store:           store,
		money:           money.MustFormatter(money.DefaultCurrency),
		defaultTripName: config.DefaultTripName,
		now:             time.Now,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.memo == nil {
		s.memo = ledger.NewMemo(ledger.DefaultMemoSize)
	}
	s.editor = session.NewEditor(s.money, session.WithClock(s.now))
	return s
}

// owner returns the authenticated user ID set by the auth interceptor.
func owner(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errors.New("authentication required"))
	}
	return userID, nil
}

func (s *TripService) lock(ownerID string) func() {
	mu, _ := s.locks.LoadOrStore(ownerID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// toConnectError maps domain errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, session.ErrParticipantNotFound),
		errors.Is(err, session.ErrExpenseNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, session.ErrIncompleteExpense),
		errors.Is(err, session.ErrInvalidExpense),
		errors.Is(err, session.ErrUnknownPayer),
		errors.Is(err, session.ErrSplitMismatch),
		errors.Is(err, session.ErrDuplicateName),
		errors.Is(err, tripio.ErrInvalidDocument),
		errors.Is(err, errNameRequired):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, session.ErrParticipantInUse):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// fail logs err under the RPC name and converts it for the wire.
func (s *TripService) fail(rpc string, err error, args ...any) error {
	cerr := toConnectError(err)
	args = append(args, "error", err)
	if connect.CodeOf(cerr) == connect.CodeInternal {
		s.logger.Error(rpc+" failed", args...)
	} else {
		s.logger.Debug(rpc+" rejected", args...)
	}
	return cerr
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errNameRequired
	}
	return name, nil
}

// editSession loads a session, applies fn and saves the result, holding the
// owner's lock throughout.
func (s *TripService) editSession(ctx context.Context, ownerID, sessionID string, fn func(*models.Session) error) (*models.Session, error) {
	unlock := s.lock(ownerID)
	defer unlock()

	sess, err := s.store.GetSession(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := s.store.SaveSession(ctx, ownerID, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return sess, nil
}

func toAPISession(sess *models.Session) *api.Session {
	return &api.Session{
		ID:              sess.ID,
		Name:            sess.Name,
		CreatedAt:       sess.CreatedAt,
		Participants:    sess.Participants,
		Expenses:        sess.Expenses,
		PaidSettlements: sess.PaidSettlements,
	}
}

// trip builds the trip overview. Session totals go through the memo.
func (s *TripService) trip(ctx context.Context, ownerID string) (*api.Trip, error) {
	name, err := s.store.GetTripName(ctx, ownerID, s.defaultTripName)
	if err != nil {
		return nil, err
	}
	sessions, err := s.store.ListSessions(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	t := &api.Trip{Name: name, Sessions: make([]api.SessionSummary, 0, len(sessions))}
	for _, sess := range sessions {
		res := s.memo.Settle(sess.Participants, sess.Expenses)
		t.Sessions = append(t.Sessions, api.SessionSummary{
			ID:               sess.ID,
			Name:             sess.Name,
			CreatedAt:        sess.CreatedAt,
			ParticipantCount: len(sess.Participants),
			ExpenseCount:     len(sess.Expenses),
			TotalCost:        res.Report.TotalCost,
		})
	}
	return t, nil
}

// report computes balances and the settlement plan for a session and marks
// which transfers were paid.
func (s *TripService) report(sess *models.Session) *api.Report {
	res := s.memo.Settle(sess.Participants, sess.Expenses)

	r := &api.Report{
		SessionID:   sess.ID,
		Stats:       res.Report.Ordered(sess.Participants),
		TotalCost:   res.Report.TotalCost,
		Settlements: make([]api.SettlementStatus, 0, len(res.Settlements)),
		AllSettled:  true,
		Currency:    s.money.Currency(),
	}
	for _, st := range res.Settlements {
		key := session.SettlementKey(st)
		paid := session.IsSettlementPaid(sess, key)
		r.Settlements = append(r.Settlements, api.SettlementStatus{Settlement: st, Key: key, Paid: paid})
		r.AllSettled = r.AllSettled && paid
	}
	return r
}

// GetTrip returns the trip name and an overview of its sessions.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	t, err := s.trip(ctx, ownerID)
	if err != nil {
		return nil, s.fail("GetTrip", err, "user_id", ownerID)
	}
	return connect.NewResponse(&api.GetTripResponse{Trip: t}), nil
}

// RenameTrip changes the trip name.
func (s *TripService) RenameTrip(ctx context.Context, req *connect.Request[api.RenameTripRequest]) (*connect.Response[api.RenameTripResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	name, err := requireName(req.Msg.Name)
	if err != nil {
		return nil, s.fail("RenameTrip", err, "user_id", ownerID)
	}
	if err := s.store.SetTripName(ctx, ownerID, name); err != nil {
		return nil, s.fail("RenameTrip", err, "user_id", ownerID)
	}

	t, err := s.trip(ctx, ownerID)
	if err != nil {
		return nil, s.fail("RenameTrip", err, "user_id", ownerID)
	}
	s.logger.Info("Trip renamed", "user_id", ownerID, "name", name)
	return connect.NewResponse(&api.RenameTripResponse{Trip: t}), nil
}

// ResetTrip deletes every session and renames the trip to ResetTripName.
func (s *TripService) ResetTrip(ctx context.Context, req *connect.Request[api.ResetTripRequest]) (*connect.Response[api.ResetTripResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	unlock := s.lock(ownerID)
	err = s.store.ReplaceTrip(ctx, ownerID, ResetTripName, nil)
	unlock()
	if err != nil {
		return nil, s.fail("ResetTrip", err, "user_id", ownerID)
	}

	t, err := s.trip(ctx, ownerID)
	if err != nil {
		return nil, s.fail("ResetTrip", err, "user_id", ownerID)
	}
	s.logger.Info("Trip reset", "user_id", ownerID)
	return connect.NewResponse(&api.ResetTripResponse{Trip: t}), nil
}

// CreateSession adds an empty session, named "Split #n" when no name is given.
func (s *TripService) CreateSession(ctx context.Context, req *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	unlock := s.lock(ownerID)
	defer unlock()

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		n, err := s.store.CountSessions(ctx, ownerID)
		if err != nil {
			return nil, s.fail("CreateSession", err, "user_id", ownerID)
		}
		name = session.DefaultSessionName(n + 1)
	}

	sess := &models.Session{Name: name, CreatedAt: s.now().UnixMilli()}
	if err := s.store.CreateSession(ctx, ownerID, sess); err != nil {
		return nil, s.fail("CreateSession", err, "user_id", ownerID)
	}

	s.logger.Info("Session created", "user_id", ownerID, "session_id", sess.ID, "name", sess.Name)
	return connect.NewResponse(&api.CreateSessionResponse{Session: toAPISession(sess)}), nil
}

// GetSession returns a session with its participants and expenses.
func (s *TripService) GetSession(ctx context.Context, req *connect.Request[api.GetSessionRequest]) (*connect.Response[api.GetSessionResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := s.store.GetSession(ctx, ownerID, req.Msg.SessionID)
	if err != nil {
		return nil, s.fail("GetSession", err, "session_id", req.Msg.SessionID)
	}
	return connect.NewResponse(&api.GetSessionResponse{Session: toAPISession(sess)}), nil
}

// RenameSession changes a session's name.
func (s *TripService) RenameSession(ctx context.Context, req *connect.Request[api.RenameSessionRequest]) (*connect.Response[api.RenameSessionResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	name, err := requireName(req.Msg.Name)
	if err != nil {
		return nil, s.fail("RenameSession", err, "session_id", req.Msg.SessionID)
	}
	sess, err := s.editSession(ctx, ownerID, req.Msg.SessionID, func(sess *models.Session) error {
		sess.Name = name
		return nil
	})
	if err != nil {
		return nil, s.fail("RenameSession", err, "session_id", req.Msg.SessionID)
	}
	return connect.NewResponse(&api.RenameSessionResponse{Session: toAPISession(sess)}), nil
}

// DeleteSession removes a session and everything recorded in it.
func (s *TripService) DeleteSession(ctx context.Context, req *connect.Request[api.DeleteSessionRequest]) (*connect.Response[api.DeleteSessionResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	unlock := s.lock(ownerID)
	err = s.store.DeleteSession(ctx, ownerID, req.Msg.SessionID)
	unlock()
	if err != nil {
		return nil, s.fail("DeleteSession", err, "session_id", req.Msg.SessionID)
	}

	s.logger.Info("Session deleted", "user_id", ownerID, "session_id", req.Msg.SessionID)
	return connect.NewResponse(&api.DeleteSessionResponse{}), nil
}

// AddParticipant appends a participant, named "Friend #n" unless a name is given.
func (s *TripService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	var added ledger.Participant
	sess, err := s.editSession(ctx, ownerID, req.Msg.SessionID, func(sess *models.Session) error {
		added = s.editor.AddParticipant(sess)
		if name := strings.TrimSpace(req.Msg.Name); name != "" {
			added.Name = name
			return s.editor.RenameParticipant(sess, added.ID, name)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("AddParticipant", err, "session_id", req.Msg.SessionID)
	}

	return connect.NewResponse(&api.AddParticipantResponse{
		Participant: added,
		Session:     toAPISession(sess),
	}), nil
}

// RenameParticipant changes a participant's name.
func (s *TripService) RenameParticipant(ctx context.Context, req *connect.Request[api.RenameParticipantRequest]) (*connect.Response[api.RenameParticipantResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := s.editSession(ctx, ownerID, req.Msg.SessionID, func(sess *models.Session) error {
		return s.editor.RenameParticipant(sess, req.Msg.ParticipantID, req.Msg.Name)
	})
	if err != nil {
		return nil, s.fail("RenameParticipant", err,
			"session_id", req.Msg.SessionID, "participant_id", req.Msg.ParticipantID)
	}
	return connect.NewResponse(&api.RenameParticipantResponse{Session: toAPISession(sess)}), nil
}

// RemoveParticipant deletes a participant no expense refers to.
func (s *TripService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := s.editSession(ctx, ownerID, req.Msg.SessionID, func(sess *models.Session) error {
		return s.editor.RemoveParticipant(sess, req.Msg.ParticipantID)
	})
	if err != nil {
		return nil, s.fail("RemoveParticipant", err,
			"session_id", req.Msg.SessionID, "participant_id", req.Msg.ParticipantID)
	}
	return connect.NewResponse(&api.RemoveParticipantResponse{Session: toAPISession(sess)}), nil
}

// AddExpense validates a draft and records it.
func (s *TripService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	var added ledger.Expense
	sess, err := s.editSession(ctx, ownerID, req.Msg.SessionID, func(sess *models.Session) error {
		var err error
		added, err = s.editor.SubmitExpense(sess, req.Msg.Expense)
		return err
	})
	if err != nil {
		return nil, s.fail("AddExpense", err, "session_id", req.Msg.SessionID)
	}

	s.logger.Debug("Expense added",
		"session_id", sess.ID,
		"expense_id", added.ID,
		"amount", added.Amount,
		"split_mode", added.SplitMode,
	)
	return connect.NewResponse(&api.AddExpenseResponse{Expense: added, Session: toAPISession(sess)}), nil
}

// UpdateExpense replaces an expense, keeping its id and position.
func (s *TripService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	var updated ledger.Expense
	sess, err := s.editSession(ctx, ownerID, req.Msg.SessionID, func(sess *models.Session) error {
		var err error
		updated, err = s.editor.ReplaceExpense(sess, req.Msg.ExpenseID, req.Msg.Expense)
		return err
	})
	if err != nil {
		return nil, s.fail("UpdateExpense", err,
			"session_id", req.Msg.SessionID, "expense_id", req.Msg.ExpenseID)
	}
	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: updated, Session: toAPISession(sess)}), nil
}

// RemoveExpense deletes an expense.
func (s *TripService) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := s.editSession(ctx, ownerID, req.Msg.SessionID, func(sess *models.Session) error {
		return s.editor.RemoveExpense(sess, req.Msg.ExpenseID)
	})
	if err != nil {
		return nil, s.fail("RemoveExpense", err,
			"session_id", req.Msg.SessionID, "expense_id", req.Msg.ExpenseID)
	}
	return connect.NewResponse(&api.RemoveExpenseResponse{Session: toAPISession(sess)}), nil
}

// GetReport returns per-person balances and the settlement plan.
func (s *TripService) GetReport(ctx context.Context, req *connect.Request[api.GetReportRequest]) (*connect.Response[api.GetReportResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := s.store.GetSession(ctx, ownerID, req.Msg.SessionID)
	if err != nil {
		return nil, s.fail("GetReport", err, "session_id", req.Msg.SessionID)
	}
	return connect.NewResponse(&api.GetReportResponse{Report: s.report(sess)}), nil
}

// SetSettlementPaid marks or unmarks a suggested transfer as paid. Keys that
// are not in the current plan are rejected when marking.
func (s *TripService) SetSettlementPaid(ctx context.Context, req *connect.Request[api.SetSettlementPaidRequest]) (*connect.Response[api.SetSettlementPaidResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := s.editSession(ctx, ownerID, req.Msg.SessionID, func(sess *models.Session) error {
		if req.Msg.Paid && !s.inPlan(sess, req.Msg.Key) {
			return connect.NewError(connect.CodeInvalidArgument,
				fmt.Errorf("settlement %q is not part of the current plan", req.Msg.Key))
		}
		session.SetSettlementPaid(sess, req.Msg.Key, req.Msg.Paid)
		return nil
	})
	if err != nil {
		return nil, s.fail("SetSettlementPaid", err, "session_id", req.Msg.SessionID, "key", req.Msg.Key)
	}

	s.logger.Info("Settlement updated",
		"session_id", sess.ID,
		"key", req.Msg.Key,
		"paid", req.Msg.Paid,
	)
	return connect.NewResponse(&api.SetSettlementPaidResponse{Report: s.report(sess)}), nil
}

func (s *TripService) inPlan(sess *models.Session, key string) bool {
	for _, st := range s.memo.Settle(sess.Participants, sess.Expenses).Settlements {
		if session.SettlementKey(st) == key {
			return true
		}
	}
	return false
}

// GetTripSummary rolls every session up into per-person totals.
func (s *TripService) GetTripSummary(ctx context.Context, req *connect.Request[api.GetTripSummaryRequest]) (*connect.Response[api.GetTripSummaryResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := s.store.ListSessions(ctx, ownerID)
	if err != nil {
		return nil, s.fail("GetTripSummary", err, "user_id", ownerID)
	}

	inputs := make([]ledger.SessionInput, len(sessions))
	for i, sess := range sessions {
		inputs[i] = sess.Input()
	}
	summary := ledger.Summarize(inputs)

	return connect.NewResponse(&api.GetTripSummaryResponse{
		Summary:     summary,
		TopSpenders: summary.TopSpenders(req.Msg.TopSpenders),
		Currency:    s.money.Currency(),
	}), nil
}

// ExportTrip returns the trip as an export document and a suggested file name.
func (s *TripService) ExportTrip(ctx context.Context, req *connect.Request[api.ExportTripRequest]) (*connect.Response[api.ExportTripResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	name, err := s.store.GetTripName(ctx, ownerID, s.defaultTripName)
	if err != nil {
		return nil, s.fail("ExportTrip", err, "user_id", ownerID)
	}
	sessions, err := s.store.ListSessions(ctx, ownerID)
	if err != nil {
		return nil, s.fail("ExportTrip", err, "user_id", ownerID)
	}

	now := s.now()
	var buf bytes.Buffer
	if err := tripio.Export(&buf, name, sessions, now); err != nil {
		return nil, s.fail("ExportTrip", err, "user_id", ownerID)
	}

	s.logger.Info("Trip exported", "user_id", ownerID, "sessions", len(sessions))
	return connect.NewResponse(&api.ExportTripResponse{
		FileName: tripio.FileName(name, now),
		Document: buf.Bytes(),
	}), nil
}

// ImportTrip replaces the caller's trip with the contents of an export document.
func (s *TripService) ImportTrip(ctx context.Context, req *connect.Request[api.ImportTripRequest]) (*connect.Response[api.ImportTripResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := tripio.Import(bytes.NewReader(req.Msg.Document))
	if err != nil {
		return nil, s.fail("ImportTrip", err, "user_id", ownerID)
	}

	unlock := s.lock(ownerID)
	err = s.store.ReplaceTrip(ctx, ownerID, doc.TripName, doc.Models())
	unlock()
	if err != nil {
		return nil, s.fail("ImportTrip", err, "user_id", ownerID)
	}

	t, err := s.trip(ctx, ownerID)
	if err != nil {
		return nil, s.fail("ImportTrip", err, "user_id", ownerID)
	}
	s.logger.Info("Trip imported", "user_id", ownerID, "trip", doc.TripName, "sessions", len(t.Sessions))
	return connect.NewResponse(&api.ImportTripResponse{Trip: t}), nil
}

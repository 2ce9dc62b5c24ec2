package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/session"
	"github.com/mmynk/tripsplit/internal/storage/sqlite"
	"github.com/mmynk/tripsplit/pkg/api"
)

const testUserHeader = "X-Test-User"

var testNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

// testAuthInterceptor puts the user named in the X-Test-User header in the
// context, standing in for JWT validation.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if user := req.Header().Get(testUserHeader); user != "" {
				ctx = middleware.WithUser(ctx, user, user+"@example.com")
			}
			return next(ctx, req)
		}
	}
}

// as builds a request made by the given user.
func as[T any](user string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(testUserHeader, user)
	return req
}

// setupTripTestServer creates a test server backed by a temp SQLite database.
func setupTripTestServer(t *testing.T) *api.TripServiceClient {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	svc := NewTripService(store, WithClock(func() time.Time { return testNow }))
	path, handler := api.NewTripServiceHandler(svc, connect.WithInterceptors(testAuthInterceptor()))

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return api.NewTripServiceClient(http.DefaultClient, server.URL)
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect.Error, got %T", err)
	}
	if connectErr.Code() != want {
		t.Errorf("expected %v, got %v (%s)", want, connectErr.Code(), connectErr.Message())
	}
}

// newHotelSession creates a session with Alice, Bob and Charlie.
func newHotelSession(t *testing.T, client *api.TripServiceClient, user string) string {
	t.Helper()
	ctx := context.Background()

	created, err := client.CreateSession(ctx, as(user, &api.CreateSessionRequest{Name: "Hotel"}))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	id := created.Msg.Session.ID

	for _, name := range []string{"Alice", "Bob", "Charlie"} {
		if _, err := client.AddParticipant(ctx, as(user, &api.AddParticipantRequest{SessionID: id, Name: name})); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
	}
	return id
}

func TestTripService_RequiresAuthentication(t *testing.T) {
	client := setupTripTestServer(t)

	_, err := client.GetTrip(context.Background(), connect.NewRequest(&api.GetTripRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestCreateSession_DefaultNames(t *testing.T) {
	client := setupTripTestServer(t)
	ctx := context.Background()

	for i, want := range []string{"Split #1", "Split #2"} {
		resp, err := client.CreateSession(ctx, as("alice", &api.CreateSessionRequest{}))
		if err != nil {
			t.Fatalf("CreateSession %d failed: %v", i, err)
		}
		if resp.Msg.Session.Name != want {
			t.Errorf("session %d: expected name %q, got %q", i, want, resp.Msg.Session.Name)
		}
		if resp.Msg.Session.CreatedAt != testNow.UnixMilli() {
			t.Errorf("session %d: expected createdAt %d, got %d", i, testNow.UnixMilli(), resp.Msg.Session.CreatedAt)
		}
	}

	trip, err := client.GetTrip(ctx, as("alice", &api.GetTripRequest{}))
	if err != nil {
		t.Fatalf("GetTrip failed: %v", err)
	}
	if trip.Msg.Trip.Name != "My Trip" {
		t.Errorf("expected default trip name, got %q", trip.Msg.Trip.Name)
	}
	if len(trip.Msg.Trip.Sessions) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(trip.Msg.Trip.Sessions))
	}
}

func TestAddParticipant_Placeholder(t *testing.T) {
	client := setupTripTestServer(t)
	ctx := context.Background()

	created, err := client.CreateSession(ctx, as("alice", &api.CreateSessionRequest{}))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	resp, err := client.AddParticipant(ctx, as("alice", &api.AddParticipantRequest{SessionID: created.Msg.Session.ID}))
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if resp.Msg.Participant.ID != 1 || resp.Msg.Participant.Name != "Friend #1" {
		t.Errorf("unexpected participant: %+v", resp.Msg.Participant)
	}
}

func TestGetReport_ThreeWayHotel(t *testing.T) {
	client := setupTripTestServer(t)
	ctx := context.Background()
	id := newHotelSession(t, client, "alice")

	added, err := client.AddExpense(ctx, as("alice", &api.AddExpenseRequest{
		SessionID: id,
		Expense:   session.Draft{Title: "Room", Amount: "300", PayerID: 1, SplitMode: ledger.SplitEqual},
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if added.Msg.Expense.ID != testNow.UnixMilli() {
		t.Errorf("expected expense id %d, got %d", testNow.UnixMilli(), added.Msg.Expense.ID)
	}
	if len(added.Msg.Expense.InvolvedIDs) != 3 {
		t.Errorf("expected empty involved list to be filled with everyone, got %v", added.Msg.Expense.InvolvedIDs)
	}

	resp, err := client.GetReport(ctx, as("alice", &api.GetReportRequest{SessionID: id}))
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	report := resp.Msg.Report

	if report.TotalCost != 300 {
		t.Errorf("total: expected 300, got %f", report.TotalCost)
	}
	if report.Currency != "THB" {
		t.Errorf("currency: expected THB, got %s", report.Currency)
	}

	wantNet := map[string]float64{"Alice": 200, "Bob": -100, "Charlie": -100}
	if len(report.Stats) != 3 {
		t.Fatalf("expected 3 stats, got %d", len(report.Stats))
	}
	for i, name := range []string{"Alice", "Bob", "Charlie"} {
		st := report.Stats[i]
		if st.Name != name {
			t.Errorf("stat %d: expected %s, got %s", i, name, st.Name)
		}
		if st.Net != wantNet[name] {
			t.Errorf("%s net: expected %f, got %f", name, wantNet[name], st.Net)
		}
	}

	want := []string{"Bob->Alice->100.00", "Charlie->Alice->100.00"}
	if len(report.Settlements) != len(want) {
		t.Fatalf("expected %d settlements, got %+v", len(want), report.Settlements)
	}
	for i, key := range want {
		if report.Settlements[i].Key != key {
			t.Errorf("settlement %d: expected %s, got %s", i, key, report.Settlements[i].Key)
		}
		if report.Settlements[i].Paid {
			t.Errorf("settlement %d: expected unpaid", i)
		}
	}
	if report.AllSettled {
		t.Error("expected AllSettled to be false")
	}
}

func TestAddExpense_Invalid(t *testing.T) {
	client := setupTripTestServer(t)
	ctx := context.Background()
	id := newHotelSession(t, client, "alice")

	tests := []struct {
		name     string
		draft    session.Draft
		contains string
	}{
		{
			name:     "missing title",
			draft:    session.Draft{Amount: "10", PayerID: 1},
			contains: "required",
		},
		{
			name:     "negative amount",
			draft:    session.Draft{Title: "Taxi", Amount: "-5", PayerID: 1},
			contains: "non-negative",
		},
		{
			name:     "unknown payer",
			draft:    session.Draft{Title: "Taxi", Amount: "5", PayerID: 9},
			contains: "payer",
		},
		{
			name: "exact splits do not match",
			draft: session.Draft{
				Title: "Dinner", Amount: "100", PayerID: 2, SplitMode: ledger.SplitExact,
				CustomSplits: map[ledger.ParticipantID]float64{1: 40, 3: 50},
			},
			contains: "THB 90.00",
		},
		{
			name:     "unknown split mode",
			draft:    session.Draft{Title: "Taxi", Amount: "5", PayerID: 1, SplitMode: "shares"},
			contains: "equal, exact",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.AddExpense(ctx, as("alice", &api.AddExpenseRequest{SessionID: id, Expense: tt.draft}))
			assertCode(t, err, connect.CodeInvalidArgument)
			if err != nil && !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("expected error to contain %q, got %q", tt.contains, err.Error())
			}
		})
	}
}

func TestAddExpense_ExactWithinTolerance(t *testing.T) {
	client := setupTripTestServer(t)
	ctx := context.Background()
	id := newHotelSession(t, client, "alice")

	resp, err := client.AddExpense(ctx, as("alice", &api.AddExpenseRequest{
		SessionID: id,
		Expense: session.Draft{
			Title: "Dinner", Amount: "100", PayerID: 2, SplitMode: ledger.SplitExact,
			CustomSplits: map[ledger.ParticipantID]float64{1: 33.33, 3: 66.70},
		},
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if len(resp.Msg.Expense.InvolvedIDs) != 0 {
		t.Errorf("exact expense should not carry involved ids, got %v", resp.Msg.Expense.InvolvedIDs)
	}
}

func TestUpdateAndRemoveExpense(t *testing.T) {
	client := setupTripTestServer(t)
	ctx := context.Background()
	id := newHotelSession(t, client, "alice")

	added, err := client.AddExpense(ctx, as("alice", &api.AddExpenseRequest{
		SessionID: id,
		Expense:   session.Draft{Title: "Taxi", Amount: "90", PayerID: 1},
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	expenseID := added.Msg.Expense.ID

	updated, err := client.UpdateExpense(ctx, as("alice", &api.UpdateExpenseRequest{
		SessionID: id,
		ExpenseID: expenseID,
		Expense:   session.Draft{Title: "Taxi home", Amount: "60", PayerID: 2, InvolvedIDs: []ledger.ParticipantID{1, 2}},
	}))
	if err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}
	if updated.Msg.Expense.ID != expenseID || updated.Msg.Expense.Title != "Taxi home" {
		t.Errorf("unexpected updated expense: %+v", updated.Msg.Expense)
	}

	report, err := client.GetReport(ctx, as("alice", &api.GetReportRequest{SessionID: id}))
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if len(report.Msg.Report.Settlements) != 1 || report.Msg.Report.Settlements[0].Key != "Alice->Bob->30.00" {
		t.Errorf("unexpected settlements: %+v", report.Msg.Report.Settlements)
	}

	_, err = client.UpdateExpense(ctx, as("alice", &api.UpdateExpenseRequest{
		SessionID: id,
		ExpenseID: 42,
		Expense:   session.Draft{Title: "Ghost", Amount: "1", PayerID: 1},
	}))
	assertCode(t, err, connect.CodeNotFound)

	removed, err := client.RemoveExpense(ctx, as("alice", &api.RemoveExpenseRequest{SessionID: id, ExpenseID: expenseID}))
	if err != nil {
		t.Fatalf("RemoveExpense failed: %v", err)
	}
	if len(removed.Msg.Session.Expenses) != 0 {
		t.Errorf("expected no expenses, got %d", len(removed.Msg.Session.Expenses))
	}

	_, err = client.RemoveExpense(ctx, as("alice", &api.RemoveExpenseRequest{SessionID: id, ExpenseID: expenseID}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestRemoveParticipant(t *testing.T) {
	client := setupTripTestServer(t)
	ctx := context.Background()
	id := newHotelSession(t, client, "alice")

	_, err := client.AddExpense(ctx, as("alice", &api.AddExpenseRequest{
		SessionID: id,
		Expense:   session.Draft{Title: "Snacks", Amount: "20", PayerID: 1, InvolvedIDs: []ledger.ParticipantID{1, 2}},
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	_, err = client.RemoveParticipant(ctx, as("alice", &api.RemoveParticipantRequest{SessionID: id, ParticipantID: 2}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	resp, err := client.RemoveParticipant(ctx, as("alice", &api.RemoveParticipantRequest{SessionID: id, ParticipantID: 3}))
	if err != nil {
		t.Fatalf("RemoveParticipant failed: %v", err)
	}
	if len(resp.Msg.Session.Participants) != 2 {
		t.Errorf("expected 2 participants, got %d", len(resp.Msg.Session.Participants))
	}

	_, err = client.RemoveParticipant(ctx, as("alice", &api.RemoveParticipantRequest{SessionID: id, ParticipantID: 3}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestRenameParticipant_UpdatesSettlementNames(t *testing.T) {
	client := setupTripTestServer(t)
	ctx := context.Background()
	id := newHotelSession(t, client, "alice")

	_, err := client.AddExpense(ctx, as("alice", &api.AddExpenseRequest{
		SessionID: id,
		Expense:   session.Draft{Title: "Fuel", Amount: "20", PayerID: 1, InvolvedIDs: []ledger.ParticipantID{1, 2}},
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	// Warm the memo with the old names.
	if _, err := client.GetReport(ctx, as("alice", &api.GetReportRequest{SessionID: id})); err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}

	if _, err := client.RenameParticipant(ctx, as("alice", &api.RenameParticipantRequest{SessionID: id, ParticipantID: 2, Name: "Bobby"})); err != nil {
		t.Fatalf("RenameParticipant failed: %v", err)
	}

	report, err := client.GetReport(ctx, as("alice", &api.GetReportRequest{SessionID: id}))
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if got := report.Msg.Report.Settlements[0].From; got != "Bobby" {
		t.Errorf("expected settlement from Bobby, got %s", got)
	}
}

func TestParticipantNames_Unique(t *testing.T) {
	client := setupTripTestServer(t)
	ctx := context.Background()
	id := newHotelSession(t, client, "alice")

	_, err := client.AddParticipant(ctx, as("alice", &api.AddParticipantRequest{SessionID: id, Name: "Bob"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = client.RenameParticipant(ctx, as("alice", &api.RenameParticipantRequest{SessionID: id, ParticipantID: 3, Name: "Alice"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	got, err := client.GetSession(ctx, as("alice", &api.GetSessionRequest{SessionID: id}))
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if n := len(got.Msg.Session.Participants); n != 3 {
		t.Errorf("expected 3 participants after rejected edits, got %d", n)
	}
	if name := got.Msg.Session.Participants[2].Name; name != "Charlie" {
		t.Errorf("expected Charlie to keep their name, got %q", name)
	}
}

func TestAddExpense_AmountTooLarge(t *testing.T) {
	client := setupTripTestServer(t)
	ctx := context.Background()
	id := newHotelSession(t, client, "alice")

	_, err := client.AddExpense(ctx, as("alice", &api.AddExpenseRequest{
		SessionID: id,
		Expense:   session.Draft{Title: "Yacht", Amount: "1e308", PayerID: 1, InvolvedIDs: []ledger.ParticipantID{2}},
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	if _, err := client.GetReport(ctx, as("alice", &api.GetReportRequest{SessionID: id})); err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
}

func TestSetSettlementPaid(t *testing.T) {
	client := setupTripTestServer(t)
	ctx := context.Background()
	id := newHotelSession(t, client, "alice")

	_, err := client.AddExpense(ctx, as("alice", &api.AddExpenseRequest{
		SessionID: id,
		Expense:   session.Draft{Title: "Room", Amount: "300", PayerID: 1},
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	for _, key := range []string{"Bob->Alice->100.00", "Charlie->Alice->100.00"} {
		resp, err := client.SetSettlementPaid(ctx, as("alice", &api.SetSettlementPaidRequest{SessionID: id, Key: key, Paid: true}))
		if err != nil {
			t.Fatalf("SetSettlementPaid(%s) failed: %v", key, err)
		}
		for _, st := range resp.Msg.Report.Settlements {
			if st.Key == key && !st.Paid {
				t.Errorf("expected %s to be paid", key)
			}
		}
	}

	report, err := client.GetReport(ctx, as("alice", &api.GetReportRequest{SessionID: id}))
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if !report.Msg.Report.AllSettled {
		t.Error("expected AllSettled after marking every transfer")
	}

	_, err = client.SetSettlementPaid(ctx, as("alice", &api.SetSettlementPaidRequest{SessionID: id, Key: "Bob->Alice->1.00", Paid: true}))
	assertCode(t, err, connect.CodeInvalidArgument)

	resp, err := client.SetSettlementPaid(ctx, as("alice", &api.SetSettlementPaidRequest{SessionID: id, Key: "Bob->Alice->100.00", Paid: false}))
	if err != nil {
		t.Fatalf("SetSettlementPaid(unmark) failed: %v", err)
	}
	if resp.Msg.Report.AllSettled {
		t.Error("expected AllSettled to be false after unmarking")
	}
}

func TestSessions_ScopedToOwner(t *testing.T) {
	client := setupTripTestServer(t)
	ctx := context.Background()
	id := newHotelSession(t, client, "alice")

	_, err := client.GetSession(ctx, as("mallory", &api.GetSessionRequest{SessionID: id}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = client.DeleteSession(ctx, as("mallory", &api.DeleteSessionRequest{SessionID: id}))
	assertCode(t, err, connect.CodeNotFound)

	if _, err := client.DeleteSession(ctx, as("alice", &api.DeleteSessionRequest{SessionID: id})); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	_, err = client.GetSession(ctx, as("alice", &api.GetSessionRequest{SessionID: id}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestRenameTripAndSession(t *testing.T) {
	client := setupTripTestServer(t)
	ctx := context.Background()
	id := newHotelSession(t, client, "alice")

	_, err := client.RenameTrip(ctx, as("alice", &api.RenameTripRequest{Name: "   "}))
	assertCode(t, err, connect.CodeInvalidArgument)

	trip, err := client.RenameTrip(ctx, as("alice", &api.RenameTripRequest{Name: "Kanchanaburi"}))
	if err != nil {
		t.Fatalf("RenameTrip failed: %v", err)
	}
	if trip.Msg.Trip.Name != "Kanchanaburi" {
		t.Errorf("expected renamed trip, got %q", trip.Msg.Trip.Name)
	}

	sess, err := client.RenameSession(ctx, as("alice", &api.RenameSessionRequest{SessionID: id, Name: "Night market"}))
	if err != nil {
		t.Fatalf("RenameSession failed: %v", err)
	}
	if sess.Msg.Session.Name != "Night market" || len(sess.Msg.Session.Participants) != 3 {
		t.Errorf("unexpected session after rename: %+v", sess.Msg.Session)
	}
}

func TestGetTripSummary(t *testing.T) {
	client := setupTripTestServer(t)
	ctx := context.Background()

	hotel := newHotelSession(t, client, "alice")
	dinner := newHotelSession(t, client, "alice")

	for _, req := range []*api.AddExpenseRequest{
		{SessionID: hotel, Expense: session.Draft{Title: "Room", Amount: "300", PayerID: 1}},
		{SessionID: dinner, Expense: session.Draft{Title: "Dinner", Amount: "60", PayerID: 2, InvolvedIDs: []ledger.ParticipantID{2, 3}}},
	} {
		if _, err := client.AddExpense(ctx, as("alice", req)); err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}
	}

	resp, err := client.GetTripSummary(ctx, as("alice", &api.GetTripSummaryRequest{TopSpenders: 2}))
	if err != nil {
		t.Fatalf("GetTripSummary failed: %v", err)
	}

	summary := resp.Msg.Summary
	if summary.TotalTripCost != 360 {
		t.Errorf("total trip cost: expected 360, got %f", summary.TotalTripCost)
	}
	if len(summary.Participants) != 3 {
		t.Fatalf("expected 3 participants, got %d", len(summary.Participants))
	}
	if summary.Participants[1].Name != "Bob" || summary.Participants[1].TotalShare != 130 {
		t.Errorf("unexpected Bob totals: %+v", summary.Participants[1])
	}

	if len(resp.Msg.TopSpenders) != 2 {
		t.Fatalf("expected 2 top spenders, got %d", len(resp.Msg.TopSpenders))
	}
	// Bob and Charlie both have a share of 130; ties keep first-appearance order.
	if resp.Msg.TopSpenders[0].Name != "Bob" || resp.Msg.TopSpenders[1].Name != "Charlie" {
		t.Errorf("unexpected top spenders: %+v", resp.Msg.TopSpenders)
	}
}

func TestExportImportTrip(t *testing.T) {
	client := setupTripTestServer(t)
	ctx := context.Background()

	if _, err := client.RenameTrip(ctx, as("alice", &api.RenameTripRequest{Name: "Road Trip"})); err != nil {
		t.Fatalf("RenameTrip failed: %v", err)
	}
	id := newHotelSession(t, client, "alice")
	if _, err := client.AddExpense(ctx, as("alice", &api.AddExpenseRequest{
		SessionID: id,
		Expense: session.Draft{
			Title: "Fuel", Amount: "90", PayerID: 3, SplitMode: ledger.SplitExact,
			CustomSplits: map[ledger.ParticipantID]float64{1: 30, 2: 60},
		},
	})); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	exported, err := client.ExportTrip(ctx, as("alice", &api.ExportTripRequest{}))
	if err != nil {
		t.Fatalf("ExportTrip failed: %v", err)
	}
	if exported.Msg.FileName != "Road_Trip_2026-10-16.json" {
		t.Errorf("unexpected file name %q", exported.Msg.FileName)
	}

	imported, err := client.ImportTrip(ctx, as("bob", &api.ImportTripRequest{Document: exported.Msg.Document}))
	if err != nil {
		t.Fatalf("ImportTrip failed: %v", err)
	}
	if imported.Msg.Trip.Name != "Road Trip" || len(imported.Msg.Trip.Sessions) != 1 {
		t.Fatalf("unexpected imported trip: %+v", imported.Msg.Trip)
	}
	if imported.Msg.Trip.Sessions[0].ID == id {
		t.Error("expected imported session to get a fresh id while the original owner holds it")
	}
	if imported.Msg.Trip.Sessions[0].TotalCost != 90 {
		t.Errorf("expected imported total 90, got %f", imported.Msg.Trip.Sessions[0].TotalCost)
	}

	report, err := client.GetReport(ctx, as("bob", &api.GetReportRequest{SessionID: imported.Msg.Trip.Sessions[0].ID}))
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	keys := make([]string, len(report.Msg.Report.Settlements))
	for i, st := range report.Msg.Report.Settlements {
		keys[i] = st.Key
	}
	if strings.Join(keys, ",") != "Bob->Charlie->60.00,Alice->Charlie->30.00" {
		t.Errorf("unexpected settlements after import: %v", keys)
	}
}

func TestImportTrip_Invalid(t *testing.T) {
	client := setupTripTestServer(t)

	_, err := client.ImportTrip(context.Background(), as("alice", &api.ImportTripRequest{
		Document: []byte(`{"version": 2, "exportedAt": 1, "tripName": "x", "sessions": []}`),
	}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestImportTrip_RepeatedPaidKeys(t *testing.T) {
	client := setupTripTestServer(t)
	ctx := context.Background()

	resp, err := client.ImportTrip(ctx, as("alice", &api.ImportTripRequest{
		Document: []byte(`{"version": 1, "exportedAt": 0, "tripName": "x", "sessions": [
			{"id": "s1", "name": "Taxi", "createdAt": 0,
			 "participants": [{"id": 1, "name": "Alice"}, {"id": 2, "name": "Bob"}],
			 "expenses": [{"id": 1, "title": "Ride", "payerId": "1", "amount": 10, "involvedIds": [], "splitMode": "equal", "customSplits": {}}],
			 "paidSettlements": ["Bob->Alice->5.00", "Bob->Alice->5.00"]}
		]}`),
	}))
	if err != nil {
		t.Fatalf("ImportTrip failed: %v", err)
	}

	report, err := client.GetReport(ctx, as("alice", &api.GetReportRequest{SessionID: resp.Msg.Trip.Sessions[0].ID}))
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if !report.Msg.Report.AllSettled {
		t.Errorf("expected the imported paid key to settle the session: %+v", report.Msg.Report.Settlements)
	}
}

func TestResetTrip(t *testing.T) {
	client := setupTripTestServer(t)
	ctx := context.Background()
	newHotelSession(t, client, "alice")

	resp, err := client.ResetTrip(ctx, as("alice", &api.ResetTripRequest{}))
	if err != nil {
		t.Fatalf("ResetTrip failed: %v", err)
	}
	if resp.Msg.Trip.Name != ResetTripName {
		t.Errorf("expected %q, got %q", ResetTripName, resp.Msg.Trip.Name)
	}
	if len(resp.Msg.Trip.Sessions) != 0 {
		t.Errorf("expected no sessions, got %d", len(resp.Msg.Trip.Sessions))
	}

	created, err := client.CreateSession(ctx, as("alice", &api.CreateSessionRequest{}))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if created.Msg.Session.Name != "Split #1" {
		t.Errorf("expected numbering to restart, got %q", created.Msg.Session.Name)
	}
}

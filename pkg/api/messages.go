package api

import (
	"encoding/json"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/session"
)

// User is the public view of an account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt"` // unix seconds
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// Session is a session with everything recorded in it.
type Session struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	CreatedAt       int64                `json:"createdAt"` // unix ms
	Participants    []ledger.Participant `json:"participants"`
	Expenses        []ledger.Expense     `json:"expenses"`
	PaidSettlements []string             `json:"paidSettlements"`
}

// SessionSummary is a session as listed on the trip overview.
type SessionSummary struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	CreatedAt        int64   `json:"createdAt"`
	ParticipantCount int     `json:"participantCount"`
	ExpenseCount     int     `json:"expenseCount"`
	TotalCost        float64 `json:"totalCost"`
}

// Trip is the caller's trip with its sessions, oldest first.
type Trip struct {
	Name     string           `json:"name"`
	Sessions []SessionSummary `json:"sessions"`
}

type GetTripRequest struct{}

type GetTripResponse struct {
	Trip *Trip `json:"trip"`
}

type RenameTripRequest struct {
	Name string `json:"name"`
}

type RenameTripResponse struct {
	Trip *Trip `json:"trip"`
}

type ResetTripRequest struct{}

type ResetTripResponse struct {
	Trip *Trip `json:"trip"`
}

type CreateSessionRequest struct {
	// Name defaults to "Split #n" when empty.
	Name string `json:"name"`
}

type CreateSessionResponse struct {
	Session *Session `json:"session"`
}

type GetSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type GetSessionResponse struct {
	Session *Session `json:"session"`
}

type RenameSessionRequest struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
}

type RenameSessionResponse struct {
	Session *Session `json:"session"`
}

type DeleteSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type DeleteSessionResponse struct{}

type AddParticipantRequest struct {
	SessionID string `json:"sessionId"`
	// Name replaces the "Friend #n" placeholder when set.
	Name string `json:"name"`
}

type AddParticipantResponse struct {
	Participant ledger.Participant `json:"participant"`
	Session     *Session           `json:"session"`
}

type RenameParticipantRequest struct {
	SessionID     string               `json:"sessionId"`
	ParticipantID ledger.ParticipantID `json:"participantId"`
	Name          string               `json:"name"`
}

type RenameParticipantResponse struct {
	Session *Session `json:"session"`
}

type RemoveParticipantRequest struct {
	SessionID     string               `json:"sessionId"`
	ParticipantID ledger.ParticipantID `json:"participantId"`
}

type RemoveParticipantResponse struct {
	Session *Session `json:"session"`
}

type AddExpenseRequest struct {
	SessionID string        `json:"sessionId"`
	Expense   session.Draft `json:"expense"`
}

type AddExpenseResponse struct {
	Expense ledger.Expense `json:"expense"`
	Session *Session       `json:"session"`
}

type UpdateExpenseRequest struct {
	SessionID string        `json:"sessionId"`
	ExpenseID int64         `json:"expenseId"`
	Expense   session.Draft `json:"expense"`
}

type UpdateExpenseResponse struct {
	Expense ledger.Expense `json:"expense"`
	Session *Session       `json:"session"`
}

type RemoveExpenseRequest struct {
	SessionID string `json:"sessionId"`
	ExpenseID int64  `json:"expenseId"`
}

type RemoveExpenseResponse struct {
	Session *Session `json:"session"`
}

// SettlementStatus is a suggested transfer and whether it was paid.
type SettlementStatus struct {
	ledger.Settlement
	Key  string `json:"key"`
	Paid bool   `json:"paid"`
}

// Report is a session's balances and settlement plan.
type Report struct {
	SessionID string `json:"sessionId"`

	// Stats are in participant order.
	Stats       []ledger.PersonStat `json:"stats"`
	TotalCost   float64             `json:"totalCost"`
	Settlements []SettlementStatus  `json:"settlements"`

	// AllSettled is true when every suggested transfer is marked paid.
	AllSettled bool `json:"allSettled"`

	// Currency is the ISO code amounts are shown in.
	Currency string `json:"currency"`
}

type GetReportRequest struct {
	SessionID string `json:"sessionId"`
}

type GetReportResponse struct {
	Report *Report `json:"report"`
}

type SetSettlementPaidRequest struct {
	SessionID string `json:"sessionId"`
	Key       string `json:"key"`
	Paid      bool   `json:"paid"`
}

type SetSettlementPaidResponse struct {
	Report *Report `json:"report"`
}

type GetTripSummaryRequest struct {
	// TopSpenders limits the spender ranking; 0 means everyone.
	TopSpenders int `json:"topSpenders"`
}

type GetTripSummaryResponse struct {
	Summary     ledger.TripSummary       `json:"summary"`
	TopSpenders []ledger.TripParticipant `json:"topSpenders"`
	Currency    string                   `json:"currency"`
}

type ExportTripRequest struct{}

type ExportTripResponse struct {
	FileName string          `json:"fileName"`
	Document json.RawMessage `json:"document"`
}

type ImportTripRequest struct {
	Document json.RawMessage `json:"document"`
}

type ImportTripResponse struct {
	Trip *Trip `json:"trip"`
}

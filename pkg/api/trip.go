package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// TripServiceName is the fully-qualified name of the TripService service.
const TripServiceName = "tripsplit.v1.TripService"

// Procedure names for TripService RPCs.
const (
	TripServiceGetTripProcedure           = "/tripsplit.v1.TripService/GetTrip"
	TripServiceRenameTripProcedure        = "/tripsplit.v1.TripService/RenameTrip"
	TripServiceResetTripProcedure         = "/tripsplit.v1.TripService/ResetTrip"
	TripServiceCreateSessionProcedure     = "/tripsplit.v1.TripService/CreateSession"
	TripServiceGetSessionProcedure        = "/tripsplit.v1.TripService/GetSession"
	TripServiceRenameSessionProcedure     = "/tripsplit.v1.TripService/RenameSession"
	TripServiceDeleteSessionProcedure     = "/tripsplit.v1.TripService/DeleteSession"
	TripServiceAddParticipantProcedure    = "/tripsplit.v1.TripService/AddParticipant"
	TripServiceRenameParticipantProcedure = "/tripsplit.v1.TripService/RenameParticipant"
	TripServiceRemoveParticipantProcedure = "/tripsplit.v1.TripService/RemoveParticipant"
	TripServiceAddExpenseProcedure        = "/tripsplit.v1.TripService/AddExpense"
	TripServiceUpdateExpenseProcedure     = "/tripsplit.v1.TripService/UpdateExpense"
	TripServiceRemoveExpenseProcedure     = "/tripsplit.v1.TripService/RemoveExpense"
	TripServiceGetReportProcedure         = "/tripsplit.v1.TripService/GetReport"
	TripServiceSetSettlementPaidProcedure = "/tripsplit.v1.TripService/SetSettlementPaid"
	TripServiceGetTripSummaryProcedure    = "/tripsplit.v1.TripService/GetTripSummary"
	TripServiceExportTripProcedure        = "/tripsplit.v1.TripService/ExportTrip"
	TripServiceImportTripProcedure        = "/tripsplit.v1.TripService/ImportTrip"
)

// TripServiceHandler is implemented by the server side of TripService.
// Every call acts on the authenticated caller's trip.
type TripServiceHandler interface {
	GetTrip(context.Context, *connect.Request[GetTripRequest]) (*connect.Response[GetTripResponse], error)
	RenameTrip(context.Context, *connect.Request[RenameTripRequest]) (*connect.Response[RenameTripResponse], error)
	ResetTrip(context.Context, *connect.Request[ResetTripRequest]) (*connect.Response[ResetTripResponse], error)
	CreateSession(context.Context, *connect.Request[CreateSessionRequest]) (*connect.Response[CreateSessionResponse], error)
	GetSession(context.Context, *connect.Request[GetSessionRequest]) (*connect.Response[GetSessionResponse], error)
	RenameSession(context.Context, *connect.Request[RenameSessionRequest]) (*connect.Response[RenameSessionResponse], error)
	DeleteSession(context.Context, *connect.Request[DeleteSessionRequest]) (*connect.Response[DeleteSessionResponse], error)
	AddParticipant(context.Context, *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error)
	RenameParticipant(context.Context, *connect.Request[RenameParticipantRequest]) (*connect.Response[RenameParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error)
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error)
	RemoveExpense(context.Context, *connect.Request[RemoveExpenseRequest]) (*connect.Response[RemoveExpenseResponse], error)
	GetReport(context.Context, *connect.Request[GetReportRequest]) (*connect.Response[GetReportResponse], error)
	SetSettlementPaid(context.Context, *connect.Request[SetSettlementPaidRequest]) (*connect.Response[SetSettlementPaidResponse], error)
	GetTripSummary(context.Context, *connect.Request[GetTripSummaryRequest]) (*connect.Response[GetTripSummaryResponse], error)
	ExportTrip(context.Context, *connect.Request[ExportTripRequest]) (*connect.Response[ExportTripResponse], error)
	ImportTrip(context.Context, *connect.Request[ImportTripRequest]) (*connect.Response[ImportTripResponse], error)
}

// NewTripServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	handlers := map[string]http.Handler{
		TripServiceGetTripProcedure:           connect.NewUnaryHandler(TripServiceGetTripProcedure, svc.GetTrip, opts...),
		TripServiceRenameTripProcedure:        connect.NewUnaryHandler(TripServiceRenameTripProcedure, svc.RenameTrip, opts...),
		TripServiceResetTripProcedure:         connect.NewUnaryHandler(TripServiceResetTripProcedure, svc.ResetTrip, opts...),
		TripServiceCreateSessionProcedure:     connect.NewUnaryHandler(TripServiceCreateSessionProcedure, svc.CreateSession, opts...),
		TripServiceGetSessionProcedure:        connect.NewUnaryHandler(TripServiceGetSessionProcedure, svc.GetSession, opts...),
		TripServiceRenameSessionProcedure:     connect.NewUnaryHandler(TripServiceRenameSessionProcedure, svc.RenameSession, opts...),
		TripServiceDeleteSessionProcedure:     connect.NewUnaryHandler(TripServiceDeleteSessionProcedure, svc.DeleteSession, opts...),
		TripServiceAddParticipantProcedure:    connect.NewUnaryHandler(TripServiceAddParticipantProcedure, svc.AddParticipant, opts...),
		TripServiceRenameParticipantProcedure: connect.NewUnaryHandler(TripServiceRenameParticipantProcedure, svc.RenameParticipant, opts...),
		TripServiceRemoveParticipantProcedure: connect.NewUnaryHandler(TripServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...),
		TripServiceAddExpenseProcedure:        connect.NewUnaryHandler(TripServiceAddExpenseProcedure, svc.AddExpense, opts...),
		TripServiceUpdateExpenseProcedure:     connect.NewUnaryHandler(TripServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...),
		TripServiceRemoveExpenseProcedure:     connect.NewUnaryHandler(TripServiceRemoveExpenseProcedure, svc.RemoveExpense, opts...),
		TripServiceGetReportProcedure:         connect.NewUnaryHandler(TripServiceGetReportProcedure, svc.GetReport, opts...),
		TripServiceSetSettlementPaidProcedure: connect.NewUnaryHandler(TripServiceSetSettlementPaidProcedure, svc.SetSettlementPaid, opts...),
		TripServiceGetTripSummaryProcedure:    connect.NewUnaryHandler(TripServiceGetTripSummaryProcedure, svc.GetTripSummary, opts...),
		TripServiceExportTripProcedure:        connect.NewUnaryHandler(TripServiceExportTripProcedure, svc.ExportTrip, opts...),
		TripServiceImportTripProcedure:        connect.NewUnaryHandler(TripServiceImportTripProcedure, svc.ImportTrip, opts...),
	}

	return "/" + TripServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// TripServiceClient is a client for the TripService service.
type TripServiceClient struct {
	getTrip           *connect.Client[GetTripRequest, GetTripResponse]
	renameTrip        *connect.Client[RenameTripRequest, RenameTripResponse]
	resetTrip         *connect.Client[ResetTripRequest, ResetTripResponse]
	createSession     *connect.Client[CreateSessionRequest, CreateSessionResponse]
	getSession        *connect.Client[GetSessionRequest, GetSessionResponse]
	renameSession     *connect.Client[RenameSessionRequest, RenameSessionResponse]
	deleteSession     *connect.Client[DeleteSessionRequest, DeleteSessionResponse]
	addParticipant    *connect.Client[AddParticipantRequest, AddParticipantResponse]
	renameParticipant *connect.Client[RenameParticipantRequest, RenameParticipantResponse]
	removeParticipant *connect.Client[RemoveParticipantRequest, RemoveParticipantResponse]
	addExpense        *connect.Client[AddExpenseRequest, AddExpenseResponse]
	updateExpense     *connect.Client[UpdateExpenseRequest, UpdateExpenseResponse]
	removeExpense     *connect.Client[RemoveExpenseRequest, RemoveExpenseResponse]
	getReport         *connect.Client[GetReportRequest, GetReportResponse]
	setSettlementPaid *connect.Client[SetSettlementPaidRequest, SetSettlementPaidResponse]
	getTripSummary    *connect.Client[GetTripSummaryRequest, GetTripSummaryResponse]
	exportTrip        *connect.Client[ExportTripRequest, ExportTripResponse]
	importTrip        *connect.Client[ImportTripRequest, ImportTripResponse]
}

// NewTripServiceClient constructs a client for TripService at baseURL.
func NewTripServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TripServiceClient {
	opts = clientOptions(opts)
	return &TripServiceClient{
		getTrip:           connect.NewClient[GetTripRequest, GetTripResponse](httpClient, baseURL+TripServiceGetTripProcedure, opts...),
		renameTrip:        connect.NewClient[RenameTripRequest, RenameTripResponse](httpClient, baseURL+TripServiceRenameTripProcedure, opts...),
		resetTrip:         connect.NewClient[ResetTripRequest, ResetTripResponse](httpClient, baseURL+TripServiceResetTripProcedure, opts...),
		createSession:     connect.NewClient[CreateSessionRequest, CreateSessionResponse](httpClient, baseURL+TripServiceCreateSessionProcedure, opts...),
		getSession:        connect.NewClient[GetSessionRequest, GetSessionResponse](httpClient, baseURL+TripServiceGetSessionProcedure, opts...),
		renameSession:     connect.NewClient[RenameSessionRequest, RenameSessionResponse](httpClient, baseURL+TripServiceRenameSessionProcedure, opts...),
		deleteSession:     connect.NewClient[DeleteSessionRequest, DeleteSessionResponse](httpClient, baseURL+TripServiceDeleteSessionProcedure, opts...),
		addParticipant:    connect.NewClient[AddParticipantRequest, AddParticipantResponse](httpClient, baseURL+TripServiceAddParticipantProcedure, opts...),
		renameParticipant: connect.NewClient[RenameParticipantRequest, RenameParticipantResponse](httpClient, baseURL+TripServiceRenameParticipantProcedure, opts...),
		removeParticipant: connect.NewClient[RemoveParticipantRequest, RemoveParticipantResponse](httpClient, baseURL+TripServiceRemoveParticipantProcedure, opts...),
		addExpense:        connect.NewClient[AddExpenseRequest, AddExpenseResponse](httpClient, baseURL+TripServiceAddExpenseProcedure, opts...),
		updateExpense:     connect.NewClient[UpdateExpenseRequest, UpdateExpenseResponse](httpClient, baseURL+TripServiceUpdateExpenseProcedure, opts...),
		removeExpense:     connect.NewClient[RemoveExpenseRequest, RemoveExpenseResponse](httpClient, baseURL+TripServiceRemoveExpenseProcedure, opts...),
		getReport:         connect.NewClient[GetReportRequest, GetReportResponse](httpClient, baseURL+TripServiceGetReportProcedure, opts...),
		setSettlementPaid: connect.NewClient[SetSettlementPaidRequest, SetSettlementPaidResponse](httpClient, baseURL+TripServiceSetSettlementPaidProcedure, opts...),
		getTripSummary:    connect.NewClient[GetTripSummaryRequest, GetTripSummaryResponse](httpClient, baseURL+TripServiceGetTripSummaryProcedure, opts...),
		exportTrip:        connect.NewClient[ExportTripRequest, ExportTripResponse](httpClient, baseURL+TripServiceExportTripProcedure, opts...),
		importTrip:        connect.NewClient[ImportTripRequest, ImportTripResponse](httpClient, baseURL+TripServiceImportTripProcedure, opts...),
	}
}

func (c *TripServiceClient) GetTrip(ctx context.Context, req *connect.Request[GetTripRequest]) (*connect.Response[GetTripResponse], error) {
	return c.getTrip.CallUnary(ctx, req)
}

func (c *TripServiceClient) RenameTrip(ctx context.Context, req *connect.Request[RenameTripRequest]) (*connect.Response[RenameTripResponse], error) {
	return c.renameTrip.CallUnary(ctx, req)
}

func (c *TripServiceClient) ResetTrip(ctx context.Context, req *connect.Request[ResetTripRequest]) (*connect.Response[ResetTripResponse], error) {
	return c.resetTrip.CallUnary(ctx, req)
}

func (c *TripServiceClient) CreateSession(ctx context.Context, req *connect.Request[CreateSessionRequest]) (*connect.Response[CreateSessionResponse], error) {
	return c.createSession.CallUnary(ctx, req)
}

func (c *TripServiceClient) GetSession(ctx context.Context, req *connect.Request[GetSessionRequest]) (*connect.Response[GetSessionResponse], error) {
	return c.getSession.CallUnary(ctx, req)
}

func (c *TripServiceClient) RenameSession(ctx context.Context, req *connect.Request[RenameSessionRequest]) (*connect.Response[RenameSessionResponse], error) {
	return c.renameSession.CallUnary(ctx, req)
}

func (c *TripServiceClient) DeleteSession(ctx context.Context, req *connect.Request[DeleteSessionRequest]) (*connect.Response[DeleteSessionResponse], error) {
	return c.deleteSession.CallUnary(ctx, req)
}

func (c *TripServiceClient) AddParticipant(ctx context.Context, req *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *TripServiceClient) RenameParticipant(ctx context.Context, req *connect.Request[RenameParticipantRequest]) (*connect.Response[RenameParticipantResponse], error) {
	return c.renameParticipant.CallUnary(ctx, req)
}

func (c *TripServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

func (c *TripServiceClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *TripServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *TripServiceClient) RemoveExpense(ctx context.Context, req *connect.Request[RemoveExpenseRequest]) (*connect.Response[RemoveExpenseResponse], error) {
	return c.removeExpense.CallUnary(ctx, req)
}

func (c *TripServiceClient) GetReport(ctx context.Context, req *connect.Request[GetReportRequest]) (*connect.Response[GetReportResponse], error) {
	return c.getReport.CallUnary(ctx, req)
}

func (c *TripServiceClient) SetSettlementPaid(ctx context.Context, req *connect.Request[SetSettlementPaidRequest]) (*connect.Response[SetSettlementPaidResponse], error) {
	return c.setSettlementPaid.CallUnary(ctx, req)
}

func (c *TripServiceClient) GetTripSummary(ctx context.Context, req *connect.Request[GetTripSummaryRequest]) (*connect.Response[GetTripSummaryResponse], error) {
	return c.getTripSummary.CallUnary(ctx, req)
}

func (c *TripServiceClient) ExportTrip(ctx context.Context, req *connect.Request[ExportTripRequest]) (*connect.Response[ExportTripResponse], error) {
	return c.exportTrip.CallUnary(ctx, req)
}

func (c *TripServiceClient) ImportTrip(ctx context.Context, req *connect.Request[ImportTripRequest]) (*connect.Response[ImportTripResponse], error) {
	return c.importTrip.CallUnary(ctx, req)
}
